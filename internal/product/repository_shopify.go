package product

import (
	"context"

	"github.com/wichananm65/product-badges/internal/badge"
	"github.com/wichananm65/product-badges/internal/shopify"
)

const (
	listProductsQuery = `
		query Products($first: Int!) {
			products(first: $first) {
				edges {
					node {
						id
						title
						description
					}
				}
			}
		}`
	productInfoQuery = `
		query productInfo($id: ID!, $namespace: String!, $key: String!, $media: Int!) {
			product(id: $id) {
				id
				title
				description
				descriptionHtml
				metafield(namespace: $namespace, key: $key) {
					value
				}
				media(first: $media) {
					nodes {
						id
						alt
						mediaContentType
					}
				}
			}
		}`
)

// ShopifyRepository reads products through the Admin GraphQL API. Badges are
// read from the metafield described by def.
type ShopifyRepository struct {
	client shopify.Doer
	def    badge.Definition
}

func NewShopifyRepository(client shopify.Doer, def badge.Definition) *ShopifyRepository {
	return &ShopifyRepository{client: client, def: def}
}

type productsData struct {
	Products struct {
		Edges []struct {
			Node Product `json:"node"`
		} `json:"edges"`
	} `json:"products"`
}

type productInfoData struct {
	Product *struct {
		ID              string `json:"id"`
		Title           string `json:"title"`
		Description     string `json:"description"`
		DescriptionHTML string `json:"descriptionHtml"`
		Metafield       *struct {
			Value string `json:"value"`
		} `json:"metafield"`
		Media struct {
			Nodes []Media `json:"nodes"`
		} `json:"media"`
	} `json:"product"`
}

func (r *ShopifyRepository) List(ctx context.Context, first int) ([]Product, error) {
	var data productsData
	if err := r.client.Do(ctx, listProductsQuery, map[string]any{"first": first}, &data); err != nil {
		return nil, err
	}

	out := make([]Product, 0, len(data.Products.Edges))
	for _, edge := range data.Products.Edges {
		out = append(out, edge.Node)
	}
	return out, nil
}

func (r *ShopifyRepository) GetByID(ctx context.Context, gid string) (Detail, error) {
	variables := map[string]any{
		"id":        gid,
		"namespace": r.def.Namespace,
		"key":       r.def.Key,
		"media":     DetailMediaLimit,
	}

	var data productInfoData
	if err := r.client.Do(ctx, productInfoQuery, variables, &data); err != nil {
		return Detail{}, err
	}
	if data.Product == nil {
		return Detail{}, ErrNotFound
	}

	p := data.Product
	d := Detail{
		ID:              p.ID,
		Title:           p.Title,
		Description:     p.Description,
		DescriptionHTML: p.DescriptionHTML,
		Media:           p.Media.Nodes,
	}
	if d.ID == "" {
		d.ID = gid
	}
	if p.Metafield != nil {
		d.Badges = badge.DecodeValue(p.Metafield.Value)
	}
	return d, nil
}
