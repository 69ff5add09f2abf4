package badge

import (
	"context"

	"github.com/wichananm65/product-badges/internal/shopify"
)

const metafieldsSetMutation = `
	mutation MetafieldsSet($metafields: [MetafieldsSetInput!]!) {
		metafieldsSet(metafields: $metafields) {
			metafields {
				key
				namespace
				value
				createdAt
				updatedAt
			}
			userErrors {
				field
				message
				code
			}
		}
	}`

// ShopifyRepository writes metafields through the Admin GraphQL API.
type ShopifyRepository struct {
	client shopify.Doer
}

func NewShopifyRepository(client shopify.Doer) *ShopifyRepository {
	return &ShopifyRepository{client: client}
}

type metafieldsSetData struct {
	MetafieldsSet struct {
		Metafields []struct {
			Key       string `json:"key"`
			Namespace string `json:"namespace"`
			Value     string `json:"value"`
			CreatedAt string `json:"createdAt"`
			UpdatedAt string `json:"updatedAt"`
		} `json:"metafields"`
		UserErrors shopify.UserErrors `json:"userErrors"`
	} `json:"metafieldsSet"`
}

// SetMetafield issues one metafieldsSet mutation carrying m. A non-empty
// userErrors list is returned as shopify.UserErrors.
func (r *ShopifyRepository) SetMetafield(ctx context.Context, m Metafield) (Metafield, error) {
	variables := map[string]any{
		"metafields": []Metafield{m},
	}

	var data metafieldsSetData
	if err := r.client.Do(ctx, metafieldsSetMutation, variables, &data); err != nil {
		return Metafield{}, err
	}
	if len(data.MetafieldsSet.UserErrors) > 0 {
		return Metafield{}, data.MetafieldsSet.UserErrors
	}

	saved := m
	if len(data.MetafieldsSet.Metafields) > 0 {
		saved.Value = data.MetafieldsSet.Metafields[0].Value
	}
	return saved, nil
}
