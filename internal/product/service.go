package product

import (
	"context"

	"github.com/wichananm65/product-badges/internal/shopify"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the first ListLimit products of the store.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	products, err := s.repo.List(ctx, ListLimit)
	if err != nil {
		return nil, err
	}
	if len(products) > ListLimit {
		products = products[:ListLimit]
	}
	return products, nil
}

// GetByNumericID loads the product behind a route id such as "123".
func (s *Service) GetByNumericID(ctx context.Context, id string) (Detail, error) {
	gid := shopify.ProductGID(id)
	if _, err := shopify.NumericID(gid); err != nil {
		return Detail{}, err
	}

	d, err := s.repo.GetByID(ctx, gid)
	if err != nil {
		return Detail{}, err
	}
	d.NumericID = id
	if d.Badges == nil {
		d.Badges = []string{}
	}
	if d.Media == nil {
		d.Media = []Media{}
	}
	return d, nil
}
