package badge

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

type assignInput struct {
	ProductID string   `validate:"required"`
	Badges    []string `validate:"required,min=1,dive,oneof=new bestseller limited"`
}

// Service validates badge submissions and writes them as one metafield.
type Service struct {
	repo     Repository
	def      Definition
	validate *validator.Validate
}

func NewService(repo Repository, def Definition) *Service {
	return &Service{
		repo:     repo,
		def:      def,
		validate: validator.New(),
	}
}

// Definition returns the metafield the service writes to.
func (s *Service) Definition() Definition {
	return s.def
}

// Assign saves the selection on the product. Nothing is sent to the store
// unless the product id is set and every badge is a known value.
func (s *Service) Assign(ctx context.Context, productID string, selection []string) (Metafield, error) {
	in := assignInput{ProductID: strings.TrimSpace(productID), Badges: normalize(selection)}
	if err := s.check(in); err != nil {
		return Metafield{}, err
	}

	m, err := s.def.Build(in.ProductID, in.Badges)
	if err != nil {
		return Metafield{}, err
	}
	return s.repo.SetMetafield(ctx, m)
}

func (s *Service) check(in assignInput) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	// missing input wins over an unknown badge
	var invalid *InvalidBadgeError
	for _, fe := range verrs {
		switch fe.Tag() {
		case "oneof":
			if invalid == nil {
				value, _ := fe.Value().(string)
				invalid = &InvalidBadgeError{Value: value}
			}
		default:
			return ErrMissingInput
		}
	}
	if invalid != nil {
		return invalid
	}
	return ErrMissingInput
}
