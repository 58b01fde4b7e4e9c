package service

import (
	"context"

	"github.com/DPlauder/meisterplan/internal/domain"
	"github.com/DPlauder/meisterplan/internal/observe"
)

const productsPath = "/products"

type ProductService struct {
	res resource[domain.Product, domain.ProductDraft, domain.ProductPatch]
}

func NewProductService(gw Gateway, obs observe.Observer) *ProductService {
	return &ProductService{
		res: newResource[domain.Product, domain.ProductDraft, domain.ProductPatch](gw, obs, domain.EntityProduct, productsPath),
	}
}

func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	return s.res.list(ctx)
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.res.get(ctx, id)
}

func (s *ProductService) Create(ctx context.Context, draft domain.ProductDraft) (*domain.Product, error) {
	return s.res.create(ctx, draft)
}

func (s *ProductService) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	return s.res.update(ctx, id, patch)
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	return s.res.remove(ctx, id)
}
