package service

import (
	"context"

	"github.com/DPlauder/meisterplan/internal/domain"
	"github.com/DPlauder/meisterplan/internal/observe"
)

const customersPath = "/business-customers"

type CustomerService struct {
	res resource[domain.BusinessCustomer, domain.CustomerDraft, domain.CustomerPatch]
}

func NewCustomerService(gw Gateway, obs observe.Observer) *CustomerService {
	return &CustomerService{
		res: newResource[domain.BusinessCustomer, domain.CustomerDraft, domain.CustomerPatch](gw, obs, domain.EntityCustomer, customersPath),
	}
}

func (s *CustomerService) List(ctx context.Context) ([]domain.BusinessCustomer, error) {
	return s.res.list(ctx)
}

func (s *CustomerService) Get(ctx context.Context, id string) (*domain.BusinessCustomer, error) {
	return s.res.get(ctx, id)
}

func (s *CustomerService) Create(ctx context.Context, draft domain.CustomerDraft) (*domain.BusinessCustomer, error) {
	return s.res.create(ctx, draft)
}

func (s *CustomerService) Update(ctx context.Context, id string, patch domain.CustomerPatch) (*domain.BusinessCustomer, error) {
	return s.res.update(ctx, id, patch)
}

func (s *CustomerService) Delete(ctx context.Context, id string) error {
	return s.res.remove(ctx, id)
}
