package service

import (
	"context"

	"github.com/DPlauder/meisterplan/internal/domain"
	"github.com/DPlauder/meisterplan/internal/observe"
)

const inventoryPath = "/inventory"

type InventoryService struct {
	res resource[domain.InventoryItem, domain.InventoryDraft, domain.InventoryPatch]
}

func NewInventoryService(gw Gateway, obs observe.Observer) *InventoryService {
	return &InventoryService{
		res: newResource[domain.InventoryItem, domain.InventoryDraft, domain.InventoryPatch](gw, obs, domain.EntityInventory, inventoryPath),
	}
}

func (s *InventoryService) List(ctx context.Context) ([]domain.InventoryItem, error) {
	return s.res.list(ctx)
}

func (s *InventoryService) Get(ctx context.Context, articleNumber string) (*domain.InventoryItem, error) {
	return s.res.get(ctx, articleNumber)
}

func (s *InventoryService) Create(ctx context.Context, draft domain.InventoryDraft) (*domain.InventoryItem, error) {
	return s.res.create(ctx, draft)
}

func (s *InventoryService) Update(ctx context.Context, articleNumber string, patch domain.InventoryPatch) (*domain.InventoryItem, error) {
	return s.res.update(ctx, articleNumber, patch)
}

func (s *InventoryService) Delete(ctx context.Context, articleNumber string) error {
	return s.res.remove(ctx, articleNumber)
}
