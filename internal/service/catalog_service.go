package service

import (
	"context"

	"github.com/d60-Lab/tayar/internal/model"
	"github.com/d60-Lab/tayar/internal/repository"
)

type CatalogService interface {
	Tags(ctx context.Context) ([]*model.Tag, error)
	Sources(ctx context.Context) ([]*model.Source, error)
}

type catalogService struct{ store *repository.Store }

func NewCatalogService(store *repository.Store) CatalogService { return &catalogService{store: store} }

func (s *catalogService) Tags(ctx context.Context) ([]*model.Tag, error) {
	return s.store.Tags.List(ctx)
}

func (s *catalogService) Sources(ctx context.Context) ([]*model.Source, error) {
	return s.store.Sources.List(ctx)
}
