package catalog

import (
	"context"

	"bakery-orders/internal/domain"
)

type productRepo interface {
	List(ctx context.Context) ([]domain.Product, error)
}

// Service exposes the read-only product catalog.
type Service struct {
	repo productRepo
}

func New(repo productRepo) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}
