package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type CategoryRepository interface {
	ListActive(ctx context.Context) ([]model.Category, error)
	FindBySlug(ctx context.Context, slug string) (model.Category, error)
	Create(ctx context.Context, c model.Category) (model.Category, error)
}
