package ports

import (
	"context"

	"github.com/atomconnect/atom-connect-api/internal/core/domain"
)

// SaveTaxonomyInput carries a category or stack create/update.
type SaveTaxonomyInput struct {
	ID          string // empty on create
	Name        string
	Description string
}

// TaxonomyService manages training categories and tech stacks. Reads are
// open to any authenticated role; writes are gated to ADMIN/MAINTAINER.
// Deletes are refused with domain.ErrHasDependents while trainings still
// reference the entry.
type TaxonomyService interface {
	ListCategories(ctx context.Context, actor Actor) ([]*domain.TrainingCategory, error)
	GetCategory(ctx context.Context, actor Actor, id string) (*domain.TrainingCategory, error)
	CreateCategory(ctx context.Context, actor Actor, in SaveTaxonomyInput) (*domain.TrainingCategory, error)
	UpdateCategory(ctx context.Context, actor Actor, in SaveTaxonomyInput) (*domain.TrainingCategory, error)
	DeleteCategory(ctx context.Context, actor Actor, id string) error

	ListStacks(ctx context.Context, actor Actor) ([]*domain.TechStack, error)
	GetStack(ctx context.Context, actor Actor, id string) (*domain.TechStack, error)
	CreateStack(ctx context.Context, actor Actor, in SaveTaxonomyInput) (*domain.TechStack, error)
	UpdateStack(ctx context.Context, actor Actor, in SaveTaxonomyInput) (*domain.TechStack, error)
	DeleteStack(ctx context.Context, actor Actor, id string) error

	ListLocations(ctx context.Context, actor Actor) ([]*domain.Location, error)
	GetLocation(ctx context.Context, actor Actor, id string) (*domain.Location, error)
	CreateLocation(ctx context.Context, actor Actor, in SaveTaxonomyInput) (*domain.Location, error)
	UpdateLocation(ctx context.Context, actor Actor, in SaveTaxonomyInput) (*domain.Location, error)
	DeleteLocation(ctx context.Context, actor Actor, id string) error
}
