package ports

import (
	"context"

	"github.com/atomconnect/atom-connect-api/internal/core/domain"
)

// TaxonomyRepository defines persistence for training categories, tech
// stacks, and locations. Names are unique per collection; duplicates map
// to domain.ErrNameTaken.
type TaxonomyRepository interface {
	CreateCategory(ctx context.Context, c *domain.TrainingCategory) (*domain.TrainingCategory, error)
	FindCategoryByID(ctx context.Context, id string) (*domain.TrainingCategory, error)
	ListCategories(ctx context.Context) ([]*domain.TrainingCategory, error)
	UpdateCategory(ctx context.Context, c *domain.TrainingCategory) error
	DeleteCategory(ctx context.Context, id string) error

	CreateStack(ctx context.Context, s *domain.TechStack) (*domain.TechStack, error)
	FindStackByID(ctx context.Context, id string) (*domain.TechStack, error)
	ListStacks(ctx context.Context) ([]*domain.TechStack, error)
	UpdateStack(ctx context.Context, s *domain.TechStack) error
	DeleteStack(ctx context.Context, id string) error

	CreateLocation(ctx context.Context, l *domain.Location) (*domain.Location, error)
	FindLocationByID(ctx context.Context, id string) (*domain.Location, error)
	ListLocations(ctx context.Context) ([]*domain.Location, error)
	UpdateLocation(ctx context.Context, l *domain.Location) error
	DeleteLocation(ctx context.Context, id string) error
}
