package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/atomconnect/atom-connect-api/internal/core/domain"
	"github.com/atomconnect/atom-connect-api/internal/core/ports"
)

// TaxonomyService manages training categories, tech stacks, and locations.
type TaxonomyService struct {
	repo      ports.TaxonomyRepository
	trainings ports.TrainingRepository
	log       zerolog.Logger
}

func NewTaxonomyService(repo ports.TaxonomyRepository, trainings ports.TrainingRepository, log zerolog.Logger) *TaxonomyService {
	return &TaxonomyService{repo: repo, trainings: trainings, log: log}
}

// Reads are open to every authenticated role; writes require the
// back-office roles.
func (s *TaxonomyService) readGate(actor ports.Actor) error {
	if !actor.Role.Valid() {
		return domain.ErrForbidden
	}
	return nil
}

func (s *TaxonomyService) writeGate(actor ports.Actor) error {
	return domain.Authorize(actor.Role, domain.RoleAdmin, domain.RoleMaintainer)
}

// --- Categories ---

func (s *TaxonomyService) ListCategories(ctx context.Context, actor ports.Actor) ([]*domain.TrainingCategory, error) {
	if err := s.readGate(actor); err != nil {
		return nil, err
	}
	return s.repo.ListCategories(ctx)
}

func (s *TaxonomyService) GetCategory(ctx context.Context, actor ports.Actor, id string) (*domain.TrainingCategory, error) {
	if err := s.readGate(actor); err != nil {
		return nil, err
	}
	return s.repo.FindCategoryByID(ctx, id)
}

func (s *TaxonomyService) CreateCategory(ctx context.Context, actor ports.Actor, in ports.SaveTaxonomyInput) (*domain.TrainingCategory, error) {
	if err := s.writeGate(actor); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return s.repo.CreateCategory(ctx, &domain.TrainingCategory{
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (s *TaxonomyService) UpdateCategory(ctx context.Context, actor ports.Actor, in ports.SaveTaxonomyInput) (*domain.TrainingCategory, error) {
	if err := s.writeGate(actor); err != nil {
		return nil, err
	}

	c, err := s.repo.FindCategoryByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	c.Name = in.Name
	c.Description = in.Description
	c.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCategory refuses to delete a category that trainings still
// reference; there is no silent cascade.
func (s *TaxonomyService) DeleteCategory(ctx context.Context, actor ports.Actor, id string) error {
	if err := s.writeGate(actor); err != nil {
		return err
	}
	if _, err := s.repo.FindCategoryByID(ctx, id); err != nil {
		return err
	}

	n, err := s.trainings.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrHasDependents
	}
	return s.repo.DeleteCategory(ctx, id)
}

// --- Stacks ---

func (s *TaxonomyService) ListStacks(ctx context.Context, actor ports.Actor) ([]*domain.TechStack, error) {
	if err := s.readGate(actor); err != nil {
		return nil, err
	}
	return s.repo.ListStacks(ctx)
}

func (s *TaxonomyService) GetStack(ctx context.Context, actor ports.Actor, id string) (*domain.TechStack, error) {
	if err := s.readGate(actor); err != nil {
		return nil, err
	}
	return s.repo.FindStackByID(ctx, id)
}

func (s *TaxonomyService) CreateStack(ctx context.Context, actor ports.Actor, in ports.SaveTaxonomyInput) (*domain.TechStack, error) {
	if err := s.writeGate(actor); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return s.repo.CreateStack(ctx, &domain.TechStack{
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (s *TaxonomyService) UpdateStack(ctx context.Context, actor ports.Actor, in ports.SaveTaxonomyInput) (*domain.TechStack, error) {
	if err := s.writeGate(actor); err != nil {
		return nil, err
	}

	st, err := s.repo.FindStackByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	st.Name = in.Name
	st.Description = in.Description
	st.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateStack(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// DeleteStack refuses to delete a stack that trainings still reference.
func (s *TaxonomyService) DeleteStack(ctx context.Context, actor ports.Actor, id string) error {
	if err := s.writeGate(actor); err != nil {
		return err
	}
	if _, err := s.repo.FindStackByID(ctx, id); err != nil {
		return err
	}

	n, err := s.trainings.CountByStack(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrHasDependents
	}
	return s.repo.DeleteStack(ctx, id)
}

// --- Locations ---

func (s *TaxonomyService) ListLocations(ctx context.Context, actor ports.Actor) ([]*domain.Location, error) {
	if err := s.readGate(actor); err != nil {
		return nil, err
	}
	return s.repo.ListLocations(ctx)
}

func (s *TaxonomyService) GetLocation(ctx context.Context, actor ports.Actor, id string) (*domain.Location, error) {
	if err := s.readGate(actor); err != nil {
		return nil, err
	}
	return s.repo.FindLocationByID(ctx, id)
}

func (s *TaxonomyService) CreateLocation(ctx context.Context, actor ports.Actor, in ports.SaveTaxonomyInput) (*domain.Location, error) {
	if err := s.writeGate(actor); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return s.repo.CreateLocation(ctx, &domain.Location{
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (s *TaxonomyService) UpdateLocation(ctx context.Context, actor ports.Actor, in ports.SaveTaxonomyInput) (*domain.Location, error) {
	if err := s.writeGate(actor); err != nil {
		return nil, err
	}

	l, err := s.repo.FindLocationByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	l.Name = in.Name
	l.Description = in.Description
	l.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateLocation(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// DeleteLocation refuses to delete a location that trainings still
// reference by name.
func (s *TaxonomyService) DeleteLocation(ctx context.Context, actor ports.Actor, id string) error {
	if err := s.writeGate(actor); err != nil {
		return err
	}
	l, err := s.repo.FindLocationByID(ctx, id)
	if err != nil {
		return err
	}

	n, err := s.trainings.CountByLocation(ctx, l.Name)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrHasDependents
	}
	return s.repo.DeleteLocation(ctx, id)
}
