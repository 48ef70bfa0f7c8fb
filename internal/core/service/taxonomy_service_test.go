package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/atomconnect/atom-connect-api/internal/core/domain"
	"github.com/atomconnect/atom-connect-api/internal/core/ports"
)

func newTaxonomyService(repo *stubTaxonomyRepo, trainings *stubTrainingRepo) *TaxonomyService {
	return NewTaxonomyService(repo, trainings, zerolog.Nop())
}

func TestTaxonomyService_ReadOpenWritesStaffOnly(t *testing.T) {
	repo := newStubTaxonomyRepo()
	seedCategory(repo, "cat1", "Cloud")
	svc := newTaxonomyService(repo, newStubTrainingRepo())

	for _, actor := range []ports.Actor{adminActor, maintainerActor, orgActor, freelancerActor} {
		if _, err := svc.ListCategories(context.Background(), actor); err != nil {
			t.Fatalf("%s ListCategories: %v", actor.Role, err)
		}
		if _, err := svc.GetCategory(context.Background(), actor, "cat1"); err != nil {
			t.Fatalf("%s GetCategory: %v", actor.Role, err)
		}
	}

	for _, actor := range []ports.Actor{orgActor, freelancerActor} {
		if _, err := svc.CreateCategory(context.Background(), actor, ports.SaveTaxonomyInput{Name: "DevOps"}); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("%s CreateCategory: expected ErrForbidden, got %v", actor.Role, err)
		}
		if err := svc.DeleteStack(context.Background(), actor, "st1"); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("%s DeleteStack: expected ErrForbidden, got %v", actor.Role, err)
		}
	}
}

func TestTaxonomyService_CreateAndUpdate(t *testing.T) {
	repo := newStubTaxonomyRepo()
	svc := newTaxonomyService(repo, newStubTrainingRepo())

	c, err := svc.CreateCategory(context.Background(), maintainerActor, ports.SaveTaxonomyInput{Name: "Cloud", Description: "infra"})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if c.ID == "" {
		t.Fatalf("created category has no id")
	}

	if _, err := svc.CreateCategory(context.Background(), adminActor, ports.SaveTaxonomyInput{Name: "Cloud"}); !errors.Is(err, domain.ErrNameTaken) {
		t.Fatalf("duplicate name: expected ErrNameTaken, got %v", err)
	}

	updated, err := svc.UpdateCategory(context.Background(), adminActor, ports.SaveTaxonomyInput{ID: c.ID, Name: "Cloud & Infra"})
	if err != nil {
		t.Fatalf("UpdateCategory: %v", err)
	}
	if updated.Name != "Cloud & Infra" {
		t.Fatalf("name not updated: %q", updated.Name)
	}

	if _, err := svc.UpdateStack(context.Background(), adminActor, ports.SaveTaxonomyInput{ID: "ghost", Name: "Go"}); !errors.Is(err, domain.ErrStackNotFound) {
		t.Fatalf("expected ErrStackNotFound, got %v", err)
	}
}

func TestTaxonomyService_DeleteRefusesDependents(t *testing.T) {
	repo := newStubTaxonomyRepo()
	seedCategory(repo, "cat1", "Cloud")
	repo.stacks["st1"] = &domain.TechStack{ID: "st1", Name: "Go"}
	trainings := newStubTrainingRepo()
	seedTraining(trainings, "t1", "free-1", domain.TrainingPublished)
	trainings.trainings["t1"].StackIDs = []string{"st1"}
	svc := newTaxonomyService(repo, trainings)

	if err := svc.DeleteCategory(context.Background(), adminActor, "cat1"); !errors.Is(err, domain.ErrHasDependents) {
		t.Fatalf("referenced category: expected ErrHasDependents, got %v", err)
	}
	if err := svc.DeleteStack(context.Background(), adminActor, "st1"); !errors.Is(err, domain.ErrHasDependents) {
		t.Fatalf("referenced stack: expected ErrHasDependents, got %v", err)
	}

	// Remove the dependent training and the delete goes through.
	delete(trainings.trainings, "t1")
	if err := svc.DeleteCategory(context.Background(), adminActor, "cat1"); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if err := svc.DeleteStack(context.Background(), adminActor, "st1"); err != nil {
		t.Fatalf("DeleteStack: %v", err)
	}

	if err := svc.DeleteCategory(context.Background(), adminActor, "cat1"); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestTaxonomyService_Locations(t *testing.T) {
	repo := newStubTaxonomyRepo()
	trainings := newStubTrainingRepo()
	svc := newTaxonomyService(repo, trainings)

	loc, err := svc.CreateLocation(context.Background(), maintainerActor, ports.SaveTaxonomyInput{Name: "Berlin"})
	if err != nil {
		t.Fatalf("CreateLocation: %v", err)
	}
	if _, err := svc.CreateLocation(context.Background(), freelancerActor, ports.SaveTaxonomyInput{Name: "Hamburg"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("freelancer CreateLocation: expected ErrForbidden, got %v", err)
	}

	// Trainings reference locations by name; a referenced one cannot go.
	seedTraining(trainings, "t1", "free-1", domain.TrainingPublished)
	trainings.trainings["t1"].Location = "Berlin"
	if err := svc.DeleteLocation(context.Background(), adminActor, loc.ID); !errors.Is(err, domain.ErrHasDependents) {
		t.Fatalf("referenced location: expected ErrHasDependents, got %v", err)
	}

	delete(trainings.trainings, "t1")
	if err := svc.DeleteLocation(context.Background(), adminActor, loc.ID); err != nil {
		t.Fatalf("DeleteLocation: %v", err)
	}
	if _, err := svc.GetLocation(context.Background(), orgActor, loc.ID); !errors.Is(err, domain.ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}
}
