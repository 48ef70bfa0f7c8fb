package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/atomconnect/atom-connect-api/internal/api/metrics"
	"github.com/atomconnect/atom-connect-api/internal/core/domain"
	"github.com/atomconnect/atom-connect-api/internal/core/ports"
)

// TrainingService implements marketplace operations over trainings.
type TrainingService struct {
	repo     ports.TrainingRepository
	taxonomy ports.TaxonomyRepository
	audit    ports.AuditSink
	log      zerolog.Logger
}

func NewTrainingService(repo ports.TrainingRepository, taxonomy ports.TaxonomyRepository, audit ports.AuditSink, log zerolog.Logger) *TrainingService {
	return &TrainingService{repo: repo, taxonomy: taxonomy, audit: audit, log: log}
}

// List scopes results by role: a freelancer sees its own trainings in any
// status; every other role sees published trainings only.
func (s *TrainingService) List(ctx context.Context, actor ports.Actor, filter ports.TrainingFilter) (*ports.ListTrainingsResult, error) {
	if !actor.Role.Valid() {
		return nil, domain.ErrForbidden
	}

	if actor.Role == domain.RoleFreelancer {
		filter.OwnerID = actor.ID
	} else if actor.Role != domain.RoleAdmin {
		filter.Status = domain.TrainingPublished
	}
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ports.ListTrainingsResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

// Get returns one training. Unpublished trainings are visible to their
// owner and ADMIN only; everyone else gets not-found rather than a hint
// that a draft exists.
func (s *TrainingService) Get(ctx context.Context, actor ports.Actor, id string) (*domain.Training, error) {
	if !actor.Role.Valid() {
		return nil, domain.ErrForbidden
	}

	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Status != domain.TrainingPublished && t.OwnerID != actor.ID && actor.Role != domain.RoleAdmin {
		return nil, domain.ErrTrainingNotFound
	}
	return t, nil
}

// Create registers a new training in DRAFT owned by the calling freelancer.
func (s *TrainingService) Create(ctx context.Context, actor ports.Actor, in ports.SaveTrainingInput) (*domain.Training, error) {
	if err := domain.Authorize(actor.Role, domain.RoleFreelancer); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	t := &domain.Training{
		Title:       in.Title,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		StackIDs:    in.StackIDs,
		Location:    in.Location,
		Mode:        in.Mode,
		Price:       in.Price,
		Seats:       in.Seats,
		Status:      domain.TrainingDraft,
		OwnerID:     actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, t)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("training_id", created.ID).Str("owner_id", actor.ID).Msg("training created")
	return created, nil
}

// Update applies a full update. The owner or ADMIN may edit; status is not
// changed here (publication goes through BulkAction).
func (s *TrainingService) Update(ctx context.Context, actor ports.Actor, in ports.SaveTrainingInput) (*domain.Training, error) {
	if err := domain.Authorize(actor.Role, domain.RoleFreelancer, domain.RoleAdmin); err != nil {
		return nil, err
	}

	t, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if t.OwnerID != actor.ID && actor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	t.Title = in.Title
	t.Description = in.Description
	t.CategoryID = in.CategoryID
	t.StackIDs = in.StackIDs
	t.Location = in.Location
	t.Mode = in.Mode
	t.Price = in.Price
	t.Seats = in.Seats
	t.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TrainingService) checkCategory(ctx context.Context, categoryID string) error {
	if categoryID == "" {
		return domain.ErrCategoryNotFound
	}
	_, err := s.taxonomy.FindCategoryByID(ctx, categoryID)
	return err
}

// BulkAction publishes, unpublishes, or deletes a set of trainings. A
// freelancer's id set is silently narrowed to trainings it owns; ADMIN acts
// on any. Ids whose current status cannot reach the target state are
// skipped and audited as failed, so repeating the action is idempotent.
func (s *TrainingService) BulkAction(ctx context.Context, actor ports.Actor, ids []string, action ports.TrainingBulkAction) (*ports.BulkResult, error) {
	if err := domain.Authorize(actor.Role, domain.RoleFreelancer, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, domain.ErrEmptyBulkSet
	}

	ownerScope := ""
	if actor.Role == domain.RoleFreelancer {
		ownerScope = actor.ID
	}
	owned, err := s.repo.FindByIDs(ctx, ids, ownerScope)
	if err != nil {
		return nil, err
	}

	var matched int64
	switch action {
	case ports.TrainingPublish:
		matched, err = s.transition(ctx, actor, owned, domain.TrainingPublished)
	case ports.TrainingUnpublish:
		matched, err = s.transition(ctx, actor, owned, domain.TrainingDraft)
	case ports.TrainingDelete:
		matched, err = s.deleteOwned(ctx, actor, owned)
	default:
		return nil, domain.ErrUnknownBulkAction
	}
	if err != nil {
		return nil, err
	}

	metrics.BulkActionsTotal.WithLabelValues("training", string(action)).Inc()
	return &ports.BulkResult{Requested: len(ids), Matched: matched}, nil
}

func (s *TrainingService) transition(ctx context.Context, actor ports.Actor, trainings []*domain.Training, target domain.TrainingStatus) (int64, error) {
	eligible := make([]string, 0, len(trainings))
	for _, t := range trainings {
		if t.Status.CanTransitionTo(target) {
			eligible = append(eligible, t.ID)
			continue
		}
		s.emit(actor, t.ID, "transition:"+string(target), domain.AuditFailed)
	}
	if len(eligible) == 0 {
		return 0, nil
	}

	matched, err := s.repo.SetStatus(ctx, eligible, target)
	if err != nil {
		return 0, err
	}
	for _, id := range eligible {
		s.emit(actor, id, "transition:"+string(target), domain.AuditApplied)
	}
	return matched, nil
}

func (s *TrainingService) deleteOwned(ctx context.Context, actor ports.Actor, trainings []*domain.Training) (int64, error) {
	if len(trainings) == 0 {
		return 0, nil
	}
	ids := make([]string, 0, len(trainings))
	for _, t := range trainings {
		ids = append(ids, t.ID)
	}

	deleted, err := s.repo.DeleteByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		s.emit(actor, id, "delete", domain.AuditApplied)
	}
	return deleted, nil
}

// Delete removes a single training owned by the caller (or any, for ADMIN).
func (s *TrainingService) Delete(ctx context.Context, actor ports.Actor, id string) error {
	if err := domain.Authorize(actor.Role, domain.RoleFreelancer, domain.RoleAdmin); err != nil {
		return err
	}

	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if t.OwnerID != actor.ID && actor.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}

	if _, err := s.repo.DeleteByIDs(ctx, []string{id}); err != nil {
		return err
	}
	s.emit(actor, id, "delete", domain.AuditApplied)
	return nil
}

// AddFeedback records an organization's rating on a published training.
func (s *TrainingService) AddFeedback(ctx context.Context, actor ports.Actor, in ports.FeedbackInput) (*domain.Feedback, error) {
	if err := domain.Authorize(actor.Role, domain.RoleOrganization); err != nil {
		return nil, err
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, errors.New("rating must be between 1 and 5")
	}

	t, err := s.repo.FindByID(ctx, in.TrainingID)
	if err != nil {
		return nil, err
	}
	if t.Status != domain.TrainingPublished {
		return nil, domain.ErrTrainingNotFound
	}

	return s.repo.AddFeedback(ctx, &domain.Feedback{
		TrainingID: t.ID,
		AuthorID:   actor.ID,
		Rating:     in.Rating,
		Comment:    in.Comment,
		CreatedAt:  time.Now().UTC(),
	})
}

// ListFeedback returns the feedback trail of a training visible to the actor.
func (s *TrainingService) ListFeedback(ctx context.Context, actor ports.Actor, trainingID string) ([]*domain.Feedback, error) {
	if _, err := s.Get(ctx, actor, trainingID); err != nil {
		return nil, err
	}
	return s.repo.ListFeedback(ctx, trainingID)
}

func (s *TrainingService) emit(actor ports.Actor, id, action string, outcome domain.AuditOutcome) {
	if s.audit == nil {
		return
	}
	s.audit.Enqueue(domain.AuditEvent{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		EntityKind: "training",
		EntityID:   id,
		Action:     action,
		Outcome:    outcome,
		Timestamp:  time.Now().UTC(),
	})
}
