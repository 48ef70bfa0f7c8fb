package ports

import (
	"context"

	"github.com/atomconnect/atom-connect-api/internal/core/domain"
)

// TrainingBulkAction is the action vocabulary for PATCH /v1/trainings.
type TrainingBulkAction string

const (
	TrainingPublish   TrainingBulkAction = "publish"
	TrainingUnpublish TrainingBulkAction = "unpublish"
	TrainingDelete    TrainingBulkAction = "delete"
)

// SaveTrainingInput carries a training create or full update.
type SaveTrainingInput struct {
	ID          string // empty on create
	Title       string
	Description string
	CategoryID  string
	StackIDs    []string
	Location    string
	Mode        domain.TrainingMode
	Price       float64
	Seats       int
}

// FeedbackInput carries a new feedback entry on a training.
type FeedbackInput struct {
	TrainingID string
	Rating     int
	Comment    string
}

// ListTrainingsResult is a page of trainings plus pagination metadata.
type ListTrainingsResult struct {
	Items      []*domain.Training
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// TrainingService defines use-case operations for trainings.
type TrainingService interface {
	// List scopes results by role: freelancers see their own trainings in
	// any status, every other role sees PUBLISHED only.
	List(ctx context.Context, actor Actor, filter TrainingFilter) (*ListTrainingsResult, error)
	Get(ctx context.Context, actor Actor, id string) (*domain.Training, error)
	Create(ctx context.Context, actor Actor, in SaveTrainingInput) (*domain.Training, error)
	Update(ctx context.Context, actor Actor, in SaveTrainingInput) (*domain.Training, error)
	// BulkAction publishes, unpublishes, or deletes a set of trainings.
	// Freelancers act on their own trainings; ADMIN acts on any.
	BulkAction(ctx context.Context, actor Actor, ids []string, action TrainingBulkAction) (*BulkResult, error)
	Delete(ctx context.Context, actor Actor, id string) error

	AddFeedback(ctx context.Context, actor Actor, in FeedbackInput) (*domain.Feedback, error)
	ListFeedback(ctx context.Context, actor Actor, trainingID string) ([]*domain.Feedback, error)
}
