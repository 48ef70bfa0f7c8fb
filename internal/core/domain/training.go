package domain

import "time"

// TrainingStatus represents the publication state of a training.
type TrainingStatus string

const (
	TrainingDraft     TrainingStatus = "DRAFT"
	TrainingPublished TrainingStatus = "PUBLISHED"
	TrainingArchived  TrainingStatus = "ARCHIVED"
)

// trainingTransitions defines the allowed publication state machine.
var trainingTransitions = map[TrainingStatus][]TrainingStatus{
	TrainingDraft:     {TrainingPublished},
	TrainingPublished: {TrainingDraft, TrainingArchived},
}

// CanTransitionTo reports whether a transition from s to next is valid.
// Transitioning to the current status is a no-op and always allowed, which
// is what makes bulk publish/unpublish idempotent.
func (s TrainingStatus) CanTransitionTo(next TrainingStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range trainingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TrainingMode is the delivery format of a training.
type TrainingMode string

const (
	ModeOnsite TrainingMode = "ONSITE"
	ModeRemote TrainingMode = "REMOTE"
	ModeHybrid TrainingMode = "HYBRID"
)

// Training is a course offered by a freelancer on the marketplace.
type Training struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	CategoryID  string         `json:"category_id"`
	StackIDs    []string       `json:"stack_ids,omitempty"`
	Location    string         `json:"location,omitempty"`
	Mode        TrainingMode   `json:"mode"`
	Price       float64        `json:"price"`
	Seats       int            `json:"seats"`
	Status      TrainingStatus `json:"status"`
	OwnerID     string         `json:"owner_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Feedback is a rating left on a training by an organization.
type Feedback struct {
	ID         string    `json:"id"`
	TrainingID string    `json:"training_id"`
	AuthorID   string    `json:"author_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
