package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/atomconnect/atom-connect-api/internal/core/domain"
	"github.com/atomconnect/atom-connect-api/internal/core/ports"
)

const (
	trainingsCollection = "trainings"
	feedbackCollection  = "feedback"
)

type TrainingRepository struct {
	client    *mongo.Client
	trainings *mongo.Collection
	feedback  *mongo.Collection
}

func NewTrainingRepository(client *mongo.Client, db *mongo.Database) *TrainingRepository {
	return &TrainingRepository{
		client:    client,
		trainings: db.Collection(trainingsCollection),
		feedback:  db.Collection(feedbackCollection),
	}
}

type trainingDoc struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description,omitempty"`
	CategoryID  string    `bson:"category_id"`
	StackIDs    []string  `bson:"stack_ids,omitempty"`
	Location    string    `bson:"location,omitempty"`
	Mode        string    `bson:"mode"`
	Price       float64   `bson:"price"`
	Seats       int       `bson:"seats"`
	Status      string    `bson:"status"`
	OwnerID     string    `bson:"owner_id"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

type feedbackDoc struct {
	ID         string    `bson:"_id"`
	TrainingID string    `bson:"training_id"`
	AuthorID   string    `bson:"author_id"`
	Rating     int       `bson:"rating"`
	Comment    string    `bson:"comment,omitempty"`
	CreatedAt  time.Time `bson:"created_at"`
}

func toTrainingDoc(t *domain.Training) trainingDoc {
	return trainingDoc{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		CategoryID:  t.CategoryID,
		StackIDs:    t.StackIDs,
		Location:    t.Location,
		Mode:        string(t.Mode),
		Price:       t.Price,
		Seats:       t.Seats,
		Status:      string(t.Status),
		OwnerID:     t.OwnerID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (d trainingDoc) toDomain() *domain.Training {
	return &domain.Training{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		CategoryID:  d.CategoryID,
		StackIDs:    d.StackIDs,
		Location:    d.Location,
		Mode:        domain.TrainingMode(d.Mode),
		Price:       d.Price,
		Seats:       d.Seats,
		Status:      domain.TrainingStatus(d.Status),
		OwnerID:     d.OwnerID,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (r *TrainingRepository) Create(ctx context.Context, t *domain.Training) (*domain.Training, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if _, err := r.trainings.InsertOne(ctx, toTrainingDoc(t)); err != nil {
		return nil, fmt.Errorf("insert training: %w", err)
	}
	return t, nil
}

func (r *TrainingRepository) FindByID(ctx context.Context, id string) (*domain.Training, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc trainingDoc
	if err := r.trainings.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTrainingNotFound
		}
		return nil, fmt.Errorf("find training: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *TrainingRepository) Update(ctx context.Context, t *domain.Training) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.trainings.ReplaceOne(ctx, bson.M{"_id": t.ID}, toTrainingDoc(t))
	if err != nil {
		return fmt.Errorf("update training: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTrainingNotFound
	}
	return nil
}

func buildTrainingFilter(f ports.TrainingFilter) bson.M {
	filter := bson.M{}
	if f.OwnerID != "" {
		filter["owner_id"] = f.OwnerID
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.CategoryID != "" {
		filter["category_id"] = f.CategoryID
	}
	if f.StackID != "" {
		filter["stack_ids"] = f.StackID
	}
	if f.Mode != "" {
		filter["mode"] = string(f.Mode)
	}
	if f.Search != "" {
		filter["title"] = bson.M{"$regex": f.Search, "$options": "i"}
	}
	return filter
}

func (r *TrainingRepository) List(ctx context.Context, f ports.TrainingFilter) ([]*domain.Training, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := buildTrainingFilter(f)
	total, err := r.trainings.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count trainings: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))

	cur, err := r.trainings.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list trainings: %w", err)
	}
	defer cur.Close(ctx)

	var items []*domain.Training
	for cur.Next(ctx) {
		var doc trainingDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode training: %w", err)
		}
		items = append(items, doc.toDomain())
	}
	return items, total, cur.Err()
}

func (r *TrainingRepository) FindByIDs(ctx context.Context, ids []string, ownerID string) ([]*domain.Training, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": bson.M{"$in": ids}}
	if ownerID != "" {
		filter["owner_id"] = ownerID
	}

	cur, err := r.trainings.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find trainings: %w", err)
	}
	defer cur.Close(ctx)

	var items []*domain.Training
	for cur.Next(ctx) {
		var doc trainingDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode training: %w", err)
		}
		items = append(items, doc.toDomain())
	}
	return items, cur.Err()
}

func (r *TrainingRepository) SetStatus(ctx context.Context, ids []string, status domain.TrainingStatus) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.trainings.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{"status": string(status), "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return 0, fmt.Errorf("set status: %w", err)
	}
	return res.MatchedCount, nil
}

// DeleteByIDs removes the trainings and their feedback trail inside one
// transaction, so a partial failure never strands feedback or leaves a
// training without its trail.
func (r *TrainingRepository) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	session, err := r.client.StartSession()
	if err != nil {
		return 0, fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	deleted, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.feedback.DeleteMany(sc, bson.M{"training_id": bson.M{"$in": ids}}); err != nil {
			return nil, fmt.Errorf("delete feedback: %w", err)
		}
		res, err := r.trainings.DeleteMany(sc, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			return nil, fmt.Errorf("delete trainings: %w", err)
		}
		return res.DeletedCount, nil
	})
	if err != nil {
		return 0, err
	}
	return deleted.(int64), nil
}

func (r *TrainingRepository) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.trainings.CountDocuments(ctx, bson.M{"category_id": categoryID})
}

func (r *TrainingRepository) CountByStack(ctx context.Context, stackID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.trainings.CountDocuments(ctx, bson.M{"stack_ids": stackID})
}

func (r *TrainingRepository) CountByLocation(ctx context.Context, name string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.trainings.CountDocuments(ctx, bson.M{"location": name})
}

func (r *TrainingRepository) AddFeedback(ctx context.Context, f *domain.Feedback) (*domain.Feedback, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	doc := feedbackDoc{
		ID:         f.ID,
		TrainingID: f.TrainingID,
		AuthorID:   f.AuthorID,
		Rating:     f.Rating,
		Comment:    f.Comment,
		CreatedAt:  f.CreatedAt,
	}
	if _, err := r.feedback.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert feedback: %w", err)
	}
	return f, nil
}

func (r *TrainingRepository) ListFeedback(ctx context.Context, trainingID string) ([]*domain.Feedback, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.feedback.Find(ctx, bson.M{"training_id": trainingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer cur.Close(ctx)

	var items []*domain.Feedback
	for cur.Next(ctx) {
		var doc feedbackDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode feedback: %w", err)
		}
		items = append(items, &domain.Feedback{
			ID:         doc.ID,
			TrainingID: doc.TrainingID,
			AuthorID:   doc.AuthorID,
			Rating:     doc.Rating,
			Comment:    doc.Comment,
			CreatedAt:  doc.CreatedAt,
		})
	}
	return items, cur.Err()
}

// EnsureIndexes creates the indexes backing list filters and the cascade
// delete lookups.
func (r *TrainingRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.trainings.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "category_id", Value: 1}}},
		{Keys: bson.D{{Key: "stack_ids", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = r.feedback.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "training_id", Value: 1}}},
		{Keys: bson.D{{Key: "author_id", Value: 1}}},
	})
	return err
}
