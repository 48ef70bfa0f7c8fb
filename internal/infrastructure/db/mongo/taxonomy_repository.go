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
)

const (
	categoriesCollection = "training_categories"
	stacksCollection     = "tech_stacks"
	locationsCollection  = "locations"
)

// TaxonomyRepository persists training categories, tech stacks, and
// locations. Each collection carries a unique name index; duplicate
// inserts and renames map to domain.ErrNameTaken.
type TaxonomyRepository struct {
	categories *mongo.Collection
	stacks     *mongo.Collection
	locations  *mongo.Collection
}

func NewTaxonomyRepository(db *mongo.Database) *TaxonomyRepository {
	return &TaxonomyRepository{
		categories: db.Collection(categoriesCollection),
		stacks:     db.Collection(stacksCollection),
		locations:  db.Collection(locationsCollection),
	}
}

type taxonomyDoc struct {
	ID          string    `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description,omitempty"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func (r *TaxonomyRepository) CreateCategory(ctx context.Context, c *domain.TrainingCategory) (*domain.TrainingCategory, error) {
	doc, err := r.insert(ctx, r.categories, c.ID, c.Name, c.Description, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.ID = doc.ID
	return c, nil
}

func (r *TaxonomyRepository) FindCategoryByID(ctx context.Context, id string) (*domain.TrainingCategory, error) {
	doc, err := r.find(ctx, r.categories, id, domain.ErrCategoryNotFound)
	if err != nil {
		return nil, err
	}
	return categoryFromDoc(doc), nil
}

func (r *TaxonomyRepository) ListCategories(ctx context.Context) ([]*domain.TrainingCategory, error) {
	docs, err := r.list(ctx, r.categories)
	if err != nil {
		return nil, err
	}
	items := make([]*domain.TrainingCategory, 0, len(docs))
	for _, d := range docs {
		items = append(items, categoryFromDoc(d))
	}
	return items, nil
}

func (r *TaxonomyRepository) UpdateCategory(ctx context.Context, c *domain.TrainingCategory) error {
	return r.update(ctx, r.categories, taxonomyDoc{
		ID: c.ID, Name: c.Name, Description: c.Description,
		CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt,
	}, domain.ErrCategoryNotFound)
}

func (r *TaxonomyRepository) DeleteCategory(ctx context.Context, id string) error {
	return r.delete(ctx, r.categories, id, domain.ErrCategoryNotFound)
}

func (r *TaxonomyRepository) CreateStack(ctx context.Context, s *domain.TechStack) (*domain.TechStack, error) {
	doc, err := r.insert(ctx, r.stacks, s.ID, s.Name, s.Description, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.ID = doc.ID
	return s, nil
}

func (r *TaxonomyRepository) FindStackByID(ctx context.Context, id string) (*domain.TechStack, error) {
	doc, err := r.find(ctx, r.stacks, id, domain.ErrStackNotFound)
	if err != nil {
		return nil, err
	}
	return stackFromDoc(doc), nil
}

func (r *TaxonomyRepository) ListStacks(ctx context.Context) ([]*domain.TechStack, error) {
	docs, err := r.list(ctx, r.stacks)
	if err != nil {
		return nil, err
	}
	items := make([]*domain.TechStack, 0, len(docs))
	for _, d := range docs {
		items = append(items, stackFromDoc(d))
	}
	return items, nil
}

func (r *TaxonomyRepository) UpdateStack(ctx context.Context, s *domain.TechStack) error {
	return r.update(ctx, r.stacks, taxonomyDoc{
		ID: s.ID, Name: s.Name, Description: s.Description,
		CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt,
	}, domain.ErrStackNotFound)
}

func (r *TaxonomyRepository) DeleteStack(ctx context.Context, id string) error {
	return r.delete(ctx, r.stacks, id, domain.ErrStackNotFound)
}

func (r *TaxonomyRepository) CreateLocation(ctx context.Context, l *domain.Location) (*domain.Location, error) {
	doc, err := r.insert(ctx, r.locations, l.ID, l.Name, l.Description, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	l.ID = doc.ID
	return l, nil
}

func (r *TaxonomyRepository) FindLocationByID(ctx context.Context, id string) (*domain.Location, error) {
	doc, err := r.find(ctx, r.locations, id, domain.ErrLocationNotFound)
	if err != nil {
		return nil, err
	}
	return locationFromDoc(doc), nil
}

func (r *TaxonomyRepository) ListLocations(ctx context.Context) ([]*domain.Location, error) {
	docs, err := r.list(ctx, r.locations)
	if err != nil {
		return nil, err
	}
	items := make([]*domain.Location, 0, len(docs))
	for _, d := range docs {
		items = append(items, locationFromDoc(d))
	}
	return items, nil
}

func (r *TaxonomyRepository) UpdateLocation(ctx context.Context, l *domain.Location) error {
	return r.update(ctx, r.locations, taxonomyDoc{
		ID: l.ID, Name: l.Name, Description: l.Description,
		CreatedAt: l.CreatedAt, UpdatedAt: l.UpdatedAt,
	}, domain.ErrLocationNotFound)
}

func (r *TaxonomyRepository) DeleteLocation(ctx context.Context, id string) error {
	return r.delete(ctx, r.locations, id, domain.ErrLocationNotFound)
}

func (r *TaxonomyRepository) insert(ctx context.Context, coll *mongo.Collection, id, name, description string, createdAt, updatedAt time.Time) (taxonomyDoc, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if id == "" {
		id = uuid.NewString()
	}
	doc := taxonomyDoc{ID: id, Name: name, Description: description, CreatedAt: createdAt, UpdatedAt: updatedAt}
	if _, err := coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return taxonomyDoc{}, domain.ErrNameTaken
		}
		return taxonomyDoc{}, fmt.Errorf("insert %s: %w", coll.Name(), err)
	}
	return doc, nil
}

func (r *TaxonomyRepository) find(ctx context.Context, coll *mongo.Collection, id string, notFound error) (taxonomyDoc, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc taxonomyDoc
	if err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return taxonomyDoc{}, notFound
		}
		return taxonomyDoc{}, fmt.Errorf("find %s: %w", coll.Name(), err)
	}
	return doc, nil
}

func (r *TaxonomyRepository) list(ctx context.Context, coll *mongo.Collection) ([]taxonomyDoc, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", coll.Name(), err)
	}
	defer cur.Close(ctx)

	var docs []taxonomyDoc
	for cur.Next(ctx) {
		var doc taxonomyDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", coll.Name(), err)
		}
		docs = append(docs, doc)
	}
	return docs, cur.Err()
}

func (r *TaxonomyRepository) update(ctx context.Context, coll *mongo.Collection, doc taxonomyDoc, notFound error) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrNameTaken
		}
		return fmt.Errorf("update %s: %w", coll.Name(), err)
	}
	if res.MatchedCount == 0 {
		return notFound
	}
	return nil
}

func (r *TaxonomyRepository) delete(ctx context.Context, coll *mongo.Collection, id string, notFound error) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s: %w", coll.Name(), err)
	}
	if res.DeletedCount == 0 {
		return notFound
	}
	return nil
}

func categoryFromDoc(d taxonomyDoc) *domain.TrainingCategory {
	return &domain.TrainingCategory{ID: d.ID, Name: d.Name, Description: d.Description, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}
}

func stackFromDoc(d taxonomyDoc) *domain.TechStack {
	return &domain.TechStack{ID: d.ID, Name: d.Name, Description: d.Description, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}
}

func locationFromDoc(d taxonomyDoc) *domain.Location {
	return &domain.Location{ID: d.ID, Name: d.Name, Description: d.Description, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt}
}

// EnsureIndexes creates the unique name indexes on all three collections.
func (r *TaxonomyRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	unique := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	for _, coll := range []*mongo.Collection{r.categories, r.stacks, r.locations} {
		if _, err := coll.Indexes().CreateMany(ctx, unique); err != nil {
			return err
		}
	}
	return nil
}
