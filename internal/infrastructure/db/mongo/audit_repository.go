package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/atomconnect/atom-connect-api/internal/core/domain"
)

const auditCollection = "audit_events"

// AuditRepository persists the administrative audit trail. Events are
// append-only; there is no update or delete path.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type auditDoc struct {
	ID         string    `bson:"_id"`
	ActorID    string    `bson:"actor_id"`
	ActorRole  string    `bson:"actor_role"`
	EntityKind string    `bson:"entity_kind"`
	EntityID   string    `bson:"entity_id"`
	Action     string    `bson:"action"`
	Outcome    string    `bson:"outcome"`
	Timestamp  time.Time `bson:"timestamp"`
}

func (r *AuditRepository) Insert(ctx context.Context, e *domain.AuditEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := auditDoc{
		ID:         e.ID,
		ActorID:    e.ActorID,
		ActorRole:  string(e.ActorRole),
		EntityKind: e.EntityKind,
		EntityID:   e.EntityID,
		Action:     e.Action,
		Outcome:    string(e.Outcome),
		Timestamp:  e.Timestamp,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// EnsureIndexes creates the per-entity trail lookup index.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "entity_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "actor_id", Value: 1}}},
	})
	return err
}
