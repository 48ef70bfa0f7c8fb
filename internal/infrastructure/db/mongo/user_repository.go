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

const usersCollection = "users"

// UserRepository persists identities with their role-scoped profile embedded
// in the same document, so a role change and its profile swap are one write.
type UserRepository struct {
	client *mongo.Client
	db     *mongo.Database
	coll   *mongo.Collection
}

func NewUserRepository(client *mongo.Client, db *mongo.Database) *UserRepository {
	return &UserRepository{client: client, db: db, coll: db.Collection(usersCollection)}
}

type userDoc struct {
	ID              string     `bson:"_id"`
	Email           string     `bson:"email"`
	PasswordHash    string     `bson:"password_hash"`
	Name            string     `bson:"name"`
	Phone           string     `bson:"phone,omitempty"`
	Role            string     `bson:"role"`
	Active          bool       `bson:"active"`
	EmailVerifiedAt *time.Time `bson:"email_verified_at,omitempty"`
	CreatedAt       time.Time  `bson:"created_at"`
	UpdatedAt       time.Time  `bson:"updated_at"`

	Freelancer   *freelancerDoc   `bson:"freelancer,omitempty"`
	Organization *organizationDoc `bson:"organization,omitempty"`
	Maintainer   *maintainerDoc   `bson:"maintainer,omitempty"`
	Admin        *adminDoc        `bson:"admin,omitempty"`
}

type freelancerDoc struct {
	Headline        string   `bson:"headline,omitempty"`
	Bio             string   `bson:"bio,omitempty"`
	StackIDs        []string `bson:"stack_ids,omitempty"`
	Location        string   `bson:"location,omitempty"`
	YearsExperience int      `bson:"years_experience,omitempty"`
	HourlyRate      float64  `bson:"hourly_rate,omitempty"`
}

type organizationDoc struct {
	CompanyName  string `bson:"company_name"`
	Website      string `bson:"website,omitempty"`
	EmailDomain  string `bson:"email_domain"`
	Location     string `bson:"location,omitempty"`
	Verification string `bson:"verification"`
}

type maintainerDoc struct {
	Department string `bson:"department,omitempty"`
}

type adminDoc struct {
	Notes string `bson:"notes,omitempty"`
}

func toUserDoc(u *domain.User) userDoc {
	doc := userDoc{
		ID:              u.ID,
		Email:           u.Email,
		PasswordHash:    u.PasswordHash,
		Name:            u.Name,
		Phone:           u.Phone,
		Role:            string(u.Role),
		Active:          u.Active,
		EmailVerifiedAt: u.EmailVerifiedAt,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
	if u.Freelancer != nil {
		doc.Freelancer = &freelancerDoc{
			Headline:        u.Freelancer.Headline,
			Bio:             u.Freelancer.Bio,
			StackIDs:        u.Freelancer.StackIDs,
			Location:        u.Freelancer.Location,
			YearsExperience: u.Freelancer.YearsExperience,
			HourlyRate:      u.Freelancer.HourlyRate,
		}
	}
	if u.Organization != nil {
		doc.Organization = &organizationDoc{
			CompanyName:  u.Organization.CompanyName,
			Website:      u.Organization.Website,
			EmailDomain:  u.Organization.EmailDomain,
			Location:     u.Organization.Location,
			Verification: string(u.Organization.Verification),
		}
	}
	if u.Maintainer != nil {
		doc.Maintainer = &maintainerDoc{Department: u.Maintainer.Department}
	}
	if u.Admin != nil {
		doc.Admin = &adminDoc{Notes: u.Admin.Notes}
	}
	return doc
}

func (d userDoc) toDomain() *domain.User {
	u := &domain.User{
		ID:              d.ID,
		Email:           d.Email,
		PasswordHash:    d.PasswordHash,
		Name:            d.Name,
		Phone:           d.Phone,
		Role:            domain.Role(d.Role),
		Active:          d.Active,
		EmailVerifiedAt: d.EmailVerifiedAt,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
	if d.Freelancer != nil {
		u.Freelancer = &domain.FreelancerProfile{
			Headline:        d.Freelancer.Headline,
			Bio:             d.Freelancer.Bio,
			StackIDs:        d.Freelancer.StackIDs,
			Location:        d.Freelancer.Location,
			YearsExperience: d.Freelancer.YearsExperience,
			HourlyRate:      d.Freelancer.HourlyRate,
		}
	}
	if d.Organization != nil {
		u.Organization = &domain.OrganizationProfile{
			CompanyName:  d.Organization.CompanyName,
			Website:      d.Organization.Website,
			EmailDomain:  d.Organization.EmailDomain,
			Location:     d.Organization.Location,
			Verification: domain.VerificationStatus(d.Organization.Verification),
		}
	}
	if d.Maintainer != nil {
		u.Maintainer = &domain.MaintainerProfile{Department: d.Maintainer.Department}
	}
	if d.Admin != nil {
		u.Admin = &domain.AdminProfile{Notes: d.Admin.Notes}
	}
	return u
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if _, err := r.coll.InsertOne(ctx, toUserDoc(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

// Update replaces the whole document so the role and its embedded profile
// always change together.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": user.ID}, toUserDoc(user))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"password_hash": passwordHash,
		"updated_at":    time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func buildUserFilter(f ports.UserFilter) bson.M {
	filter := bson.M{}
	if f.Role != "" {
		filter["role"] = string(f.Role)
	}
	if f.Verification != "" {
		filter["organization.verification"] = string(f.Verification)
	}
	if f.Active != nil {
		filter["active"] = *f.Active
	}
	if f.Search != "" {
		rx := bson.M{"$regex": f.Search, "$options": "i"}
		filter["$or"] = bson.A{bson.M{"name": rx}, bson.M{"email": rx}}
	}
	return filter
}

func (r *UserRepository) List(ctx context.Context, f ports.UserFilter) ([]*domain.User, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := buildUserFilter(f)
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var users []*domain.User
	for cur.Next(ctx) {
		var doc userDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, doc.toDomain())
	}
	return users, total, cur.Err()
}

func (r *UserRepository) SetActive(ctx context.Context, ids []string, active bool) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{"active": active, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return 0, fmt.Errorf("set active: %w", err)
	}
	return res.MatchedCount, nil
}

func (r *UserRepository) SetVerification(ctx context.Context, ids []string, status domain.VerificationStatus) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}, "role": string(domain.RoleOrganization)},
		bson.M{"$set": bson.M{
			"organization.verification": string(status),
			"updated_at":                time.Now().UTC(),
		}},
	)
	if err != nil {
		return 0, fmt.Errorf("set verification: %w", err)
	}
	return res.MatchedCount, nil
}

// DeleteCascade removes the user, their trainings, feedback on those
// trainings, and feedback they authored, all inside one transaction.
func (r *UserRepository) DeleteCascade(ctx context.Context, id string) error {
	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	trainings := r.db.Collection(trainingsCollection)
	feedback := r.db.Collection(feedbackCollection)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		cur, err := trainings.Find(sc, bson.M{"owner_id": id}, options.Find().SetProjection(bson.M{"_id": 1}))
		if err != nil {
			return nil, fmt.Errorf("find owned trainings: %w", err)
		}
		var owned []string
		for cur.Next(sc) {
			var doc struct {
				ID string `bson:"_id"`
			}
			if err := cur.Decode(&doc); err != nil {
				cur.Close(sc)
				return nil, err
			}
			owned = append(owned, doc.ID)
		}
		cur.Close(sc)
		if err := cur.Err(); err != nil {
			return nil, err
		}

		if len(owned) > 0 {
			if _, err := feedback.DeleteMany(sc, bson.M{"training_id": bson.M{"$in": owned}}); err != nil {
				return nil, fmt.Errorf("delete training feedback: %w", err)
			}
			if _, err := trainings.DeleteMany(sc, bson.M{"_id": bson.M{"$in": owned}}); err != nil {
				return nil, fmt.Errorf("delete trainings: %w", err)
			}
		}
		if _, err := feedback.DeleteMany(sc, bson.M{"author_id": id}); err != nil {
			return nil, fmt.Errorf("delete authored feedback: %w", err)
		}

		res, err := r.coll.DeleteOne(sc, bson.M{"_id": id})
		if err != nil {
			return nil, fmt.Errorf("delete user: %w", err)
		}
		if res.DeletedCount == 0 {
			return nil, domain.ErrUserNotFound
		}
		return nil, nil
	})
	return err
}

// EnsureIndexes creates the unique email index and the common list filters.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}}},
		{Keys: bson.D{{Key: "organization.verification", Value: 1}}},
	}
	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
