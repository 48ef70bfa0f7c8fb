package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/atomconnect/atom-connect-api/internal/core/domain"
	"github.com/atomconnect/atom-connect-api/internal/core/ports"
)

// stubTrainingRepo is an in-memory ports.TrainingRepository.
type stubTrainingRepo struct {
	trainings map[string]*domain.Training
	feedback  []*domain.Feedback
	nextID    int
}

func newStubTrainingRepo() *stubTrainingRepo {
	return &stubTrainingRepo{trainings: make(map[string]*domain.Training)}
}

func cloneTraining(t *domain.Training) *domain.Training {
	clone := *t
	return &clone
}

func (r *stubTrainingRepo) Create(_ context.Context, t *domain.Training) (*domain.Training, error) {
	copy := cloneTraining(t)
	if copy.ID == "" {
		r.nextID++
		copy.ID = "t" + strconv.Itoa(r.nextID)
	}
	r.trainings[copy.ID] = cloneTraining(copy)
	return copy, nil
}

func (r *stubTrainingRepo) FindByID(_ context.Context, id string) (*domain.Training, error) {
	if t, ok := r.trainings[id]; ok {
		return cloneTraining(t), nil
	}
	return nil, domain.ErrTrainingNotFound
}

func (r *stubTrainingRepo) Update(_ context.Context, t *domain.Training) error {
	if _, ok := r.trainings[t.ID]; !ok {
		return domain.ErrTrainingNotFound
	}
	r.trainings[t.ID] = cloneTraining(t)
	return nil
}

func (r *stubTrainingRepo) List(_ context.Context, f ports.TrainingFilter) ([]*domain.Training, int64, error) {
	var out []*domain.Training
	for _, t := range r.trainings {
		if f.OwnerID != "" && t.OwnerID != f.OwnerID {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.CategoryID != "" && t.CategoryID != f.CategoryID {
			continue
		}
		out = append(out, cloneTraining(t))
	}
	return out, int64(len(out)), nil
}

func (r *stubTrainingRepo) FindByIDs(_ context.Context, ids []string, ownerID string) ([]*domain.Training, error) {
	var out []*domain.Training
	for _, id := range ids {
		t, ok := r.trainings[id]
		if !ok {
			continue
		}
		if ownerID != "" && t.OwnerID != ownerID {
			continue
		}
		out = append(out, cloneTraining(t))
	}
	return out, nil
}

func (r *stubTrainingRepo) SetStatus(_ context.Context, ids []string, status domain.TrainingStatus) (int64, error) {
	var matched int64
	for _, id := range ids {
		if t, ok := r.trainings[id]; ok {
			t.Status = status
			matched++
		}
	}
	return matched, nil
}

// DeleteByIDs mirrors the repository contract: trainings and their
// feedback go together in a single call.
func (r *stubTrainingRepo) DeleteByIDs(_ context.Context, ids []string) (int64, error) {
	var deleted int64
	gone := make(map[string]bool, len(ids))
	for _, id := range ids {
		gone[id] = true
		if _, ok := r.trainings[id]; ok {
			delete(r.trainings, id)
			deleted++
		}
	}
	kept := make([]*domain.Feedback, 0, len(r.feedback))
	for _, f := range r.feedback {
		if !gone[f.TrainingID] {
			kept = append(kept, f)
		}
	}
	r.feedback = kept
	return deleted, nil
}

func (r *stubTrainingRepo) CountByCategory(_ context.Context, categoryID string) (int64, error) {
	var n int64
	for _, t := range r.trainings {
		if t.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (r *stubTrainingRepo) CountByStack(_ context.Context, stackID string) (int64, error) {
	var n int64
	for _, t := range r.trainings {
		for _, s := range t.StackIDs {
			if s == stackID {
				n++
			}
		}
	}
	return n, nil
}

func (r *stubTrainingRepo) CountByLocation(_ context.Context, name string) (int64, error) {
	var n int64
	for _, t := range r.trainings {
		if t.Location == name {
			n++
		}
	}
	return n, nil
}

func (r *stubTrainingRepo) AddFeedback(_ context.Context, f *domain.Feedback) (*domain.Feedback, error) {
	copy := *f
	if copy.ID == "" {
		copy.ID = "f" + strconv.Itoa(len(r.feedback)+1)
	}
	r.feedback = append(r.feedback, &copy)
	return &copy, nil
}

func (r *stubTrainingRepo) ListFeedback(_ context.Context, trainingID string) ([]*domain.Feedback, error) {
	var out []*domain.Feedback
	for _, f := range r.feedback {
		if f.TrainingID == trainingID {
			copy := *f
			out = append(out, &copy)
		}
	}
	return out, nil
}

// stubTaxonomyRepo is an in-memory ports.TaxonomyRepository.
type stubTaxonomyRepo struct {
	categories map[string]*domain.TrainingCategory
	stacks     map[string]*domain.TechStack
	locations  map[string]*domain.Location
}

func newStubTaxonomyRepo() *stubTaxonomyRepo {
	return &stubTaxonomyRepo{
		categories: make(map[string]*domain.TrainingCategory),
		stacks:     make(map[string]*domain.TechStack),
		locations:  make(map[string]*domain.Location),
	}
}

func (r *stubTaxonomyRepo) CreateCategory(_ context.Context, c *domain.TrainingCategory) (*domain.TrainingCategory, error) {
	for _, existing := range r.categories {
		if existing.Name == c.Name {
			return nil, domain.ErrNameTaken
		}
	}
	copy := *c
	if copy.ID == "" {
		copy.ID = "cat" + strconv.Itoa(len(r.categories)+1)
	}
	r.categories[copy.ID] = &copy
	return &copy, nil
}

func (r *stubTaxonomyRepo) FindCategoryByID(_ context.Context, id string) (*domain.TrainingCategory, error) {
	if c, ok := r.categories[id]; ok {
		copy := *c
		return &copy, nil
	}
	return nil, domain.ErrCategoryNotFound
}

func (r *stubTaxonomyRepo) ListCategories(_ context.Context) ([]*domain.TrainingCategory, error) {
	var out []*domain.TrainingCategory
	for _, c := range r.categories {
		copy := *c
		out = append(out, &copy)
	}
	return out, nil
}

func (r *stubTaxonomyRepo) UpdateCategory(_ context.Context, c *domain.TrainingCategory) error {
	if _, ok := r.categories[c.ID]; !ok {
		return domain.ErrCategoryNotFound
	}
	copy := *c
	r.categories[c.ID] = &copy
	return nil
}

func (r *stubTaxonomyRepo) DeleteCategory(_ context.Context, id string) error {
	if _, ok := r.categories[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(r.categories, id)
	return nil
}

func (r *stubTaxonomyRepo) CreateStack(_ context.Context, s *domain.TechStack) (*domain.TechStack, error) {
	for _, existing := range r.stacks {
		if existing.Name == s.Name {
			return nil, domain.ErrNameTaken
		}
	}
	copy := *s
	if copy.ID == "" {
		copy.ID = "st" + strconv.Itoa(len(r.stacks)+1)
	}
	r.stacks[copy.ID] = &copy
	return &copy, nil
}

func (r *stubTaxonomyRepo) FindStackByID(_ context.Context, id string) (*domain.TechStack, error) {
	if s, ok := r.stacks[id]; ok {
		copy := *s
		return &copy, nil
	}
	return nil, domain.ErrStackNotFound
}

func (r *stubTaxonomyRepo) ListStacks(_ context.Context) ([]*domain.TechStack, error) {
	var out []*domain.TechStack
	for _, s := range r.stacks {
		copy := *s
		out = append(out, &copy)
	}
	return out, nil
}

func (r *stubTaxonomyRepo) UpdateStack(_ context.Context, s *domain.TechStack) error {
	if _, ok := r.stacks[s.ID]; !ok {
		return domain.ErrStackNotFound
	}
	copy := *s
	r.stacks[s.ID] = &copy
	return nil
}

func (r *stubTaxonomyRepo) DeleteStack(_ context.Context, id string) error {
	if _, ok := r.stacks[id]; !ok {
		return domain.ErrStackNotFound
	}
	delete(r.stacks, id)
	return nil
}

func (r *stubTaxonomyRepo) CreateLocation(_ context.Context, l *domain.Location) (*domain.Location, error) {
	for _, existing := range r.locations {
		if existing.Name == l.Name {
			return nil, domain.ErrNameTaken
		}
	}
	copy := *l
	if copy.ID == "" {
		copy.ID = "loc" + strconv.Itoa(len(r.locations)+1)
	}
	r.locations[copy.ID] = &copy
	return &copy, nil
}

func (r *stubTaxonomyRepo) FindLocationByID(_ context.Context, id string) (*domain.Location, error) {
	if l, ok := r.locations[id]; ok {
		copy := *l
		return &copy, nil
	}
	return nil, domain.ErrLocationNotFound
}

func (r *stubTaxonomyRepo) ListLocations(_ context.Context) ([]*domain.Location, error) {
	var out []*domain.Location
	for _, l := range r.locations {
		copy := *l
		out = append(out, &copy)
	}
	return out, nil
}

func (r *stubTaxonomyRepo) UpdateLocation(_ context.Context, l *domain.Location) error {
	if _, ok := r.locations[l.ID]; !ok {
		return domain.ErrLocationNotFound
	}
	copy := *l
	r.locations[l.ID] = &copy
	return nil
}

func (r *stubTaxonomyRepo) DeleteLocation(_ context.Context, id string) error {
	if _, ok := r.locations[id]; !ok {
		return domain.ErrLocationNotFound
	}
	delete(r.locations, id)
	return nil
}

func seedCategory(repo *stubTaxonomyRepo, id, name string) {
	repo.categories[id] = &domain.TrainingCategory{ID: id, Name: name}
}

func seedTraining(repo *stubTrainingRepo, id, owner string, status domain.TrainingStatus) {
	repo.trainings[id] = &domain.Training{
		ID: id, Title: id, CategoryID: "cat1", Mode: domain.ModeRemote,
		Status: status, OwnerID: owner,
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}
}

func newTrainingService(repo *stubTrainingRepo, taxonomy *stubTaxonomyRepo, sink ports.AuditSink) *TrainingService {
	return NewTrainingService(repo, taxonomy, sink, zerolog.Nop())
}

func TestTrainingService_List_Scoping(t *testing.T) {
	repo := newStubTrainingRepo()
	seedTraining(repo, "t1", "free-1", domain.TrainingDraft)
	seedTraining(repo, "t2", "free-1", domain.TrainingPublished)
	seedTraining(repo, "t3", "free-2", domain.TrainingDraft)
	seedTraining(repo, "t4", "free-2", domain.TrainingPublished)
	svc := newTrainingService(repo, newStubTaxonomyRepo(), nil)

	// A freelancer sees its own trainings in every status, nothing else.
	res, err := svc.List(context.Background(), freelancerActor, ports.TrainingFilter{})
	if err != nil {
		t.Fatalf("freelancer List: %v", err)
	}
	if len(res.Items) != 2 {
		t.Fatalf("freelancer sees %d trainings, want 2", len(res.Items))
	}
	for _, tr := range res.Items {
		if tr.OwnerID != "free-1" {
			t.Fatalf("freelancer saw someone else's training")
		}
	}

	// An organization sees published trainings only.
	res, err = svc.List(context.Background(), orgActor, ports.TrainingFilter{})
	if err != nil {
		t.Fatalf("org List: %v", err)
	}
	if len(res.Items) != 2 {
		t.Fatalf("org sees %d trainings, want 2", len(res.Items))
	}
	for _, tr := range res.Items {
		if tr.Status != domain.TrainingPublished {
			t.Fatalf("org saw a %s training", tr.Status)
		}
	}

	// ADMIN sees everything.
	res, err = svc.List(context.Background(), adminActor, ports.TrainingFilter{})
	if err != nil {
		t.Fatalf("admin List: %v", err)
	}
	if len(res.Items) != 4 {
		t.Fatalf("admin sees %d trainings, want 4", len(res.Items))
	}
}

func TestTrainingService_Get_DraftHidden(t *testing.T) {
	repo := newStubTrainingRepo()
	seedTraining(repo, "t1", "free-1", domain.TrainingDraft)
	svc := newTrainingService(repo, newStubTaxonomyRepo(), nil)

	if _, err := svc.Get(context.Background(), freelancerActor, "t1"); err != nil {
		t.Fatalf("owner read: %v", err)
	}
	if _, err := svc.Get(context.Background(), adminActor, "t1"); err != nil {
		t.Fatalf("admin read: %v", err)
	}
	if _, err := svc.Get(context.Background(), orgActor, "t1"); !errors.Is(err, domain.ErrTrainingNotFound) {
		t.Fatalf("draft must read as not found for others, got %v", err)
	}
}

func TestTrainingService_Create(t *testing.T) {
	repo := newStubTrainingRepo()
	taxonomy := newStubTaxonomyRepo()
	seedCategory(taxonomy, "cat1", "Cloud")
	svc := newTrainingService(repo, taxonomy, nil)

	created, err := svc.Create(context.Background(), freelancerActor, ports.SaveTrainingInput{
		Title: "Kubernetes Fundamentals", CategoryID: "cat1", Mode: domain.ModeRemote, Price: 900, Seats: 12,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Status != domain.TrainingDraft {
		t.Fatalf("new training should be DRAFT, got %s", created.Status)
	}
	if created.OwnerID != freelancerActor.ID {
		t.Fatalf("owner = %q", created.OwnerID)
	}

	if _, err := svc.Create(context.Background(), orgActor, ports.SaveTrainingInput{
		Title: "X", CategoryID: "cat1", Mode: domain.ModeRemote,
	}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("organization create: expected ErrForbidden, got %v", err)
	}

	if _, err := svc.Create(context.Background(), freelancerActor, ports.SaveTrainingInput{
		Title: "X", CategoryID: "nope", Mode: domain.ModeRemote,
	}); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatalf("unknown category: expected ErrCategoryNotFound, got %v", err)
	}
}

func TestTrainingService_Update_OwnerOnly(t *testing.T) {
	repo := newStubTrainingRepo()
	taxonomy := newStubTaxonomyRepo()
	seedCategory(taxonomy, "cat1", "Cloud")
	seedTraining(repo, "t1", "free-2", domain.TrainingPublished)
	svc := newTrainingService(repo, taxonomy, nil)

	if _, err := svc.Update(context.Background(), freelancerActor, ports.SaveTrainingInput{
		ID: "t1", Title: "Hijacked", CategoryID: "cat1", Mode: domain.ModeRemote,
	}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("non-owner update: expected ErrForbidden, got %v", err)
	}

	updated, err := svc.Update(context.Background(), adminActor, ports.SaveTrainingInput{
		ID: "t1", Title: "Cleaned Up", CategoryID: "cat1", Mode: domain.ModeOnsite,
	})
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if updated.Status != domain.TrainingPublished {
		t.Fatalf("update must not change status, got %s", updated.Status)
	}
}

func TestTrainingService_BulkPublish_SkipsInvalidTransitions(t *testing.T) {
	repo := newStubTrainingRepo()
	seedTraining(repo, "t1", "free-1", domain.TrainingDraft)
	seedTraining(repo, "t2", "free-1", domain.TrainingPublished) // no-op, still counts
	seedTraining(repo, "t3", "free-1", domain.TrainingArchived)  // cannot publish
	sink := &stubSink{}
	svc := newTrainingService(repo, newStubTaxonomyRepo(), sink)

	res, err := svc.BulkAction(context.Background(), freelancerActor, []string{"t1", "t2", "t3"}, ports.TrainingPublish)
	if err != nil {
		t.Fatalf("BulkAction: %v", err)
	}
	if res.Requested != 3 || res.Matched != 2 {
		t.Fatalf("requested=%d matched=%d, want 3/2", res.Requested, res.Matched)
	}
	if repo.trainings["t1"].Status != domain.TrainingPublished {
		t.Fatalf("t1 not published")
	}
	if repo.trainings["t3"].Status != domain.TrainingArchived {
		t.Fatalf("archived training must stay archived")
	}

	var failed int
	for _, e := range sink.events {
		if e.Outcome == domain.AuditFailed {
			failed++
		}
	}
	if failed != 1 {
		t.Fatalf("expected 1 failed audit event, got %d", failed)
	}
}

func TestTrainingService_Bulk_OwnerScoped(t *testing.T) {
	repo := newStubTrainingRepo()
	seedTraining(repo, "mine", "free-1", domain.TrainingPublished)
	seedTraining(repo, "theirs", "free-2", domain.TrainingPublished)
	svc := newTrainingService(repo, newStubTaxonomyRepo(), nil)

	res, err := svc.BulkAction(context.Background(), freelancerActor, []string{"mine", "theirs"}, ports.TrainingDelete)
	if err != nil {
		t.Fatalf("BulkAction: %v", err)
	}
	if res.Matched != 1 {
		t.Fatalf("matched = %d, want 1", res.Matched)
	}
	if _, ok := repo.trainings["theirs"]; !ok {
		t.Fatalf("another freelancer's training was deleted")
	}
}

func TestTrainingService_Feedback(t *testing.T) {
	repo := newStubTrainingRepo()
	seedTraining(repo, "pub", "free-1", domain.TrainingPublished)
	seedTraining(repo, "draft", "free-1", domain.TrainingDraft)
	svc := newTrainingService(repo, newStubTaxonomyRepo(), nil)

	f, err := svc.AddFeedback(context.Background(), orgActor, ports.FeedbackInput{
		TrainingID: "pub", Rating: 5, Comment: "excellent",
	})
	if err != nil {
		t.Fatalf("AddFeedback: %v", err)
	}
	if f.AuthorID != orgActor.ID {
		t.Fatalf("author = %q", f.AuthorID)
	}

	if _, err := svc.AddFeedback(context.Background(), orgActor, ports.FeedbackInput{
		TrainingID: "draft", Rating: 4,
	}); !errors.Is(err, domain.ErrTrainingNotFound) {
		t.Fatalf("feedback on draft: expected ErrTrainingNotFound, got %v", err)
	}
	if _, err := svc.AddFeedback(context.Background(), freelancerActor, ports.FeedbackInput{
		TrainingID: "pub", Rating: 4,
	}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("freelancer feedback: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.AddFeedback(context.Background(), orgActor, ports.FeedbackInput{
		TrainingID: "pub", Rating: 9,
	}); err == nil {
		t.Fatalf("expected error for out-of-range rating")
	}

	items, err := svc.ListFeedback(context.Background(), orgActor, "pub")
	if err != nil {
		t.Fatalf("ListFeedback: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("feedback count = %d, want 1", len(items))
	}
}

func TestTrainingService_Delete_RemovesFeedbackTrail(t *testing.T) {
	repo := newStubTrainingRepo()
	seedTraining(repo, "pub", "free-1", domain.TrainingPublished)
	seedTraining(repo, "other", "free-1", domain.TrainingPublished)
	svc := newTrainingService(repo, newStubTaxonomyRepo(), nil)

	for _, id := range []string{"pub", "other"} {
		if _, err := svc.AddFeedback(context.Background(), orgActor, ports.FeedbackInput{TrainingID: id, Rating: 4}); err != nil {
			t.Fatalf("AddFeedback %s: %v", id, err)
		}
	}

	if err := svc.Delete(context.Background(), freelancerActor, "pub"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := repo.trainings["pub"]; ok {
		t.Fatalf("training not deleted")
	}
	for _, f := range repo.feedback {
		if f.TrainingID == "pub" {
			t.Fatalf("feedback for deleted training left behind")
		}
	}
	if items, _ := repo.ListFeedback(context.Background(), "other"); len(items) != 1 {
		t.Fatalf("unrelated feedback lost, have %d", len(items))
	}
}
