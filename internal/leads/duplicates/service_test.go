package duplicates

import (
	"context"
	"testing"
	"time"

	"crm_backend/internal/leads/domain"
	"crm_backend/internal/leads/repository"
	"crm_backend/platform/apperr"
	"crm_backend/platform/events"

	"github.com/google/uuid"
)

type fakeStore struct {
	leads      map[uuid.UUID]repository.Lead
	duplicates map[uuid.UUID]repository.Duplicate

	// resolveHook runs just before MarkMerged/MarkIgnored inspects state,
	// so tests can slip in a competing resolution.
	resolveHook func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		leads:      make(map[uuid.UUID]repository.Lead),
		duplicates: make(map[uuid.UUID]repository.Duplicate),
	}
}

func (f *fakeStore) addLead() repository.Lead {
	lead := repository.Lead{ID: uuid.New(), Name: "Lead", Phone: "987654321"}
	f.leads[lead.ID] = lead
	return lead
}

func (f *fakeStore) addPending() repository.Duplicate {
	dup := repository.Duplicate{
		ID:              uuid.New(),
		LeadID:          f.addLead().ID,
		CanonicalLeadID: f.addLead().ID,
		Status:          domain.DuplicateStatusPending,
		CreatedAt:       time.Now(),
	}
	f.duplicates[dup.ID] = dup
	return dup
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	return lead, nil
}

func (f *fakeStore) GetByPhone(_ context.Context, _ string) (repository.Lead, error) {
	return repository.Lead{}, repository.ErrNotFound
}

func (f *fakeStore) List(_ context.Context, _ repository.ListParams) ([]repository.Lead, int, error) {
	return nil, 0, nil
}

func (f *fakeStore) CreateDuplicate(_ context.Context, leadID, canonicalLeadID uuid.UUID) (repository.Duplicate, error) {
	dup := repository.Duplicate{
		ID:              uuid.New(),
		LeadID:          leadID,
		CanonicalLeadID: canonicalLeadID,
		Status:          domain.DuplicateStatusPending,
		CreatedAt:       time.Now(),
	}
	f.duplicates[dup.ID] = dup
	return dup, nil
}

func (f *fakeStore) GetDuplicateByID(_ context.Context, id uuid.UUID) (repository.Duplicate, error) {
	dup, ok := f.duplicates[id]
	if !ok {
		return repository.Duplicate{}, repository.ErrDuplicateNotFound
	}
	return dup, nil
}

func (f *fakeStore) ListDuplicates(_ context.Context, params repository.ListDuplicatesParams) ([]repository.Duplicate, int, error) {
	dups := make([]repository.Duplicate, 0, len(f.duplicates))
	for _, dup := range f.duplicates {
		if params.Status != "" && dup.Status != params.Status {
			continue
		}
		dups = append(dups, dup)
	}
	return dups, len(dups), nil
}

func (f *fakeStore) resolve(id uuid.UUID, status string, resolvedBy uuid.UUID) (repository.Duplicate, error) {
	if f.resolveHook != nil {
		hook := f.resolveHook
		f.resolveHook = nil
		hook()
	}
	dup, ok := f.duplicates[id]
	if !ok || dup.Status != domain.DuplicateStatusPending {
		return repository.Duplicate{}, repository.ErrDuplicateNotFound
	}
	now := time.Now()
	dup.Status = status
	dup.ResolvedByID = &resolvedBy
	dup.ResolvedAt = &now
	f.duplicates[id] = dup
	return dup, nil
}

func (f *fakeStore) MarkMerged(_ context.Context, id uuid.UUID, resolvedBy uuid.UUID) (repository.Duplicate, error) {
	return f.resolve(id, domain.DuplicateStatusMerged, resolvedBy)
}

func (f *fakeStore) MarkIgnored(_ context.Context, id uuid.UUID, resolvedBy uuid.UUID) (repository.Duplicate, error) {
	return f.resolve(id, domain.DuplicateStatusIgnored, resolvedBy)
}

func newTestService(store *fakeStore) *Service {
	return New(store, events.NewInMemoryBus(nil))
}

func TestMergePendingDuplicate(t *testing.T) {
	store := newFakeStore()
	dup := store.addPending()
	svc := newTestService(store)
	actor := uuid.New()

	resp, err := svc.Merge(context.Background(), dup.ID, &actor)
	if err != nil {
		t.Fatalf("Merge returned error: %v", err)
	}
	if resp.Status != domain.DuplicateStatusMerged {
		t.Errorf("Status = %q, want %q", resp.Status, domain.DuplicateStatusMerged)
	}
	if resp.ResolvedByID == nil || *resp.ResolvedByID != actor {
		t.Errorf("ResolvedByID = %v, want %v", resp.ResolvedByID, actor)
	}
	if resp.ResolvedAt == nil {
		t.Error("ResolvedAt was not set")
	}
}

func TestMergeTwiceIsIdempotent(t *testing.T) {
	store := newFakeStore()
	dup := store.addPending()
	svc := newTestService(store)
	actor := uuid.New()

	first, err := svc.Merge(context.Background(), dup.ID, &actor)
	if err != nil {
		t.Fatalf("first Merge returned error: %v", err)
	}

	other := uuid.New()
	second, err := svc.Merge(context.Background(), dup.ID, &other)
	if err != nil {
		t.Fatalf("repeated Merge returned error: %v", err)
	}
	if second.Status != domain.DuplicateStatusMerged {
		t.Errorf("Status = %q, want %q", second.Status, domain.DuplicateStatusMerged)
	}
	if second.ResolvedByID == nil || *second.ResolvedByID != *first.ResolvedByID {
		t.Errorf("repeated Merge changed the resolver: %v, want %v", second.ResolvedByID, first.ResolvedByID)
	}
}

func TestMergeIgnoredDuplicateRejected(t *testing.T) {
	store := newFakeStore()
	dup := store.addPending()
	svc := newTestService(store)
	actor := uuid.New()

	if _, err := svc.Ignore(context.Background(), dup.ID, &actor); err != nil {
		t.Fatalf("Ignore returned error: %v", err)
	}

	_, err := svc.Merge(context.Background(), dup.ID, &actor)
	if !apperr.Is(err, apperr.KindInvalidState) {
		t.Fatalf("expected invalid state error, got %v", err)
	}
}

func TestIgnoreMergedDuplicateRejected(t *testing.T) {
	store := newFakeStore()
	dup := store.addPending()
	svc := newTestService(store)
	actor := uuid.New()

	if _, err := svc.Merge(context.Background(), dup.ID, &actor); err != nil {
		t.Fatalf("Merge returned error: %v", err)
	}

	_, err := svc.Ignore(context.Background(), dup.ID, &actor)
	if !apperr.Is(err, apperr.KindInvalidState) {
		t.Fatalf("expected invalid state error, got %v", err)
	}
}

func TestIgnoreTwiceIsIdempotent(t *testing.T) {
	store := newFakeStore()
	dup := store.addPending()
	svc := newTestService(store)
	actor := uuid.New()

	if _, err := svc.Ignore(context.Background(), dup.ID, &actor); err != nil {
		t.Fatalf("first Ignore returned error: %v", err)
	}
	resp, err := svc.Ignore(context.Background(), dup.ID, &actor)
	if err != nil {
		t.Fatalf("repeated Ignore returned error: %v", err)
	}
	if resp.Status != domain.DuplicateStatusIgnored {
		t.Errorf("Status = %q, want %q", resp.Status, domain.DuplicateStatusIgnored)
	}
}

func TestMergeLosingRaceReportsWinnerState(t *testing.T) {
	store := newFakeStore()
	dup := store.addPending()
	svc := newTestService(store)
	actor := uuid.New()
	rival := uuid.New()

	// Another resolution lands between the state check and the store update.
	store.resolveHook = func() {
		winner := store.duplicates[dup.ID]
		now := time.Now()
		winner.Status = domain.DuplicateStatusIgnored
		winner.ResolvedByID = &rival
		winner.ResolvedAt = &now
		store.duplicates[dup.ID] = winner
	}

	_, err := svc.Merge(context.Background(), dup.ID, &actor)
	if !apperr.Is(err, apperr.KindInvalidState) {
		t.Fatalf("expected invalid state error after losing the race, got %v", err)
	}
}

func TestMergeUnknownDuplicate(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, err := svc.Merge(context.Background(), uuid.New(), nil)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestListRejectsUnknownStatus(t *testing.T) {
	svc := newTestService(newFakeStore())

	_, err := svc.List(context.Background(), "archivado", "", 20, 0)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListFiltersByStatus(t *testing.T) {
	store := newFakeStore()
	pending := store.addPending()
	resolved := store.addPending()
	if _, err := store.MarkIgnored(context.Background(), resolved.ID, uuid.New()); err != nil {
		t.Fatalf("MarkIgnored returned error: %v", err)
	}
	svc := newTestService(store)

	resp, err := svc.List(context.Background(), domain.DuplicateStatusPending, "", 20, 0)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if resp.Total != 1 || len(resp.Items) != 1 {
		t.Fatalf("Total = %d, Items = %d, want 1 pending record", resp.Total, len(resp.Items))
	}
	if resp.Items[0].ID != pending.ID {
		t.Errorf("Items[0].ID = %v, want %v", resp.Items[0].ID, pending.ID)
	}
}
