package management

import (
	"context"
	"testing"
	"time"

	"crm_backend/internal/leads/repository"
	"crm_backend/internal/leads/transport"
	"crm_backend/platform/apperr"
	"crm_backend/platform/events"

	"github.com/google/uuid"
)

type fakeRepo struct {
	leads      map[uuid.UUID]repository.Lead
	byPhone    map[string]uuid.UUID
	duplicates map[uuid.UUID]repository.Duplicate
	actions    []repository.Action
	reassignErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		leads:      make(map[uuid.UUID]repository.Lead),
		byPhone:    make(map[string]uuid.UUID),
		duplicates: make(map[uuid.UUID]repository.Duplicate),
	}
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	return lead, nil
}

func (f *fakeRepo) GetByPhone(_ context.Context, phone string) (repository.Lead, error) {
	id, ok := f.byPhone[phone]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	return f.leads[id], nil
}

func (f *fakeRepo) List(_ context.Context, _ repository.ListParams) ([]repository.Lead, int, error) {
	leads := make([]repository.Lead, 0, len(f.leads))
	for _, lead := range f.leads {
		leads = append(leads, lead)
	}
	return leads, len(leads), nil
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateLeadParams) (repository.Lead, error) {
	lead := repository.Lead{
		ID:                  uuid.New(),
		Name:                params.Name,
		Phone:               params.Phone,
		Email:               params.Email,
		Medium:              params.Medium,
		District:            params.District,
		Location:            params.Location,
		Classification:      params.Classification,
		Observation:         params.Observation,
		FieldObservation:    params.FieldObservation,
		Project:             params.Project,
		AdvisorID:           params.AdvisorID,
		CapturedByID:        params.CapturedByID,
		CaptureSupervisorID: params.CaptureSupervisorID,
		CaptureDate:         params.CaptureDate,
		CaptureSpot:         params.CaptureSpot,
		IsFieldLead:         params.IsFieldLead,
		IsDirectContact:     params.IsDirectContact,
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	}
	f.leads[lead.ID] = lead
	if _, taken := f.byPhone[lead.Phone]; !taken {
		f.byPhone[lead.Phone] = lead.ID
	}
	return lead, nil
}

func (f *fakeRepo) Update(_ context.Context, id uuid.UUID, params repository.UpdateLeadParams) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	lead.Name = params.Name
	lead.Phone = params.Phone
	lead.Email = params.Email
	lead.Medium = params.Medium
	lead.District = params.District
	lead.Location = params.Location
	lead.Classification = params.Classification
	lead.Observation = params.Observation
	lead.FieldObservation = params.FieldObservation
	lead.Project = params.Project
	lead.AdvisorID = params.AdvisorID
	lead.CapturedByID = params.CapturedByID
	lead.CaptureSupervisorID = params.CaptureSupervisorID
	lead.CaptureDate = params.CaptureDate
	lead.CaptureSpot = params.CaptureSpot
	lead.IsFieldLead = params.IsFieldLead
	lead.IsDirectContact = params.IsDirectContact
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeRepo) UpdateClassification(_ context.Context, id uuid.UUID, classification string) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	lead.Classification = classification
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.leads[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.leads, id)
	return nil
}

func (f *fakeRepo) Reassign(_ context.Context, leadIDs []uuid.UUID, advisorID uuid.UUID) (repository.ReassignOutcome, error) {
	if f.reassignErr != nil {
		return repository.ReassignOutcome{}, f.reassignErr
	}
	outcome := repository.ReassignOutcome{Updated: []uuid.UUID{}, Missing: []uuid.UUID{}}
	for _, id := range leadIDs {
		lead, ok := f.leads[id]
		if !ok {
			outcome.Missing = append(outcome.Missing, id)
			continue
		}
		lead.AdvisorID = &advisorID
		f.leads[id] = lead
		outcome.Updated = append(outcome.Updated, id)
	}
	return outcome, nil
}

func (f *fakeRepo) CreateDuplicate(_ context.Context, leadID, canonicalLeadID uuid.UUID) (repository.Duplicate, error) {
	dup := repository.Duplicate{
		ID:              uuid.New(),
		LeadID:          leadID,
		CanonicalLeadID: canonicalLeadID,
		Status:          "pendiente",
		CreatedAt:       time.Now(),
	}
	f.duplicates[dup.ID] = dup
	return dup, nil
}

func (f *fakeRepo) GetDuplicateByID(_ context.Context, id uuid.UUID) (repository.Duplicate, error) {
	dup, ok := f.duplicates[id]
	if !ok {
		return repository.Duplicate{}, repository.ErrDuplicateNotFound
	}
	return dup, nil
}

func (f *fakeRepo) ListDuplicates(_ context.Context, _ repository.ListDuplicatesParams) ([]repository.Duplicate, int, error) {
	dups := make([]repository.Duplicate, 0, len(f.duplicates))
	for _, dup := range f.duplicates {
		dups = append(dups, dup)
	}
	return dups, len(dups), nil
}

func (f *fakeRepo) MarkMerged(_ context.Context, id uuid.UUID, resolvedBy uuid.UUID) (repository.Duplicate, error) {
	dup, ok := f.duplicates[id]
	if !ok || dup.Status != "pendiente" {
		return repository.Duplicate{}, repository.ErrDuplicateNotFound
	}
	now := time.Now()
	dup.Status = "fusionado"
	dup.ResolvedByID = &resolvedBy
	dup.ResolvedAt = &now
	f.duplicates[id] = dup
	return dup, nil
}

func (f *fakeRepo) MarkIgnored(_ context.Context, id uuid.UUID, resolvedBy uuid.UUID) (repository.Duplicate, error) {
	dup, ok := f.duplicates[id]
	if !ok || dup.Status != "pendiente" {
		return repository.Duplicate{}, repository.ErrDuplicateNotFound
	}
	now := time.Now()
	dup.Status = "ignorado"
	dup.ResolvedByID = &resolvedBy
	dup.ResolvedAt = &now
	f.duplicates[id] = dup
	return dup, nil
}

func (f *fakeRepo) CreateAction(_ context.Context, params repository.CreateActionParams) (repository.Action, error) {
	action := repository.Action{
		ID:        uuid.New(),
		LeadID:    params.LeadID,
		UserID:    params.UserID,
		Kind:      params.Kind,
		Detail:    params.Detail,
		CreatedAt: time.Now(),
	}
	f.actions = append(f.actions, action)
	return action, nil
}

func (f *fakeRepo) ListActions(_ context.Context, leadID uuid.UUID) ([]repository.Action, error) {
	actions := make([]repository.Action, 0)
	for _, action := range f.actions {
		if action.LeadID == leadID {
			actions = append(actions, action)
		}
	}
	return actions, nil
}

type fakePersonnel struct {
	supervisors map[uuid.UUID]*uuid.UUID
}

func (f *fakePersonnel) SupervisorOf(_ context.Context, personnelID uuid.UUID) (*uuid.UUID, error) {
	supervisor, ok := f.supervisors[personnelID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return supervisor, nil
}

type fakeAdvisors struct {
	known map[uuid.UUID]bool
}

func (f *fakeAdvisors) AdvisorExists(_ context.Context, id uuid.UUID) (bool, error) {
	return f.known[id], nil
}

func newService(repo *fakeRepo, personnel *fakePersonnel, advisors *fakeAdvisors) *Service {
	if personnel == nil {
		personnel = &fakePersonnel{supervisors: map[uuid.UUID]*uuid.UUID{}}
	}
	if advisors == nil {
		advisors = &fakeAdvisors{known: map[uuid.UUID]bool{}}
	}
	return New(repo, personnel, advisors, events.NewInMemoryBus(nil))
}

func strPtr(s string) *string { return &s }

func validCreateRequest() transport.CreateLeadRequest {
	return transport.CreateLeadRequest{
		Name:           "Maria Quispe",
		Phone:          "987654321",
		Location:       strPtr("Lince"),
		Classification: "SEGUIMIENTO",
	}
}

func TestCreateRejectsInvalidDraftWithFieldMap(t *testing.T) {
	svc := newService(newFakeRepo(), nil, nil)

	req := validCreateRequest()
	req.Name = ""
	req.Phone = "98-76"

	_, err := svc.Create(context.Background(), req, nil)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	details, ok := err.(*apperr.Error).Details.(map[string]string)
	if !ok {
		t.Fatalf("expected field map details, got %T", err.(*apperr.Error).Details)
	}
	if details["nombre"] == "" || details["celular"] == "" {
		t.Fatalf("expected nombre and celular problems, got %v", details)
	}
}

func TestCreateDerivesSupervisorAndCaptureFlag(t *testing.T) {
	repo := newFakeRepo()
	personnelID := uuid.New()
	supervisorID := uuid.New()
	personnel := &fakePersonnel{supervisors: map[uuid.UUID]*uuid.UUID{personnelID: &supervisorID}}
	svc := newService(repo, personnel, nil)

	captured := time.Now()
	req := validCreateRequest()
	req.Medium = strPtr("OPC")
	req.CapturedByID = &personnelID
	req.CaptureDate = &captured
	req.CaptureSpot = strPtr("CALLE")
	req.Project = strPtr("OASIS 2 (AUCALLAMA)")
	req.Classification = ""

	resp, err := svc.Create(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if !resp.IsFieldLead {
		t.Error("expected es_lead_opc to be derived from the capture medium")
	}
	if resp.SupervisorID == nil || *resp.SupervisorID != supervisorID {
		t.Errorf("SupervisorID = %v, want %v", resp.SupervisorID, supervisorID)
	}
}

func TestCreateUnknownPersonnelRejected(t *testing.T) {
	svc := newService(newFakeRepo(), nil, nil)

	unknown := uuid.New()
	captured := time.Now()
	req := validCreateRequest()
	req.IsFieldLead = true
	req.CapturedByID = &unknown
	req.CaptureDate = &captured
	req.CaptureSpot = strPtr("MODULO")
	req.Project = strPtr("OASIS 2 (AUCALLAMA)")

	_, err := svc.Create(context.Background(), req, nil)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateOpensPendingDuplicateOnPhoneCollision(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo, nil, nil)

	first, err := svc.Create(context.Background(), validCreateRequest(), nil)
	if err != nil {
		t.Fatalf("first Create returned error: %v", err)
	}

	second := validCreateRequest()
	second.Name = "Otro Contacto"
	resp, err := svc.Create(context.Background(), second, nil)
	if err != nil {
		t.Fatalf("second Create returned error: %v", err)
	}

	if len(repo.duplicates) != 1 {
		t.Fatalf("expected 1 duplicate record, got %d", len(repo.duplicates))
	}
	for _, dup := range repo.duplicates {
		if dup.LeadID != resp.ID {
			t.Errorf("duplicate LeadID = %v, want %v", dup.LeadID, resp.ID)
		}
		if dup.CanonicalLeadID != first.ID {
			t.Errorf("duplicate CanonicalLeadID = %v, want %v", dup.CanonicalLeadID, first.ID)
		}
		if dup.Status != "pendiente" {
			t.Errorf("duplicate Status = %q, want pendiente", dup.Status)
		}
	}
}

func TestUpdatePreservesCaptureFieldsWhenMediumChanges(t *testing.T) {
	repo := newFakeRepo()
	personnelID := uuid.New()
	supervisorID := uuid.New()
	personnel := &fakePersonnel{supervisors: map[uuid.UUID]*uuid.UUID{personnelID: &supervisorID}}
	svc := newService(repo, personnel, nil)

	captured := time.Now()
	req := validCreateRequest()
	req.Medium = strPtr("OPC")
	req.CapturedByID = &personnelID
	req.CaptureDate = &captured
	req.CaptureSpot = strPtr("CALLE")
	req.Project = strPtr("OASIS 2 (AUCALLAMA)")

	created, err := svc.Create(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	update := transport.UpdateLeadRequest{
		Name:           created.Name,
		Phone:          created.Phone,
		Medium:         strPtr("Web"),
		Location:       created.Location,
		Classification: "SEGUIMIENTO",
	}
	updated, err := svc.Update(context.Background(), created.ID, update, nil)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if updated.CapturedByID == nil || *updated.CapturedByID != personnelID {
		t.Errorf("CapturedByID = %v, want %v", updated.CapturedByID, personnelID)
	}
	if updated.SupervisorID == nil || *updated.SupervisorID != supervisorID {
		t.Errorf("SupervisorID = %v, want %v", updated.SupervisorID, supervisorID)
	}
	if updated.CaptureDate == nil {
		t.Error("CaptureDate was cleared by a medium change")
	}
	if !updated.IsFieldLead {
		t.Error("IsFieldLead was cleared by a medium change")
	}
}

func TestUpdateFreezesCaptureFieldsOnceCaptured(t *testing.T) {
	repo := newFakeRepo()
	originalOPC := uuid.New()
	otherOPC := uuid.New()
	originalSupervisor := uuid.New()
	otherSupervisor := uuid.New()
	personnel := &fakePersonnel{supervisors: map[uuid.UUID]*uuid.UUID{
		originalOPC: &originalSupervisor,
		otherOPC:    &otherSupervisor,
	}}
	svc := newService(repo, personnel, nil)

	captured := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	req := validCreateRequest()
	req.Medium = strPtr("OPC")
	req.CapturedByID = &originalOPC
	req.CaptureDate = &captured
	req.CaptureSpot = strPtr("CALLE")
	req.Project = strPtr("OASIS 2 (AUCALLAMA)")

	created, err := svc.Create(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	laterDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	update := transport.UpdateLeadRequest{
		Name:           created.Name,
		Phone:          created.Phone,
		Medium:         strPtr("OPC"),
		Location:       strPtr("Los Olivos"),
		Classification: "SEGUIMIENTO",
		CapturedByID:   &otherOPC,
		CaptureDate:    &laterDate,
		CaptureSpot:    strPtr("MODULO"),
		Project:        strPtr("OASIS 2 (AUCALLAMA)"),
	}
	updated, err := svc.Update(context.Background(), created.ID, update, nil)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if updated.CapturedByID == nil || *updated.CapturedByID != originalOPC {
		t.Errorf("CapturedByID = %v, want original %v", updated.CapturedByID, originalOPC)
	}
	if updated.SupervisorID == nil || *updated.SupervisorID != originalSupervisor {
		t.Errorf("SupervisorID = %v, want original %v", updated.SupervisorID, originalSupervisor)
	}
	if updated.CaptureDate == nil || !updated.CaptureDate.Equal(captured) {
		t.Errorf("CaptureDate = %v, want original %v", updated.CaptureDate, captured)
	}
	if updated.CaptureSpot == nil || *updated.CaptureSpot != "CALLE" {
		t.Errorf("CaptureSpot = %v, want CALLE", updated.CaptureSpot)
	}
	if updated.Location == nil || *updated.Location != "Lince" {
		t.Errorf("Location = %v, want Lince", updated.Location)
	}
}

func TestReassignReportsPartialFailure(t *testing.T) {
	repo := newFakeRepo()
	advisorID := uuid.New()
	advisors := &fakeAdvisors{known: map[uuid.UUID]bool{advisorID: true}}
	svc := newService(repo, nil, advisors)

	existing, err := svc.Create(context.Background(), validCreateRequest(), nil)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	missing := uuid.New()

	resp, err := svc.Reassign(context.Background(), transport.ReassignRequest{
		LeadIDs:   []uuid.UUID{existing.ID, missing},
		AdvisorID: advisorID,
	}, nil)
	if err != nil {
		t.Fatalf("Reassign returned error: %v", err)
	}

	if len(resp.Updated) != 1 || resp.Updated[0] != existing.ID {
		t.Errorf("Updated = %v, want [%v]", resp.Updated, existing.ID)
	}
	if len(resp.Failed) != 1 || resp.Failed[0].LeadID != missing {
		t.Fatalf("Failed = %v, want one entry for %v", resp.Failed, missing)
	}

	lead := repo.leads[existing.ID]
	if lead.AdvisorID == nil || *lead.AdvisorID != advisorID {
		t.Errorf("existing lead advisor = %v, want %v", lead.AdvisorID, advisorID)
	}
}

func TestReassignUnknownAdvisorRejected(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo, nil, nil)

	_, err := svc.Reassign(context.Background(), transport.ReassignRequest{
		LeadIDs:   []uuid.UUID{uuid.New()},
		AdvisorID: uuid.New(),
	}, nil)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestReassignEmptySelectionRejected(t *testing.T) {
	svc := newService(newFakeRepo(), nil, nil)

	_, err := svc.Reassign(context.Background(), transport.ReassignRequest{AdvisorID: uuid.New()}, nil)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestReassignStoreFailurePropagates(t *testing.T) {
	repo := newFakeRepo()
	repo.reassignErr = context.DeadlineExceeded
	advisorID := uuid.New()
	advisors := &fakeAdvisors{known: map[uuid.UUID]bool{advisorID: true}}
	svc := newService(repo, nil, advisors)

	_, err := svc.Reassign(context.Background(), transport.ReassignRequest{
		LeadIDs:   []uuid.UUID{uuid.New()},
		AdvisorID: advisorID,
	}, nil)
	if err == nil {
		t.Fatal("expected store failure to propagate")
	}
	if apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("store failure must not be reported as validation: %v", err)
	}
}
