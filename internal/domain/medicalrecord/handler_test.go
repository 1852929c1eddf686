package medicalrecord

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/caretrack/caretrack/internal/platform/auth"
	"github.com/caretrack/caretrack/pkg/pagination"
)

type fakeRepo struct {
	byID map[uuid.UUID]*MedicalRecord
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[uuid.UUID]*MedicalRecord{}}
}

func (f *fakeRepo) Create(_ context.Context, rec *MedicalRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
	f.byID[rec.ID] = rec
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*MedicalRecord, error) {
	rec, ok := f.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec, nil
}

func (f *fakeRepo) List(_ context.Context, filter Filter, limit, offset int) ([]*MedicalRecord, int, error) {
	var recs []*MedicalRecord
	for _, rec := range f.byID {
		if filter.PatientID != nil && rec.PatientID != *filter.PatientID {
			continue
		}
		if filter.RecordType != "" && rec.RecordType != filter.RecordType {
			continue
		}
		recs = append(recs, rec)
	}
	return recs, len(recs), nil
}

type fakeDirectory struct {
	ownerByProfile map[uuid.UUID]uuid.UUID
	profileByUser  map[uuid.UUID]uuid.UUID
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		ownerByProfile: map[uuid.UUID]uuid.UUID{},
		profileByUser:  map[uuid.UUID]uuid.UUID{},
	}
}

func (f *fakeDirectory) add(userID uuid.UUID) uuid.UUID {
	profileID := uuid.New()
	f.ownerByProfile[profileID] = userID
	f.profileByUser[userID] = profileID
	return profileID
}

func (f *fakeDirectory) OwnerUserID(_ context.Context, profileID uuid.UUID) (uuid.UUID, error) {
	owner, ok := f.ownerByProfile[profileID]
	if !ok {
		return uuid.Nil, ErrNotFound
	}
	return owner, nil
}

func (f *fakeDirectory) ProfileIDForUser(_ context.Context, userID uuid.UUID) (uuid.UUID, error) {
	profileID, ok := f.profileByUser[userID]
	if !ok {
		return uuid.Nil, ErrNotFound
	}
	return profileID, nil
}

type fixture struct {
	e     *echo.Echo
	codec *auth.Codec
	svc   *Service

	aliceUser, bobUser, carolUser uuid.UUID
	alice, bob                    uuid.UUID // patient profiles
	carol                         uuid.UUID // doctor profile
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	patients := newFakeDirectory()
	doctors := newFakeDirectory()

	f := &fixture{
		aliceUser: uuid.New(),
		bobUser:   uuid.New(),
		carolUser: uuid.New(),
	}
	f.alice = patients.add(f.aliceUser)
	f.bob = patients.add(f.bobUser)
	f.carol = doctors.add(f.carolUser)

	f.codec = auth.NewCodec(auth.CodecConfig{
		Secret:          "record-test-secret",
		AccessTokenTTL:  30 * time.Minute,
		RefreshTokenTTL: 168 * time.Hour,
	})
	f.svc = NewService(newFakeRepo(), patients, doctors)
	h := NewHandler(f.svc)

	f.e = echo.New()
	api := f.e.Group("", auth.Authenticate(f.codec, zerolog.Nop()))
	h.RegisterRoutes(api)
	return f
}

func (f *fixture) token(t *testing.T, userID uuid.UUID, role auth.Role) string {
	t.Helper()
	tok, err := f.codec.Encode(userID, role, auth.TokenTypeAccess)
	if err != nil {
		t.Fatalf("encode token: %v", err)
	}
	return tok
}

func (f *fixture) seed(t *testing.T, patientID uuid.UUID, recordType string) *MedicalRecord {
	t.Helper()
	rec, err := f.svc.Create(context.Background(), CreateRequest{
		PatientID:  patientID,
		DoctorID:   &f.carol,
		RecordType: recordType,
		Title:      "Visit summary",
	})
	if err != nil {
		t.Fatalf("seed record: %v", err)
	}
	return rec
}

func (f *fixture) do(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func TestRecordCreateRoles(t *testing.T) {
	f := newFixture(t)
	body := `{"patient_id":"` + f.alice.String() + `","record_type":"lab_result","title":"CBC panel"}`

	if rec := f.do(http.MethodPost, "/medical-records", body, f.token(t, f.carolUser, auth.RoleDoctor)); rec.Code != http.StatusCreated {
		t.Errorf("doctor create: status = %d (body %s)", rec.Code, rec.Body.String())
	}
	if rec := f.do(http.MethodPost, "/medical-records", body, f.token(t, uuid.New(), auth.RoleAdmin)); rec.Code != http.StatusCreated {
		t.Errorf("admin create: status = %d", rec.Code)
	}
	if rec := f.do(http.MethodPost, "/medical-records", body, f.token(t, f.aliceUser, auth.RolePatient)); rec.Code != http.StatusForbidden {
		t.Errorf("patient create: status = %d, want 403", rec.Code)
	}
}

func TestDoctorAuthorsOwnRecords(t *testing.T) {
	f := newFixture(t)

	// The body names no doctor; the author comes from the caller's
	// profile.
	body := `{"patient_id":"` + f.alice.String() + `","record_type":"prescription","title":"Amoxicillin"}`
	rec := f.do(http.MethodPost, "/medical-records", body, f.token(t, f.carolUser, auth.RoleDoctor))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created MedicalRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.DoctorID == nil || *created.DoctorID != f.carol {
		t.Errorf("doctor_id = %v, want authoring doctor %s", created.DoctorID, f.carol)
	}
}

func TestRecordListScope(t *testing.T) {
	f := newFixture(t)
	f.seed(t, f.alice, "lab_result")
	f.seed(t, f.alice, "prescription")
	f.seed(t, f.bob, "lab_result")

	// Patients are pinned to their own chart even with a foreign filter.
	rec := f.do(http.MethodGet, "/medical-records?patient_id="+f.bob.String(), "", f.token(t, f.aliceUser, auth.RolePatient))
	if rec.Code != http.StatusOK {
		t.Fatalf("patient list: status = %d", rec.Code)
	}
	var resp pagination.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("alice sees %d records, want her own 2", resp.Total)
	}

	// Staff must name the chart they are reading.
	if rec := f.do(http.MethodGet, "/medical-records", "", f.token(t, f.carolUser, auth.RoleDoctor)); rec.Code != http.StatusBadRequest {
		t.Errorf("doctor list without patient_id: status = %d, want 400", rec.Code)
	}
	rec = f.do(http.MethodGet, "/medical-records?patient_id="+f.bob.String(), "", f.token(t, f.carolUser, auth.RoleDoctor))
	if rec.Code != http.StatusOK {
		t.Fatalf("doctor list: status = %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 {
		t.Errorf("doctor sees %d of bob's records, want 1", resp.Total)
	}
}

func TestRecordReadOwnership(t *testing.T) {
	f := newFixture(t)
	rec := f.seed(t, f.alice, "lab_result")

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"owning patient", f.token(t, f.aliceUser, auth.RolePatient), http.StatusOK},
		{"foreign patient", f.token(t, f.bobUser, auth.RolePatient), http.StatusForbidden},
		{"doctor", f.token(t, f.carolUser, auth.RoleDoctor), http.StatusOK},
		{"admin", f.token(t, uuid.New(), auth.RoleAdmin), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := f.do(http.MethodGet, "/medical-records/"+rec.ID.String(), "", tt.token)
			if r.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", r.Code, tt.want, r.Body.String())
			}
		})
	}
}
