package identity

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/caretrack/caretrack/internal/platform/auth"
)

// newTestServer wires the identity handler onto a real echo instance
// with the token middleware, backed by in-memory fakes.
func newTestServer(t *testing.T) (*echo.Echo, *Service) {
	t.Helper()

	svc, _, _ := testService()
	codec := auth.NewCodec(auth.CodecConfig{
		Secret:          "handler-test-secret",
		AccessTokenTTL:  30 * time.Minute,
		RefreshTokenTTL: 168 * time.Hour,
	})
	issuer := auth.NewIssuer(svc, codec, zerolog.Nop())
	h := NewHandler(svc, issuer)

	e := echo.New()
	public := e.Group("")
	api := e.Group("", auth.Authenticate(codec, zerolog.Nop()))
	h.RegisterRoutes(public, api)
	return e, svc
}

func doJSON(e *echo.Echo, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRegisterLoginFlow(t *testing.T) {
	e, _ := newTestServer(t)

	rec := doJSON(e, http.MethodPost, "/auth/register",
		`{"email":"alice@example.com","password":"password1","full_name":"Alice"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created User
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	if created.Role != auth.RolePatient {
		t.Errorf("registered role = %q, want patient", created.Role)
	}
	if strings.Contains(rec.Body.String(), "password_hash") {
		t.Error("response leaks password hash")
	}

	rec = doJSON(e, http.MethodPost, "/auth/login",
		`{"email":"alice@example.com","password":"password1"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}
	var pair auth.TokenPair
	if err := json.Unmarshal(rec.Body.Bytes(), &pair); err != nil {
		t.Fatalf("decode token pair: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("empty tokens in login response")
	}

	rec = doJSON(e, http.MethodGet, "/auth/whoami", "", pair.AccessToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("whoami status = %d, body %s", rec.Code, rec.Body.String())
	}
	var who map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &who); err != nil {
		t.Fatalf("decode whoami: %v", err)
	}
	if who["id"] != created.ID.String() || who["role"] != "patient" {
		t.Errorf("whoami = %v", who)
	}

	rec = doJSON(e, http.MethodGet, "/users/me", "", pair.AccessToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("users/me status = %d", rec.Code)
	}

	rec = doJSON(e, http.MethodPost, "/auth/refresh",
		`{"refresh_token":"`+pair.RefreshToken+`"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	e, _ := newTestServer(t)

	doJSON(e, http.MethodPost, "/auth/register",
		`{"email":"alice@example.com","password":"password1"}`, "")

	tests := []struct {
		name string
		body string
	}{
		{"wrong password", `{"email":"alice@example.com","password":"wrong-password"}`},
		{"unknown email", `{"email":"nobody@example.com","password":"password1"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(e, http.MethodPost, "/auth/login", tt.body, "")
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), auth.CodeInvalidCredentials) {
				t.Errorf("body %s missing code %s", rec.Body.String(), auth.CodeInvalidCredentials)
			}
		})
	}
}

func TestDuplicateRegistration(t *testing.T) {
	e, _ := newTestServer(t)

	body := `{"email":"dup@example.com","password":"password1"}`
	if rec := doJSON(e, http.MethodPost, "/auth/register", body, ""); rec.Code != http.StatusCreated {
		t.Fatalf("first register status = %d", rec.Code)
	}
	rec := doJSON(e, http.MethodPost, "/auth/register", body, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate register status = %d, want 400", rec.Code)
	}
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	e, _ := newTestServer(t)

	paths := []string{"/auth/whoami", "/users/me", "/users"}
	for _, path := range paths {
		rec := doJSON(e, http.MethodGet, path, "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token: status = %d, want 401", path, rec.Code)
		}
	}
}

func TestUserListIsAdminOnly(t *testing.T) {
	e, _ := newTestServer(t)

	doJSON(e, http.MethodPost, "/auth/register",
		`{"email":"alice@example.com","password":"password1"}`, "")
	rec := doJSON(e, http.MethodPost, "/auth/login",
		`{"email":"alice@example.com","password":"password1"}`, "")
	var pair auth.TokenPair
	if err := json.Unmarshal(rec.Body.Bytes(), &pair); err != nil {
		t.Fatalf("decode token pair: %v", err)
	}

	rec = doJSON(e, http.MethodGet, "/users", "", pair.AccessToken)
	if rec.Code != http.StatusForbidden {
		t.Errorf("patient listing users: status = %d, want 403", rec.Code)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	e, _ := newTestServer(t)

	doJSON(e, http.MethodPost, "/auth/register",
		`{"email":"alice@example.com","password":"password1"}`, "")
	rec := doJSON(e, http.MethodPost, "/auth/login",
		`{"email":"alice@example.com","password":"password1"}`, "")
	var pair auth.TokenPair
	if err := json.Unmarshal(rec.Body.Bytes(), &pair); err != nil {
		t.Fatalf("decode token pair: %v", err)
	}

	rec = doJSON(e, http.MethodPost, "/auth/refresh",
		`{"refresh_token":"`+pair.AccessToken+`"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("refresh with access token: status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), auth.CodeWrongTokenType) {
		t.Errorf("body %s missing code %s", rec.Body.String(), auth.CodeWrongTokenType)
	}
}
