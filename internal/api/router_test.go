package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/accessdesk/user-directory/internal/api/handler"
	"github.com/accessdesk/user-directory/internal/core/service"
	"github.com/accessdesk/user-directory/internal/infrastructure/db/memory"
	"github.com/accessdesk/user-directory/internal/infrastructure/password"
)

const seedPassword = "seed-pass"

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func newTestServer(t *testing.T, readiness map[string]handler.Pinger) *echo.Echo {
	t.Helper()
	log := zerolog.Nop()

	hasher, err := password.New(password.Options{Algorithm: password.AlgorithmBcrypt, BcryptCost: bcrypt.MinCost})
	if err != nil {
		t.Fatalf("hasher: %v", err)
	}

	roleRepo := memory.NewRoleStore()
	roles := service.NewRoleService(roleRepo, log)
	users := service.NewUserService(memory.NewUserStore(), roles, hasher, log)
	auth := service.NewAuthService(users, hasher, memory.NewRevocations(), service.AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	}, log)

	if err := service.Bootstrap(context.Background(), roleRepo, users, service.SeedOptions{Password: seedPassword}, log); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	return NewRouter(Dependencies{Users: users, Roles: roles, Auth: auth, Readiness: readiness, Log: log})
}

func do(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, e *echo.Echo, email, pw string) (token, destination string) {
	t.Helper()
	rec := do(e, http.MethodPost, "/auth/login", "", `{"email":"`+email+`","password":"`+pw+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d: %s", email, rec.Code, rec.Body.String())
	}
	var resp struct {
		Token       string `json:"token"`
		Destination string `json:"destination"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp.Token, resp.Destination
}

func TestRouter_LoginDestinations(t *testing.T) {
	e := newTestServer(t, nil)

	if _, dest := login(t, e, "admin@example.com", seedPassword); dest != "/admin" {
		t.Fatalf("admin should land on /admin, got %q", dest)
	}
	if _, dest := login(t, e, "user@example.com", seedPassword); dest != "/user" {
		t.Fatalf("user should land on /user, got %q", dest)
	}
}

func TestRouter_LoginRejectionsLookAlike(t *testing.T) {
	e := newTestServer(t, nil)

	wrong := do(e, http.MethodPost, "/auth/login", "", `{"email":"admin@example.com","password":"nope"}`)
	unknown := do(e, http.MethodPost, "/auth/login", "", `{"email":"ghost@example.com","password":"nope"}`)

	if wrong.Code != http.StatusUnauthorized || unknown.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", wrong.Code, unknown.Code)
	}
	if wrong.Body.String() != unknown.Body.String() {
		t.Fatalf("rejection bodies differ: %q vs %q", wrong.Body.String(), unknown.Body.String())
	}
}

func TestRouter_RoleGating(t *testing.T) {
	e := newTestServer(t, nil)
	adminToken, _ := login(t, e, "admin@example.com", seedPassword)
	userToken, _ := login(t, e, "user@example.com", seedPassword)

	tests := []struct {
		path  string
		token string
		want  int
	}{
		{"/admin", "", http.StatusUnauthorized},
		{"/admin", userToken, http.StatusForbidden},
		{"/admin", adminToken, http.StatusOK},
		{"/user", "", http.StatusUnauthorized},
		{"/user", userToken, http.StatusOK},
		{"/user", adminToken, http.StatusOK},
		{"/api/admin/users", userToken, http.StatusForbidden},
		{"/api/admin/users", adminToken, http.StatusOK},
		{"/api/user/info", userToken, http.StatusOK},
		{"/api/user/info", "garbage", http.StatusUnauthorized},
		{"/", "", http.StatusOK},
	}

	for _, tt := range tests {
		rec := do(e, http.MethodGet, tt.path, tt.token, "")
		if rec.Code != tt.want {
			t.Fatalf("GET %s: expected %d, got %d: %s", tt.path, tt.want, rec.Code, rec.Body.String())
		}
	}
}

func TestRouter_AdminUserLifecycle(t *testing.T) {
	e := newTestServer(t, nil)
	token, _ := login(t, e, "admin@example.com", seedPassword)

	rec := do(e, http.MethodPost, "/api/admin/users", token,
		`{"first_name":"Grace","last_name":"Hopper","age":85,"email":"grace@example.com","password":"cobol"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		ID       string   `json:"id"`
		Roles    []string `json:"roles"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &created)
	if created.ID == "" || len(created.Roles) != 1 || created.Roles[0] != "USER" {
		t.Fatalf("unexpected created user: %s", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("response leaks credential material: %s", rec.Body.String())
	}

	rec = do(e, http.MethodPost, "/api/admin/users", token,
		`{"first_name":"Other","email":"grace@example.com","password":"x"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate: expected 409, got %d", rec.Code)
	}

	rec = do(e, http.MethodPost, "/api/admin/users", token,
		`{"first_name":"Frac","email":"frac@example.com","password":"x","age":4.5}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("fractional age: expected 400, got %d", rec.Code)
	}

	rec = do(e, http.MethodPost, "/api/admin/users", token,
		`{"first_name":"Bad","email":"bad@example.com","password":"x","roles":["AUDITOR"]}`)
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "AUDITOR") ||
		!strings.Contains(rec.Body.String(), `"field":"roles"`) {
		t.Fatalf("unknown role: expected 404 naming the role, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodPut, "/api/admin/users/"+created.ID, token, `{"roles":[],"last_name":""}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var updated struct {
		FirstName string   `json:"first_name"`
		LastName  string   `json:"last_name"`
		Roles     []string `json:"roles"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &updated)
	if updated.FirstName != "Grace" || updated.LastName != "" || len(updated.Roles) != 0 {
		t.Fatalf("unexpected update result: %s", rec.Body.String())
	}

	rec = do(e, http.MethodGet, "/api/admin/users/exists?email=grace@example.com", token, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"exists":true`) {
		t.Fatalf("exists: got %d %s", rec.Code, rec.Body.String())
	}

	if rec = do(e, http.MethodDelete, "/api/admin/users/"+created.ID, token, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rec.Code)
	}
	if rec = do(e, http.MethodDelete, "/api/admin/users/"+created.ID, token, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", rec.Code)
	}
}

func TestRouter_PasswordByteLimit(t *testing.T) {
	e := newTestServer(t, nil)
	token, _ := login(t, e, "admin@example.com", seedPassword)

	long := strings.Repeat("é", 60)
	rec := do(e, http.MethodPost, "/api/admin/users", token,
		`{"first_name":"Long","email":"long@example.com","password":"`+long+`"}`)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), `"field":"password"`) {
		t.Fatalf("create: expected 400 on password, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodPost, "/api/admin/users", token,
		`{"first_name":"Short","email":"short@example.com","password":"ok"}`)
	var created struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &created)

	rec = do(e, http.MethodPut, "/api/admin/users/"+created.ID, token, `{"password":"`+long+`"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("update: expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_DeletedUserTokenRejected(t *testing.T) {
	e := newTestServer(t, nil)
	adminToken, _ := login(t, e, "admin@example.com", seedPassword)

	rec := do(e, http.MethodPost, "/api/admin/users", adminToken,
		`{"first_name":"Temp","email":"temp@example.com","password":"temp-pass"}`)
	var created struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &created)

	token, _ := login(t, e, "temp@example.com", "temp-pass")
	if rec := do(e, http.MethodGet, "/api/user/info", token, ""); rec.Code != http.StatusOK {
		t.Fatalf("info: expected 200, got %d", rec.Code)
	}

	if rec := do(e, http.MethodDelete, "/api/admin/users/"+created.ID, adminToken, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/api/user/info", token, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("deleted account: expected 401, got %d", rec.Code)
	}
}

func TestRouter_LogoutRevokesToken(t *testing.T) {
	e := newTestServer(t, nil)
	token, _ := login(t, e, "user@example.com", seedPassword)

	if rec := do(e, http.MethodPost, "/auth/logout", token, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("logout: expected 204, got %d", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/api/user/info", token, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token: expected 401, got %d", rec.Code)
	}
}

func TestRouter_Health(t *testing.T) {
	e := newTestServer(t, map[string]handler.Pinger{
		"store": stubPinger{},
		"redis": stubPinger{err: errors.New("connection refused")},
	})

	if rec := do(e, http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("liveness: expected 200, got %d", rec.Code)
	}
	rec := do(e, http.MethodGet, "/health/ready", "", "")
	if rec.Code != http.StatusServiceUnavailable || !strings.Contains(rec.Body.String(), "connection refused") {
		t.Fatalf("readiness: expected 503, got %d: %s", rec.Code, rec.Body.String())
	}
}
