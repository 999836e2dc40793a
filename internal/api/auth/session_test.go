package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tfarias/rachao/internal/api/authz"
	"github.com/tfarias/rachao/internal/config"
	appdb "github.com/tfarias/rachao/internal/db"
	dbgen "github.com/tfarias/rachao/internal/db/generated"
	"github.com/tfarias/rachao/internal/testutil"
)

// Tests rebind the package-level handles directly so each test gets a fresh
// database despite the sync.Once in InitHandlers.
func setupSessionTest(t *testing.T) *appdb.DB {
	t.Helper()
	database := testutil.NewTestDB(t)
	queries = database.Queries
	store = database
	appConfig = &config.Config{}
	appConfig.App.Environment = "development"
	return database
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookieName {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correto-cavalo-bateria")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "correto-cavalo-bateria" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !VerifyPassword(hash, "correto-cavalo-bateria") {
		t.Error("expected hash to verify against original password")
	}
	if VerifyPassword(hash, "senha-errada") {
		t.Error("expected wrong password to fail verification")
	}
}

func TestSessionLifecycle(t *testing.T) {
	database := setupSessionTest(t)
	userID := testutil.SeedUser(t, database, "ana", authz.RoleUsuarioComum)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	if err := CreateSession(w, r, userID); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	cookie := sessionCookie(t, w)
	if cookie.Value == "" {
		t.Fatal("expected non-empty session token")
	}

	// Cookie path.
	r = httptest.NewRequest(http.MethodGet, "/api/v1/matches", nil)
	r.AddCookie(cookie)
	user, err := UserFromRequest(httptest.NewRecorder(), r)
	if err != nil {
		t.Fatalf("UserFromRequest: %v", err)
	}
	if user == nil || user.ID != userID || user.Name != "ana" {
		t.Fatalf("unexpected user %+v", user)
	}

	// Bearer path.
	r = httptest.NewRequest(http.MethodGet, "/api/v1/matches", nil)
	r.Header.Set("Authorization", "Bearer "+cookie.Value)
	user, err = UserFromRequest(httptest.NewRecorder(), r)
	if err != nil {
		t.Fatalf("UserFromRequest bearer: %v", err)
	}
	if user == nil || user.ID != userID {
		t.Fatalf("unexpected bearer user %+v", user)
	}

	// Logout revokes the session.
	r = httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	r.AddCookie(cookie)
	ClearSession(httptest.NewRecorder(), r)

	r = httptest.NewRequest(http.MethodGet, "/api/v1/matches", nil)
	r.AddCookie(cookie)
	user, err = UserFromRequest(httptest.NewRecorder(), r)
	if err != nil {
		t.Fatalf("UserFromRequest after logout: %v", err)
	}
	if user != nil {
		t.Fatalf("expected revoked session to resolve to nil, got %+v", user)
	}
}

func TestCreateSessionRevokesPrevious(t *testing.T) {
	database := setupSessionTest(t)
	userID := testutil.SeedUser(t, database, "bruno", authz.RoleUsuarioComum)

	first := httptest.NewRecorder()
	if err := CreateSession(first, httptest.NewRequest(http.MethodPost, "/", nil), userID); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	firstCookie := sessionCookie(t, first)

	second := httptest.NewRecorder()
	if err := CreateSession(second, httptest.NewRequest(http.MethodPost, "/", nil), userID); err != nil {
		t.Fatalf("CreateSession again: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(firstCookie)
	user, err := UserFromRequest(httptest.NewRecorder(), r)
	if err != nil {
		t.Fatalf("UserFromRequest: %v", err)
	}
	if user != nil {
		t.Fatalf("expected first session to be revoked, got %+v", user)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(sessionCookie(t, second))
	user, err = UserFromRequest(httptest.NewRecorder(), r)
	if err != nil || user == nil {
		t.Fatalf("expected second session to resolve, got %+v err %v", user, err)
	}
}

func TestExpiredSessionIsPruned(t *testing.T) {
	database := setupSessionTest(t)
	userID := testutil.SeedUser(t, database, "carla", authz.RoleUsuarioComum)

	ctx := context.Background()
	_, err := queries.CreateAuthSession(ctx, dbgen.CreateAuthSessionParams{
		Token:     "expired-token",
		UserID:    userID,
		ExpiresAt: time.Now().Add(-time.Minute),
	})
	if err != nil {
		t.Fatalf("CreateAuthSession: %v", err)
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer expired-token")
	user, err := UserFromRequest(httptest.NewRecorder(), r)
	if err != nil {
		t.Fatalf("UserFromRequest: %v", err)
	}
	if user != nil {
		t.Fatalf("expected expired session to resolve to nil, got %+v", user)
	}

	_, err = queries.CreateAuthSession(ctx, dbgen.CreateAuthSessionParams{
		Token:     "stale-token",
		UserID:    userID,
		ExpiresAt: time.Now().Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateAuthSession: %v", err)
	}
	pruned, err := PruneExpiredSessions(ctx)
	if err != nil {
		t.Fatalf("PruneExpiredSessions: %v", err)
	}
	if pruned != 1 {
		t.Fatalf("expected 1 pruned session, got %d", pruned)
	}
}
