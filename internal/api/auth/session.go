package auth

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/tfarias/rachao/internal/api/authz"
	"github.com/tfarias/rachao/internal/config"
	appdb "github.com/tfarias/rachao/internal/db"
	dbgen "github.com/tfarias/rachao/internal/db/generated"
)

const (
	sessionCookieName = "rachao_session"
	sessionTTL        = 8 * time.Hour
	sessionTokenBytes = 32
)

var (
	queries   *dbgen.Queries
	store     *appdb.DB
	appConfig *config.Config
	initOnce  sync.Once
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(database *appdb.DB, cfg *config.Config) {
	if database == nil {
		return
	}
	initOnce.Do(func() {
		queries = database.Queries
		store = database
		appConfig = cfg
	})
}

func isSecureCookie() bool {
	return appConfig == nil || appConfig.App.Environment != "development"
}

// CreateSession opens a database-backed session for the user and sets the
// session cookie. Any previous sessions of the user are revoked.
func CreateSession(w http.ResponseWriter, r *http.Request, userID int64) error {
	if w == nil || r == nil {
		return errors.New("session requires request and response writer")
	}
	if queries == nil {
		return errors.New("auth queries not initialized")
	}

	token, err := newSessionToken()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(sessionTTL)
	err = store.RunInTx(r.Context(), func(txdb *appdb.DB) error {
		if _, err := txdb.Queries.DeleteAuthSessionsForUser(r.Context(), userID); err != nil {
			return err
		}
		_, err := txdb.Queries.CreateAuthSession(r.Context(), dbgen.CreateAuthSessionParams{
			Token:     token,
			UserID:    userID,
			ExpiresAt: expiresAt,
		})
		return err
	})
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecureCookie(),
		SameSite: http.SameSiteLaxMode,
		Expires:  expiresAt,
		MaxAge:   int(sessionTTL.Seconds()),
	})

	return nil
}

func ClearSession(w http.ResponseWriter, r *http.Request) {
	if r == nil {
		ClearSessionCookie(w)
		return
	}

	cookie, err := r.Cookie(sessionCookieName)
	if err == nil && queries != nil {
		_, _ = queries.DeleteAuthSession(r.Context(), cookie.Value)
	}

	ClearSessionCookie(w)
}

func ClearSessionCookie(w http.ResponseWriter) {
	if w == nil {
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecureCookie(),
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
}

// UserFromRequest resolves the session cookie or bearer token to an
// authenticated user. A missing or expired session yields (nil, nil); a stale
// cookie is cleared on the way out.
func UserFromRequest(w http.ResponseWriter, r *http.Request) (*authz.AuthUser, error) {
	if r == nil {
		return nil, nil
	}
	if queries == nil {
		return nil, errors.New("auth queries not initialized")
	}

	token := bearerToken(r)
	if token == "" {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil {
			if errors.Is(err, http.ErrNoCookie) {
				return nil, nil
			}
			return nil, err
		}
		token = cookie.Value
	}

	session, err := queries.GetAuthSession(r.Context(), token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			ClearSessionCookie(w)
			return nil, nil
		}
		return nil, err
	}
	if session.ExpiresAt.Before(time.Now()) {
		_, _ = queries.DeleteAuthSession(r.Context(), session.Token)
		ClearSessionCookie(w)
		return nil, nil
	}

	user, err := queries.GetUserByID(r.Context(), session.UserID)
	if err != nil {
		_, _ = queries.DeleteAuthSession(r.Context(), session.Token)
		ClearSessionCookie(w)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &authz.AuthUser{
		ID:         user.ID,
		Name:       user.Name,
		UserTypeID: user.UserTypeID,
	}, nil
}

// PruneExpiredSessions removes sessions past their expiry. The scheduler
// calls it periodically.
func PruneExpiredSessions(ctx context.Context) (int64, error) {
	if queries == nil {
		return 0, errors.New("auth queries not initialized")
	}
	return queries.DeleteExpiredAuthSessions(ctx, time.Now())
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

func newSessionToken() (string, error) {
	token := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(token); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(token), nil
}
