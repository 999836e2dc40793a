package auth

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/tfarias/rachao/internal/api/apiutil"
	"github.com/tfarias/rachao/internal/api/authz"
	appdb "github.com/tfarias/rachao/internal/db"
	dbgen "github.com/tfarias/rachao/internal/db/generated"
)

// Login attempts share one limiter; auth endpoints are the obvious brute
// force target.
var limiter = rate.NewLimiter(rate.Limit(10), 20)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	UserTypeID int64  `json:"userTypeId"`
}

// POST /api/v1/auth/login
func HandleLogin(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if queries == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if !limiter.Allow() {
		apiutil.WriteError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many login attempts")
		return
	}

	var req loginRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", "email and password are required")
		return
	}

	user, err := queries.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
			return
		}
		logger.Error().Err(err).Msg("Failed to look up user for login")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if !VerifyPassword(user.PasswordHash, req.Password) {
		logger.Warn().Int64("user_id", user.ID).Msg("Login rejected: bad password")
		apiutil.WriteError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
		return
	}

	if err := CreateSession(w, r, user.ID); err != nil {
		logger.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to create session")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	logger.Info().Int64("user_id", user.ID).Msg("User logged in")
	_ = apiutil.WriteJSON(w, http.StatusOK, userResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		UserTypeID: user.UserTypeID,
	})
}

// POST /api/v1/auth/logout
func HandleLogout(w http.ResponseWriter, r *http.Request) {
	ClearSession(w, r)
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/v1/auth/register
func HandleRegister(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if queries == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if !limiter.Allow() {
		apiutil.WriteError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many registration attempts")
		return
	}

	var req registerRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	switch {
	case req.Name == "":
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", "name is required")
		return
	case req.Email == "" || !strings.Contains(req.Email, "@"):
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", "a valid email is required")
		return
	case len(req.Password) < 8:
		apiutil.WriteError(w, http.StatusBadRequest, "VALIDATION", "password must be at least 8 characters")
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to hash password")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	user, err := queries.CreateUser(r.Context(), dbgen.CreateUserParams{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		UserTypeID:   authz.RoleUsuarioComum,
	})
	if err != nil {
		if appdb.IsUniqueViolation(err) {
			apiutil.WriteError(w, http.StatusConflict, "EMAIL_TAKEN", "email is already registered")
			return
		}
		logger.Error().Err(err).Msg("Failed to create user")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	logger.Info().Int64("user_id", user.ID).Msg("User registered")
	_ = apiutil.WriteJSON(w, http.StatusCreated, userResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		UserTypeID: user.UserTypeID,
	})
}
