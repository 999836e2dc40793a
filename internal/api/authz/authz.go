package authz

import (
	"context"
	"errors"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

// User type IDs as stored in users.user_type_id.
const (
	RoleAdminMaster  int64 = 1
	RoleAdminEventos int64 = 2
	RoleAdminTimes   int64 = 3
	RoleUsuarioComum int64 = 4
)

type AuthUser struct {
	ID         int64
	Name       string
	UserTypeID int64
}

type userContextKey struct{}

func ContextWithUser(ctx context.Context, user *AuthUser) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext retrieves the AuthUser stored in ctx.
// It returns nil if ctx is nil, if no user is stored, or if the stored value
// has a different type.
func UserFromContext(ctx context.Context) *AuthUser {
	if ctx == nil {
		return nil
	}

	user, ok := ctx.Value(userContextKey{}).(*AuthUser)
	if !ok {
		return nil
	}

	return user
}

// RequireUser returns the authenticated user or ErrUnauthenticated.
func RequireUser(ctx context.Context) (*AuthUser, error) {
	user := UserFromContext(ctx)
	if user == nil {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// IsAdminMaster reports whether the user holds the admin-master role.
func IsAdminMaster(user *AuthUser) bool {
	return user != nil && user.UserTypeID == RoleAdminMaster
}

// CanOrganize reports whether the user may create matches and championships.
func CanOrganize(user *AuthUser) bool {
	if user == nil {
		return false
	}
	return user.UserTypeID == RoleAdminMaster || user.UserTypeID == RoleAdminEventos
}

// CanManageMatch is the owner-or-admin dual check used by finalization,
// punishment, card, and forced-removal operations: the organizer of record
// may act on their own match, admin-master may act on any.
func CanManageMatch(user *AuthUser, organizerID int64) bool {
	if user == nil {
		return false
	}
	return user.ID == organizerID || user.UserTypeID == RoleAdminMaster
}

// CanManageTeam reports whether the user may act for the given team: its
// captain, or admin-master.
func CanManageTeam(user *AuthUser, captainID int64) bool {
	if user == nil {
		return false
	}
	return user.ID == captainID || user.UserTypeID == RoleAdminMaster
}
