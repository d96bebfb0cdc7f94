package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/admitdesk/admission-api/internal/models"
	"github.com/admitdesk/admission-api/internal/store"
	appErrors "github.com/admitdesk/admission-api/pkg/errors"
)

// UserService manages user accounts and role capability checks.
type UserService struct {
	store  entityStore
	logger *zap.Logger
}

// NewUserService constructs a UserService instance.
func NewUserService(st entityStore, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{store: st, logger: logger}
}

// List returns all accounts without credentials.
func (s *UserService) List(ctx context.Context) []models.UserInfo {
	users := s.store.Users()
	out := make([]models.UserInfo, len(users))
	for i, u := range users {
		out[i] = u.Info()
	}
	return out
}

// UpgradeToAdmin promotes an account to ADMIN. The upgrade is one-way: no
// operation ever downgrades a role.
func (s *UserService) UpgradeToAdmin(ctx context.Context, email string) (*models.UserInfo, error) {
	err := s.store.Update(ctx, func(st *store.State) (bool, error) {
		user := st.FindUser(email)
		if user == nil {
			return false, appErrors.Clone(appErrors.ErrNotFound, "account not found")
		}
		user.Role = models.RoleAdmin
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	for _, u := range s.store.Users() {
		if strings.EqualFold(u.Email, email) {
			info := u.Info()
			s.logger.Info("account upgraded to admin", zap.String("email", info.Email))
			return &info, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "account not found")
}

// CanAccess reports whether an account may use a portal gated to targetRole.
// Admins can access every portal; everyone else only their own.
func (s *UserService) CanAccess(role, targetRole models.UserRole) bool {
	if role == models.RoleAdmin {
		return true
	}
	return role == targetRole
}
