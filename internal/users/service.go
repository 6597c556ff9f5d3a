package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/nurulloasawear/order-app/pkg/config"
	"github.com/nurulloasawear/order-app/pkg/db"
	"github.com/nurulloasawear/order-app/pkg/db/models"
	"github.com/nurulloasawear/order-app/pkg/enums"
	pkgerrors "github.com/nurulloasawear/order-app/pkg/errors"
	"github.com/nurulloasawear/order-app/pkg/report"
	"github.com/nurulloasawear/order-app/pkg/security"
)

const tempPasswordLength = 12

type usersRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	ProcessedCounts(ctx context.Context) (map[string]int64, error)
	DecisionTallies(ctx context.Context) ([]DecisionTally, error)
}

// Service exposes admin account management and the identity lookup the auth
// middleware relies on.
type Service interface {
	CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error)
	ListUsers(ctx context.Context) ([]UserView, error)
	UpdateUser(ctx context.Context, username string, input UpdateUserInput) (*models.User, error)
	ResetPassword(ctx context.Context, username string) (string, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	ReportTallies(ctx context.Context) ([]report.UserTally, error)
}

type service struct {
	repo        usersRepository
	passwordCfg config.PasswordConfig
}

// NewService builds a users service backed by the accounts repository.
func NewService(repo usersRepository, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg}, nil
}

func (s *service) CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	if len(input.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}
	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	if input.Role != enums.UserRoleSeller && len(input.AssignedStores) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "assigned_stores only apply to sellers")
	}

	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Username:       username,
		PasswordHash:   hash,
		Role:           input.Role,
		APIKey:         input.APIKey,
		AssignedStores: input.AssignedStores,
		IsActive:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsUniqueViolation(err, "users_username_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return user, nil
}

func (s *service) ListUsers(ctx context.Context) ([]UserView, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	counts, err := s.repo.ProcessedCounts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load counters")
	}

	views := make([]UserView, len(rows))
	for i, row := range rows {
		views[i] = toView(row, counts[row.Username])
	}
	return views, nil
}

func (s *service) UpdateUser(ctx context.Context, username string, input UpdateUserInput) (*models.User, error) {
	user, err := s.loadUser(ctx, username)
	if err != nil {
		return nil, err
	}

	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
		}
		user.Role = *input.Role
	}
	if input.AssignedStores != nil {
		if user.Role != enums.UserRoleSeller && len(*input.AssignedStores) > 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "assigned_stores only apply to sellers")
		}
		user.AssignedStores = *input.AssignedStores
	}
	if input.APIKey != nil {
		user.APIKey = input.APIKey
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.Password != nil {
		if len(*input.Password) < 8 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
		}
		hash, err := security.HashPassword(*input.Password, s.passwordCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		user.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	return user, nil
}

// ResetPassword replaces the account password with a generated temporary one
// and returns it so the admin can hand it over out of band.
func (s *service) ResetPassword(ctx context.Context, username string) (string, error) {
	user, err := s.loadUser(ctx, username)
	if err != nil {
		return "", err
	}

	temp, err := security.GenerateTempPassword(tempPasswordLength)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate password")
	}
	hash, err := security.HashPassword(temp, s.passwordCfg)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user.PasswordHash = hash
	if err := s.repo.Update(ctx, user); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	return temp, nil
}

// FindByUsername resolves an account for the auth middleware. A missing row
// comes back as (nil, nil) so callers can treat it as unauthorized.
func (s *service) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (s *service) ReportTallies(ctx context.Context) ([]report.UserTally, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	counts, err := s.repo.ProcessedCounts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load counters")
	}
	tallies, err := s.repo.DecisionTallies(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load tallies")
	}

	accepted := make(map[string]int64)
	returned := make(map[string]int64)
	for _, tally := range tallies {
		switch enums.Decision(tally.Decision) {
		case enums.DecisionYes:
			accepted[tally.Username] += tally.Total
		case enums.DecisionNo:
			returned[tally.Username] += tally.Total
		}
	}

	out := make([]report.UserTally, len(rows))
	for i, row := range rows {
		out[i] = report.UserTally{
			Username:  row.Username,
			Role:      string(row.Role),
			Accepted:  accepted[row.Username],
			Returned:  returned[row.Username],
			Processed: counts[row.Username],
		}
	}
	return out, nil
}

func (s *service) loadUser(ctx context.Context, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}
	return user, nil
}
