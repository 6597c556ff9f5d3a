package users

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/nurulloasawear/order-app/pkg/db/models"
)

// Repository exposes user account persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new account row.
func (r *Repository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByUsername retrieves the account matching the provided username.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns every account ordered by username.
func (r *Repository) List(ctx context.Context) ([]models.User, error) {
	var rows []models.User
	if err := r.db.WithContext(ctx).Order("username ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update persists the full account row.
func (r *Repository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// UpdateLastLogin refreshes the account's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, username string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ?", username).
		UpdateColumn("last_login_at", at).Error
}

// ProcessedCounts loads the per-user submission counters keyed by username.
func (r *Repository) ProcessedCounts(ctx context.Context) (map[string]int64, error) {
	var rows []models.ProcessedCounter
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Username] = row.Count
	}
	return counts, nil
}

// DecisionTally is one (username, decision) aggregate from the ledger.
type DecisionTally struct {
	Username string
	Decision string
	Total    int64
}

// DecisionTallies groups ledger rows by submitter and verdict.
func (r *Repository) DecisionTallies(ctx context.Context) ([]DecisionTally, error) {
	var rows []DecisionTally
	err := r.db.WithContext(ctx).
		Model(&models.Decision{}).
		Select("username, decision, COUNT(*) AS total").
		Group("username").
		Group("decision").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
