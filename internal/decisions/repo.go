package decisions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nurulloasawear/order-app/pkg/db/models"
	"github.com/nurulloasawear/order-app/pkg/enums"
)

// OldOrdersQuery scopes the archive listing to the requesting actor.
type OldOrdersQuery struct {
	Username  string
	Role      enums.UserRole
	Campaigns []int64
	Cutoff    time.Time
	Limit     int
}

// Repository defines persistence for the append-only decision ledger and
// its audit trail.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateDecisions(ctx context.Context, rows []models.Decision) error
	CreateAuditEntries(ctx context.Context, rows []models.AuditEntry) error
	IncrementProcessed(ctx context.Context, username string, delta int64) error
	OldOrders(ctx context.Context, query OldOrdersQuery) ([]models.Decision, error)
	SupplierQueue(ctx context.Context) ([]models.Decision, error)
	AcceptedReturned(ctx context.Context, campaignID int64) ([]models.AuditEntry, error)
	SellerCancelled(ctx context.Context, campaignID int64) ([]models.Decision, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a decisions repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateDecisions(ctx context.Context, rows []models.Decision) error {
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		if rows[i].ID == uuid.Nil {
			rows[i].ID = uuid.New()
		}
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *repository) CreateAuditEntries(ctx context.Context, rows []models.AuditEntry) error {
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		if rows[i].ID == uuid.Nil {
			rows[i].ID = uuid.New()
		}
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *repository) IncrementProcessed(ctx context.Context, username string, delta int64) error {
	counter := models.ProcessedCounter{
		Username:  username,
		Count:     delta,
		UpdatedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "username"}},
			DoUpdates: clause.Assignments(map[string]any{
				"count":      gorm.Expr("processed_counters.count + ?", delta),
				"updated_at": time.Now().UTC(),
			}),
		}).
		Create(&counter).Error
}

func (r *repository) OldOrders(ctx context.Context, query OldOrdersQuery) ([]models.Decision, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Decision{}).
		Where("created_at < ?", query.Cutoff)

	switch query.Role {
	case enums.UserRoleSeller:
		// An empty assigned-store set means the seller can see nothing.
		if len(query.Campaigns) == 0 {
			return nil, nil
		}
		q = q.Where("username = ? AND role = ?", query.Username, enums.UserRoleSeller)
		q = q.Where("campaign_id IN ?", query.Campaigns)
	case enums.UserRoleSupplier:
		q = q.Where("username = ? AND role = ?", query.Username, enums.UserRoleSupplier)
	}

	var rows []models.Decision
	err := q.Order("created_at DESC").Limit(query.Limit).Find(&rows).Error
	return rows, err
}

func (r *repository) SupplierQueue(ctx context.Context) ([]models.Decision, error) {
	var rows []models.Decision
	err := r.db.WithContext(ctx).
		Where("role = ? AND is_final = ? AND decision = ?", enums.UserRoleSeller, false, enums.DecisionYes).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) AcceptedReturned(ctx context.Context, campaignID int64) ([]models.AuditEntry, error) {
	var rows []models.AuditEntry
	err := r.db.WithContext(ctx).
		Where("campaign_id = ?", campaignID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) SellerCancelled(ctx context.Context, campaignID int64) ([]models.Decision, error) {
	var rows []models.Decision
	err := r.db.WithContext(ctx).
		Model(&models.Decision{}).
		Select("decisions.*").
		Joins("JOIN audit_entries ON audit_entries.order_id = decisions.order_id").
		Where("audit_entries.campaign_id = ? AND decisions.role = ? AND decisions.decision = ?",
			campaignID, enums.UserRoleSupplier, enums.DecisionYes).
		Order("decisions.created_at DESC").
		Find(&rows).Error
	return rows, err
}
