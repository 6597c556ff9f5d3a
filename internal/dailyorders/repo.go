package dailyorders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nurulloasawear/order-app/pkg/db/models"
	"github.com/nurulloasawear/order-app/pkg/enums"
)

var conflictColumns = []clause.Column{{Name: "order_id"}, {Name: "campaign_id"}}

// Repository persists the merged per-(order, campaign) decision rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a daily-orders repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UpsertSeller writes the seller field group. The conflict branch never
// touches supplier columns; status falls back to supplier_accepted when the
// supplier already decided.
func (r *Repository) UpsertSeller(ctx context.Context, row *models.DailyOrder) error {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: conflictColumns,
		DoUpdates: clause.Assignments(map[string]any{
			"seller_decision": gorm.Expr("excluded.seller_decision"),
			"seller_username": gorm.Expr("excluded.seller_username"),
			"status":          gorm.Expr("CASE WHEN daily_orders.supplier_decision IS NOT NULL THEN 'supplier_accepted' ELSE 'seller_accepted' END"),
			"updated_at":      time.Now().UTC(),
		}),
	}).Create(row).Error
}

// UpsertSupplier writes the supplier field group; a supplier decision always
// moves the row to supplier_accepted.
func (r *Repository) UpsertSupplier(ctx context.Context, row *models.DailyOrder) error {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: conflictColumns,
		DoUpdates: clause.Assignments(map[string]any{
			"supplier_decision":   gorm.Expr("excluded.supplier_decision"),
			"supplier_username":   gorm.Expr("excluded.supplier_username"),
			"alternative_product": gorm.Expr("excluded.alternative_product"),
			"status":              string(enums.DailyOrderStatusSupplierAccepted),
			"updated_at":          time.Now().UTC(),
		}),
	}).Create(row).Error
}

// Find loads the merged row for one (order, campaign) pair.
func (r *Repository) Find(ctx context.Context, orderID string, campaignID int64) (*models.DailyOrder, error) {
	var row models.DailyOrder
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND campaign_id = ?", orderID, campaignID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListByCampaign returns every stored row for a campaign keyed by order id.
func (r *Repository) ListByCampaign(ctx context.Context, campaignID int64) (map[string]models.DailyOrder, error) {
	var rows []models.DailyOrder
	if err := r.db.WithContext(ctx).Where("campaign_id = ?", campaignID).Find(&rows).Error; err != nil {
		return nil, err
	}
	byOrder := make(map[string]models.DailyOrder, len(rows))
	for _, row := range rows {
		byOrder[row.OrderID] = row
	}
	return byOrder, nil
}
