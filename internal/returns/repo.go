package returns

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nurulloasawear/order-app/pkg/db/models"
	"github.com/nurulloasawear/order-app/pkg/enums"
)

// Repository persists the two-sided return state rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a returns repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Find loads the return row for one (order, campaign) pair, nil when absent.
func (r *Repository) Find(ctx context.Context, orderID string, campaignID int64) (*models.ReturnStatus, error) {
	var row models.ReturnStatus
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND campaign_id = ?", orderID, campaignID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// UpsertSupplierAccept records the supplier-side accept, overwriting a prior
// accept for the same pair. The seller columns stay untouched.
func (r *Repository) UpsertSupplierAccept(ctx context.Context, row *models.ReturnStatus) error {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "order_id"}, {Name: "campaign_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"supplier_status":      string(enums.SupplierReturnStatusAccepted),
			"supplier_username":    gorm.Expr("excluded.supplier_username"),
			"supplier_accepted_at": gorm.Expr("excluded.supplier_accepted_at"),
			"product_name":         gorm.Expr("excluded.product_name"),
			"sku":                  gorm.Expr("excluded.sku"),
			"quantity":             gorm.Expr("excluded.quantity"),
			"updated_at":           time.Now().UTC(),
		}),
	}).Create(row).Error
}

// MarkDelivered flips an accepted row to delivered. The guard binds the
// transition to the supplier who accepted; zero affected rows means the
// caller never accepted this return.
func (r *Repository) MarkDelivered(ctx context.Context, orderID string, campaignID int64, supplierUsername string, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ReturnStatus{}).
		Where("order_id = ? AND campaign_id = ? AND supplier_username = ? AND supplier_status = ?",
			orderID, campaignID, supplierUsername, enums.SupplierReturnStatusAccepted).
		Updates(map[string]any{
			"supplier_status":       string(enums.SupplierReturnStatusDelivered),
			"supplier_delivered_at": at,
			"updated_at":            at,
		})
	return result.RowsAffected, result.Error
}

// MarkSellerAccepted closes the loop once the supplier delivered. Zero
// affected rows means the return is unknown or not yet delivered.
func (r *Repository) MarkSellerAccepted(ctx context.Context, orderID string, campaignID int64, sellerUsername string, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ReturnStatus{}).
		Where("order_id = ? AND campaign_id = ? AND supplier_status = ?",
			orderID, campaignID, enums.SupplierReturnStatusDelivered).
		Updates(map[string]any{
			"seller_status":      string(enums.SellerReturnStatusAccepted),
			"seller_username":    sellerUsername,
			"seller_accepted_at": at,
			"updated_at":         at,
		})
	return result.RowsAffected, result.Error
}

// ListByCampaign returns every stored row for a campaign keyed by order id.
func (r *Repository) ListByCampaign(ctx context.Context, campaignID int64) (map[string]models.ReturnStatus, error) {
	var rows []models.ReturnStatus
	if err := r.db.WithContext(ctx).Where("campaign_id = ?", campaignID).Find(&rows).Error; err != nil {
		return nil, err
	}
	byOrder := make(map[string]models.ReturnStatus, len(rows))
	for _, row := range rows {
		byOrder[row.OrderID] = row
	}
	return byOrder, nil
}

// ListDelivered returns delivered rows for a campaign, newest hand-off first.
func (r *Repository) ListDelivered(ctx context.Context, campaignID int64) ([]models.ReturnStatus, error) {
	var rows []models.ReturnStatus
	err := r.db.WithContext(ctx).
		Where("campaign_id = ? AND supplier_status = ?", campaignID, enums.SupplierReturnStatusDelivered).
		Order("supplier_delivered_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
