package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/nurulloasawear/order-app/pkg/enums"
)

// DailyOrder merges the independent seller and supplier verdicts for one
// (order, campaign) pair. Each role writes only its own column group; the
// unique index backs the upsert.
type DailyOrder struct {
	ID                 uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID            string                 `gorm:"column:order_id;type:text;not null;uniqueIndex:idx_daily_orders_order_campaign"`
	CampaignID         int64                  `gorm:"column:campaign_id;not null;uniqueIndex:idx_daily_orders_order_campaign"`
	SellerDecision     *enums.Decision        `gorm:"column:seller_decision;type:text"`
	SupplierDecision   *enums.Decision        `gorm:"column:supplier_decision;type:text"`
	SellerUsername     *string                `gorm:"column:seller_username;type:text"`
	SupplierUsername   *string                `gorm:"column:supplier_username;type:text"`
	AlternativeProduct *string                `gorm:"column:alternative_product;type:text"`
	Status             enums.DailyOrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	CreatedAt          time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
