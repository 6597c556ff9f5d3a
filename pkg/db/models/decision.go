package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/nurulloasawear/order-app/pkg/enums"
)

// Decision is one append-only ledger row. Rows are inserted and read, never
// updated or deleted.
type Decision struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     string         `gorm:"column:order_id;type:text;not null;index:idx_decisions_order"`
	CampaignID  int64          `gorm:"column:campaign_id;not null;index:idx_decisions_campaign"`
	Decision    enums.Decision `gorm:"column:decision;type:text;not null"`
	Warehouse   string         `gorm:"column:warehouse;type:text"`
	ProductName string         `gorm:"column:product_name;type:text;not null"`
	Quantity    int            `gorm:"column:quantity;not null"`
	SKU         string         `gorm:"column:sku;type:text"`
	Barcode     string         `gorm:"column:barcode;type:text"`
	Username    string         `gorm:"column:username;type:text;not null;index:idx_decisions_username"`
	Role        enums.UserRole `gorm:"column:role;type:text;not null"`
	IsFinal     bool           `gorm:"column:is_final;not null;default:false"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime;index:idx_decisions_created_at"`
}
