package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/nurulloasawear/order-app/pkg/enums"
)

// ReturnStatus is the two-sided return state for one (order, campaign) pair.
// Supplier side moves pending → accepted → delivered; the seller side moves
// pending → accepted only after the supplier side reads delivered.
type ReturnStatus struct {
	ID                  uuid.UUID                  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID             string                     `gorm:"column:order_id;type:text;not null;uniqueIndex:idx_return_statuses_order_campaign"`
	CampaignID          int64                      `gorm:"column:campaign_id;not null;uniqueIndex:idx_return_statuses_order_campaign"`
	ProductName         string                     `gorm:"column:product_name;type:text"`
	SKU                 string                     `gorm:"column:sku;type:text"`
	Quantity            int                        `gorm:"column:quantity;not null;default:0"`
	SupplierStatus      enums.SupplierReturnStatus `gorm:"column:supplier_status;type:text;not null;default:'pending'"`
	SellerStatus        enums.SellerReturnStatus   `gorm:"column:seller_status;type:text;not null;default:'pending'"`
	SupplierUsername    *string                    `gorm:"column:supplier_username;type:text"`
	SellerUsername      *string                    `gorm:"column:seller_username;type:text"`
	SupplierAcceptedAt  *time.Time                 `gorm:"column:supplier_accepted_at"`
	SupplierDeliveredAt *time.Time                 `gorm:"column:supplier_delivered_at"`
	SellerAcceptedAt    *time.Time                 `gorm:"column:seller_accepted_at"`
	CreatedAt           time.Time                  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time                  `gorm:"column:updated_at;autoUpdateTime"`
}
