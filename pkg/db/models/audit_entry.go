package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/nurulloasawear/order-app/pkg/enums"
)

// AuditEntry classifies one ledger row as accepted or returned. Written in
// the same transaction as the ledger row it mirrors.
type AuditEntry struct {
	ID               uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CampaignID       int64              `gorm:"column:campaign_id;not null;index:idx_audit_entries_campaign"`
	OrderID          string             `gorm:"column:order_id;type:text;not null"`
	ProductName      string             `gorm:"column:product_name;type:text;not null"`
	Quantity         int                `gorm:"column:quantity;not null"`
	Outcome          enums.AuditOutcome `gorm:"column:outcome;type:text;not null"`
	SellerUsername   *string            `gorm:"column:seller_username;type:text"`
	SupplierUsername *string            `gorm:"column:supplier_username;type:text"`
	CreatedAt        time.Time          `gorm:"column:created_at;autoCreateTime"`
}
