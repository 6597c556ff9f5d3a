package decisions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/nurulloasawear/order-app/pkg/db/models"
	"github.com/nurulloasawear/order-app/pkg/enums"
)

func setupDecisionsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS decisions (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  campaign_id INTEGER NOT NULL,
  decision TEXT NOT NULL,
  warehouse TEXT,
  product_name TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  sku TEXT,
  barcode TEXT,
  username TEXT NOT NULL,
  role TEXT NOT NULL,
  is_final INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);
CREATE TABLE IF NOT EXISTS audit_entries (
  id TEXT PRIMARY KEY,
  campaign_id INTEGER NOT NULL,
  order_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  outcome TEXT NOT NULL,
  seller_username TEXT,
  supplier_username TEXT,
  created_at DATETIME
);
CREATE TABLE IF NOT EXISTS processed_counters (
  username TEXT PRIMARY KEY,
  count INTEGER NOT NULL DEFAULT 0,
  updated_at DATETIME
);`
	for _, stmt := range splitStatements(schema) {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func splitStatements(schema string) []string {
	var out []string
	start := 0
	for i := 0; i < len(schema); i++ {
		if schema[i] == ';' {
			out = append(out, schema[start:i+1])
			start = i + 1
		}
	}
	return out
}

func ledgerRow(orderID string, campaignID int64, username string, role enums.UserRole, decision enums.Decision, age time.Duration) models.Decision {
	return models.Decision{
		ID:          uuid.New(),
		OrderID:     orderID,
		CampaignID:  campaignID,
		Decision:    decision,
		ProductName: "Widget",
		Quantity:    1,
		Username:    username,
		Role:        role,
		CreatedAt:   time.Now().UTC().Add(-age),
	}
}

func TestCreateDecisionsAndAuditEntries(t *testing.T) {
	db := setupDecisionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	rows := []models.Decision{
		ledgerRow("ord-1", 101, "seller1", enums.UserRoleSeller, enums.DecisionYes, 0),
		ledgerRow("ord-2", 101, "seller1", enums.UserRoleSeller, enums.DecisionNo, 0),
	}
	rows[0].ID = uuid.Nil
	require.NoError(t, repo.CreateDecisions(ctx, rows))

	seller := "seller1"
	require.NoError(t, repo.CreateAuditEntries(ctx, []models.AuditEntry{
		{CampaignID: 101, OrderID: "ord-1", ProductName: "Widget", Quantity: 1, Outcome: enums.AuditOutcomeAccepted, SellerUsername: &seller},
	}))

	var count int64
	require.NoError(t, db.Model(&models.Decision{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
	require.NoError(t, db.Model(&models.AuditEntry{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestIncrementProcessedUpserts(t *testing.T) {
	db := setupDecisionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.IncrementProcessed(ctx, "seller1", 3))
	require.NoError(t, repo.IncrementProcessed(ctx, "seller1", 2))
	require.NoError(t, repo.IncrementProcessed(ctx, "supplier1", 1))

	var seller models.ProcessedCounter
	require.NoError(t, db.Where("username = ?", "seller1").First(&seller).Error)
	assert.Equal(t, int64(5), seller.Count)

	var supplier models.ProcessedCounter
	require.NoError(t, db.Where("username = ?", "supplier1").First(&supplier).Error)
	assert.Equal(t, int64(1), supplier.Count)
}

func TestOldOrdersScopesByRole(t *testing.T) {
	db := setupDecisionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	old := 45 * 24 * time.Hour
	require.NoError(t, repo.CreateDecisions(ctx, []models.Decision{
		ledgerRow("ord-1", 101, "seller1", enums.UserRoleSeller, enums.DecisionYes, old),
		ledgerRow("ord-2", 202, "seller1", enums.UserRoleSeller, enums.DecisionYes, old),
		ledgerRow("ord-3", 101, "supplier1", enums.UserRoleSupplier, enums.DecisionNo, old),
		ledgerRow("ord-4", 101, "seller1", enums.UserRoleSeller, enums.DecisionYes, time.Hour),
	}))

	cutoff := time.Now().UTC().Add(-30 * 24 * time.Hour)

	rows, err := repo.OldOrders(ctx, OldOrdersQuery{
		Username: "seller1", Role: enums.UserRoleSeller, Campaigns: []int64{101}, Cutoff: cutoff, Limit: 100,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ord-1", rows[0].OrderID)

	rows, err = repo.OldOrders(ctx, OldOrdersQuery{
		Username: "supplier1", Role: enums.UserRoleSupplier, Cutoff: cutoff, Limit: 100,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ord-3", rows[0].OrderID)

	rows, err = repo.OldOrders(ctx, OldOrdersQuery{
		Role: enums.UserRoleAdmin, Cutoff: cutoff, Limit: 200,
	})
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestOldOrdersSellerWithoutStoresSeesNothing(t *testing.T) {
	db := setupDecisionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	old := 40 * 24 * time.Hour
	require.NoError(t, repo.CreateDecisions(ctx, []models.Decision{
		ledgerRow("ord-1", 111, "seller1", enums.UserRoleSeller, enums.DecisionYes, old),
		ledgerRow("ord-2", 222, "seller1", enums.UserRoleSeller, enums.DecisionNo, old),
	}))

	rows, err := repo.OldOrders(ctx, OldOrdersQuery{
		Username: "seller1", Role: enums.UserRoleSeller, Campaigns: nil,
		Cutoff: time.Now().UTC().Add(-30 * 24 * time.Hour), Limit: 100,
	})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestOldOrdersNewestFirstAndLimited(t *testing.T) {
	db := setupDecisionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.CreateDecisions(ctx, []models.Decision{
		ledgerRow("ord-old", 101, "seller1", enums.UserRoleSeller, enums.DecisionYes, 60*24*time.Hour),
		ledgerRow("ord-new", 101, "seller1", enums.UserRoleSeller, enums.DecisionYes, 31*24*time.Hour),
	}))

	rows, err := repo.OldOrders(ctx, OldOrdersQuery{
		Username: "seller1", Role: enums.UserRoleSeller, Campaigns: []int64{101},
		Cutoff: time.Now().UTC().Add(-30 * 24 * time.Hour), Limit: 1,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ord-new", rows[0].OrderID)
}

func TestSupplierQueueFiltersDraftSellerAccepts(t *testing.T) {
	db := setupDecisionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	queued := ledgerRow("ord-1", 101, "seller1", enums.UserRoleSeller, enums.DecisionYes, time.Hour)
	finalized := ledgerRow("ord-2", 101, "seller1", enums.UserRoleSeller, enums.DecisionYes, time.Hour)
	finalized.IsFinal = true
	refused := ledgerRow("ord-3", 101, "seller1", enums.UserRoleSeller, enums.DecisionNo, time.Hour)
	supplier := ledgerRow("ord-4", 101, "supplier1", enums.UserRoleSupplier, enums.DecisionYes, time.Hour)

	require.NoError(t, repo.CreateDecisions(ctx, []models.Decision{queued, finalized, refused, supplier}))

	rows, err := repo.SupplierQueue(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ord-1", rows[0].OrderID)
}

func TestSellerCancelledJoinsSupplierYes(t *testing.T) {
	db := setupDecisionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	supplierYes := ledgerRow("ord-1", 101, "supplier1", enums.UserRoleSupplier, enums.DecisionYes, time.Hour)
	supplierNo := ledgerRow("ord-2", 101, "supplier1", enums.UserRoleSupplier, enums.DecisionNo, time.Hour)
	sellerYes := ledgerRow("ord-3", 101, "seller1", enums.UserRoleSeller, enums.DecisionYes, time.Hour)
	require.NoError(t, repo.CreateDecisions(ctx, []models.Decision{supplierYes, supplierNo, sellerYes}))

	supplier := "supplier1"
	require.NoError(t, repo.CreateAuditEntries(ctx, []models.AuditEntry{
		{CampaignID: 101, OrderID: "ord-1", ProductName: "Widget", Quantity: 1, Outcome: enums.AuditOutcomeAccepted, SupplierUsername: &supplier},
		{CampaignID: 101, OrderID: "ord-2", ProductName: "Widget", Quantity: 1, Outcome: enums.AuditOutcomeReturned, SupplierUsername: &supplier},
		{CampaignID: 202, OrderID: "ord-3", ProductName: "Widget", Quantity: 1, Outcome: enums.AuditOutcomeAccepted, SupplierUsername: &supplier},
	}))

	rows, err := repo.SellerCancelled(ctx, 101)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ord-1", rows[0].OrderID)
}

func TestAcceptedReturnedPerCampaign(t *testing.T) {
	db := setupDecisionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seller := "seller1"
	require.NoError(t, repo.CreateAuditEntries(ctx, []models.AuditEntry{
		{CampaignID: 101, OrderID: "ord-1", ProductName: "Widget", Quantity: 1, Outcome: enums.AuditOutcomeAccepted, SellerUsername: &seller},
		{CampaignID: 101, OrderID: "ord-2", ProductName: "Widget", Quantity: 2, Outcome: enums.AuditOutcomeReturned, SellerUsername: &seller},
		{CampaignID: 202, OrderID: "ord-3", ProductName: "Widget", Quantity: 1, Outcome: enums.AuditOutcomeAccepted, SellerUsername: &seller},
	}))

	rows, err := repo.AcceptedReturned(ctx, 101)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestWithTxSharesTransaction(t *testing.T) {
	db := setupDecisionsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	err := db.Transaction(func(tx *gorm.DB) error {
		scoped := repo.WithTx(tx)
		if err := scoped.CreateDecisions(ctx, []models.Decision{
			ledgerRow("ord-1", 101, "seller1", enums.UserRoleSeller, enums.DecisionYes, 0),
		}); err != nil {
			return err
		}
		return scoped.IncrementProcessed(ctx, "seller1", 1)
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Decision{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
