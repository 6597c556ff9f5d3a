package returns

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nurulloasawear/order-app/pkg/config"
	"github.com/nurulloasawear/order-app/pkg/db/models"
	"github.com/nurulloasawear/order-app/pkg/enums"
	pkgerrors "github.com/nurulloasawear/order-app/pkg/errors"
	"github.com/nurulloasawear/order-app/pkg/logger"
	"github.com/nurulloasawear/order-app/pkg/manifest"
	"github.com/nurulloasawear/order-app/pkg/marketplace"
)

type repository interface {
	Find(ctx context.Context, orderID string, campaignID int64) (*models.ReturnStatus, error)
	UpsertSupplierAccept(ctx context.Context, row *models.ReturnStatus) error
	MarkDelivered(ctx context.Context, orderID string, campaignID int64, supplierUsername string, at time.Time) (int64, error)
	MarkSellerAccepted(ctx context.Context, orderID string, campaignID int64, sellerUsername string, at time.Time) (int64, error)
	ListByCampaign(ctx context.Context, campaignID int64) (map[string]models.ReturnStatus, error)
	ListDelivered(ctx context.Context, campaignID int64) ([]models.ReturnStatus, error)
}

type marketplaceClient interface {
	ListOrders(ctx context.Context, apiKey string, campaignID int64, status string) ([]marketplace.Order, error)
	GetOrder(ctx context.Context, apiKey string, campaignID int64, orderID string) (*marketplace.Order, error)
}

type keySource interface {
	APIKeyFor(ctx context.Context, username string) (string, error)
}

// AcceptInput is the supplier-side accept payload; the product snapshot is
// stamped into the row for the later manifests.
type AcceptInput struct {
	OrderID     string
	CampaignID  int64
	Username    string
	ProductName string
	SKU         string
	Quantity    int
}

// TransitionInput identifies the return row a deliver/accept acts on.
type TransitionInput struct {
	OrderID    string
	CampaignID int64
	Username   string
}

// TransitionResult reports the outcome plus the manifest rendered after the
// write, when one succeeded.
type TransitionResult struct {
	OrderID    string `json:"order_id"`
	CampaignID int64  `json:"campaign_id"`
	Artifact   string `json:"artifact,omitempty"`
}

// SupplierEntry is one cancelled order line overlaid with stored state.
type SupplierEntry struct {
	marketplace.OrderLine
	SupplierStatus enums.SupplierReturnStatus `json:"supplier_status"`
	SellerStatus   enums.SellerReturnStatus   `json:"seller_status"`
}

// SellerEntry is one delivered return, enriched best-effort from the
// marketplace.
type SellerEntry struct {
	OrderID             string                   `json:"order_id"`
	CampaignID          int64                    `json:"campaign_id"`
	ProductName         string                   `json:"product_name"`
	SKU                 string                   `json:"sku"`
	Quantity            int                      `json:"quantity"`
	SupplierUsername    *string                  `json:"supplier_username,omitempty"`
	SupplierDeliveredAt *time.Time               `json:"supplier_delivered_at,omitempty"`
	SellerStatus        enums.SellerReturnStatus `json:"seller_status"`
	Items               []marketplace.OrderLine  `json:"items,omitempty"`
}

// Service drives the supplier-accept, supplier-deliver, seller-accept return
// state machine.
type Service interface {
	SupplierAccept(ctx context.Context, input AcceptInput) (*models.ReturnStatus, error)
	SupplierDeliver(ctx context.Context, input TransitionInput) (*TransitionResult, error)
	SellerAccept(ctx context.Context, input TransitionInput, assignedStores []int64) (*TransitionResult, error)
	ListForSupplier(ctx context.Context, campaignID int64, username string) ([]SupplierEntry, error)
	ListForSeller(ctx context.Context, campaignID int64, username string, assignedStores []int64) ([]SellerEntry, error)
}

type service struct {
	repo         repository
	market       marketplaceClient
	keys         keySource
	renderer     manifest.Renderer
	logg         *logger.Logger
	strictAccept bool
}

// NewService builds the return workflow service.
func NewService(repo repository, market marketplaceClient, keys keySource, renderer manifest.Renderer, logg *logger.Logger, cfg config.ReturnsConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("returns repository required")
	}
	if market == nil {
		return nil, fmt.Errorf("marketplace client required")
	}
	if keys == nil {
		return nil, fmt.Errorf("credential source required")
	}
	if renderer == nil {
		return nil, fmt.Errorf("manifest renderer required")
	}
	return &service{
		repo:         repo,
		market:       market,
		keys:         keys,
		renderer:     renderer,
		logg:         logg,
		strictAccept: cfg.StrictAccept,
	}, nil
}

func (s *service) SupplierAccept(ctx context.Context, input AcceptInput) (*models.ReturnStatus, error) {
	if err := validatePair(input.OrderID, input.CampaignID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Username) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}

	if s.strictAccept {
		existing, err := s.repo.Find(ctx, input.OrderID, input.CampaignID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load return")
		}
		if existing != nil && existing.SupplierStatus != enums.SupplierReturnStatusPending {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "return already accepted")
		}
	}

	now := time.Now().UTC()
	username := input.Username
	row := &models.ReturnStatus{
		OrderID:            input.OrderID,
		CampaignID:         input.CampaignID,
		ProductName:        input.ProductName,
		SKU:                input.SKU,
		Quantity:           input.Quantity,
		SupplierStatus:     enums.SupplierReturnStatusAccepted,
		SupplierUsername:   &username,
		SupplierAcceptedAt: &now,
	}
	if err := s.repo.UpsertSupplierAccept(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store accept")
	}

	stored, err := s.repo.Find(ctx, input.OrderID, input.CampaignID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load return")
	}
	return stored, nil
}

func (s *service) SupplierDeliver(ctx context.Context, input TransitionInput) (*TransitionResult, error) {
	if err := validatePair(input.OrderID, input.CampaignID); err != nil {
		return nil, err
	}

	affected, err := s.repo.MarkDelivered(ctx, input.OrderID, input.CampaignID, input.Username, time.Now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark delivered")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "return not found or not accepted by you")
	}

	result := &TransitionResult{OrderID: input.OrderID, CampaignID: input.CampaignID}
	result.Artifact = s.renderReturnManifest(ctx, enums.ManifestKindDelivery, input)
	return result, nil
}

func (s *service) SellerAccept(ctx context.Context, input TransitionInput, assignedStores []int64) (*TransitionResult, error) {
	if err := validatePair(input.OrderID, input.CampaignID); err != nil {
		return nil, err
	}
	if !containsCampaign(assignedStores, input.CampaignID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "campaign not assigned")
	}

	affected, err := s.repo.MarkSellerAccepted(ctx, input.OrderID, input.CampaignID, input.Username, time.Now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark accepted")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "return not found or not yet delivered")
	}

	result := &TransitionResult{OrderID: input.OrderID, CampaignID: input.CampaignID}
	result.Artifact = s.renderReturnManifest(ctx, enums.ManifestKindReceipt, input)
	return result, nil
}

func (s *service) ListForSupplier(ctx context.Context, campaignID int64, username string) ([]SupplierEntry, error) {
	if campaignID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "campaign_id is required")
	}

	apiKey, err := s.keys.APIKeyFor(ctx, username)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve api key")
	}
	orders, err := s.market.ListOrders(ctx, apiKey, campaignID, marketplace.OrderStatusCancelled)
	if err != nil {
		return nil, err
	}

	stored, err := s.repo.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load return statuses")
	}

	lines := marketplace.FlattenOrders(orders)
	entries := make([]SupplierEntry, len(lines))
	for i, line := range lines {
		entry := SupplierEntry{
			OrderLine:      line,
			SupplierStatus: enums.SupplierReturnStatusPending,
			SellerStatus:   enums.SellerReturnStatusPending,
		}
		if row, ok := stored[line.OrderID]; ok {
			entry.SupplierStatus = row.SupplierStatus
			entry.SellerStatus = row.SellerStatus
		}
		entries[i] = entry
	}
	return entries, nil
}

func (s *service) ListForSeller(ctx context.Context, campaignID int64, username string, assignedStores []int64) ([]SellerEntry, error) {
	if campaignID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "campaign_id is required")
	}
	if !containsCampaign(assignedStores, campaignID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "campaign not assigned")
	}

	rows, err := s.repo.ListDelivered(ctx, campaignID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivered returns")
	}

	apiKey, keyErr := s.keys.APIKeyFor(ctx, username)

	entries := make([]SellerEntry, len(rows))
	for i, row := range rows {
		entry := SellerEntry{
			OrderID:             row.OrderID,
			CampaignID:          row.CampaignID,
			ProductName:         row.ProductName,
			SKU:                 row.SKU,
			Quantity:            row.Quantity,
			SupplierUsername:    row.SupplierUsername,
			SupplierDeliveredAt: row.SupplierDeliveredAt,
			SellerStatus:        row.SellerStatus,
		}
		// Marketplace enrichment is best-effort; a stale order id must not
		// hide the stored row.
		if keyErr == nil {
			if order, err := s.market.GetOrder(ctx, apiKey, campaignID, row.OrderID); err == nil && order != nil {
				entry.Items = order.Lines()
			}
		}
		entries[i] = entry
	}
	return entries, nil
}

// renderReturnManifest runs after the row is committed. A render failure is
// logged and swallowed; the transition itself already happened.
func (s *service) renderReturnManifest(ctx context.Context, kind enums.ManifestKind, input TransitionInput) string {
	row, err := s.repo.Find(ctx, input.OrderID, input.CampaignID)
	if err != nil || row == nil {
		s.logRenderFailure(ctx, kind, input.OrderID, err)
		return ""
	}

	items := []manifest.Item{{
		OrderID:     row.OrderID,
		ProductName: row.ProductName,
		SKU:         row.SKU,
		Quantity:    row.Quantity,
		Status:      string(row.SupplierStatus),
	}}
	rc := manifest.RenderContext{
		Date:  time.Now().UTC().Format("2006-01-02"),
		Actor: input.Username,
	}
	artifact, err := s.renderer.Render(ctx, kind, items, rc)
	if err != nil {
		s.logRenderFailure(ctx, kind, input.OrderID, err)
		return ""
	}
	return artifact
}

func (s *service) logRenderFailure(ctx context.Context, kind enums.ManifestKind, orderID string, err error) {
	if s.logg == nil {
		return
	}
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"manifest_kind": kind.String(),
		"order_id":      orderID,
	})
	if err == nil {
		err = fmt.Errorf("return row missing after transition")
	}
	s.logg.Error(logCtx, "returns.manifest.render_failed", err)
}

func validatePair(orderID string, campaignID int64) error {
	if strings.TrimSpace(orderID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order_id is required")
	}
	if campaignID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "campaign_id is required")
	}
	return nil
}

func containsCampaign(assigned []int64, campaignID int64) bool {
	for _, id := range assigned {
		if id == campaignID {
			return true
		}
	}
	return false
}
