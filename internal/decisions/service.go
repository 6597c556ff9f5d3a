package decisions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/nurulloasawear/order-app/pkg/db/models"
	"github.com/nurulloasawear/order-app/pkg/enums"
	pkgerrors "github.com/nurulloasawear/order-app/pkg/errors"
	"github.com/nurulloasawear/order-app/pkg/logger"
	"github.com/nurulloasawear/order-app/pkg/manifest"
)

const (
	archiveAge        = 30 * 24 * time.Hour
	archiveLimit      = 100
	adminArchiveLimit = 200
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Actor identifies the authenticated user a ledger operation runs as.
type Actor struct {
	Username       string
	Role           enums.UserRole
	AssignedStores []int64
}

// ItemInput is one line of a batch submission.
type ItemInput struct {
	OrderID     string         `json:"order_id" validate:"required"`
	CampaignID  int64          `json:"campaign_id" validate:"required"`
	Decision    enums.Decision `json:"decision" validate:"required"`
	Warehouse   string         `json:"warehouse"`
	ProductName string         `json:"product_name"`
	Quantity    int            `json:"quantity"`
	SKU         string         `json:"sku"`
	Barcode     string         `json:"barcode"`
}

// SaveResult reports the committed batch and any manifests rendered after it.
type SaveResult struct {
	Saved     int      `json:"saved"`
	Artifacts []string `json:"artifacts,omitempty"`
}

// Service exposes the append-only ledger operations.
type Service interface {
	Save(ctx context.Context, actor Actor, items []ItemInput, isFinal bool) (*SaveResult, error)
	OldOrders(ctx context.Context, actor Actor) ([]models.Decision, error)
	SupplierQueue(ctx context.Context) ([]models.Decision, error)
	AcceptedReturned(ctx context.Context, campaignID int64) ([]models.AuditEntry, error)
	SellerCancelled(ctx context.Context, campaignID int64) ([]models.Decision, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	renderer manifest.Renderer
	logg     *logger.Logger
}

// NewService builds the ledger service.
func NewService(repo Repository, tx txRunner, renderer manifest.Renderer, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("decisions repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if renderer == nil {
		return nil, fmt.Errorf("manifest renderer required")
	}
	return &service{repo: repo, tx: tx, renderer: renderer, logg: logg}, nil
}

func (s *service) Save(ctx context.Context, actor Actor, items []ItemInput, isFinal bool) (*SaveResult, error) {
	if actor.Role != enums.UserRoleSeller && actor.Role != enums.UserRoleSupplier {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only sellers and suppliers submit decisions")
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one decision is required")
	}
	for i, item := range items {
		if strings.TrimSpace(item.OrderID) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d: order_id is required", i))
		}
		if item.CampaignID <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d: campaign_id is required", i))
		}
		if item.Decision != enums.DecisionYes && item.Decision != enums.DecisionNo {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d: decision must be yes or no", i))
		}
	}

	ledger := make([]models.Decision, 0, len(items))
	audit := make([]models.AuditEntry, 0, len(items))
	for _, item := range items {
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		ledger = append(ledger, models.Decision{
			OrderID:     item.OrderID,
			CampaignID:  item.CampaignID,
			Decision:    item.Decision,
			Warehouse:   item.Warehouse,
			ProductName: item.ProductName,
			Quantity:    qty,
			SKU:         item.SKU,
			Barcode:     item.Barcode,
			Username:    actor.Username,
			Role:        actor.Role,
			IsFinal:     isFinal,
		})
		outcome := enums.AuditOutcomeReturned
		if item.Decision == enums.DecisionYes {
			outcome = enums.AuditOutcomeAccepted
		}
		entry := models.AuditEntry{
			CampaignID:  item.CampaignID,
			OrderID:     item.OrderID,
			ProductName: item.ProductName,
			Quantity:    qty,
			Outcome:     outcome,
		}
		username := actor.Username
		if actor.Role == enums.UserRoleSeller {
			entry.SellerUsername = &username
		} else {
			entry.SupplierUsername = &username
		}
		audit = append(audit, entry)
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateDecisions(ctx, ledger); err != nil {
			return err
		}
		if err := repo.CreateAuditEntries(ctx, audit); err != nil {
			return err
		}
		return repo.IncrementProcessed(ctx, actor.Username, int64(len(ledger)))
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save decisions")
	}

	result := &SaveResult{Saved: len(ledger)}
	if isFinal {
		result.Artifacts = s.renderBatchManifests(ctx, actor, items)
	}
	return result, nil
}

// renderBatchManifests runs after the commit; a failed render never undoes
// the saved batch.
func (s *service) renderBatchManifests(ctx context.Context, actor Actor, items []ItemInput) []string {
	var accepted, refused []manifest.Item
	for _, item := range items {
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		row := manifest.Item{
			ProductName: item.ProductName,
			SKU:         item.SKU,
			OrderID:     item.OrderID,
			Barcode:     item.Barcode,
			Quantity:    qty,
			Status:      string(item.Decision),
		}
		if item.Decision == enums.DecisionYes {
			accepted = append(accepted, row)
		} else {
			refused = append(refused, row)
		}
	}

	rc := manifest.RenderContext{
		Date:  time.Now().UTC().Format("2006-01-02"),
		Actor: actor.Username,
	}

	var artifacts []string
	var errs error
	if len(accepted) > 0 {
		if id, err := s.renderer.Render(ctx, enums.ManifestKindPicking, accepted, rc); err != nil {
			errs = multierr.Append(errs, err)
		} else {
			artifacts = append(artifacts, id)
		}
	}
	if len(refused) > 0 {
		if id, err := s.renderer.Render(ctx, enums.ManifestKindRejection, refused, rc); err != nil {
			errs = multierr.Append(errs, err)
		} else {
			artifacts = append(artifacts, id)
		}
	}
	if len(refused) > 0 && actor.Role == enums.UserRoleSupplier {
		if id, err := s.renderer.Render(ctx, enums.ManifestKindReturns, refused, rc); err != nil {
			errs = multierr.Append(errs, err)
		} else {
			artifacts = append(artifacts, id)
		}
	}
	if errs != nil && s.logg != nil {
		logCtx := s.logg.WithField(ctx, "username", actor.Username)
		s.logg.Error(logCtx, "decisions.manifest.render_failed", errs)
	}
	return artifacts
}

func (s *service) OldOrders(ctx context.Context, actor Actor) ([]models.Decision, error) {
	query := OldOrdersQuery{
		Username: actor.Username,
		Role:     actor.Role,
		Cutoff:   time.Now().UTC().Add(-archiveAge),
		Limit:    archiveLimit,
	}
	switch actor.Role {
	case enums.UserRoleAdmin:
		query.Limit = adminArchiveLimit
	case enums.UserRoleSeller:
		query.Campaigns = actor.AssignedStores
	}
	rows, err := s.repo.OldOrders(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list old orders")
	}
	return rows, nil
}

func (s *service) SupplierQueue(ctx context.Context) ([]models.Decision, error) {
	rows, err := s.repo.SupplierQueue(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list supplier queue")
	}
	return rows, nil
}

func (s *service) AcceptedReturned(ctx context.Context, campaignID int64) ([]models.AuditEntry, error) {
	rows, err := s.repo.AcceptedReturned(ctx, campaignID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list audit entries")
	}
	return rows, nil
}

func (s *service) SellerCancelled(ctx context.Context, campaignID int64) ([]models.Decision, error) {
	rows, err := s.repo.SellerCancelled(ctx, campaignID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cancelled decisions")
	}
	return rows, nil
}
