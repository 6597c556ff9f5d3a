package dailyorders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/nurulloasawear/order-app/pkg/db/models"
	"github.com/nurulloasawear/order-app/pkg/enums"
	pkgerrors "github.com/nurulloasawear/order-app/pkg/errors"
	"github.com/nurulloasawear/order-app/pkg/marketplace"
)

type repository interface {
	UpsertSeller(ctx context.Context, row *models.DailyOrder) error
	UpsertSupplier(ctx context.Context, row *models.DailyOrder) error
	Find(ctx context.Context, orderID string, campaignID int64) (*models.DailyOrder, error)
	ListByCampaign(ctx context.Context, campaignID int64) (map[string]models.DailyOrder, error)
}

type marketplaceClient interface {
	ListOrders(ctx context.Context, apiKey string, campaignID int64, status string) ([]marketplace.Order, error)
}

type keySource interface {
	APIKeyFor(ctx context.Context, username string) (string, error)
}

// SubmitDecisionInput is one role-scoped verdict on a daily order.
type SubmitDecisionInput struct {
	OrderID            string
	CampaignID         int64
	Username           string
	Role               enums.UserRole
	Decision           enums.Decision
	AlternativeProduct *string
}

// Entry is one processing order line overlaid with the stored workflow state.
type Entry struct {
	marketplace.OrderLine
	SellerDecision     *enums.Decision        `json:"seller_decision"`
	SupplierDecision   *enums.Decision        `json:"supplier_decision"`
	AlternativeProduct *string                `json:"alternative_product,omitempty"`
	Status             enums.DailyOrderStatus `json:"status"`
}

// Service merges independent seller and supplier verdicts per order.
type Service interface {
	SubmitDecision(ctx context.Context, input SubmitDecisionInput) (*models.DailyOrder, error)
	ListDaily(ctx context.Context, campaignID int64, username string, role enums.UserRole, assignedStores []int64) ([]Entry, error)
}

type service struct {
	repo   repository
	market marketplaceClient
	keys   keySource
}

// NewService builds the daily-order workflow service.
func NewService(repo repository, market marketplaceClient, keys keySource) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("daily orders repository required")
	}
	if market == nil {
		return nil, fmt.Errorf("marketplace client required")
	}
	if keys == nil {
		return nil, fmt.Errorf("credential source required")
	}
	return &service{repo: repo, market: market, keys: keys}, nil
}

func (s *service) SubmitDecision(ctx context.Context, input SubmitDecisionInput) (*models.DailyOrder, error) {
	if strings.TrimSpace(input.OrderID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order_id is required")
	}
	if input.CampaignID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "campaign_id is required")
	}
	if strings.TrimSpace(input.Username) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}

	switch input.Role {
	case enums.UserRoleSeller:
		if input.Decision != enums.DecisionYes && input.Decision != enums.DecisionNo {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "sellers may only answer yes or no")
		}
	case enums.UserRoleSupplier:
		if !input.Decision.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid decision")
		}
		if input.Decision == enums.DecisionAlternative {
			if input.AlternativeProduct == nil || strings.TrimSpace(*input.AlternativeProduct) == "" {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "alternative decisions require alternative_product")
			}
		}
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "role must be seller or supplier")
	}

	decision := input.Decision
	username := input.Username
	row := &models.DailyOrder{
		OrderID:    input.OrderID,
		CampaignID: input.CampaignID,
	}

	var err error
	if input.Role == enums.UserRoleSeller {
		row.SellerDecision = &decision
		row.SellerUsername = &username
		row.Status = enums.DailyOrderStatusSellerAccepted
		err = s.repo.UpsertSeller(ctx, row)
	} else {
		row.SupplierDecision = &decision
		row.SupplierUsername = &username
		if input.Decision == enums.DecisionAlternative {
			row.AlternativeProduct = input.AlternativeProduct
		}
		row.Status = enums.DailyOrderStatusSupplierAccepted
		err = s.repo.UpsertSupplier(ctx, row)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store decision")
	}

	merged, err := s.repo.Find(ctx, input.OrderID, input.CampaignID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "daily order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load daily order")
	}
	return merged, nil
}

func (s *service) ListDaily(ctx context.Context, campaignID int64, username string, role enums.UserRole, assignedStores []int64) ([]Entry, error) {
	if campaignID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "campaign_id is required")
	}
	if role == enums.UserRoleSeller && !containsCampaign(assignedStores, campaignID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "campaign not assigned")
	}

	apiKey, err := s.keys.APIKeyFor(ctx, username)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve api key")
	}

	orders, err := s.market.ListOrders(ctx, apiKey, campaignID, marketplace.OrderStatusProcessing)
	if err != nil {
		return nil, err
	}

	stored, err := s.repo.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stored decisions")
	}

	lines := marketplace.FlattenOrders(orders)
	entries := make([]Entry, len(lines))
	for i, line := range lines {
		entry := Entry{OrderLine: line, Status: enums.DailyOrderStatusPending}
		if row, ok := stored[line.OrderID]; ok {
			entry.SellerDecision = row.SellerDecision
			entry.SupplierDecision = row.SupplierDecision
			entry.AlternativeProduct = row.AlternativeProduct
			entry.Status = row.Status
		}
		entries[i] = entry
	}
	return entries, nil
}

func containsCampaign(assigned []int64, campaignID int64) bool {
	for _, id := range assigned {
		if id == campaignID {
			return true
		}
	}
	return false
}
