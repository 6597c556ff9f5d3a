package campaigns

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nurulloasawear/order-app/pkg/db/models"
	"github.com/nurulloasawear/order-app/pkg/enums"
	pkgerrors "github.com/nurulloasawear/order-app/pkg/errors"
	"github.com/nurulloasawear/order-app/pkg/logger"
	"github.com/nurulloasawear/order-app/pkg/marketplace"
)

type marketplaceClient interface {
	ListCampaigns(ctx context.Context, apiKey string) ([]marketplace.Campaign, error)
	ListOrders(ctx context.Context, apiKey string, campaignID int64, status string) ([]marketplace.Order, error)
	OrderStats(ctx context.Context, apiKey string, campaignID int64, params marketplace.StatsParams) ([]marketplace.StatsGroup, error)
}

type keySource interface {
	APIKeyFor(ctx context.Context, username string) (string, error)
}

type cancelledSource interface {
	SellerCancelled(ctx context.Context, campaignID int64) ([]models.Decision, error)
}

// Actor identifies the authenticated user a marketplace read runs as.
type Actor struct {
	Username       string
	Role           enums.UserRole
	AssignedStores []int64
}

// CampaignView is one store the actor may work with.
type CampaignView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CancelledList carries whichever cancelled view applies to the actor's
// role: sellers read the ledger join, suppliers and admins read the
// marketplace directly.
type CancelledList struct {
	Ledger []models.Decision       `json:"decisions,omitempty"`
	Orders []marketplace.OrderLine `json:"orders,omitempty"`
}

// OrderStatsView aggregates per-status order counts across every campaign
// the actor can see.
type OrderStatsView struct {
	Assembly  int `json:"assembly"`
	Shipments int `json:"shipments"`
	Delivery  int `json:"delivery"`
	Delivered int `json:"delivered"`
	Cancelled int `json:"canceled"`
}

// SalesChart is a per-day series of delivered order sums.
type SalesChart struct {
	Labels []string          `json:"labels"`
	Data   []decimal.Decimal `json:"data"`
}

// Sales chart filters.
const (
	SalesFilterWeek  = "7days"
	SalesFilterMonth = "month"
)

// Service exposes the marketplace-backed read surfaces.
type Service interface {
	ListCampaigns(ctx context.Context, actor Actor) ([]CampaignView, error)
	Orders(ctx context.Context, campaignID int64, actor Actor) ([]marketplace.OrderLine, error)
	Cancelled(ctx context.Context, campaignID int64, actor Actor) (*CancelledList, error)
	OrderStats(ctx context.Context, actor Actor) (*OrderStatsView, error)
	SalesChart(ctx context.Context, actor Actor, filter string) (*SalesChart, error)
}

type service struct {
	market    marketplaceClient
	keys      keySource
	cancelled cancelledSource
	logg      *logger.Logger
}

// NewService builds the campaigns read service.
func NewService(market marketplaceClient, keys keySource, cancelled cancelledSource, logg *logger.Logger) (Service, error) {
	if market == nil {
		return nil, fmt.Errorf("marketplace client required")
	}
	if keys == nil {
		return nil, fmt.Errorf("credential source required")
	}
	if cancelled == nil {
		return nil, fmt.Errorf("cancelled source required")
	}
	return &service{market: market, keys: keys, cancelled: cancelled, logg: logg}, nil
}

func (s *service) ListCampaigns(ctx context.Context, actor Actor) ([]CampaignView, error) {
	campaigns, err := s.fetchCampaigns(ctx, actor)
	if err != nil {
		return nil, err
	}
	views := make([]CampaignView, 0, len(campaigns))
	for _, c := range campaigns {
		name := c.Domain
		if name == "" {
			name = fmt.Sprintf("Store %d", c.ID)
		}
		views = append(views, CampaignView{ID: c.ID, Name: name})
	}
	return views, nil
}

func (s *service) Orders(ctx context.Context, campaignID int64, actor Actor) ([]marketplace.OrderLine, error) {
	if err := requireCampaignAccess(actor, campaignID); err != nil {
		return nil, err
	}
	apiKey, err := s.keys.APIKeyFor(ctx, actor.Username)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve api key")
	}
	orders, err := s.market.ListOrders(ctx, apiKey, campaignID, marketplace.OrderStatusProcessing)
	if err != nil {
		return nil, err
	}
	return marketplace.FlattenOrders(orders), nil
}

func (s *service) Cancelled(ctx context.Context, campaignID int64, actor Actor) (*CancelledList, error) {
	if err := requireCampaignAccess(actor, campaignID); err != nil {
		return nil, err
	}
	if actor.Role == enums.UserRoleSeller {
		rows, err := s.cancelled.SellerCancelled(ctx, campaignID)
		if err != nil {
			return nil, err
		}
		return &CancelledList{Ledger: rows}, nil
	}
	apiKey, err := s.keys.APIKeyFor(ctx, actor.Username)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve api key")
	}
	orders, err := s.market.ListOrders(ctx, apiKey, campaignID, marketplace.OrderStatusCancelled)
	if err != nil {
		return nil, err
	}
	return &CancelledList{Orders: marketplace.FlattenOrders(orders)}, nil
}

// OrderStats tolerates per-campaign failures; a campaign that errors is
// skipped and the remaining counts are still returned.
func (s *service) OrderStats(ctx context.Context, actor Actor) (*OrderStatsView, error) {
	apiKey, campaigns, err := s.campaignScope(ctx, actor)
	if err != nil {
		return nil, err
	}

	stats := &OrderStatsView{}
	for _, c := range campaigns {
		groups, err := s.market.OrderStats(ctx, apiKey, c.ID, marketplace.StatsParams{GroupBy: "STATUS"})
		if err != nil {
			s.logCampaignSkip(ctx, "campaigns.stats.campaign_failed", c.ID, err)
			continue
		}
		for _, group := range groups {
			switch group.Status {
			case marketplace.OrderStatusProcessing:
				stats.Assembly += group.OrdersCount
				stats.Shipments += group.OrdersCount
			case marketplace.OrderStatusDelivery:
				stats.Delivery += group.OrdersCount
			case marketplace.OrderStatusDelivered:
				stats.Delivered += group.OrdersCount
			case marketplace.OrderStatusCancelled:
				stats.Cancelled += group.OrdersCount
			}
		}
	}
	return stats, nil
}

func (s *service) SalesChart(ctx context.Context, actor Actor, filter string) (*SalesChart, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	var from time.Time
	switch filter {
	case SalesFilterWeek:
		from = today.AddDate(0, 0, -7)
	case SalesFilterMonth:
		from = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "filter must be 7days or month")
	}
	days := int(today.Sub(from).Hours()/24) + 1

	apiKey, campaigns, err := s.campaignScope(ctx, actor)
	if err != nil {
		return nil, err
	}

	chart := &SalesChart{
		Labels: make([]string, days),
		Data:   make([]decimal.Decimal, days),
	}
	for d := 0; d < days; d++ {
		chart.Labels[d] = from.AddDate(0, 0, d).Format("2006-01-02")
	}

	params := marketplace.StatsParams{
		GroupBy:  "DAY",
		FromDate: from.Format("2006-01-02"),
		ToDate:   today.Format("2006-01-02"),
	}
	for _, c := range campaigns {
		groups, err := s.market.OrderStats(ctx, apiKey, c.ID, params)
		if err != nil {
			s.logCampaignSkip(ctx, "campaigns.sales.campaign_failed", c.ID, err)
			continue
		}
		for _, group := range groups {
			day, err := time.Parse("2006-01-02", group.Date)
			if err != nil {
				continue
			}
			index := int(day.Sub(from).Hours() / 24)
			if index < 0 || index >= days {
				continue
			}
			for _, order := range group.Orders {
				if order.Status != marketplace.OrderStatusDelivered {
					continue
				}
				for _, item := range order.Items {
					chart.Data[index] = chart.Data[index].Add(item.LineTotal())
				}
			}
		}
	}
	return chart, nil
}

// campaignScope resolves the actor's api key and the campaigns their role
// may read.
func (s *service) campaignScope(ctx context.Context, actor Actor) (string, []marketplace.Campaign, error) {
	apiKey, err := s.keys.APIKeyFor(ctx, actor.Username)
	if err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve api key")
	}
	campaigns, err := s.market.ListCampaigns(ctx, apiKey)
	if err != nil {
		return "", nil, err
	}
	if actor.Role == enums.UserRoleSeller {
		campaigns = filterAssigned(campaigns, actor.AssignedStores)
	}
	return apiKey, campaigns, nil
}

func (s *service) fetchCampaigns(ctx context.Context, actor Actor) ([]marketplace.Campaign, error) {
	_, campaigns, err := s.campaignScope(ctx, actor)
	return campaigns, err
}

func (s *service) logCampaignSkip(ctx context.Context, msg string, campaignID int64, err error) {
	if s.logg == nil {
		return
	}
	logCtx := s.logg.WithField(ctx, "campaign_id", campaignID)
	s.logg.Error(logCtx, msg, err)
}

func filterAssigned(campaigns []marketplace.Campaign, assigned []int64) []marketplace.Campaign {
	allowed := make(map[int64]struct{}, len(assigned))
	for _, id := range assigned {
		allowed[id] = struct{}{}
	}
	out := make([]marketplace.Campaign, 0, len(campaigns))
	for _, c := range campaigns {
		if _, ok := allowed[c.ID]; ok {
			out = append(out, c)
		}
	}
	return out
}

func requireCampaignAccess(actor Actor, campaignID int64) error {
	if actor.Role != enums.UserRoleSeller {
		return nil
	}
	for _, id := range actor.AssignedStores {
		if id == campaignID {
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "campaign is not assigned to this account")
}
