package campaigns

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/nurulloasawear/order-app/pkg/db/models"
	"github.com/nurulloasawear/order-app/pkg/enums"
	pkgerrors "github.com/nurulloasawear/order-app/pkg/errors"
	"github.com/nurulloasawear/order-app/pkg/marketplace"
)

type stubMarket struct {
	campaigns []marketplace.Campaign
	orders    map[string][]marketplace.Order
	stats     map[int64][]marketplace.StatsGroup
	statsErr  map[int64]error

	listErr error
}

func (s *stubMarket) ListCampaigns(_ context.Context, _ string) ([]marketplace.Campaign, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.campaigns, nil
}

func (s *stubMarket) ListOrders(_ context.Context, _ string, campaignID int64, status string) ([]marketplace.Order, error) {
	return s.orders[fmt.Sprintf("%d/%s", campaignID, status)], nil
}

func (s *stubMarket) OrderStats(_ context.Context, _ string, campaignID int64, _ marketplace.StatsParams) ([]marketplace.StatsGroup, error) {
	if err := s.statsErr[campaignID]; err != nil {
		return nil, err
	}
	return s.stats[campaignID], nil
}

type stubKeys struct{}

func (stubKeys) APIKeyFor(_ context.Context, _ string) (string, error) { return "key", nil }

type stubCancelled struct {
	rows []models.Decision
}

func (s *stubCancelled) SellerCancelled(_ context.Context, _ int64) ([]models.Decision, error) {
	return s.rows, nil
}

func newTestService(t *testing.T, market *stubMarket, cancelled *stubCancelled) Service {
	t.Helper()
	if cancelled == nil {
		cancelled = &stubCancelled{}
	}
	svc, err := NewService(market, stubKeys{}, cancelled, nil)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc
}

func seller(stores ...int64) Actor {
	return Actor{Username: "seller1", Role: enums.UserRoleSeller, AssignedStores: stores}
}

func processingOrder(id int64, price int64) marketplace.Order {
	return marketplace.Order{
		ID:     id,
		Status: marketplace.OrderStatusProcessing,
		Items: []marketplace.OrderItem{
			{OfferName: "Widget", OfferID: "SKU-1", Count: 1, Price: decimal.NewFromInt(price)},
		},
	}
}

func TestListCampaignsFiltersSellers(t *testing.T) {
	market := &stubMarket{campaigns: []marketplace.Campaign{
		{ID: 101, Domain: "store-one"},
		{ID: 202, Domain: ""},
		{ID: 303, Domain: "store-three"},
	}}
	svc := newTestService(t, market, nil)
	ctx := context.Background()

	views, err := svc.ListCampaigns(ctx, seller(202))
	if err != nil {
		t.Fatalf("ListCampaigns failed: %v", err)
	}
	if len(views) != 1 || views[0].ID != 202 {
		t.Fatalf("expected only campaign 202, got %+v", views)
	}
	if views[0].Name != "Store 202" {
		t.Fatalf("expected fallback name, got %q", views[0].Name)
	}

	views, err = svc.ListCampaigns(ctx, Actor{Username: "supplier1", Role: enums.UserRoleSupplier})
	if err != nil {
		t.Fatalf("ListCampaigns failed: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("suppliers see every campaign, got %d", len(views))
	}
}

func TestOrdersChecksSellerAssignment(t *testing.T) {
	market := &stubMarket{orders: map[string][]marketplace.Order{
		"101/PROCESSING": {processingOrder(11, 500)},
	}}
	svc := newTestService(t, market, nil)
	ctx := context.Background()

	_, err := svc.Orders(ctx, 101, seller(202))
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}

	lines, err := svc.Orders(ctx, 101, seller(101))
	if err != nil {
		t.Fatalf("Orders failed: %v", err)
	}
	if len(lines) != 1 || lines[0].OrderID != "11" {
		t.Fatalf("unexpected lines: %+v", lines)
	}
}

func TestCancelledSplitsByRole(t *testing.T) {
	market := &stubMarket{orders: map[string][]marketplace.Order{
		"101/CANCELLED": {processingOrder(11, 500)},
	}}
	cancelled := &stubCancelled{rows: []models.Decision{{OrderID: "11", Decision: enums.DecisionYes}}}
	svc := newTestService(t, market, cancelled)
	ctx := context.Background()

	list, err := svc.Cancelled(ctx, 101, seller(101))
	if err != nil {
		t.Fatalf("Cancelled failed: %v", err)
	}
	if len(list.Ledger) != 1 || len(list.Orders) != 0 {
		t.Fatalf("sellers read the ledger, got %+v", list)
	}

	list, err = svc.Cancelled(ctx, 101, Actor{Username: "supplier1", Role: enums.UserRoleSupplier})
	if err != nil {
		t.Fatalf("Cancelled failed: %v", err)
	}
	if len(list.Orders) != 1 || len(list.Ledger) != 0 {
		t.Fatalf("suppliers read the marketplace, got %+v", list)
	}
}

func TestOrderStatsAggregatesAndSkipsFailures(t *testing.T) {
	market := &stubMarket{
		campaigns: []marketplace.Campaign{{ID: 101}, {ID: 202}, {ID: 303}},
		stats: map[int64][]marketplace.StatsGroup{
			101: {
				{Status: marketplace.OrderStatusProcessing, OrdersCount: 2},
				{Status: marketplace.OrderStatusDelivered, OrdersCount: 5},
			},
			202: {
				{Status: marketplace.OrderStatusDelivery, OrdersCount: 1},
				{Status: marketplace.OrderStatusCancelled, OrdersCount: 4},
			},
		},
		statsErr: map[int64]error{303: fmt.Errorf("campaign offline")},
	}
	svc := newTestService(t, market, nil)

	stats, err := svc.OrderStats(context.Background(), Actor{Username: "root", Role: enums.UserRoleAdmin})
	if err != nil {
		t.Fatalf("OrderStats failed: %v", err)
	}
	want := OrderStatsView{Assembly: 2, Shipments: 2, Delivery: 1, Delivered: 5, Cancelled: 4}
	if *stats != want {
		t.Fatalf("expected %+v, got %+v", want, *stats)
	}
}

func TestSalesChartSumsDeliveredOnly(t *testing.T) {
	svc := newTestService(t, &stubMarket{campaigns: []marketplace.Campaign{{ID: 101}}}, nil)

	_, err := svc.SalesChart(context.Background(), Actor{Role: enums.UserRoleAdmin}, "yesterday")
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	chart, err := svc.SalesChart(context.Background(), Actor{Role: enums.UserRoleAdmin}, SalesFilterWeek)
	if err != nil {
		t.Fatalf("SalesChart failed: %v", err)
	}
	if len(chart.Labels) != 8 || len(chart.Data) != 8 {
		t.Fatalf("expected 8 buckets, got %d/%d", len(chart.Labels), len(chart.Data))
	}
}

func TestSalesChartBucketsByDay(t *testing.T) {
	market := &stubMarket{campaigns: []marketplace.Campaign{{ID: 101}}}
	svc := newTestService(t, market, nil)

	chart, err := svc.SalesChart(context.Background(), Actor{Role: enums.UserRoleAdmin}, SalesFilterWeek)
	if err != nil {
		t.Fatalf("SalesChart failed: %v", err)
	}

	market.stats = map[int64][]marketplace.StatsGroup{
		101: {
			{
				Date: chart.Labels[2],
				Orders: []marketplace.StatsOrder{
					{Status: marketplace.OrderStatusDelivered, Items: []marketplace.OrderItem{
						{Price: decimal.NewFromInt(100), Count: 2},
					}},
					{Status: marketplace.OrderStatusCancelled, Items: []marketplace.OrderItem{
						{Price: decimal.NewFromInt(999), Count: 1},
					}},
				},
			},
			{Date: "not-a-date"},
		},
	}
	chart, err = svc.SalesChart(context.Background(), Actor{Role: enums.UserRoleAdmin}, SalesFilterWeek)
	if err != nil {
		t.Fatalf("SalesChart failed: %v", err)
	}
	if !chart.Data[2].Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected 200 in bucket 2, got %s", chart.Data[2])
	}
	if !chart.Data[3].IsZero() {
		t.Fatalf("expected empty bucket 3, got %s", chart.Data[3])
	}
}
