package marketplace

import (
	"strconv"

	"github.com/shopspring/decimal"
)

func formatOrderID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Campaign is one partner store as returned by the campaigns listing.
type Campaign struct {
	ID       int64  `json:"id"`
	Domain   string `json:"domain"`
	ClientID int64  `json:"clientId"`
}

// Order is the subset of the partner order payload the workflow reads.
type Order struct {
	ID           int64       `json:"id"`
	Status       string      `json:"status"`
	Substatus    string      `json:"substatus"`
	CreationDate string      `json:"creationDate"`
	Items        []OrderItem `json:"items"`
	Delivery     Delivery    `json:"delivery"`
}

// OrderItem is one purchased line inside an order.
type OrderItem struct {
	OfferName string          `json:"offerName"`
	OfferID   string          `json:"offerId"`
	ShopSKU   string          `json:"shopSku"`
	Count     int             `json:"count"`
	Price     decimal.Decimal `json:"price"`
	Barcode   string          `json:"barcode"`
}

// Delivery carries the outlet the order ships from.
type Delivery struct {
	Outlet Outlet `json:"outlet"`
}

// Outlet is a named warehouse/pickup point.
type Outlet struct {
	Name string `json:"name"`
}

// OrderLine is an order flattened to one row per item, the shape every
// workflow surface consumes.
type OrderLine struct {
	OrderID     string          `json:"order_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	Quantity    int             `json:"quantity"`
	Warehouse   string          `json:"warehouse"`
	Barcode     string          `json:"barcode"`
	Price       decimal.Decimal `json:"price"`
}

// StatsGroup is one bucket of the stats/orders aggregation.
type StatsGroup struct {
	Status      string       `json:"status"`
	OrdersCount int          `json:"ordersCount"`
	Date        string       `json:"date"`
	Orders      []StatsOrder `json:"orders"`
}

// StatsOrder is the per-order detail inside a DAY-grouped stats bucket.
type StatsOrder struct {
	Status string      `json:"status"`
	Items  []OrderItem `json:"items"`
}

// StatsParams narrows a stats request.
type StatsParams struct {
	GroupBy  string
	FromDate string
	ToDate   string
}

const (
	// OrderStatusProcessing marks orders awaiting fulfillment decisions.
	OrderStatusProcessing = "PROCESSING"
	// OrderStatusCancelled marks orders pulled back from fulfillment.
	OrderStatusCancelled = "CANCELLED"
	// OrderStatusDelivery marks orders in transit.
	OrderStatusDelivery = "DELIVERY"
	// OrderStatusDelivered marks completed orders.
	OrderStatusDelivered = "DELIVERED"
)

const unknownWarehouse = "unknown"

// Lines flattens the order into one row per item. Price is the item price
// multiplied by the count. OfferID wins over ShopSKU when both are present.
func (o Order) Lines() []OrderLine {
	warehouse := o.Delivery.Outlet.Name
	if warehouse == "" {
		warehouse = unknownWarehouse
	}
	lines := make([]OrderLine, 0, len(o.Items))
	for _, item := range o.Items {
		lines = append(lines, OrderLine{
			OrderID:     formatOrderID(o.ID),
			ProductName: item.OfferName,
			SKU:         item.SKU(),
			Quantity:    item.quantity(),
			Warehouse:   warehouse,
			Barcode:     item.Barcode,
			Price:       item.LineTotal(),
		})
	}
	return lines
}

// SKU prefers the offer id and falls back to the shop SKU.
func (i OrderItem) SKU() string {
	if i.OfferID != "" {
		return i.OfferID
	}
	return i.ShopSKU
}

// LineTotal returns price multiplied by count.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.quantity())))
}

func (i OrderItem) quantity() int {
	if i.Count <= 0 {
		return 1
	}
	return i.Count
}

// FlattenOrders concatenates the lines of every order in input order.
func FlattenOrders(orders []Order) []OrderLine {
	var lines []OrderLine
	for _, order := range orders {
		lines = append(lines, order.Lines()...)
	}
	return lines
}
