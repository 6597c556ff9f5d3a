package marketplace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/nurulloasawear/order-app/pkg/config"
	pkgerrors "github.com/nurulloasawear/order-app/pkg/errors"
	"github.com/nurulloasawear/order-app/pkg/logger"
)

var errLoggerRequired = errors.New("marketplace logger is required")

// Client talks to the partner API with centralized headers, timeouts,
// logging, and error mapping. Calls are made with the acting user's API key;
// there is no retry, a failed call surfaces as a dependency error.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	pageSize   int
	logger     *logger.Logger
}

// NewClient initializes the partner API wrapper.
func NewClient(ctx context.Context, cfg config.MarketplaceConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		return nil, errors.New("marketplace base url is required")
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    baseURL,
		userAgent:  cfg.UserAgent,
		pageSize:   pageSize,
		logger:     logg,
	}

	logg.Info(ctx, "marketplace client initialized")
	return c, nil
}

// ListCampaigns walks the paged campaigns listing until the pager is drained.
func (c *Client) ListCampaigns(ctx context.Context, apiKey string) ([]Campaign, error) {
	var all []Campaign
	page := 1
	for {
		query := url.Values{}
		query.Set("page", strconv.Itoa(page))
		query.Set("pageSize", strconv.Itoa(c.pageSize))

		c.log(ctx, "request", "list_campaigns", map[string]any{"page": page})

		var payload struct {
			Campaigns []Campaign `json:"campaigns"`
			Pager     struct {
				PagesCount int `json:"pagesCount"`
			} `json:"pager"`
		}
		if err := c.get(ctx, apiKey, "/v2/campaigns", query, &payload); err != nil {
			c.log(ctx, "error", "list_campaigns", map[string]any{"error": err.Error()})
			return nil, err
		}

		if len(payload.Campaigns) == 0 {
			break
		}
		all = append(all, payload.Campaigns...)

		if payload.Pager.PagesCount == 0 || page >= payload.Pager.PagesCount {
			break
		}
		page++
	}

	c.log(ctx, "response", "list_campaigns", map[string]any{"count": len(all)})
	return all, nil
}

// ListOrders fetches every order of a campaign in the given status.
func (c *Client) ListOrders(ctx context.Context, apiKey string, campaignID int64, status string) ([]Order, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}

	c.log(ctx, "request", "list_orders", map[string]any{"campaign_id": campaignID, "status": status})

	var payload struct {
		Orders []Order `json:"orders"`
	}
	path := fmt.Sprintf("/v2/campaigns/%d/orders", campaignID)
	if err := c.get(ctx, apiKey, path, query, &payload); err != nil {
		c.log(ctx, "error", "list_orders", map[string]any{"error": err.Error()})
		return nil, err
	}

	c.log(ctx, "response", "list_orders", map[string]any{"count": len(payload.Orders)})
	return payload.Orders, nil
}

// GetOrder fetches one order by id.
func (c *Client) GetOrder(ctx context.Context, apiKey string, campaignID int64, orderID string) (*Order, error) {
	c.log(ctx, "request", "get_order", map[string]any{"campaign_id": campaignID, "order_id": orderID})

	var payload struct {
		Order *Order `json:"order"`
	}
	path := fmt.Sprintf("/v2/campaigns/%d/orders/%s", campaignID, url.PathEscape(orderID))
	if err := c.get(ctx, apiKey, path, nil, &payload); err != nil {
		c.log(ctx, "error", "get_order", map[string]any{"error": err.Error()})
		return nil, err
	}
	if payload.Order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	c.log(ctx, "response", "get_order", map[string]any{"order_id": orderID})
	return payload.Order, nil
}

// OrderStats fetches the stats/orders aggregation for a campaign.
func (c *Client) OrderStats(ctx context.Context, apiKey string, campaignID int64, params StatsParams) ([]StatsGroup, error) {
	query := url.Values{}
	if params.GroupBy != "" {
		query.Set("groupBy", params.GroupBy)
	}
	if params.FromDate != "" {
		query.Set("fromDate", params.FromDate)
	}
	if params.ToDate != "" {
		query.Set("toDate", params.ToDate)
	}

	c.log(ctx, "request", "order_stats", map[string]any{"campaign_id": campaignID, "group_by": params.GroupBy})

	var payload struct {
		Groups []StatsGroup `json:"groups"`
	}
	path := fmt.Sprintf("/v2/campaigns/%d/stats/orders.json", campaignID)
	if err := c.get(ctx, apiKey, path, query, &payload); err != nil {
		c.log(ctx, "error", "order_stats", map[string]any{"error": err.Error()})
		return nil, err
	}

	c.log(ctx, "response", "order_stats", map[string]any{"groups": len(payload.Groups)})
	return payload.Groups, nil
}

func (c *Client) get(ctx context.Context, apiKey, path string, query url.Values, out any) error {
	if strings.TrimSpace(apiKey) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "marketplace api key is missing")
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building marketplace request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "*/*")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Api-Key", apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marketplace call failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		code := domainCodeForStatus(resp.StatusCode)
		return pkgerrors.New(code, fmt.Sprintf("marketplace returned %d", resp.StatusCode)).
			WithDetails(map[string]any{"status": resp.StatusCode, "body": string(body)})
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding marketplace response")
	}
	return nil
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = c.redact(k, v)
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("marketplace %s", op), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("marketplace %s", phase))
	}
}

func (c *Client) redact(key string, value any) any {
	lower := strings.ToLower(key)
	for _, sensitive := range []string{"key", "token", "secret"} {
		if strings.Contains(lower, sensitive) {
			return "[REDACTED]"
		}
	}
	return value
}

func domainCodeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusUnauthorized:
		return pkgerrors.CodeUnauthorized
	case http.StatusForbidden:
		return pkgerrors.CodeForbidden
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case http.StatusTooManyRequests:
		return pkgerrors.CodeRateLimit
	case http.StatusBadRequest:
		return pkgerrors.CodeValidation
	default:
		return pkgerrors.CodeDependency
	}
}
