package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/algolia/algoliasearch-client-go/v4/algolia/search"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/kusalyaa/SpendMart-sub000/internal/models"
)

// Config holds Algolia configuration.
type Config struct {
	AppID     string
	APIKey    string // Write key; searches are always filtered by user
	IndexName string
}

// SearchParams defines the input for an item search.
type SearchParams struct {
	Query      string
	UserID     string
	CategoryID string
	Method     models.PaymentMethod
	// Amount range in rupees, ignored when zero
	AmountMin decimal.Decimal
	AmountMax decimal.Decimal
	StartDate *time.Time
	EndDate   *time.Time
	// Pagination (offset-based)
	Page     int
	PageSize int
}

// Hit is one matching item.
type Hit struct {
	ItemID     string          `json:"itemId"`
	CategoryID string          `json:"categoryId"`
	Title      string          `json:"title"`
	Amount     decimal.Decimal `json:"amount"`
	Date       time.Time       `json:"date"`
	Method     string          `json:"method"`
	Status     string          `json:"status"`
}

// SearchResponse holds results from Algolia.
type SearchResponse struct {
	Hits       []Hit `json:"hits"`
	TotalCount int   `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
	Page       int   `json:"page"`
}

// AlgoliaClient wraps the Algolia search API client.
type AlgoliaClient struct {
	client    *search.APIClient
	indexName string
	log       logrus.FieldLogger
}

// NewAlgoliaClient creates a new Algolia search client.
func NewAlgoliaClient(cfg Config, log logrus.FieldLogger) (*AlgoliaClient, error) {
	if cfg.AppID == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("algolia AppID and APIKey are required")
	}
	if cfg.IndexName == "" {
		cfg.IndexName = "spendmart_items"
	}

	client, err := search.NewClient(cfg.AppID, cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("creating algolia client: %w", err)
	}

	return &AlgoliaClient{
		client:    client,
		indexName: cfg.IndexName,
		log:       log.WithField("component", "search"),
	}, nil
}

// IndexItem adds or replaces the search record of a purchased item.
func (c *AlgoliaClient) IndexItem(ctx context.Context, item *models.Item) error {
	if item == nil || item.ID == "" {
		return fmt.Errorf("index item: missing item id")
	}
	_, err := c.client.SaveObject(c.client.NewApiSaveObjectRequest(c.indexName, ItemRecord(item)))
	if err != nil {
		return fmt.Errorf("algolia save object %s: %w", item.ID, err)
	}
	return nil
}

// Search performs a full-text item search via Algolia.
func (c *AlgoliaClient) Search(ctx context.Context, params SearchParams) (*SearchResponse, error) {
	if params.UserID == "" {
		return nil, fmt.Errorf("algolia search: user id is required")
	}

	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = 25
	}
	if pageSize > 100 {
		pageSize = 100
	}

	page := params.Page
	if page < 0 {
		page = 0
	}

	searchParams := search.SearchParamsObjectAsSearchParams(
		search.NewSearchParamsObject().
			SetQuery(params.Query).
			SetHitsPerPage(int32(pageSize)).
			SetPage(int32(page)).
			SetFilters(buildFilters(params)),
	)

	resp, err := c.client.SearchSingleIndex(c.client.NewApiSearchSingleIndexRequest(c.indexName).WithSearchParams(searchParams))
	if err != nil {
		return nil, fmt.Errorf("algolia search: %w", err)
	}

	hits := make([]Hit, 0, len(resp.Hits))
	for _, h := range resp.Hits {
		hit, ok := recordToHit(h.ObjectID, h.AdditionalProperties)
		if !ok {
			c.log.Warn("Skipping search hit with no objectID")
			continue
		}
		hits = append(hits, hit)
	}

	out := &SearchResponse{Hits: hits, Page: page}
	if resp.NbHits != nil {
		out.TotalCount = int(*resp.NbHits)
	}
	if resp.NbPages != nil {
		out.TotalPages = int(*resp.NbPages)
	}
	return out, nil
}

// ItemRecord is the Algolia record stored for an item.
func ItemRecord(item *models.Item) map[string]any {
	amount, _ := item.Amount.Float64()
	return map[string]any{
		"objectID":   item.ID,
		"UserId":     item.UserID,
		"CategoryId": item.CategoryID,
		"Title":      item.Title,
		"Note":       item.Note,
		"Amount":     amount,
		"AmountText": item.Amount.StringFixed(2),
		"DateUnix":   item.Date.Unix(),
		"Method":     string(item.Method()),
		"Status":     string(item.Status),
	}
}

// buildFilters constructs the Algolia filter string from search params.
// UserId is always enforced.
func buildFilters(params SearchParams) string {
	parts := []string{fmt.Sprintf("UserId:%q", params.UserID)}

	if params.CategoryID != "" {
		parts = append(parts, fmt.Sprintf("CategoryId:%q", params.CategoryID))
	}
	if params.Method != "" {
		parts = append(parts, fmt.Sprintf("Method:%q", string(params.Method)))
	}
	if params.AmountMin.IsPositive() {
		parts = append(parts, "Amount >= "+params.AmountMin.String())
	}
	if params.AmountMax.IsPositive() {
		parts = append(parts, "Amount <= "+params.AmountMax.String())
	}
	if params.StartDate != nil {
		parts = append(parts, fmt.Sprintf("DateUnix >= %d", params.StartDate.Unix()))
	}
	if params.EndDate != nil {
		parts = append(parts, fmt.Sprintf("DateUnix <= %d", params.EndDate.Unix()))
	}

	return strings.Join(parts, " AND ")
}

// recordToHit converts stored record attributes back into a Hit.
func recordToHit(objectID string, props map[string]any) (Hit, bool) {
	hit := Hit{ItemID: objectID}
	if hit.ItemID == "" {
		if v, ok := props["objectID"].(string); ok {
			hit.ItemID = v
		}
	}
	if hit.ItemID == "" {
		return Hit{}, false
	}

	if v, ok := props["CategoryId"].(string); ok {
		hit.CategoryID = v
	}
	if v, ok := props["Title"].(string); ok {
		hit.Title = v
	}
	if v, ok := props["Method"].(string); ok {
		hit.Method = v
	}
	if v, ok := props["Status"].(string); ok {
		hit.Status = v
	}

	// Amount: prefer the exact text form
	if v, ok := props["AmountText"].(string); ok {
		if d, err := decimal.NewFromString(v); err == nil {
			hit.Amount = d
		}
	} else if v, ok := props["Amount"].(float64); ok {
		hit.Amount = decimal.NewFromFloat(v)
	}

	if v, ok := props["DateUnix"].(float64); ok && v > 0 {
		hit.Date = time.Unix(int64(v), 0).UTC()
	}

	return hit, true
}
