package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"connectrpc.com/connect"
	"github.com/sirupsen/logrus"

	"github.com/kusalyaa/SpendMart-sub000/internal/auth"
	"github.com/kusalyaa/SpendMart-sub000/internal/models"
	"github.com/kusalyaa/SpendMart-sub000/internal/search"
)

// scanLimit bounds the store scan used when no search index is configured.
const scanLimit = 500

// SubmitPurchase records a purchase. A wallet shortfall is a successful
// response carrying the shortfall options, not an error.
func (s *FinanceService) SubmitPurchase(ctx context.Context, req *connect.Request[SubmitPurchaseRequest]) (*connect.Response[SubmitPurchaseResponse], error) {
	if _, err := auth.RequireAuth(ctx); err != nil {
		return nil, err
	}

	result, err := s.orchestrator.Submit(ctx, req.Msg.Input)
	if err != nil {
		return nil, toConnectError("submit purchase", err)
	}

	return connect.NewResponse(&SubmitPurchaseResponse{
		ItemID:    result.ItemID,
		Item:      itemView(result.Item),
		Dues:      result.Dues,
		Shortfall: result.Shortfall,
	}), nil
}

// GetItem fetches one item.
func (s *FinanceService) GetItem(ctx context.Context, req *connect.Request[GetItemRequest]) (*connect.Response[GetItemResponse], error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.CategoryID == "" || req.Msg.ItemID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("categoryId and itemId are required"))
	}

	item, err := s.store.GetItem(ctx, claims.UID, req.Msg.CategoryID, req.Msg.ItemID)
	if err != nil {
		return nil, toConnectError("get item", err)
	}
	return connect.NewResponse(&GetItemResponse{Item: itemView(item)}), nil
}

// ListItems pages through items, across all categories when none is given.
func (s *FinanceService) ListItems(ctx context.Context, req *connect.Request[ListItemsRequest]) (*connect.Response[ListItemsResponse], error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}

	pageSize := int32(auth.NormalizePageSize(req.Msg.PageSize))
	items, next, err := s.store.ListItems(ctx, claims.UID, req.Msg.CategoryID, pageSize, req.Msg.PageToken)
	if err != nil {
		return nil, toConnectError("list items", auth.WrapStoreError("list items", err))
	}

	views := make([]*ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, itemView(item))
	}
	return connect.NewResponse(&ListItemsResponse{Items: views, NextPageToken: next}), nil
}

// SearchItems runs a full-text search over the caller's items.
func (s *FinanceService) SearchItems(ctx context.Context, req *connect.Request[SearchItemsRequest]) (*connect.Response[SearchItemsResponse], error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}

	msg := req.Msg
	params := search.SearchParams{
		Query:      strings.TrimSpace(msg.Query),
		UserID:     claims.UID,
		CategoryID: msg.CategoryID,
		Method:     msg.Method,
		AmountMin:  msg.AmountMin,
		AmountMax:  msg.AmountMax,
		StartDate:  msg.StartDate,
		EndDate:    msg.EndDate,
		Page:       msg.Page,
		PageSize:   msg.PageSize,
	}

	var resp *search.SearchResponse
	if s.searcher != nil {
		resp, err = s.searcher.Search(ctx, params)
	} else {
		resp, err = s.scanItems(ctx, params)
	}
	if err != nil {
		return nil, toConnectError("search items", err)
	}

	return connect.NewResponse(&SearchItemsResponse{
		Hits:       resp.Hits,
		TotalCount: resp.TotalCount,
		TotalPages: resp.TotalPages,
		Page:       resp.Page,
	}), nil
}

// scanItems filters the most recent items in the store when no search index
// is configured.
func (s *FinanceService) scanItems(ctx context.Context, params search.SearchParams) (*search.SearchResponse, error) {
	var matched []search.Hit
	query := strings.ToLower(params.Query)

	var token string
	scanned := 0
	for scanned < scanLimit {
		items, next, err := s.store.ListItems(ctx, params.UserID, params.CategoryID, 100, token)
		if err != nil {
			return nil, auth.WrapStoreError("list items", err)
		}
		scanned += len(items)
		for _, item := range items {
			if matchesSearch(item, query, params) {
				matched = append(matched, itemHit(item))
			}
		}
		if next == "" {
			break
		}
		token = next
	}
	if scanned >= scanLimit {
		s.log.WithFields(logrus.Fields{"user_id": params.UserID, "scanned": scanned}).
			Warn("Search scan limit reached; configure a search index")
	}

	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Date.After(matched[j].Date) })

	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = 25
	}
	page := params.Page
	if page < 0 {
		page = 0
	}
	resp := &search.SearchResponse{
		TotalCount: len(matched),
		TotalPages: (len(matched) + pageSize - 1) / pageSize,
		Page:       page,
		Hits:       []search.Hit{},
	}
	start := page * pageSize
	if start < len(matched) {
		end := start + pageSize
		if end > len(matched) {
			end = len(matched)
		}
		resp.Hits = matched[start:end]
	}
	return resp, nil
}

func matchesSearch(item *models.Item, query string, params search.SearchParams) bool {
	if query != "" &&
		!strings.Contains(strings.ToLower(item.Title), query) &&
		!strings.Contains(strings.ToLower(item.Note), query) {
		return false
	}
	if params.Method != "" && item.Method() != params.Method {
		return false
	}
	if params.AmountMin.IsPositive() && item.Amount.LessThan(params.AmountMin) {
		return false
	}
	if params.AmountMax.IsPositive() && item.Amount.GreaterThan(params.AmountMax) {
		return false
	}
	if params.StartDate != nil && item.Date.Before(*params.StartDate) {
		return false
	}
	if params.EndDate != nil && item.Date.After(*params.EndDate) {
		return false
	}
	return true
}

func itemHit(item *models.Item) search.Hit {
	return search.Hit{
		ItemID:     item.ID,
		CategoryID: item.CategoryID,
		Title:      item.Title,
		Amount:     item.Amount,
		Date:       item.Date,
		Method:     string(item.Method()),
		Status:     string(item.Status),
	}
}
