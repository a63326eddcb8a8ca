// Package service exposes the ledger over connect RPC.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"connectrpc.com/connect"
	"github.com/sirupsen/logrus"

	"github.com/kusalyaa/SpendMart-sub000/internal/dues"
	"github.com/kusalyaa/SpendMart-sub000/internal/extraction"
	"github.com/kusalyaa/SpendMart-sub000/internal/ledger"
	"github.com/kusalyaa/SpendMart-sub000/internal/notify"
	"github.com/kusalyaa/SpendMart-sub000/internal/purchase"
	"github.com/kusalyaa/SpendMart-sub000/internal/search"
	"github.com/kusalyaa/SpendMart-sub000/internal/store"
)

// ServicePath is the URL prefix of every FinanceService procedure.
const ServicePath = "/spendmart.v1.FinanceService/"

// ItemSearcher runs full-text item searches.
type ItemSearcher interface {
	Search(ctx context.Context, params search.SearchParams) (*search.SearchResponse, error)
}

// ReceiptExtractor reads merchant, amount and date from a receipt.
type ReceiptExtractor interface {
	Extract(ctx context.Context, data []byte, filename, contentType string) (*extraction.Receipt, error)
}

// ReminderDispatcher sends reminders that have come due.
type ReminderDispatcher interface {
	DispatchDue(ctx context.Context) (notify.DispatchStats, error)
}

type FinanceService struct {
	store        store.Store
	ledger       *ledger.Ledger
	orchestrator *purchase.Orchestrator
	dues         *dues.Scheduler
	log          logrus.FieldLogger

	extractor  ReceiptExtractor
	searcher   ItemSearcher
	archive    ReceiptArchive
	dispatcher ReminderDispatcher
}

func NewFinanceService(s store.Store, l *ledger.Ledger, o *purchase.Orchestrator, d *dues.Scheduler, log logrus.FieldLogger) *FinanceService {
	return &FinanceService{
		store:        s,
		ledger:       l,
		orchestrator: o,
		dues:         d,
		log:          log.WithField("component", "service"),
	}
}

// SetExtractor enables ExtractReceipt.
func (s *FinanceService) SetExtractor(e ReceiptExtractor) {
	s.extractor = e
}

// SetSearcher routes SearchItems to a search index instead of a store scan.
func (s *FinanceService) SetSearcher(searcher ItemSearcher) {
	s.searcher = searcher
}

// SetReceiptArchive enables archiving of uploaded receipts.
func (s *FinanceService) SetReceiptArchive(a ReceiptArchive) {
	s.archive = a
}

// SetDispatcher enables the DispatchReminders procedure.
func (s *FinanceService) SetDispatcher(d ReminderDispatcher) {
	s.dispatcher = d
}

// NewFinanceServiceHandler builds the HTTP handler serving every procedure
// under ServicePath.
func NewFinanceServiceHandler(svc *FinanceService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(ServicePath+"SetupIncome", connect.NewUnaryHandler(ServicePath+"SetupIncome", svc.SetupIncome, opts...))
	mux.Handle(ServicePath+"GetAccount", connect.NewUnaryHandler(ServicePath+"GetAccount", svc.GetAccount, opts...))
	mux.Handle(ServicePath+"EstimateCreditLimit", connect.NewUnaryHandler(ServicePath+"EstimateCreditLimit", svc.EstimateCreditLimit, opts...))
	mux.Handle(ServicePath+"QuoteInstallments", connect.NewUnaryHandler(ServicePath+"QuoteInstallments", svc.QuoteInstallments, opts...))
	mux.Handle(ServicePath+"TopUpEmergencyFund", connect.NewUnaryHandler(ServicePath+"TopUpEmergencyFund", svc.TopUpEmergencyFund, opts...))
	mux.Handle(ServicePath+"SetEmergencyFundGoal", connect.NewUnaryHandler(ServicePath+"SetEmergencyFundGoal", svc.SetEmergencyFundGoal, opts...))
	mux.Handle(ServicePath+"SubmitPurchase", connect.NewUnaryHandler(ServicePath+"SubmitPurchase", svc.SubmitPurchase, opts...))
	mux.Handle(ServicePath+"GetItem", connect.NewUnaryHandler(ServicePath+"GetItem", svc.GetItem, opts...))
	mux.Handle(ServicePath+"ListItems", connect.NewUnaryHandler(ServicePath+"ListItems", svc.ListItems, opts...))
	mux.Handle(ServicePath+"SearchItems", connect.NewUnaryHandler(ServicePath+"SearchItems", svc.SearchItems, opts...))
	mux.Handle(ServicePath+"ListDues", connect.NewUnaryHandler(ServicePath+"ListDues", svc.ListDues, opts...))
	mux.Handle(ServicePath+"MarkDuePaid", connect.NewUnaryHandler(ServicePath+"MarkDuePaid", svc.MarkDuePaid, opts...))
	mux.Handle(ServicePath+"ExportDues", connect.NewUnaryHandler(ServicePath+"ExportDues", svc.ExportDues, opts...))
	mux.Handle(ServicePath+"ExtractReceipt", connect.NewUnaryHandler(ServicePath+"ExtractReceipt", svc.ExtractReceipt, opts...))
	mux.Handle(ServicePath+"RegisterPushToken", connect.NewUnaryHandler(ServicePath+"RegisterPushToken", svc.RegisterPushToken, opts...))
	mux.Handle(ServicePath+"UnregisterPushToken", connect.NewUnaryHandler(ServicePath+"UnregisterPushToken", svc.UnregisterPushToken, opts...))
	mux.Handle(ServicePath+"DispatchReminders", connect.NewUnaryHandler(ServicePath+"DispatchReminders", svc.DispatchReminders, opts...))
	return ServicePath, mux
}

// toConnectError maps domain errors onto connect codes.
func toConnectError(op string, err error) error {
	if err == nil {
		return nil
	}

	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	var validationErr *purchase.ValidationError
	var persistenceErr *purchase.PersistenceError
	switch {
	case errors.As(err, &validationErr):
		return connect.NewError(connect.CodeInvalidArgument, validationErr)
	case errors.Is(err, purchase.ErrUnauthenticated):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, store.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, fmt.Errorf("%s: %w", op, err))
	case errors.Is(err, ledger.ErrNegativeAmount),
		errors.Is(err, ledger.ErrNonPositiveAmount):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, ledger.ErrInsufficientFreeCash):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.As(err, &persistenceErr):
		// Keep the store's raw message so the client can show it.
		return connect.NewError(connect.CodeInternal, persistenceErr)
	}

	if code, ok := extraction.CodeOf(err); ok {
		return extractionError(code, err)
	}

	return connect.NewError(connect.CodeInternal, fmt.Errorf("%s: %w", op, err))
}

// extractionError maps extraction failures to connect codes.
func extractionError(code extraction.ExtractionErrorCode, err error) *connect.Error {
	switch code {
	case extraction.ErrOCRUnavailable, extraction.ErrOCRTimeout, extraction.ErrOCRNotConfigured:
		return connect.NewError(connect.CodeUnavailable, err)
	case extraction.ErrInvalidDocument:
		return connect.NewError(connect.CodeInvalidArgument, err)
	case extraction.ErrNothingFound:
		return connect.NewError(connect.CodeNotFound, fmt.Errorf("nothing readable on receipt, enter it manually: %w", err))
	default:
		return connect.NewError(connect.CodeInternal, fmt.Errorf("extraction failed: %w", err))
	}
}
