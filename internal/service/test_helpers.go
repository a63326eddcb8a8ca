package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/kusalyaa/SpendMart-sub000/internal/auth"
	"github.com/kusalyaa/SpendMart-sub000/internal/dues"
	"github.com/kusalyaa/SpendMart-sub000/internal/ledger"
	"github.com/kusalyaa/SpendMart-sub000/internal/notify"
	"github.com/kusalyaa/SpendMart-sub000/internal/purchase"
	"github.com/kusalyaa/SpendMart-sub000/internal/store"
)

// testNow is the fixed clock of the test fixture.
var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// testContextWithUser creates a context with authenticated user claims for testing
func testContextWithUser(userID string) context.Context {
	return auth.WithUserClaims(context.Background(), &auth.UserClaims{
		UID:   userID,
		Email: userID + "@test.local",
	})
}

type testFixture struct {
	store *store.MemoryStore
	svc   *FinanceService
}

// newTestService wires a FinanceService over an in-memory store.
func newTestService(t *testing.T) *testFixture {
	t.Helper()
	logger, _ := logtest.NewNullLogger()

	s := store.NewMemoryStore()
	l := ledger.New(s, logger)
	sched := dues.NewScheduler(s, notify.NewStoreScheduler(s), logger, dues.Config{ReminderHour: 9, Location: time.UTC})
	sched.SetClock(func() time.Time { return testNow })
	orch := purchase.NewOrchestrator(l, sched, auth.ContextIdentity{}, nil, logger, purchase.DefaultConfig())
	orch.SetClock(func() time.Time { return testNow })

	return &testFixture{
		store: s,
		svc:   NewFinanceService(s, l, orch, sched, logger),
	}
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }
