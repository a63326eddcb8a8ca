// seed-data fills a running server with a demo account: income setup, a few
// wallet purchases and one credit purchase with dues.
//
// Usage:
//
//	go run ./scripts/seed-data                       # memory store, SKIP_AUTH
//	API_URL=https://... AUTH_TOKEN=... go run ./scripts/seed-data
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/kusalyaa/SpendMart-sub000/internal/models"
	"github.com/kusalyaa/SpendMart-sub000/internal/purchase"
	"github.com/kusalyaa/SpendMart-sub000/internal/service"
)

func main() {
	apiURL := os.Getenv("API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8111"
	}
	authToken := os.Getenv("AUTH_TOKEN")

	opts := []connect.ClientOption{connect.WithCodec(service.JSONCodec{})}
	if authToken != "" {
		opts = append(opts, connect.WithInterceptors(authInterceptor(authToken)))
	} else {
		log.Println("No AUTH_TOKEN, the server must run with the memory store or SKIP_AUTH=true")
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	ctx := context.Background()

	setup := connect.NewClient[service.SetupIncomeRequest, service.AccountResponse](
		httpClient, apiURL+service.ServicePath+"SetupIncome", opts...)
	acct, err := setup.CallUnary(ctx, connect.NewRequest(&service.SetupIncomeRequest{
		MonthlyIncome:   decimal.NewFromInt(185000),
		MonthlyExpenses: decimal.NewFromInt(72000),
		MonthlyBudget:   decimal.NewFromInt(45000),
	}))
	if err != nil {
		log.Fatalf("Failed to set up income: %v", err)
	}
	log.Printf("Account ready: wallet %s, credit limit %s",
		acct.Msg.Account.Balances.CurrentBalance.StringFixed(2), acct.Msg.Account.Credit.Limit.StringFixed(2))

	submit := connect.NewClient[service.SubmitPurchaseRequest, service.SubmitPurchaseResponse](
		httpClient, apiURL+service.ServicePath+"SubmitPurchase", opts...)

	purchases := []purchase.Input{
		{CategoryID: "groceries", Title: "Keells weekly shop", Amount: "8450.00", Method: models.PaymentWallet, Status: models.StatusPaid},
		{CategoryID: "dining", Title: "Ministry of Crab", Amount: "12600.00", Method: models.PaymentWallet, Status: models.StatusPaid},
		{CategoryID: "utilities", Title: "CEB electricity", Amount: "6300.00", Method: models.PaymentWallet, Status: models.StatusToBePaid},
		{CategoryID: "transport", Title: "PickMe rides", Amount: "3150.00", Method: models.PaymentWallet, Status: models.StatusPaid},
		{CategoryID: "electronics", Title: "Samsung refrigerator", Amount: "185000.00", Method: models.PaymentCredit, Status: models.StatusPay, Installments: 12},
	}

	for i, in := range purchases {
		in.Date = time.Now().AddDate(0, 0, -i*3)
		resp, err := submit.CallUnary(ctx, connect.NewRequest(&service.SubmitPurchaseRequest{Input: in}))
		if err != nil {
			log.Fatalf("Failed to submit %q: %v", in.Title, err)
		}
		if resp.Msg.Shortfall != nil {
			log.Printf("Skipped %q: wallet short by %s", in.Title, resp.Msg.Shortfall.Shortfall.StringFixed(2))
			continue
		}
		log.Printf("Recorded %q (%s) with %d dues", in.Title, resp.Msg.ItemID, len(resp.Msg.Dues))
	}

	log.Println("Seeding complete")
}

// authInterceptor adds the Authorization header to requests
func authInterceptor(token string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			req.Header().Set("Authorization", "Bearer "+token)
			return next(ctx, req)
		}
	}
}
