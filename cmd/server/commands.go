package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/kusalyaa/SpendMart-sub000/internal/credit"
	"github.com/kusalyaa/SpendMart-sub000/internal/money"
)

var dispatchRemindersCmd = &cobra.Command{
	Use:   "dispatch-reminders",
	Short: "Send one batch of due reminders and exit",
	Long: `dispatch-reminders sends every stored reminder whose fire time has
passed, for use from Cloud Scheduler or cron when the server's own ticker is
disabled.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		a, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		stats, err := a.dispatcher.DispatchDue(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "sent=%d skipped=%d failed=%d\n", stats.Sent, stats.Skipped, stats.Failed)
		return nil
	},
}

var (
	limitIncome   string
	limitExpenses string
	limitBudget   string
)

var estimateLimitCmd = &cobra.Command{
	Use:   "estimate-limit",
	Short: "Estimate a credit limit from monthly figures",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		values := make([]decimal.Decimal, 3)
		for i, raw := range []string{limitIncome, limitExpenses, limitBudget} {
			v, err := money.Parse(raw)
			if err != nil {
				return err
			}
			values[i] = v
		}

		b := credit.ExplainLimit(values[0], values[1], values[2])
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "Disposable\t%s\n", money.Format(b.Disposable))
		fmt.Fprintf(w, "Cushion\t%s\n", money.Format(b.Cushion))
		fmt.Fprintf(w, "Risk score\t%s\n", b.RiskScore.StringFixed(3))
		fmt.Fprintf(w, "Multiplier\t%s\n", b.Multiplier.StringFixed(3))
		fmt.Fprintf(w, "Cap\t%s\n", money.Format(b.Cap))
		fmt.Fprintf(w, "Limit\t%s\n", money.Format(b.Limit))
		return w.Flush()
	},
}

var (
	quotePrincipal string
	quoteMonths    []int
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price a principal over installment terms",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		principal, err := money.Parse(quotePrincipal)
		if err != nil {
			return err
		}
		pc := cfg.PurchaseConfig()
		months := quoteMonths
		if len(months) == 0 {
			months = pc.ShortfallTerms
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "Months\tInterest\tTotal\tPer installment")
		for _, m := range months {
			if m < 1 || m > pc.MaxInstallments {
				return fmt.Errorf("months must be between 1 and %d, got %d", pc.MaxInstallments, m)
			}
			plan := credit.PlanInstallments(principal, pc.MonthlyRate, m)
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", plan.Months, money.Format(plan.Interest), money.Format(plan.Total), money.Format(plan.PerInstallment))
		}
		return w.Flush()
	},
}

func init() {
	estimateLimitCmd.Flags().StringVar(&limitIncome, "income", "", "monthly income")
	estimateLimitCmd.Flags().StringVar(&limitExpenses, "expenses", "0", "monthly fixed expenses")
	estimateLimitCmd.Flags().StringVar(&limitBudget, "budget", "0", "monthly spending budget")
	_ = estimateLimitCmd.MarkFlagRequired("income")

	quoteCmd.Flags().StringVar(&quotePrincipal, "principal", "", "amount to finance")
	quoteCmd.Flags().IntSliceVar(&quoteMonths, "months", nil, "terms in months (default: configured shortfall terms)")
	_ = quoteCmd.MarkFlagRequired("principal")
}
