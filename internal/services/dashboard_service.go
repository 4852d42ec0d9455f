package services

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"financas/internal/core"
	"financas/internal/ledger"
	applog "financas/internal/log"
)

// RecordReader is the read surface the dashboard needs.
type RecordReader interface {
	ListIncomes(ctx context.Context, userID string) ([]ledger.IncomeRecord, error)
	ListExpenses(ctx context.Context, userID string) ([]ledger.ExpenseRecord, error)
	ListGoals(ctx context.Context, userID string) ([]ledger.GoalRecord, error)
}

// recentLimit caps how many transactions the dashboard lists.
const recentLimit = 5

// Transaction is a single dated movement, income or expense, flattened for
// the dashboard's recent-activity list. Kind is one of the ledger kind
// constants.
type Transaction struct {
	Kind        string
	ID          int64
	Description string
	Amount      core.Money
	Date        core.Date
}

// DashboardSummary is the aggregated read model behind the dashboard
// endpoint: the current month's figures, the trailing month buckets, the
// goals headline and the latest transactions.
type DashboardSummary struct {
	Summary core.MonthSummary
	Buckets []core.MonthlyBucket
	Goals   core.GoalsOverview
	Recent  []Transaction
	Skipped int
}

// MonthlyReport is the read model behind the monthly report endpoint.
type MonthlyReport struct {
	Month    core.YearMonth
	Totals   core.MonthTotals
	Incomes  []ledger.IncomeRecord
	Expenses []ledger.ExpenseRecord
}

// GoalsSummary pairs each goal with its progress plus the aggregate line.
type GoalsSummary struct {
	Goals    []ledger.GoalRecord
	Progress []core.GoalProgress
	Overview core.GoalsOverview
}

// DashboardService assembles read models from the ledger. The per-user
// record sets are fetched concurrently; aggregation itself is pure.
type DashboardService struct {
	reader RecordReader
	logger *applog.Logger
}

func NewDashboardService(reader RecordReader, logger *applog.Logger) *DashboardService {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &DashboardService{
		reader: reader,
		logger: logger.WithComponent(applog.ComponentServices),
	}
}

// Summary builds the dashboard for ref's month.
func (s *DashboardService) Summary(ctx context.Context, userID string, ref core.Date) (DashboardSummary, error) {
	var (
		incomes  []ledger.IncomeRecord
		expenses []ledger.ExpenseRecord
		goals    []ledger.GoalRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		incomes, err = s.reader.ListIncomes(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		expenses, err = s.reader.ListExpenses(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		goals, err = s.reader.ListGoals(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return DashboardSummary{}, fmt.Errorf("load records: %w", err)
	}

	ins, exs := unwrapRecords(incomes, expenses)

	summary, skippedSummary := core.Summarize(ins, exs, ref)
	buckets, skippedBuckets := core.MonthlyBuckets(ins, exs, ref)
	skipped := skippedSummary
	if skippedBuckets > skipped {
		skipped = skippedBuckets
	}
	if skipped > 0 {
		s.logger.WarnContext(ctx, "records with invalid dates excluded from dashboard",
			applog.FieldUserID, userID, "skipped_records", skipped)
	}

	return DashboardSummary{
		Summary: summary,
		Buckets: buckets,
		Goals:   core.OverviewOf(unwrapGoals(goals)),
		Recent:  recentTransactions(incomes, expenses, recentLimit),
		Skipped: skipped,
	}, nil
}

// recentTransactions merges both record kinds and returns the latest ones,
// newest first. Ties on date break by insertion order.
func recentTransactions(incomes []ledger.IncomeRecord, expenses []ledger.ExpenseRecord, limit int) []Transaction {
	merged := make([]Transaction, 0, len(incomes)+len(expenses))
	for _, rec := range incomes {
		merged = append(merged, Transaction{
			Kind:        ledger.KindIncome,
			ID:          rec.ID,
			Description: rec.Description,
			Amount:      rec.Amount,
			Date:        rec.Date,
		})
	}
	for _, rec := range expenses {
		merged = append(merged, Transaction{
			Kind:        ledger.KindExpense,
			ID:          rec.ID,
			Description: rec.Description,
			Amount:      rec.Amount,
			Date:        rec.Date,
		})
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Date.After(merged[j].Date.Time)
	})

	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

// Report builds the per-month report: totals plus the record lists for that
// month.
func (s *DashboardService) Report(ctx context.Context, userID string, ym core.YearMonth) (MonthlyReport, error) {
	var (
		incomes  []ledger.IncomeRecord
		expenses []ledger.ExpenseRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		incomes, err = s.reader.ListIncomes(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		expenses, err = s.reader.ListExpenses(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return MonthlyReport{}, fmt.Errorf("load records: %w", err)
	}

	ins, exs := unwrapRecords(incomes, expenses)
	totals, skipped := core.TotalsFor(ins, exs, ym)
	if skipped > 0 {
		s.logger.WarnContext(ctx, "records with invalid dates excluded from report",
			applog.FieldUserID, userID, "skipped_records", skipped)
	}

	report := MonthlyReport{
		Month:    ym,
		Totals:   totals,
		Incomes:  make([]ledger.IncomeRecord, 0),
		Expenses: make([]ledger.ExpenseRecord, 0),
	}
	for _, rec := range incomes {
		if !rec.Date.IsZero() && rec.Date.YearMonth() == ym {
			report.Incomes = append(report.Incomes, rec)
		}
	}
	for _, rec := range expenses {
		if !rec.Date.IsZero() && rec.Date.YearMonth() == ym {
			report.Expenses = append(report.Expenses, rec)
		}
	}
	return report, nil
}

// Goals builds the goals read model for a user.
func (s *DashboardService) Goals(ctx context.Context, userID string) (GoalsSummary, error) {
	goals, err := s.reader.ListGoals(ctx, userID)
	if err != nil {
		return GoalsSummary{}, fmt.Errorf("load goals: %w", err)
	}

	progress := make([]core.GoalProgress, len(goals))
	for i, rec := range goals {
		progress[i] = core.ProgressOf(rec.Goal)
	}

	return GoalsSummary{
		Goals:    goals,
		Progress: progress,
		Overview: core.OverviewOf(unwrapGoals(goals)),
	}, nil
}

func unwrapRecords(incomes []ledger.IncomeRecord, expenses []ledger.ExpenseRecord) ([]core.Income, []core.Expense) {
	ins := make([]core.Income, len(incomes))
	for i, rec := range incomes {
		ins[i] = rec.Income
	}
	exs := make([]core.Expense, len(expenses))
	for i, rec := range expenses {
		exs[i] = rec.Expense
	}
	return ins, exs
}

func unwrapGoals(goals []ledger.GoalRecord) []core.Goal {
	out := make([]core.Goal, len(goals))
	for i, rec := range goals {
		out[i] = rec.Goal
	}
	return out
}
