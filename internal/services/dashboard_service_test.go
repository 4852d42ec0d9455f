package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"financas/internal/core"
	"financas/internal/ledger"
	"financas/internal/ledger/memory"
)

func seedJanuary(t *testing.T, store *memory.Store) {
	t.Helper()
	ctx := context.Background()

	incomes := []core.Income{
		{Description: "Salário", Amount: core.Money{Cents: 300000}, Date: core.NewDate(2025, 1, 5), Salary: true},
		{Description: "Freela", Amount: core.Money{Cents: 120000}, Date: core.NewDate(2025, 1, 20)},
	}
	for _, in := range incomes {
		if _, err := store.CreateIncome(ctx, "u1", in); err != nil {
			t.Fatalf("seed income: %v", err)
		}
	}
	if _, err := store.CreateExpense(ctx, "u1", core.Expense{
		Description: "Aluguel",
		Amount:      core.Money{Cents: 150000},
		Date:        core.NewDate(2025, 1, 10),
		Kind:        core.ExpenseFixed,
	}); err != nil {
		t.Fatalf("seed expense: %v", err)
	}
}

func TestSummary(t *testing.T) {
	store := memory.New()
	seedJanuary(t, store)
	if _, err := store.CreateGoal(context.Background(), "u1", core.Goal{
		Name:     "Reserva",
		Target:   core.Money{Cents: 100000},
		Current:  core.Money{Cents: 100000},
		Deadline: core.NewDate(2025, 12, 31),
		Category: core.GoalReserve,
	}); err != nil {
		t.Fatalf("seed goal: %v", err)
	}

	svc := NewDashboardService(store, nil)
	got, err := svc.Summary(context.Background(), "u1", core.NewDate(2025, 1, 31))
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	totals := got.Summary.Totals
	if totals.Income.Cents != 420000 {
		t.Fatalf("income: got %d", totals.Income.Cents)
	}
	if totals.Salary.Cents != 300000 || totals.OtherIncome.Cents != 120000 {
		t.Fatalf("salary split: %d/%d", totals.Salary.Cents, totals.OtherIncome.Cents)
	}
	if totals.Balance.Cents != 270000 {
		t.Fatalf("balance: got %d", totals.Balance.Cents)
	}
	if math.Abs(totals.SpendRate-35.714285714285715) > 1e-9 {
		t.Fatalf("spend rate: got %v", totals.SpendRate)
	}

	if len(got.Buckets) != core.BucketMonths {
		t.Fatalf("expected %d buckets, got %d", core.BucketMonths, len(got.Buckets))
	}
	last := got.Buckets[len(got.Buckets)-1]
	if last.Month != (core.YearMonth{Year: 2025, Month: 1}) || last.Income.Cents != 420000 {
		t.Fatalf("last bucket: %+v", last)
	}

	if got.Goals.Count != 1 || got.Goals.Percent != 100 || got.Goals.Complete != 1 {
		t.Fatalf("goals overview: %+v", got.Goals)
	}
	if got.Skipped != 0 {
		t.Fatalf("skipped: got %d", got.Skipped)
	}

	if len(got.Recent) != 3 {
		t.Fatalf("recent: expected 3 transactions, got %d", len(got.Recent))
	}
	first := got.Recent[0]
	if first.Kind != ledger.KindIncome || first.Description != "Freela" {
		t.Fatalf("recent[0]: %+v", first)
	}
	if got.Recent[1].Description != "Aluguel" || got.Recent[2].Description != "Salário" {
		t.Fatalf("recent order: %+v", got.Recent)
	}
}

func TestSummaryCapsRecentTransactions(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	for day := 1; day <= 8; day++ {
		if _, err := store.CreateIncome(ctx, "u1", core.Income{
			Description: "Entrada",
			Amount:      core.Money{Cents: 1000},
			Date:        core.NewDate(2025, 1, day),
		}); err != nil {
			t.Fatalf("seed income: %v", err)
		}
	}

	svc := NewDashboardService(store, nil)
	got, err := svc.Summary(ctx, "u1", core.NewDate(2025, 1, 31))
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(got.Recent) != recentLimit {
		t.Fatalf("recent: expected %d transactions, got %d", recentLimit, len(got.Recent))
	}
	if got.Recent[0].Date.Day() != 8 || got.Recent[recentLimit-1].Date.Day() != 4 {
		t.Fatalf("recent window: first %v, last %v", got.Recent[0].Date, got.Recent[recentLimit-1].Date)
	}
}

func TestSummaryOtherUserIsEmpty(t *testing.T) {
	store := memory.New()
	seedJanuary(t, store)

	svc := NewDashboardService(store, nil)
	got, err := svc.Summary(context.Background(), "someone-else", core.NewDate(2025, 1, 31))
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if got.Summary.Totals.Income.Cents != 0 || got.Summary.Totals.Expense.Cents != 0 {
		t.Fatalf("expected empty totals, got %+v", got.Summary.Totals)
	}
}

func TestReport(t *testing.T) {
	store := memory.New()
	seedJanuary(t, store)
	// A February record stays out of the January report.
	if _, err := store.CreateExpense(context.Background(), "u1", core.Expense{
		Description: "Mercado",
		Amount:      core.Money{Cents: 30000},
		Date:        core.NewDate(2025, 2, 2),
		Kind:        core.ExpenseVariable,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	svc := NewDashboardService(store, nil)
	got, err := svc.Report(context.Background(), "u1", core.YearMonth{Year: 2025, Month: 1})
	if err != nil {
		t.Fatalf("report: %v", err)
	}

	if got.Totals.Income.Cents != 420000 || got.Totals.Expense.Cents != 150000 {
		t.Fatalf("totals: %+v", got.Totals)
	}
	if len(got.Incomes) != 2 || len(got.Expenses) != 1 {
		t.Fatalf("record lists: %d incomes, %d expenses", len(got.Incomes), len(got.Expenses))
	}
}

func TestGoals(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	goals := []core.Goal{
		{Name: "Viagem", Target: core.Money{Cents: 100000}, Current: core.Money{Cents: 100000}, Deadline: core.NewDate(2025, 12, 31), Category: core.GoalTravel},
		{Name: "Reserva", Target: core.Money{Cents: 300000}, Current: core.Money{Cents: 100000}, Deadline: core.NewDate(2026, 6, 30), Category: core.GoalReserve},
	}
	for _, g := range goals {
		if _, err := store.CreateGoal(ctx, "u1", g); err != nil {
			t.Fatalf("seed goal: %v", err)
		}
	}

	svc := NewDashboardService(store, nil)
	got, err := svc.Goals(ctx, "u1")
	if err != nil {
		t.Fatalf("goals: %v", err)
	}

	if len(got.Goals) != 2 || len(got.Progress) != 2 {
		t.Fatalf("expected 2 goals with progress, got %d/%d", len(got.Goals), len(got.Progress))
	}
	if !got.Progress[0].Complete || got.Progress[0].Percent != 100 {
		t.Fatalf("first goal progress: %+v", got.Progress[0])
	}
	if got.Progress[1].Complete || math.Abs(got.Progress[1].Percent-33.333333333333336) > 1e-9 {
		t.Fatalf("second goal progress: %+v", got.Progress[1])
	}
	if math.Abs(got.Overview.Percent-50) > 1e-9 {
		t.Fatalf("overview percent: %v", got.Overview.Percent)
	}
}

type failingReader struct{}

func (failingReader) ListIncomes(context.Context, string) ([]ledger.IncomeRecord, error) {
	return nil, errors.New("db down")
}
func (failingReader) ListExpenses(context.Context, string) ([]ledger.ExpenseRecord, error) {
	return nil, errors.New("db down")
}
func (failingReader) ListGoals(context.Context, string) ([]ledger.GoalRecord, error) {
	return nil, errors.New("db down")
}

func TestSummaryPropagatesReadErrors(t *testing.T) {
	svc := NewDashboardService(failingReader{}, nil)
	if _, err := svc.Summary(context.Background(), "u1", core.NewDate(2025, 1, 31)); err == nil {
		t.Fatalf("expected error from failing reader")
	}
}
