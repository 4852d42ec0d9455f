package storage

import (
	"context"
	"path/filepath"
	"testing"

	"financas/internal/core"
	"financas/internal/ledger"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestIncomeRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	in := core.Income{
		Description: "Salário",
		Amount:      core.Money{Cents: 300000},
		Date:        core.NewDate(2025, 1, 5),
		Salary:      true,
	}
	rec, err := repo.CreateIncome(ctx, "u1", in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.ID == 0 {
		t.Fatalf("expected assigned id")
	}

	list, err := repo.ListIncomes(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 record, got %d", len(list))
	}
	got := list[0]
	if got.Description != in.Description || got.Amount != in.Amount || !got.Salary {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.Date.String() != "2025-01-05" {
		t.Fatalf("date round trip: %q", got.Date.String())
	}

	in.Amount = core.Money{Cents: 320000}
	if _, err := repo.UpdateIncome(ctx, "u1", rec.ID, in); err != nil {
		t.Fatalf("update: %v", err)
	}
	list, _ = repo.ListIncomes(ctx, "u1")
	if list[0].Amount.Cents != 320000 {
		t.Fatalf("update not persisted: %+v", list[0])
	}

	if err := repo.DeleteIncome(ctx, "u1", rec.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if list, _ := repo.ListIncomes(ctx, "u1"); len(list) != 0 {
		t.Fatalf("expected empty list after delete")
	}
}

func TestExpenseRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rec, err := repo.CreateExpense(ctx, "u1", core.Expense{
		Description: "Aluguel",
		Amount:      core.Money{Cents: 150000},
		Date:        core.NewDate(2025, 1, 10),
		Kind:        core.ExpenseFixed,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := repo.ListExpenses(ctx, "u1")
	if err != nil || len(list) != 1 {
		t.Fatalf("list: got %d, err=%v", len(list), err)
	}
	if list[0].Kind != core.ExpenseFixed {
		t.Fatalf("kind round trip: %q", list[0].Kind)
	}

	if err := repo.DeleteExpense(ctx, "u1", rec.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestUserScoping(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rec, err := repo.CreateIncome(ctx, "alice", core.Income{
		Description: "Freela",
		Amount:      core.Money{Cents: 50000},
		Date:        core.NewDate(2025, 2, 1),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if list, _ := repo.ListIncomes(ctx, "bob"); len(list) != 0 {
		t.Fatalf("expected no records for bob")
	}
	if _, err := repo.UpdateIncome(ctx, "bob", rec.ID, core.Income{
		Description: "hijack",
		Amount:      core.Money{Cents: 1},
		Date:        core.NewDate(2025, 2, 1),
	}); err != ledger.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.DeleteIncome(ctx, "bob", rec.ID); err != ledger.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGoalConstraints(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.CreateGoal(ctx, "u1", core.Goal{
		Name:     "Reserva",
		Target:   core.Money{Cents: 100000},
		Current:  core.Money{Cents: 150000},
		Deadline: core.NewDate(2025, 12, 31),
		Category: core.GoalReserve,
	}); err != core.ErrGoalOverTarget {
		t.Fatalf("expected ErrGoalOverTarget, got %v", err)
	}

	rec, err := repo.CreateGoal(ctx, "u1", core.Goal{
		Name:     "Reserva",
		Target:   core.Money{Cents: 100000},
		Current:  core.Money{Cents: 40000},
		Deadline: core.NewDate(2025, 12, 31),
		Category: core.GoalReserve,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := repo.ListGoals(ctx, "u1")
	if err != nil || len(list) != 1 {
		t.Fatalf("list: got %d, err=%v", len(list), err)
	}
	if list[0].Category != core.GoalReserve || list[0].Deadline.String() != "2025-12-31" {
		t.Fatalf("round trip mismatch: %+v", list[0])
	}

	updated, err := repo.UpdateGoal(ctx, "u1", rec.ID, core.Goal{
		Name:     "Reserva",
		Target:   core.Money{Cents: 100000},
		Current:  core.Money{Cents: 100000},
		Deadline: core.NewDate(2025, 12, 31),
		Category: core.GoalReserve,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Complete() {
		t.Fatalf("expected complete goal")
	}
}

func TestPendingExportLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	inc, err := repo.CreateIncome(ctx, "u1", core.Income{
		Description: "Salário",
		Amount:      core.Money{Cents: 300000},
		Date:        core.NewDate(2025, 1, 5),
		Salary:      true,
	})
	if err != nil {
		t.Fatalf("create income: %v", err)
	}
	exp, err := repo.CreateExpense(ctx, "u1", core.Expense{
		Description: "Mercado",
		Amount:      core.Money{Cents: 20000},
		Date:        core.NewDate(2025, 1, 7),
		Kind:        core.ExpenseVariable,
	})
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}

	pending, err := repo.GetPendingExports(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending exports, got %d", len(pending))
	}

	if err := repo.MarkExported(ctx, ledger.KindIncome, inc.ID); err != nil {
		t.Fatalf("mark exported: %v", err)
	}
	pending, _ = repo.GetPendingExports(ctx, 10)
	if len(pending) != 1 || pending[0].Kind != ledger.KindExpense || pending[0].ID != exp.ID {
		t.Fatalf("unexpected pending set: %+v", pending)
	}

	if err := repo.MarkExportError(ctx, ledger.KindExpense, exp.ID); err != nil {
		t.Fatalf("mark export error: %v", err)
	}
	if pending, _ = repo.GetPendingExports(ctx, 10); len(pending) != 0 {
		t.Fatalf("errored records should leave the pending set: %+v", pending)
	}

	// An update puts the record back on the export queue.
	if _, err := repo.UpdateIncome(ctx, "u1", inc.ID, core.Income{
		Description: "Salário ajustado",
		Amount:      core.Money{Cents: 310000},
		Date:        core.NewDate(2025, 1, 5),
		Salary:      true,
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	pending, _ = repo.GetPendingExports(ctx, 10)
	if len(pending) != 1 || pending[0].Kind != ledger.KindIncome || pending[0].Version != 2 {
		t.Fatalf("expected re-queued income at version 2: %+v", pending)
	}

	if err := repo.MarkExported(ctx, "metas", 1); err == nil {
		t.Fatalf("expected unknown kind error")
	}

	// Worker-side loads.
	got, err := repo.GetIncome(ctx, inc.ID)
	if err != nil || got.UserID != "u1" {
		t.Fatalf("get income: %+v err=%v", got, err)
	}
	if _, err := repo.GetExpense(ctx, 999); err != ledger.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
