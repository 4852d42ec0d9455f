package memory

import (
	"context"
	"testing"

	"financas/internal/core"
	"financas/internal/ledger"
)

func TestIncomeCRUD(t *testing.T) {
	s := New()
	ctx := context.Background()

	rec, err := s.CreateIncome(ctx, "u1", core.Income{
		Description: "Salário",
		Amount:      core.Money{Cents: 300000},
		Date:        core.NewDate(2025, 1, 5),
		Salary:      true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.ID == 0 || rec.UserID != "u1" {
		t.Fatalf("unexpected record: %+v", rec)
	}

	list, err := s.ListIncomes(ctx, "u1")
	if err != nil || len(list) != 1 {
		t.Fatalf("list: got %d records, err=%v", len(list), err)
	}

	updated, err := s.UpdateIncome(ctx, "u1", rec.ID, core.Income{
		Description: "Salário ajustado",
		Amount:      core.Money{Cents: 320000},
		Date:        core.NewDate(2025, 1, 5),
		Salary:      true,
	})
	if err != nil || updated.Amount.Cents != 320000 {
		t.Fatalf("update: %+v err=%v", updated, err)
	}

	if err := s.DeleteIncome(ctx, "u1", rec.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if list, _ := s.ListIncomes(ctx, "u1"); len(list) != 0 {
		t.Fatalf("expected empty list after delete, got %d", len(list))
	}
}

func TestCreateRejectsInvalid(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.CreateIncome(ctx, "u1", core.Income{}); err == nil {
		t.Fatalf("expected validation error")
	}
	if _, err := s.CreateExpense(ctx, "u1", core.Expense{Description: "x"}); err == nil {
		t.Fatalf("expected validation error")
	}
	if _, err := s.CreateGoal(ctx, "u1", core.Goal{Name: "x"}); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestUserScoping(t *testing.T) {
	s := New()
	ctx := context.Background()

	rec, err := s.CreateExpense(ctx, "alice", core.Expense{
		Description: "Mercado",
		Amount:      core.Money{Cents: 15000},
		Date:        core.NewDate(2025, 2, 1),
		Kind:        core.ExpenseVariable,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Another user sees nothing and cannot touch the record.
	if list, _ := s.ListExpenses(ctx, "bob"); len(list) != 0 {
		t.Fatalf("expected no records for bob, got %d", len(list))
	}
	if _, err := s.UpdateExpense(ctx, "bob", rec.ID, core.Expense{
		Description: "hijack",
		Amount:      core.Money{Cents: 1},
		Date:        core.NewDate(2025, 2, 1),
		Kind:        core.ExpenseFixed,
	}); err != ledger.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteExpense(ctx, "bob", rec.ID); err != ledger.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// The owner still can.
	if err := s.DeleteExpense(ctx, "alice", rec.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
}

func TestGoalStoreRejectsOverTarget(t *testing.T) {
	s := New()
	ctx := context.Background()

	g := core.Goal{
		Name:     "Reserva",
		Target:   core.Money{Cents: 100000},
		Current:  core.Money{Cents: 150000},
		Deadline: core.NewDate(2025, 12, 31),
		Category: core.GoalReserve,
	}
	if _, err := s.CreateGoal(ctx, "u1", g); err != core.ErrGoalOverTarget {
		t.Fatalf("expected ErrGoalOverTarget, got %v", err)
	}
}

func TestListOrderedByID(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, desc := range []string{"a", "b", "c"} {
		if _, err := s.CreateGoal(ctx, "u1", core.Goal{
			Name:     desc,
			Target:   core.Money{Cents: 1000},
			Deadline: core.NewDate(2026, 1, 1),
			Category: core.GoalOther,
		}); err != nil {
			t.Fatalf("create %s: %v", desc, err)
		}
	}

	list, err := s.ListGoals(ctx, "u1")
	if err != nil || len(list) != 3 {
		t.Fatalf("list: got %d, err=%v", len(list), err)
	}
	for i := 1; i < len(list); i++ {
		if list[i].ID <= list[i-1].ID {
			t.Fatalf("list not ordered by id: %v", list)
		}
	}
}
