package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"financas/internal/core"
	"financas/internal/ledger"
	"financas/internal/ledger/memory"
	applog "financas/internal/log"
)

type fakePublisher struct {
	published []string
	fail      bool
}

func (f *fakePublisher) PublishRecordExport(_ context.Context, kind string, id, version int64) error {
	if f.fail {
		return errors.New("broker down")
	}
	f.published = append(f.published, kind)
	return nil
}

func TestCreatePublishesExport(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewRecordService(memory.New(), pub, nil)
	ctx := context.Background()

	if _, err := svc.CreateIncome(ctx, "u1", core.Income{
		Description: "Salário",
		Amount:      core.Money{Cents: 300000},
		Date:        core.NewDate(2025, 1, 5),
		Salary:      true,
	}); err != nil {
		t.Fatalf("create income: %v", err)
	}
	if _, err := svc.CreateExpense(ctx, "u1", core.Expense{
		Description: "Mercado",
		Amount:      core.Money{Cents: 20000},
		Date:        core.NewDate(2025, 1, 7),
		Kind:        core.ExpenseVariable,
	}); err != nil {
		t.Fatalf("create expense: %v", err)
	}

	want := []string{ledger.KindIncome, ledger.KindExpense}
	if len(pub.published) != 2 || pub.published[0] != want[0] || pub.published[1] != want[1] {
		t.Fatalf("published = %v, want %v", pub.published, want)
	}
}

func TestGoalsAreNotExported(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewRecordService(memory.New(), pub, nil)

	if _, err := svc.CreateGoal(context.Background(), "u1", core.Goal{
		Name:     "Viagem",
		Target:   core.Money{Cents: 100000},
		Deadline: core.NewDate(2025, 12, 31),
		Category: core.GoalTravel,
	}); err != nil {
		t.Fatalf("create goal: %v", err)
	}
	if len(pub.published) != 0 {
		t.Fatalf("goals should not publish export messages, got %v", pub.published)
	}
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	pub := &fakePublisher{fail: true}
	svc := NewRecordService(memory.New(), pub, nil)

	rec, err := svc.CreateIncome(context.Background(), "u1", core.Income{
		Description: "Freela",
		Amount:      core.Money{Cents: 50000},
		Date:        core.NewDate(2025, 1, 20),
	})
	if err != nil {
		t.Fatalf("create should succeed despite publish failure: %v", err)
	}
	if rec.ID == 0 {
		t.Fatalf("record should be persisted")
	}
}

func TestPublishFailureLogsServicesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := applog.New(applog.Config{
		Handler: slog.NewTextHandler(&buf, nil),
	})

	pub := &fakePublisher{fail: true}
	svc := NewRecordService(memory.New(), pub, logger)

	if _, err := svc.CreateIncome(context.Background(), "u1", core.Income{
		Description: "Freela",
		Amount:      core.Money{Cents: 50000},
		Date:        core.NewDate(2025, 1, 20),
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "failed to publish export message") {
		t.Fatalf("expected publish failure log, got %q", out)
	}
	if !strings.Contains(out, applog.FieldComponent+"="+applog.ComponentServices) {
		t.Fatalf("expected services component tag, got %q", out)
	}
}

func TestNilPublisher(t *testing.T) {
	svc := NewRecordService(memory.New(), nil, nil)

	if _, err := svc.CreateIncome(context.Background(), "u1", core.Income{
		Description: "Freela",
		Amount:      core.Money{Cents: 50000},
		Date:        core.NewDate(2025, 1, 20),
	}); err != nil {
		t.Fatalf("create with nil publisher: %v", err)
	}
}

func TestUpdatePublishesExport(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewRecordService(memory.New(), pub, nil)
	ctx := context.Background()

	rec, err := svc.CreateExpense(ctx, "u1", core.Expense{
		Description: "Aluguel",
		Amount:      core.Money{Cents: 150000},
		Date:        core.NewDate(2025, 1, 10),
		Kind:        core.ExpenseFixed,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.UpdateExpense(ctx, "u1", rec.ID, core.Expense{
		Description: "Aluguel reajustado",
		Amount:      core.Money{Cents: 160000},
		Date:        core.NewDate(2025, 1, 10),
		Kind:        core.ExpenseFixed,
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if len(pub.published) != 2 {
		t.Fatalf("expected create and update publishes, got %v", pub.published)
	}

	// Update of a missing record does not publish.
	if _, err := svc.UpdateExpense(ctx, "u1", 999, core.Expense{
		Description: "x",
		Amount:      core.Money{Cents: 1},
		Date:        core.NewDate(2025, 1, 10),
		Kind:        core.ExpenseFixed,
	}); err != ledger.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(pub.published) != 2 {
		t.Fatalf("failed update should not publish, got %v", pub.published)
	}
}
