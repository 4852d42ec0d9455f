package worker

import (
	"context"
	"testing"

	"financas/internal/amqp"
	"financas/internal/core"
	"financas/internal/ledger"
	sheetsmem "financas/internal/sheets/memory"
)

type fakeExportStore struct {
	incomes  map[int64]ledger.IncomeRecord
	expenses map[int64]ledger.ExpenseRecord
	pending  []ledger.PendingExport
	exported []ledger.PendingExport
	errored  []ledger.PendingExport
}

func newFakeExportStore() *fakeExportStore {
	return &fakeExportStore{
		incomes:  map[int64]ledger.IncomeRecord{},
		expenses: map[int64]ledger.ExpenseRecord{},
	}
}

func (f *fakeExportStore) GetIncome(_ context.Context, id int64) (ledger.IncomeRecord, error) {
	rec, ok := f.incomes[id]
	if !ok {
		return ledger.IncomeRecord{}, ledger.ErrNotFound
	}
	return rec, nil
}

func (f *fakeExportStore) GetExpense(_ context.Context, id int64) (ledger.ExpenseRecord, error) {
	rec, ok := f.expenses[id]
	if !ok {
		return ledger.ExpenseRecord{}, ledger.ErrNotFound
	}
	return rec, nil
}

func (f *fakeExportStore) GetPendingExports(_ context.Context, limit int) ([]ledger.PendingExport, error) {
	if len(f.pending) > limit {
		return f.pending[:limit], nil
	}
	return f.pending, nil
}

func (f *fakeExportStore) MarkExported(_ context.Context, kind string, id int64) error {
	f.exported = append(f.exported, ledger.PendingExport{Kind: kind, ID: id})
	return nil
}

func (f *fakeExportStore) MarkExportError(_ context.Context, kind string, id int64) error {
	f.errored = append(f.errored, ledger.PendingExport{Kind: kind, ID: id})
	return nil
}

func testIncome(id int64) ledger.IncomeRecord {
	return ledger.IncomeRecord{
		ID:     id,
		UserID: "u1",
		Income: core.Income{
			Description: "Salário",
			Amount:      core.Money{Cents: 300000},
			Date:        core.NewDate(2025, 1, 5),
			Salary:      true,
		},
	}
}

func testExpense(id int64) ledger.ExpenseRecord {
	return ledger.ExpenseRecord{
		ID:     id,
		UserID: "u1",
		Expense: core.Expense{
			Description: "Mercado",
			Amount:      core.Money{Cents: 20000},
			Date:        core.NewDate(2025, 1, 7),
			Kind:        core.ExpenseVariable,
		},
	}
}

func TestHandleExportMessage(t *testing.T) {
	store := newFakeExportStore()
	store.incomes[1] = testIncome(1)
	appender := sheetsmem.New()
	w := NewExportWorker(store, appender, 10)

	msg := amqp.NewRecordExportMessage(ledger.KindIncome, 1, 1)
	if err := w.HandleExportMessage(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}

	if rows := appender.Incomes(); len(rows) != 1 || rows[0].ID != 1 {
		t.Fatalf("expected 1 appended income, got %+v", rows)
	}
	if len(store.exported) != 1 || store.exported[0].Kind != ledger.KindIncome {
		t.Fatalf("expected marked exported, got %+v", store.exported)
	}
}

func TestHandleExportMessageUnknownKind(t *testing.T) {
	w := NewExportWorker(newFakeExportStore(), sheetsmem.New(), 10)
	msg := amqp.NewRecordExportMessage("meta", 1, 1)
	if err := w.HandleExportMessage(context.Background(), msg); err == nil {
		t.Fatalf("expected unknown kind error")
	}
}

func TestHandleExportMessageDeletedRecord(t *testing.T) {
	store := newFakeExportStore()
	appender := sheetsmem.New()
	w := NewExportWorker(store, appender, 10)

	// A record deleted between publish and consume is dropped, not
	// requeued: the handler must succeed so the message gets acked.
	msg := amqp.NewRecordExportMessage(ledger.KindExpense, 42, 1)
	if err := w.HandleExportMessage(context.Background(), msg); err != nil {
		t.Fatalf("deleted record must not requeue: %v", err)
	}
	if len(appender.Expenses()) != 0 {
		t.Fatalf("nothing should be appended, got %+v", appender.Expenses())
	}
	if len(store.exported) != 0 || len(store.errored) != 0 {
		t.Fatalf("no marks expected, got exported=%+v errored=%+v", store.exported, store.errored)
	}
}

func TestProcessPending(t *testing.T) {
	store := newFakeExportStore()
	store.incomes[1] = testIncome(1)
	store.expenses[2] = testExpense(2)
	store.pending = []ledger.PendingExport{
		{Kind: ledger.KindIncome, ID: 1, Version: 1},
		{Kind: ledger.KindExpense, ID: 2, Version: 1},
	}
	appender := sheetsmem.New()
	w := NewExportWorker(store, appender, 10)

	if err := w.ProcessPending(context.Background()); err != nil {
		t.Fatalf("process pending: %v", err)
	}
	if len(appender.Incomes()) != 1 || len(appender.Expenses()) != 1 {
		t.Fatalf("expected both records appended")
	}
	if len(store.exported) != 2 {
		t.Fatalf("expected 2 exported marks, got %d", len(store.exported))
	}
}

func TestProcessPendingContinuesOnFailure(t *testing.T) {
	store := newFakeExportStore()
	store.incomes[1] = testIncome(1)
	store.expenses[2] = testExpense(2)
	store.pending = []ledger.PendingExport{
		{Kind: ledger.KindIncome, ID: 1, Version: 1},
		{Kind: ledger.KindExpense, ID: 2, Version: 1},
	}
	appender := sheetsmem.New()
	appender.FailNext = true
	w := NewExportWorker(store, appender, 10)

	if err := w.ProcessPending(context.Background()); err != nil {
		t.Fatalf("process pending: %v", err)
	}
	// The first append fails and is marked, the second still goes through.
	if len(store.errored) != 1 || len(store.exported) != 1 {
		t.Fatalf("expected 1 errored and 1 exported, got %+v / %+v", store.errored, store.exported)
	}
}

func TestProcessPendingRespectsBatchSize(t *testing.T) {
	store := newFakeExportStore()
	for i := int64(1); i <= 5; i++ {
		store.incomes[i] = testIncome(i)
		store.pending = append(store.pending, ledger.PendingExport{Kind: ledger.KindIncome, ID: i, Version: 1})
	}
	appender := sheetsmem.New()
	w := NewExportWorker(store, appender, 2)

	if err := w.ProcessPending(context.Background()); err != nil {
		t.Fatalf("process pending: %v", err)
	}
	if len(appender.Incomes()) != 2 {
		t.Fatalf("expected batch of 2, got %d", len(appender.Incomes()))
	}
}
