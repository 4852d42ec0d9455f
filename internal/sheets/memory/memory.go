// Package memory provides an in-process sheets.RowAppender used in tests and
// local development, recording appended rows instead of calling Google.
package memory

import (
	"context"
	"fmt"
	"sync"

	"financas/internal/ledger"
	"financas/internal/sheets"
)

type Store struct {
	mu       sync.Mutex
	incomes  []ledger.IncomeRecord
	expenses []ledger.ExpenseRecord

	// FailNext makes the next append return an error, for failure-path tests.
	FailNext bool
}

var _ sheets.RowAppender = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) AppendIncome(_ context.Context, rec ledger.IncomeRecord) (string, error) {
	if err := rec.Income.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailNext {
		s.FailNext = false
		return "", fmt.Errorf("append failed")
	}
	s.incomes = append(s.incomes, rec)
	return fmt.Sprintf("mem:entradas:%d", len(s.incomes)), nil
}

func (s *Store) AppendExpense(_ context.Context, rec ledger.ExpenseRecord) (string, error) {
	if err := rec.Expense.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailNext {
		s.FailNext = false
		return "", fmt.Errorf("append failed")
	}
	s.expenses = append(s.expenses, rec)
	return fmt.Sprintf("mem:saidas:%d", len(s.expenses)), nil
}

// Incomes returns a copy of the appended entrada rows.
func (s *Store) Incomes() []ledger.IncomeRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ledger.IncomeRecord(nil), s.incomes...)
}

// Expenses returns a copy of the appended saida rows.
func (s *Store) Expenses() []ledger.ExpenseRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ledger.ExpenseRecord(nil), s.expenses...)
}
