// Package memory provides an in-process ledger.Store used for local
// development and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"financas/internal/core"
	"financas/internal/ledger"
)

type Store struct {
	mu       sync.Mutex
	nextID   int64
	incomes  map[int64]ledger.IncomeRecord
	expenses map[int64]ledger.ExpenseRecord
	goals    map[int64]ledger.GoalRecord
}

func New() *Store {
	return &Store{
		nextID:   1,
		incomes:  make(map[int64]ledger.IncomeRecord),
		expenses: make(map[int64]ledger.ExpenseRecord),
		goals:    make(map[int64]ledger.GoalRecord),
	}
}

func (s *Store) Close() error { return nil }

func (s *Store) allocID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *Store) CreateIncome(_ context.Context, userID string, in core.Income) (ledger.IncomeRecord, error) {
	if err := in.Validate(); err != nil {
		return ledger.IncomeRecord{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := ledger.IncomeRecord{ID: s.allocID(), UserID: userID, Income: in}
	s.incomes[rec.ID] = rec
	return rec, nil
}

func (s *Store) ListIncomes(_ context.Context, userID string) ([]ledger.IncomeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ledger.IncomeRecord, 0)
	for _, rec := range s.incomes {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	sortByID(out, func(r ledger.IncomeRecord) int64 { return r.ID })
	return out, nil
}

func (s *Store) UpdateIncome(_ context.Context, userID string, id int64, in core.Income) (ledger.IncomeRecord, error) {
	if err := in.Validate(); err != nil {
		return ledger.IncomeRecord{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.incomes[id]
	if !ok || rec.UserID != userID {
		return ledger.IncomeRecord{}, ledger.ErrNotFound
	}
	rec.Income = in
	s.incomes[id] = rec
	return rec, nil
}

func (s *Store) DeleteIncome(_ context.Context, userID string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.incomes[id]
	if !ok || rec.UserID != userID {
		return ledger.ErrNotFound
	}
	delete(s.incomes, id)
	return nil
}

func (s *Store) CreateExpense(_ context.Context, userID string, ex core.Expense) (ledger.ExpenseRecord, error) {
	if err := ex.Validate(); err != nil {
		return ledger.ExpenseRecord{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := ledger.ExpenseRecord{ID: s.allocID(), UserID: userID, Expense: ex}
	s.expenses[rec.ID] = rec
	return rec, nil
}

func (s *Store) ListExpenses(_ context.Context, userID string) ([]ledger.ExpenseRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ledger.ExpenseRecord, 0)
	for _, rec := range s.expenses {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	sortByID(out, func(r ledger.ExpenseRecord) int64 { return r.ID })
	return out, nil
}

func (s *Store) UpdateExpense(_ context.Context, userID string, id int64, ex core.Expense) (ledger.ExpenseRecord, error) {
	if err := ex.Validate(); err != nil {
		return ledger.ExpenseRecord{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.expenses[id]
	if !ok || rec.UserID != userID {
		return ledger.ExpenseRecord{}, ledger.ErrNotFound
	}
	rec.Expense = ex
	s.expenses[id] = rec
	return rec, nil
}

func (s *Store) DeleteExpense(_ context.Context, userID string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.expenses[id]
	if !ok || rec.UserID != userID {
		return ledger.ErrNotFound
	}
	delete(s.expenses, id)
	return nil
}

func (s *Store) CreateGoal(_ context.Context, userID string, g core.Goal) (ledger.GoalRecord, error) {
	if err := g.Validate(); err != nil {
		return ledger.GoalRecord{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := ledger.GoalRecord{ID: s.allocID(), UserID: userID, Goal: g}
	s.goals[rec.ID] = rec
	return rec, nil
}

func (s *Store) ListGoals(_ context.Context, userID string) ([]ledger.GoalRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ledger.GoalRecord, 0)
	for _, rec := range s.goals {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	sortByID(out, func(r ledger.GoalRecord) int64 { return r.ID })
	return out, nil
}

func (s *Store) UpdateGoal(_ context.Context, userID string, id int64, g core.Goal) (ledger.GoalRecord, error) {
	if err := g.Validate(); err != nil {
		return ledger.GoalRecord{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.goals[id]
	if !ok || rec.UserID != userID {
		return ledger.GoalRecord{}, ledger.ErrNotFound
	}
	rec.Goal = g
	s.goals[id] = rec
	return rec, nil
}

func (s *Store) DeleteGoal(_ context.Context, userID string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.goals[id]
	if !ok || rec.UserID != userID {
		return ledger.ErrNotFound
	}
	delete(s.goals, id)
	return nil
}

func sortByID[T any](recs []T, id func(T) int64) {
	sort.Slice(recs, func(i, j int) bool { return id(recs[i]) < id(recs[j]) })
}
