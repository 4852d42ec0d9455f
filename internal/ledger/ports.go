// Package ledger defines the persistence ports for financial records. The
// backends under storage/ and ledger/memory implement them; the HTTP layer
// and the export worker depend only on these interfaces.
package ledger

import (
	"context"
	"errors"
	"time"

	"financas/internal/core"
)

var (
	// ErrNotFound is returned when a record does not exist or belongs to a
	// different user. Handlers map it to 404 without distinguishing the two,
	// so record IDs cannot be probed across accounts.
	ErrNotFound = errors.New("record not found")
)

// Record kinds, used for export routing and log fields.
const (
	KindIncome  = "entrada"
	KindExpense = "saida"
	KindGoal    = "meta"
)

// IncomeRecord is a stored income entry owned by a user.
type IncomeRecord struct {
	ID     int64
	UserID string
	core.Income
}

// ExpenseRecord is a stored expense entry owned by a user.
type ExpenseRecord struct {
	ID     int64
	UserID string
	core.Expense
}

// GoalRecord is a stored savings goal owned by a user.
type GoalRecord struct {
	ID     int64
	UserID string
	core.Goal
}

// IncomeStore persists income records. Every operation is scoped to the
// owning user; a mismatched id/user pair behaves as if the record does
// not exist.
type IncomeStore interface {
	CreateIncome(ctx context.Context, userID string, in core.Income) (IncomeRecord, error)
	ListIncomes(ctx context.Context, userID string) ([]IncomeRecord, error)
	UpdateIncome(ctx context.Context, userID string, id int64, in core.Income) (IncomeRecord, error)
	DeleteIncome(ctx context.Context, userID string, id int64) error
}

// ExpenseStore persists expense records with the same user scoping rules.
type ExpenseStore interface {
	CreateExpense(ctx context.Context, userID string, ex core.Expense) (ExpenseRecord, error)
	ListExpenses(ctx context.Context, userID string) ([]ExpenseRecord, error)
	UpdateExpense(ctx context.Context, userID string, id int64, ex core.Expense) (ExpenseRecord, error)
	DeleteExpense(ctx context.Context, userID string, id int64) error
}

// GoalStore persists savings goals with the same user scoping rules.
// Implementations re-validate the goal amounts before writing, so a
// current amount above the target can never reach the database even if
// a caller skips validation.
type GoalStore interface {
	CreateGoal(ctx context.Context, userID string, g core.Goal) (GoalRecord, error)
	ListGoals(ctx context.Context, userID string) ([]GoalRecord, error)
	UpdateGoal(ctx context.Context, userID string, id int64, g core.Goal) (GoalRecord, error)
	DeleteGoal(ctx context.Context, userID string, id int64) error
}

// Store is the full persistence surface required by the HTTP server.
type Store interface {
	IncomeStore
	ExpenseStore
	GoalStore
	Close() error
}

// PendingExport identifies a transaction record that has not yet been
// appended to the backup spreadsheet.
type PendingExport struct {
	Kind      string
	ID        int64
	Version   int64
	CreatedAt time.Time
}

// ExportStore is the extra surface the export worker needs. Only the SQLite
// backend implements it; the memory backend has no export pipeline.
type ExportStore interface {
	GetIncome(ctx context.Context, id int64) (IncomeRecord, error)
	GetExpense(ctx context.Context, id int64) (ExpenseRecord, error)
	GetPendingExports(ctx context.Context, limit int) ([]PendingExport, error)
	MarkExported(ctx context.Context, kind string, id int64) error
	MarkExportError(ctx context.Context, kind string, id int64) error
}
