package sheets

import (
	"context"

	"financas/internal/ledger"
)

// Ports for the backup export adapters.
type (
	// RowAppender appends transaction records to the backup spreadsheet.
	RowAppender interface {
		AppendIncome(ctx context.Context, rec ledger.IncomeRecord) (rowRef string, err error)
		AppendExpense(ctx context.Context, rec ledger.ExpenseRecord) (rowRef string, err error)
	}
)
