package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"financas/internal/core"
	"financas/internal/ledger"

	_ "modernc.org/sqlite"
)

// SQLiteRepository implements ledger.Store and ledger.ExportStore on a local
// SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) CreateIncome(ctx context.Context, userID string, in core.Income) (ledger.IncomeRecord, error) {
	if err := in.Validate(); err != nil {
		return ledger.IncomeRecord{}, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO entradas (user_id, description, amount_cents, date, salary) VALUES (?, ?, ?, ?, ?)`,
		userID, in.Description, in.Amount.Cents, in.Date.String(), boolToInt(in.Salary))
	if err != nil {
		return ledger.IncomeRecord{}, fmt.Errorf("insert entrada: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return ledger.IncomeRecord{}, fmt.Errorf("entrada insert id: %w", err)
	}
	return ledger.IncomeRecord{ID: id, UserID: userID, Income: in}, nil
}

func (r *SQLiteRepository) ListIncomes(ctx context.Context, userID string) ([]ledger.IncomeRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, description, amount_cents, date, salary FROM entradas WHERE user_id = ? ORDER BY id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list entradas: %w", err)
	}
	defer rows.Close()

	out := make([]ledger.IncomeRecord, 0)
	for rows.Next() {
		var (
			rec    ledger.IncomeRecord
			date   string
			salary int
		)
		if err := rows.Scan(&rec.ID, &rec.Description, &rec.Amount.Cents, &date, &salary); err != nil {
			return nil, fmt.Errorf("scan entrada: %w", err)
		}
		rec.UserID = userID
		rec.Salary = salary != 0
		if rec.Date, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("entrada %d: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateIncome(ctx context.Context, userID string, id int64, in core.Income) (ledger.IncomeRecord, error) {
	if err := in.Validate(); err != nil {
		return ledger.IncomeRecord{}, err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE entradas
		 SET description = ?, amount_cents = ?, date = ?, salary = ?,
		     sync_status = 'pending', version = version + 1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND user_id = ?`,
		in.Description, in.Amount.Cents, in.Date.String(), boolToInt(in.Salary), id, userID)
	if err != nil {
		return ledger.IncomeRecord{}, fmt.Errorf("update entrada: %w", err)
	}
	if err := requireRow(res); err != nil {
		return ledger.IncomeRecord{}, err
	}
	return ledger.IncomeRecord{ID: id, UserID: userID, Income: in}, nil
}

func (r *SQLiteRepository) DeleteIncome(ctx context.Context, userID string, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entradas WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete entrada: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) CreateExpense(ctx context.Context, userID string, ex core.Expense) (ledger.ExpenseRecord, error) {
	if err := ex.Validate(); err != nil {
		return ledger.ExpenseRecord{}, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO saidas (user_id, description, amount_cents, date, kind) VALUES (?, ?, ?, ?, ?)`,
		userID, ex.Description, ex.Amount.Cents, ex.Date.String(), string(ex.Kind))
	if err != nil {
		return ledger.ExpenseRecord{}, fmt.Errorf("insert saida: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return ledger.ExpenseRecord{}, fmt.Errorf("saida insert id: %w", err)
	}
	return ledger.ExpenseRecord{ID: id, UserID: userID, Expense: ex}, nil
}

func (r *SQLiteRepository) ListExpenses(ctx context.Context, userID string) ([]ledger.ExpenseRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, description, amount_cents, date, kind FROM saidas WHERE user_id = ? ORDER BY id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list saidas: %w", err)
	}
	defer rows.Close()

	out := make([]ledger.ExpenseRecord, 0)
	for rows.Next() {
		var (
			rec  ledger.ExpenseRecord
			date string
			kind string
		)
		if err := rows.Scan(&rec.ID, &rec.Description, &rec.Amount.Cents, &date, &kind); err != nil {
			return nil, fmt.Errorf("scan saida: %w", err)
		}
		rec.UserID = userID
		rec.Kind = core.ExpenseKind(kind)
		if rec.Date, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("saida %d: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateExpense(ctx context.Context, userID string, id int64, ex core.Expense) (ledger.ExpenseRecord, error) {
	if err := ex.Validate(); err != nil {
		return ledger.ExpenseRecord{}, err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE saidas
		 SET description = ?, amount_cents = ?, date = ?, kind = ?,
		     sync_status = 'pending', version = version + 1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND user_id = ?`,
		ex.Description, ex.Amount.Cents, ex.Date.String(), string(ex.Kind), id, userID)
	if err != nil {
		return ledger.ExpenseRecord{}, fmt.Errorf("update saida: %w", err)
	}
	if err := requireRow(res); err != nil {
		return ledger.ExpenseRecord{}, err
	}
	return ledger.ExpenseRecord{ID: id, UserID: userID, Expense: ex}, nil
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, userID string, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM saidas WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete saida: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) CreateGoal(ctx context.Context, userID string, g core.Goal) (ledger.GoalRecord, error) {
	// Re-validated here on top of the handler's check. The schema enforces
	// current_cents <= target_cents as well.
	if err := g.Validate(); err != nil {
		return ledger.GoalRecord{}, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO metas (user_id, name, target_cents, current_cents, deadline, category) VALUES (?, ?, ?, ?, ?, ?)`,
		userID, g.Name, g.Target.Cents, g.Current.Cents, g.Deadline.String(), string(g.Category))
	if err != nil {
		return ledger.GoalRecord{}, fmt.Errorf("insert meta: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return ledger.GoalRecord{}, fmt.Errorf("meta insert id: %w", err)
	}
	return ledger.GoalRecord{ID: id, UserID: userID, Goal: g}, nil
}

func (r *SQLiteRepository) ListGoals(ctx context.Context, userID string) ([]ledger.GoalRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, target_cents, current_cents, deadline, category FROM metas WHERE user_id = ? ORDER BY id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list metas: %w", err)
	}
	defer rows.Close()

	out := make([]ledger.GoalRecord, 0)
	for rows.Next() {
		var (
			rec      ledger.GoalRecord
			deadline string
			category string
		)
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Target.Cents, &rec.Current.Cents, &deadline, &category); err != nil {
			return nil, fmt.Errorf("scan meta: %w", err)
		}
		rec.UserID = userID
		rec.Category = core.GoalCategory(category)
		if rec.Deadline, err = core.ParseDate(deadline); err != nil {
			return nil, fmt.Errorf("meta %d: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateGoal(ctx context.Context, userID string, id int64, g core.Goal) (ledger.GoalRecord, error) {
	if err := g.Validate(); err != nil {
		return ledger.GoalRecord{}, err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE metas
		 SET name = ?, target_cents = ?, current_cents = ?, deadline = ?, category = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND user_id = ?`,
		g.Name, g.Target.Cents, g.Current.Cents, g.Deadline.String(), string(g.Category), id, userID)
	if err != nil {
		return ledger.GoalRecord{}, fmt.Errorf("update meta: %w", err)
	}
	if err := requireRow(res); err != nil {
		return ledger.GoalRecord{}, err
	}
	return ledger.GoalRecord{ID: id, UserID: userID, Goal: g}, nil
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, userID string, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM metas WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete meta: %w", err)
	}
	return requireRow(res)
}

// GetIncome loads a single entrada by id, without user scoping. Used by the
// export worker.
func (r *SQLiteRepository) GetIncome(ctx context.Context, id int64) (ledger.IncomeRecord, error) {
	var (
		rec    ledger.IncomeRecord
		date   string
		salary int
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, description, amount_cents, date, salary FROM entradas WHERE id = ?`, id).
		Scan(&rec.ID, &rec.UserID, &rec.Description, &rec.Amount.Cents, &date, &salary)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.IncomeRecord{}, ledger.ErrNotFound
	}
	if err != nil {
		return ledger.IncomeRecord{}, fmt.Errorf("get entrada: %w", err)
	}
	rec.Salary = salary != 0
	if rec.Date, err = core.ParseDate(date); err != nil {
		return ledger.IncomeRecord{}, fmt.Errorf("entrada %d: %w", id, err)
	}
	return rec, nil
}

// GetExpense loads a single saida by id, without user scoping. Used by the
// export worker.
func (r *SQLiteRepository) GetExpense(ctx context.Context, id int64) (ledger.ExpenseRecord, error) {
	var (
		rec  ledger.ExpenseRecord
		date string
		kind string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, description, amount_cents, date, kind FROM saidas WHERE id = ?`, id).
		Scan(&rec.ID, &rec.UserID, &rec.Description, &rec.Amount.Cents, &date, &kind)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.ExpenseRecord{}, ledger.ErrNotFound
	}
	if err != nil {
		return ledger.ExpenseRecord{}, fmt.Errorf("get saida: %w", err)
	}
	rec.Kind = core.ExpenseKind(kind)
	if rec.Date, err = core.ParseDate(date); err != nil {
		return ledger.ExpenseRecord{}, fmt.Errorf("saida %d: %w", id, err)
	}
	return rec, nil
}

// GetPendingExports returns transaction records not yet appended to the
// backup spreadsheet, oldest first.
func (r *SQLiteRepository) GetPendingExports(ctx context.Context, limit int) ([]ledger.PendingExport, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT 'entrada' AS kind, id, version, created_at FROM entradas WHERE sync_status = 'pending'
		 UNION ALL
		 SELECT 'saida' AS kind, id, version, created_at FROM saidas WHERE sync_status = 'pending'
		 ORDER BY created_at, id
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending exports: %w", err)
	}
	defer rows.Close()

	out := make([]ledger.PendingExport, 0)
	for rows.Next() {
		var (
			p       ledger.PendingExport
			created string
		)
		if err := rows.Scan(&p.Kind, &p.ID, &p.Version, &created); err != nil {
			return nil, fmt.Errorf("scan pending export: %w", err)
		}
		p.CreatedAt = parseTimestamp(created)
		out = append(out, p)
	}
	return out, rows.Err()
}

// MarkExported marks a record as appended to the backup spreadsheet.
func (r *SQLiteRepository) MarkExported(ctx context.Context, kind string, id int64) error {
	return r.setSyncStatus(ctx, kind, id, "synced")
}

// MarkExportError marks a record whose export attempt failed.
func (r *SQLiteRepository) MarkExportError(ctx context.Context, kind string, id int64) error {
	return r.setSyncStatus(ctx, kind, id, "error")
}

func (r *SQLiteRepository) setSyncStatus(ctx context.Context, kind string, id int64, status string) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE `+table+` SET sync_status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("set sync status: %w", err)
	}
	return requireRow(res)
}

func tableFor(kind string) (string, error) {
	switch kind {
	case ledger.KindIncome:
		return "entradas", nil
	case ledger.KindExpense:
		return "saidas", nil
	}
	return "", fmt.Errorf("unknown record kind: %s", kind)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func parseTimestamp(s string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
