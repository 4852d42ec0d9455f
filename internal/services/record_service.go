package services

import (
	"context"
	"fmt"

	"financas/internal/core"
	"financas/internal/ledger"
	applog "financas/internal/log"
)

// ExportPublisher publishes export messages for transaction records. The
// AMQP client implements it; tests use a fake.
type ExportPublisher interface {
	PublishRecordExport(ctx context.Context, kind string, id, version int64) error
}

// RecordService orchestrates record writes: persist locally first, then
// notify the export pipeline. A publish failure never fails the request;
// the record is already durable and the worker's pending sweep will pick
// it up.
type RecordService struct {
	store     ledger.Store
	publisher ExportPublisher
	logger    *applog.Logger
}

func NewRecordService(store ledger.Store, publisher ExportPublisher, logger *applog.Logger) *RecordService {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &RecordService{
		store:     store,
		publisher: publisher,
		logger:    logger.WithComponent(applog.ComponentServices),
	}
}

func (s *RecordService) CreateIncome(ctx context.Context, userID string, in core.Income) (ledger.IncomeRecord, error) {
	rec, err := s.store.CreateIncome(ctx, userID, in)
	if err != nil {
		return ledger.IncomeRecord{}, fmt.Errorf("save entrada: %w", err)
	}
	s.publishExport(ctx, ledger.KindIncome, rec.ID, 1)
	return rec, nil
}

func (s *RecordService) ListIncomes(ctx context.Context, userID string) ([]ledger.IncomeRecord, error) {
	return s.store.ListIncomes(ctx, userID)
}

func (s *RecordService) UpdateIncome(ctx context.Context, userID string, id int64, in core.Income) (ledger.IncomeRecord, error) {
	rec, err := s.store.UpdateIncome(ctx, userID, id, in)
	if err != nil {
		return ledger.IncomeRecord{}, err
	}
	s.publishExport(ctx, ledger.KindIncome, rec.ID, 0)
	return rec, nil
}

func (s *RecordService) DeleteIncome(ctx context.Context, userID string, id int64) error {
	return s.store.DeleteIncome(ctx, userID, id)
}

func (s *RecordService) CreateExpense(ctx context.Context, userID string, ex core.Expense) (ledger.ExpenseRecord, error) {
	rec, err := s.store.CreateExpense(ctx, userID, ex)
	if err != nil {
		return ledger.ExpenseRecord{}, fmt.Errorf("save saida: %w", err)
	}
	s.publishExport(ctx, ledger.KindExpense, rec.ID, 1)
	return rec, nil
}

func (s *RecordService) ListExpenses(ctx context.Context, userID string) ([]ledger.ExpenseRecord, error) {
	return s.store.ListExpenses(ctx, userID)
}

func (s *RecordService) UpdateExpense(ctx context.Context, userID string, id int64, ex core.Expense) (ledger.ExpenseRecord, error) {
	rec, err := s.store.UpdateExpense(ctx, userID, id, ex)
	if err != nil {
		return ledger.ExpenseRecord{}, err
	}
	s.publishExport(ctx, ledger.KindExpense, rec.ID, 0)
	return rec, nil
}

func (s *RecordService) DeleteExpense(ctx context.Context, userID string, id int64) error {
	return s.store.DeleteExpense(ctx, userID, id)
}

func (s *RecordService) CreateGoal(ctx context.Context, userID string, g core.Goal) (ledger.GoalRecord, error) {
	return s.store.CreateGoal(ctx, userID, g)
}

func (s *RecordService) ListGoals(ctx context.Context, userID string) ([]ledger.GoalRecord, error) {
	return s.store.ListGoals(ctx, userID)
}

func (s *RecordService) UpdateGoal(ctx context.Context, userID string, id int64, g core.Goal) (ledger.GoalRecord, error) {
	return s.store.UpdateGoal(ctx, userID, id, g)
}

func (s *RecordService) DeleteGoal(ctx context.Context, userID string, id int64) error {
	return s.store.DeleteGoal(ctx, userID, id)
}

// publishExport notifies the export pipeline. The version is diagnostic; the
// worker always loads the current row.
func (s *RecordService) publishExport(ctx context.Context, kind string, id, version int64) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishRecordExport(ctx, kind, id, version); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish export message",
			"kind", kind, applog.FieldRecordID, id, applog.FieldError, err.Error())
	}
}

// Close closes the underlying store.
func (s *RecordService) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
