package core

import (
	"errors"
	"strings"
	"time"
)

const (
	// Expense kinds, as transmitted on the wire.
	ExpenseFixed    ExpenseKind = "fixa"
	ExpenseVariable ExpenseKind = "variável"
)

const (
	// Goal categories, as transmitted on the wire.
	GoalTravel     GoalCategory = "viagem"
	GoalReserve    GoalCategory = "reserva"
	GoalPurchase   GoalCategory = "compra"
	GoalInvestment GoalCategory = "investimento"
	GoalOther      GoalCategory = "outros"
)

type (
	ExpenseKind  string
	GoalCategory string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Income is an "entrada": money received on a date, optionally a salary.
	Income struct {
		Description string
		Amount      Money
		Date        Date
		Salary      bool
	}

	// Expense is a "saída": money spent on a date, fixed or variable.
	Expense struct {
		Description string
		Amount      Money
		Date        Date
		Kind        ExpenseKind
	}

	// Goal is a "meta": a savings target with accumulated progress.
	Goal struct {
		Name     string
		Target   Money
		Current  Money
		Deadline Date
		Category GoalCategory
	}
)

var (
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyDescription   = errors.New("empty description")
	ErrInvalidExpenseKind = errors.New("invalid expense kind")
	ErrEmptyGoalName      = errors.New("empty goal name")
	ErrInvalidGoalTarget  = errors.New("invalid goal target")
	ErrGoalOverTarget     = errors.New("current amount exceeds target")
	ErrInvalidGoalCat     = errors.New("invalid goal category")
	ErrMissingDeadline    = errors.New("missing deadline")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
	ErrNameTooLong        = errors.New("goal name too long (max 200 characters)")
)

// NewDate creates a Date for the given calendar day at UTC midnight.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a wire-format date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String returns the wire format (YYYY-MM-DD).
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

// YearMonth returns the bucketing key for the date's calendar month.
func (d Date) YearMonth() YearMonth {
	return YearMonth{Year: d.Year(), Month: int(d.Time.Month())}
}

func (k ExpenseKind) Validate() error {
	switch k {
	case ExpenseFixed, ExpenseVariable:
		return nil
	}
	return ErrInvalidExpenseKind
}

func (c GoalCategory) Validate() error {
	switch c {
	case GoalTravel, GoalReserve, GoalPurchase, GoalInvestment, GoalOther:
		return nil
	}
	return ErrInvalidGoalCat
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Income) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return ErrDescriptionTooLong
	}
	return e.Amount.Validate()
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return ErrDescriptionTooLong
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	return e.Kind.Validate()
}

func (g Goal) Validate() error {
	if len(strings.TrimSpace(g.Name)) == 0 {
		return ErrEmptyGoalName
	}
	if len(g.Name) > 200 {
		return ErrNameTooLong
	}
	if g.Target.Cents <= 0 {
		return ErrInvalidGoalTarget
	}
	if g.Current.Cents < 0 {
		return ErrInvalidAmount
	}
	if g.Current.Cents > g.Target.Cents {
		return ErrGoalOverTarget
	}
	if err := g.Deadline.Validate(); err != nil {
		return ErrMissingDeadline
	}
	return g.Category.Validate()
}

// Complete reports whether the goal has been reached. The flag is derived
// from the raw amounts, not from the clamped display percentage, so a
// current amount persisted above the target still counts as complete.
func (g Goal) Complete() bool {
	return g.Current.Cents >= g.Target.Cents
}
