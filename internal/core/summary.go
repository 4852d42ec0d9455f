package core

// PercentChange compares a value against the previous month. NoChange is set
// when there is nothing meaningful to report: the previous value was zero, so
// no ratio exists, or the value did not move.
type PercentChange struct {
	Percent  float64
	NoChange bool
}

// PercentChangeOf computes the month-over-month variation of current against
// previous. A zero previous value yields NoChange rather than a division by
// zero or an infinite percentage.
func PercentChangeOf(current, previous Money) PercentChange {
	if previous.Cents == 0 {
		return PercentChange{NoChange: true}
	}
	if current.Cents == previous.Cents {
		return PercentChange{NoChange: true}
	}
	pct := float64(current.Cents-previous.Cents) / float64(previous.Cents) * 100
	return PercentChange{Percent: pct}
}

// MonthTotals holds the aggregated figures for a single calendar month.
type MonthTotals struct {
	Income      Money
	Salary      Money
	OtherIncome Money
	Expense     Money
	Fixed       Money
	Variable    Money
	Balance     Money
	SpendRate   float64 // expense as a percentage of income, 0 when income is 0
}

// TotalsFor sums the records dated inside ym. Records with an invalid (zero)
// date are dropped and counted in skipped.
func TotalsFor(incomes []Income, expenses []Expense, ym YearMonth) (t MonthTotals, skipped int) {
	for _, in := range incomes {
		if in.Date.IsZero() {
			skipped++
			continue
		}
		if in.Date.YearMonth() != ym {
			continue
		}
		t.Income.Cents += in.Amount.Cents
		if in.Salary {
			t.Salary.Cents += in.Amount.Cents
		} else {
			t.OtherIncome.Cents += in.Amount.Cents
		}
	}
	for _, ex := range expenses {
		if ex.Date.IsZero() {
			skipped++
			continue
		}
		if ex.Date.YearMonth() != ym {
			continue
		}
		t.Expense.Cents += ex.Amount.Cents
		switch ex.Kind {
		case ExpenseFixed:
			t.Fixed.Cents += ex.Amount.Cents
		case ExpenseVariable:
			t.Variable.Cents += ex.Amount.Cents
		}
	}
	t.Balance.Cents = t.Income.Cents - t.Expense.Cents
	if t.Income.Cents > 0 {
		t.SpendRate = float64(t.Expense.Cents) / float64(t.Income.Cents) * 100
	}
	return t, skipped
}

// MonthSummary is the dashboard read model for one month, with variation
// against the month before it.
type MonthSummary struct {
	Month         YearMonth
	Totals        MonthTotals
	IncomeChange  PercentChange
	ExpenseChange PercentChange
}

// Summarize builds the summary for ref's month. Invalid-date records from
// either month's pass are counted once in skipped.
func Summarize(incomes []Income, expenses []Expense, ref Date) (MonthSummary, int) {
	ym := ref.YearMonth()
	cur, skipped := TotalsFor(incomes, expenses, ym)
	prev, _ := TotalsFor(incomes, expenses, ym.Prev())
	return MonthSummary{
		Month:         ym,
		Totals:        cur,
		IncomeChange:  PercentChangeOf(cur.Income, prev.Income),
		ExpenseChange: PercentChangeOf(cur.Expense, prev.Expense),
	}, skipped
}

// GoalProgress is the display state of a single savings goal.
type GoalProgress struct {
	Percent  float64 // clamped to 100 for display
	Complete bool    // true when current has reached the target, unclamped
}

// ProgressOf computes the progress of g. The percentage shown never exceeds
// 100 even if the stored amount overshoots the target, while Complete keeps
// reporting from the raw comparison.
func ProgressOf(g Goal) GoalProgress {
	p := GoalProgress{Complete: g.Complete()}
	if g.Target.Cents > 0 {
		p.Percent = float64(g.Current.Cents) / float64(g.Target.Cents) * 100
		if p.Percent > 100 {
			p.Percent = 100
		}
	}
	return p
}

// GoalsOverview aggregates every goal of a user into a single headline figure.
type GoalsOverview struct {
	Count        int
	TargetTotal  Money
	CurrentTotal Money
	Percent      float64 // clamped to 100 for display
	Complete     int     // goals whose current amount reached the target
}

// OverviewOf sums the goals and derives the aggregate percentage from the
// summed totals, not from averaging per-goal percentages.
func OverviewOf(goals []Goal) GoalsOverview {
	o := GoalsOverview{Count: len(goals)}
	for _, g := range goals {
		o.TargetTotal.Cents += g.Target.Cents
		o.CurrentTotal.Cents += g.Current.Cents
		if g.Complete() {
			o.Complete++
		}
	}
	if o.TargetTotal.Cents > 0 {
		o.Percent = float64(o.CurrentTotal.Cents) / float64(o.TargetTotal.Cents) * 100
		if o.Percent > 100 {
			o.Percent = 100
		}
	}
	return o
}
