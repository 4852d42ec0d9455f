package core

import "time"

// BucketMonths is the size of the trailing window shown on the dashboard:
// the reference month plus the five preceding calendar months.
const BucketMonths = 6

// YearMonth identifies a calendar month.
type YearMonth struct {
	Year  int
	Month int // 1-12
}

// Prev returns the preceding calendar month.
func (ym YearMonth) Prev() YearMonth {
	if ym.Month == 1 {
		return YearMonth{Year: ym.Year - 1, Month: 12}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month - 1}
}

// Key returns the canonical "YYYY-MM" form used as a map key and wire label.
func (ym YearMonth) Key() string {
	return NewDate(ym.Year, ym.Month, 1).Format("2006-01")
}

// Label returns the short month name ("Jan", "Feb", ...).
func (ym YearMonth) Label() string {
	return time.Month(ym.Month).String()[:3]
}

// MonthlyBucket holds the summed income and expense for one calendar month.
type MonthlyBucket struct {
	Month   YearMonth
	Income  Money
	Expense Money
}

// MonthlyBuckets groups records into the trailing six calendar months ending
// at ref, oldest first. Every month in the window is present even when both
// sums are zero. Records dated outside the window are ignored; records with
// an invalid (zero) date are dropped and counted, so callers can surface the
// count instead of losing them silently.
func MonthlyBuckets(incomes []Income, expenses []Expense, ref Date) (buckets []MonthlyBucket, skipped int) {
	months := trailingMonths(ref)

	index := make(map[YearMonth]int, len(months))
	buckets = make([]MonthlyBucket, len(months))
	for i, ym := range months {
		index[ym] = i
		buckets[i] = MonthlyBucket{Month: ym}
	}

	for _, in := range incomes {
		if in.Date.IsZero() {
			skipped++
			continue
		}
		if i, ok := index[in.Date.YearMonth()]; ok {
			buckets[i].Income.Cents += in.Amount.Cents
		}
	}
	for _, ex := range expenses {
		if ex.Date.IsZero() {
			skipped++
			continue
		}
		if i, ok := index[ex.Date.YearMonth()]; ok {
			buckets[i].Expense.Cents += ex.Amount.Cents
		}
	}

	return buckets, skipped
}

// trailingMonths returns the window's months in chronological order,
// ending at ref's month.
func trailingMonths(ref Date) []YearMonth {
	months := make([]YearMonth, BucketMonths)
	ym := ref.YearMonth()
	for i := BucketMonths - 1; i >= 0; i-- {
		months[i] = ym
		ym = ym.Prev()
	}
	return months
}
