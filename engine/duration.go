/*
duration.go - Month counting and point-month accrual

PURPOSE:
  Converts whole-day differences into billing months and accrued
  point-months. These two functions are the timeline primitives every
  higher calculator composes.

MONTH COUNTING (TotalMonthsDue):
  A billing month is OneMonthDays long, but up to GracePeriodDays extra
  days past a month boundary still count as the same month. Crossing the
  grace window advances the count by one. The first month is owed as soon
  as a single day has elapsed.

  With the default rates (30-day month, 7-day grace):
    day 0        -> 0 months
    days 1..37   -> 1
    day 38       -> 2
    day 60       -> 2
    day 68       -> 3
    day 365      -> 12
    day 730      -> 25

POINT ACCRUAL (PointMonthsAccrued):
  Points defer for the first OneYearMonthThreshold months of each year of
  the loan and then accrue one point-month per month for the rest of that
  year. Over a whole year that averages half a point-month per elapsed
  month. Negative day spans accrue nothing.
*/
package engine

// TotalMonthsDue counts the billing months owed between two dates.
// endDate before startDate is an invalid input, not a zero result.
func TotalMonthsDue(rates Rates, startDate, endDate DayPoint) (int, error) {
	return TotalMonthsDueDays(rates, DaysBetween(startDate, endDate))
}

// TotalMonthsDueDays is TotalMonthsDue on a precomputed day count.
func TotalMonthsDueDays(rates Rates, days int) (int, error) {
	if days < 0 {
		return 0, NewInvalidInput("end_date", "precedes start date")
	}
	if days == 0 {
		return 0, nil
	}

	// Ceiling of (days - grace) / month, then floored at one month:
	// the grace window extends each month boundary without ever
	// forgiving the first month.
	past := days - rates.GracePeriodDays
	months := past / rates.OneMonthDays
	if past > 0 && past%rates.OneMonthDays != 0 {
		months++
	}
	if months < 1 {
		months = 1
	}
	return months, nil
}

// PointMonthsAccrued counts the point-months a member has earned on a loan
// between two dates. Negative spans yield 0.
func PointMonthsAccrued(rates Rates, startDate, endDate DayPoint) int {
	return PointMonthsAccruedDays(rates, DaysBetween(startDate, endDate))
}

// PointMonthsAccruedDays is PointMonthsAccrued on a precomputed day count.
func PointMonthsAccruedDays(rates Rates, days int) int {
	if days < 0 {
		return 0
	}

	elapsed := days / rates.OneMonthDays
	years := elapsed / rates.OneYearMonths
	remainder := elapsed % rates.OneYearMonths

	perYear := rates.OneYearMonths - rates.OneYearMonthThreshold
	accrued := years * perYear
	if remainder > rates.OneYearMonthThreshold {
		accrued += remainder - rates.OneYearMonthThreshold
	}
	return accrued
}
