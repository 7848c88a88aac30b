// domus-crm/internal/amortization/schedule.go
package amortization

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Frequency - периодичность платежей по инструменту.
type Frequency string

const (
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
	Biannual  Frequency = "biannual"
	Annual    Frequency = "annual"
)

func (f Frequency) Valid() bool {
	switch f {
	case Monthly, Quarterly, Biannual, Annual:
		return true
	}
	return false
}

// PaymentsPerYear возвращает число платежей в год для данной периодичности.
func (f Frequency) PaymentsPerYear() int {
	switch f {
	case Quarterly:
		return 4
	case Biannual:
		return 2
	case Annual:
		return 1
	default:
		return 12
	}
}

// MonthsPerPeriod возвращает длину одного периода в месяцах.
func (f Frequency) MonthsPerPeriod() int {
	return 12 / f.PaymentsPerYear()
}

// Terms - параметры графика. Один и тот же движок обслуживает заем, банковскую
// и внутреннюю ипотеку: различается только периодичность.
type Terms struct {
	Principal       decimal.Decimal
	AnnualRatePct   decimal.Decimal
	TenurePeriods   int
	Frequency       Frequency
	PeriodicPayment decimal.Decimal
	StartDate       time.Time
}

// Repayment - фактически зафиксированное погашение, против которого сверяется
// расчетный график.
type Repayment struct {
	DueDate       time.Time
	PrincipalPaid decimal.Decimal
	Paid          bool
}

// Статусы периода после сверки.
const (
	PeriodPaid    = "paid"
	PeriodOverdue = "overdue"
	PeriodPending = "pending"
)

// ScheduleEntry - один период графика: доли основного долга и процентов,
// остаток после периода и статус сверки.
type ScheduleEntry struct {
	Period           int             `json:"period"`
	DueDate          time.Time       `json:"dueDate"`
	PrincipalPortion decimal.Decimal `json:"principalPortion"`
	InterestPortion  decimal.Decimal `json:"interestPortion"`
	Payment          decimal.Decimal `json:"payment"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
	Status           string          `json:"status"`
}

// Допуск на округление долей основного долга при сверке: период считается
// оплаченным, если внесено не меньше 99% расчетной доли.
var paidTolerance = decimal.NewFromFloat(0.99)

// PeriodicPayment вычисляет аннуитетный платеж по формуле
// P * r * (1+r)^n / ((1+r)^n - 1). При нулевой ставке долг делится поровну.
func PeriodicPayment(principal, annualRatePct decimal.Decimal, tenurePeriods int, freq Frequency) decimal.Decimal {
	if tenurePeriods <= 0 || principal.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	rate := annualRatePct.InexactFloat64() / 100.0 / float64(freq.PaymentsPerYear())
	if rate == 0 {
		return principal.Div(decimal.NewFromInt(int64(tenurePeriods))).Round(2)
	}
	factor := math.Pow(1+rate, float64(tenurePeriods))
	payment := principal.InexactFloat64() * rate * factor / (factor - 1)
	return decimal.NewFromFloat(payment).Round(2)
}

// GenerateSchedule строит график по параметрам инструмента и сверяет каждый
// период с фактическими погашениями. График пересчитывается при каждом вызове
// и нигде не кэшируется; обрывается досрочно, когда остаток исчерпан.
func GenerateSchedule(t Terms, repayments []Repayment, now time.Time) ([]ScheduleEntry, error) {
	if !t.Frequency.Valid() {
		return nil, errors.New("amortization: unknown payment frequency " + string(t.Frequency))
	}
	if t.TenurePeriods <= 0 || t.Principal.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("amortization: principal and tenure must be positive")
	}

	payment := t.PeriodicPayment
	if payment.LessThanOrEqual(decimal.Zero) {
		payment = PeriodicPayment(t.Principal, t.AnnualRatePct, t.TenurePeriods, t.Frequency)
	}

	// Ставка за период в долях единицы.
	periodicRate := t.AnnualRatePct.
		Div(hundred).
		Div(decimal.NewFromInt(int64(t.Frequency.PaymentsPerYear())))

	// Сверка опирается на последнее по сроку оплаченное погашение,
	// поэтому сортируем копию один раз.
	paid := make([]Repayment, 0, len(repayments))
	for _, r := range repayments {
		if r.Paid {
			paid = append(paid, r)
		}
	}
	sort.Slice(paid, func(i, j int) bool { return paid[i].DueDate.Before(paid[j].DueDate) })

	monthsPerPeriod := t.Frequency.MonthsPerPeriod()
	remaining := t.Principal
	schedule := make([]ScheduleEntry, 0, t.TenurePeriods)

	for n := 1; n <= t.TenurePeriods; n++ {
		interest := remaining.Mul(periodicRate).Round(2)
		principalPortion := payment.Sub(interest)
		periodPayment := payment

		// Остаток не может уйти в минус, а последний период закрывает долг
		// полностью: хвост округления уходит в него.
		if remaining.LessThan(principalPortion) || n == t.TenurePeriods {
			principalPortion = remaining
			periodPayment = principalPortion.Add(interest)
		}

		dueDate := t.StartDate.AddDate(0, n*monthsPerPeriod, 0)
		status := reconcile(paid, dueDate, principalPortion, now)

		remaining = remaining.Sub(principalPortion)
		if remaining.LessThan(decimal.Zero) {
			remaining = decimal.Zero
		}

		schedule = append(schedule, ScheduleEntry{
			Period:           n,
			DueDate:          dueDate,
			PrincipalPortion: principalPortion,
			InterestPortion:  interest,
			Payment:          periodPayment,
			RemainingBalance: remaining,
			Status:           status,
		})

		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
	}

	return schedule, nil
}

// reconcile определяет статус периода: берем последнее оплаченное погашение со
// сроком не позже срока периода и сравниваем внесенную долю основного долга
// с расчетной (с допуском на округление).
func reconcile(paidSorted []Repayment, dueDate time.Time, principalPortion decimal.Decimal, now time.Time) string {
	var latest *Repayment
	for i := range paidSorted {
		if paidSorted[i].DueDate.After(dueDate) {
			break
		}
		latest = &paidSorted[i]
	}

	if latest != nil && latest.PrincipalPaid.GreaterThanOrEqual(principalPortion.Mul(paidTolerance)) {
		return PeriodPaid
	}
	if dueDate.Before(now) {
		return PeriodOverdue
	}
	return PeriodPending
}

var hundred = decimal.NewFromInt(100)
