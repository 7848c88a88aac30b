package amortization

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSchedule_PrincipalRoundTrip(t *testing.T) {
	// 1,000,000 at 10% for 12 monthly periods: principal portions must sum back
	// to the principal and the final balance must be zero.
	terms := Terms{
		Principal:     decimal.NewFromInt(1_000_000),
		AnnualRatePct: decimal.NewFromInt(10),
		TenurePeriods: 12,
		Frequency:     Monthly,
		StartDate:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	schedule, err := GenerateSchedule(terms, nil, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, schedule, 12)

	totalPrincipal := decimal.Zero
	for _, entry := range schedule {
		totalPrincipal = totalPrincipal.Add(entry.PrincipalPortion)
	}
	assert.True(t,
		totalPrincipal.Sub(terms.Principal).Abs().LessThanOrEqual(decimal.NewFromFloat(0.02)),
		"principal portions should sum to the principal, got %s", totalPrincipal)

	last := schedule[len(schedule)-1]
	assert.True(t, last.RemainingBalance.IsZero(),
		"final remaining balance should be zero, got %s", last.RemainingBalance)

	// Interest declines monotonically on a fixed-payment schedule.
	for i := 1; i < len(schedule); i++ {
		assert.True(t, schedule[i].InterestPortion.LessThanOrEqual(schedule[i-1].InterestPortion))
	}
}

func TestGenerateSchedule_DueDatesFollowFrequency(t *testing.T) {
	start := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		freq        Frequency
		periods     int
		monthsApart int
	}{
		{Monthly, 6, 1},
		{Quarterly, 4, 3},
		{Biannual, 4, 6},
		{Annual, 3, 12},
	}

	for _, tc := range cases {
		t.Run(string(tc.freq), func(t *testing.T) {
			terms := Terms{
				Principal:     decimal.NewFromInt(500_000),
				AnnualRatePct: decimal.NewFromInt(8),
				TenurePeriods: tc.periods,
				Frequency:     tc.freq,
				StartDate:     start,
			}
			schedule, err := GenerateSchedule(terms, nil, start)
			require.NoError(t, err)
			require.Len(t, schedule, tc.periods)

			for i, entry := range schedule {
				expected := start.AddDate(0, (i+1)*tc.monthsApart, 0)
				assert.Equal(t, expected, entry.DueDate)
			}
		})
	}
}

func TestGenerateSchedule_ZeroRate(t *testing.T) {
	terms := Terms{
		Principal:     decimal.NewFromInt(120_000),
		AnnualRatePct: decimal.Zero,
		TenurePeriods: 12,
		Frequency:     Monthly,
		StartDate:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	schedule, err := GenerateSchedule(terms, nil, terms.StartDate)
	require.NoError(t, err)
	require.Len(t, schedule, 12)

	for _, entry := range schedule {
		assert.True(t, entry.InterestPortion.IsZero())
		assert.True(t, entry.PrincipalPortion.Equal(decimal.NewFromInt(10_000)))
	}
	assert.True(t, schedule[11].RemainingBalance.IsZero())
}

func TestGenerateSchedule_EarlyTermination(t *testing.T) {
	// An oversized periodic payment extinguishes the balance before the tenure
	// runs out; the schedule must stop early with a clamped final payment.
	terms := Terms{
		Principal:       decimal.NewFromInt(100_000),
		AnnualRatePct:   decimal.NewFromInt(12),
		TenurePeriods:   24,
		Frequency:       Monthly,
		PeriodicPayment: decimal.NewFromInt(40_000),
		StartDate:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	schedule, err := GenerateSchedule(terms, nil, terms.StartDate)
	require.NoError(t, err)
	require.Less(t, len(schedule), 24)

	last := schedule[len(schedule)-1]
	assert.True(t, last.RemainingBalance.IsZero())
	assert.True(t, last.Payment.LessThanOrEqual(decimal.NewFromInt(40_000)))
}

func TestGenerateSchedule_Reconciliation(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	// 24% annual: adjacent principal portions differ by 2%, more than the 1%
	// reconciliation tolerance, so one repayment covers exactly one period.
	terms := Terms{
		Principal:     decimal.NewFromInt(1_000_000),
		AnnualRatePct: decimal.NewFromInt(24),
		TenurePeriods: 12,
		Frequency:     Monthly,
		StartDate:     start,
	}

	// Dry run to learn the first principal portion.
	plain, err := GenerateSchedule(terms, nil, now)
	require.NoError(t, err)
	firstPrincipal := plain[0].PrincipalPortion

	repayments := []Repayment{
		{DueDate: start.AddDate(0, 1, 0), PrincipalPaid: firstPrincipal, Paid: true},
	}

	schedule, err := GenerateSchedule(terms, repayments, now)
	require.NoError(t, err)

	assert.Equal(t, PeriodPaid, schedule[0].Status)
	// Period 2 is due 2025-03-01, already in the past, and not covered.
	assert.Equal(t, PeriodOverdue, schedule[1].Status)
	// Period 3 is due 2025-04-01, still in the future.
	assert.Equal(t, PeriodPending, schedule[2].Status)
}

func TestGenerateSchedule_RestartableAndIdentical(t *testing.T) {
	terms := Terms{
		Principal:     decimal.NewFromInt(750_000),
		AnnualRatePct: decimal.NewFromFloat(9.5),
		TenurePeriods: 18,
		Frequency:     Monthly,
		StartDate:     time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	now := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	first, err := GenerateSchedule(terms, nil, now)
	require.NoError(t, err)
	second, err := GenerateSchedule(terms, nil, now)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerateSchedule_RejectsBadTerms(t *testing.T) {
	_, err := GenerateSchedule(Terms{
		Principal:     decimal.NewFromInt(1000),
		TenurePeriods: 12,
		Frequency:     Frequency("weekly"),
	}, nil, time.Now())
	assert.Error(t, err)

	_, err = GenerateSchedule(Terms{
		Principal:     decimal.Zero,
		TenurePeriods: 12,
		Frequency:     Monthly,
	}, nil, time.Now())
	assert.Error(t, err)
}

type fakeInstrument struct {
	status     string
	approved   bool
	approvedAt *time.Time
}

func (f *fakeInstrument) ScheduleState() (string, bool) { return f.status, f.approved }
func (f *fakeInstrument) MarkScheduleApproved(at time.Time) {
	f.approved = true
	f.approvedAt = &at
}

func TestApproveSchedule(t *testing.T) {
	now := time.Now()

	inst := &fakeInstrument{status: "approved"}
	require.NoError(t, ApproveSchedule(inst, now))
	assert.True(t, inst.approved)
	require.NotNil(t, inst.approvedAt)

	// Approval is one-way.
	assert.ErrorIs(t, ApproveSchedule(inst, now), ErrAlreadyApproved)

	// Pending instruments cannot have their schedule approved.
	assert.ErrorIs(t, ApproveSchedule(&fakeInstrument{status: "pending"}, now), ErrInvalidState)

	// Active instruments can.
	assert.NoError(t, ApproveSchedule(&fakeInstrument{status: "active"}, now))
}
