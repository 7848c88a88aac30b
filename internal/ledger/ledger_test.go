package ledger

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"domus-crm/internal/tenant"
	"domus-crm/models"
)

var tc = tenant.Context{CooperativeID: 1}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.PropertyPaymentTransaction{}))
	return db
}

func seedEntry(t *testing.T, db *gorm.DB, method models.PaymentMethod, amount int64, status string) *models.PropertyPaymentTransaction {
	t.Helper()
	entry := models.PropertyPaymentTransaction{
		CooperativeID: tc.CooperativeID,
		PropertyID:    1,
		MemberID:      2,
		Method:        method,
		Amount:        decimal.NewFromInt(amount),
		Direction:     models.DirectionCredit,
		Status:        status,
		Reference:     uuid.NewString(),
	}
	require.NoError(t, Append(db, &entry))
	return &entry
}

func TestTotals(t *testing.T) {
	db := newTestDB(t)

	seedEntry(t, db, models.MethodEquityWallet, 600_000, models.TxCompleted)
	seedEntry(t, db, models.MethodCooperative, 400_000, models.TxScheduled)
	seedEntry(t, db, models.MethodCash, 50_000, models.TxPending)
	seedEntry(t, db, models.MethodCash, 70_000, models.TxFailed)

	credited, err := CreditedTotal(db, tc, 1, 2)
	require.NoError(t, err)
	assert.True(t, credited.Equal(decimal.NewFromInt(600_000)), "completed only, got %s", credited)

	recognized, err := RecognizedTotal(db, tc, 1, 2)
	require.NoError(t, err)
	assert.True(t, recognized.Equal(decimal.NewFromInt(1_050_000)),
		"completed+scheduled+pending, got %s", recognized)

	byMethod, err := RecognizedTotal(db, tc, 1, 2, models.MethodCooperative)
	require.NoError(t, err)
	assert.True(t, byMethod.Equal(decimal.NewFromInt(400_000)))

	// Чужой кооператив записей не видит.
	other, err := CreditedTotal(db, tenant.Context{CooperativeID: 9}, 1, 2)
	require.NoError(t, err)
	assert.True(t, other.IsZero())
}

func TestTotals_EmptyLedger(t *testing.T) {
	db := newTestDB(t)
	total, err := CreditedTotal(db, tc, 1, 2)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestStatusTransitions(t *testing.T) {
	db := newTestDB(t)

	pending := seedEntry(t, db, models.MethodCash, 10_000, models.TxPending)
	paidAt := time.Now()

	updated, err := MarkCompleted(db, tc, pending.ID, paidAt)
	require.NoError(t, err)

	var reread models.PropertyPaymentTransaction
	require.NoError(t, db.First(&reread, updated.ID).Error)
	assert.Equal(t, models.TxCompleted, reread.Status)
	require.NotNil(t, reread.PaidAt)

	// Переходы монотонны: из completed пути назад нет.
	_, err = MarkFailed(db, tc, pending.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = MarkCompleted(db, tc, pending.ID, time.Now())
	assert.ErrorIs(t, err, ErrInvalidTransition)

	scheduled := seedEntry(t, db, models.MethodMortgage, 20_000, models.TxScheduled)
	_, err = MarkFailed(db, tc, scheduled.ID)
	require.NoError(t, err)

	var rereadScheduled models.PropertyPaymentTransaction
	require.NoError(t, db.First(&rereadScheduled, scheduled.ID).Error)
	assert.Equal(t, models.TxFailed, rereadScheduled.Status)
}

func TestAmountsAreImmutableByConvention(t *testing.T) {
	db := newTestDB(t)
	entry := seedEntry(t, db, models.MethodCash, 10_000, models.TxPending)

	// Переход статуса не трогает сумму.
	_, err := MarkCompleted(db, tc, entry.ID, time.Now())
	require.NoError(t, err)

	var reread models.PropertyPaymentTransaction
	require.NoError(t, db.First(&reread, entry.ID).Error)
	assert.True(t, reread.Amount.Equal(decimal.NewFromInt(10_000)))
}
