package wallet

import (
	"path/filepath"
	"testing"

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
	require.NoError(t, db.AutoMigrate(&models.EquityWallet{}, &models.EquityWalletTransaction{}))
	return db
}

func TestCreditCreatesWallet(t *testing.T) {
	db := newTestDB(t)
	s := NewService()

	require.NoError(t, s.Credit(db, tc, 5, decimal.NewFromInt(100_000), "topup-1"))

	balance, err := s.Balance(db, tc, 5)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(100_000)))

	// Движение зафиксировано.
	var count int64
	db.Model(&models.EquityWalletTransaction{}).Where("direction = ?", "credit").Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestDebit(t *testing.T) {
	db := newTestDB(t)
	s := NewService()
	require.NoError(t, s.Credit(db, tc, 5, decimal.NewFromInt(50_000), "topup"))

	err := db.Transaction(func(tx *gorm.DB) error {
		ok, err := s.Debit(tx, tc, 5, decimal.NewFromInt(30_000), "ref-1", "property payment")
		require.NoError(t, err)
		assert.True(t, ok)
		return nil
	})
	require.NoError(t, err)

	balance, err := s.Balance(db, tc, 5)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(20_000)))
}

func TestDebitInsufficientBalance(t *testing.T) {
	db := newTestDB(t)
	s := NewService()
	require.NoError(t, s.Credit(db, tc, 5, decimal.NewFromInt(10_000), "topup"))

	err := db.Transaction(func(tx *gorm.DB) error {
		ok, err := s.Debit(tx, tc, 5, decimal.NewFromInt(10_001), "ref-2", "property payment")
		require.NoError(t, err)
		// Недостаток средств - это false, не ошибка.
		assert.False(t, ok)
		return nil
	})
	require.NoError(t, err)

	// Баланс не изменился.
	balance, err := s.Balance(db, tc, 5)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(10_000)))
}

func TestDebitMissingWallet(t *testing.T) {
	db := newTestDB(t)
	s := NewService()

	err := db.Transaction(func(tx *gorm.DB) error {
		ok, err := s.Debit(tx, tc, 42, decimal.NewFromInt(1), "ref-3", "property payment")
		require.NoError(t, err)
		assert.False(t, ok)
		return nil
	})
	require.NoError(t, err)

	// Баланс несуществующего кошелька равен нулю.
	balance, err := s.Balance(db, tc, 42)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestCreditRejectsNonPositive(t *testing.T) {
	db := newTestDB(t)
	s := NewService()
	assert.Error(t, s.Credit(db, tc, 5, decimal.Zero, "bad"))
	assert.Error(t, s.Credit(db, tc, 5, decimal.NewFromInt(-10), "bad"))
}
