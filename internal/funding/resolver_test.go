package funding

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

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Property{},
		&models.PaymentPlan{},
		&models.PropertyInterest{},
	))
	return db
}

var tc = tenant.Context{CooperativeID: 1}

func seedProperty(t *testing.T, db *gorm.DB, price int64) uint {
	t.Helper()
	p := models.Property{
		CooperativeID: tc.CooperativeID,
		Title:         "Test bungalow",
		Type:          models.PropertyBungalow,
		Price:         decimal.NewFromInt(price),
	}
	require.NoError(t, db.Create(&p).Error)
	return p.ID
}

func TestResolveTarget_MixPlan(t *testing.T) {
	db := newTestDB(t)
	propertyID := seedProperty(t, db, 2_000_000)

	plan := models.PaymentPlan{
		CooperativeID: tc.CooperativeID,
		PropertyID:    propertyID,
		MemberID:      7,
		FundingOption: models.OptionMix,
		MixAllocations: models.MixAllocations{
			models.MethodEquityWallet: decimal.NewFromInt(60),
			models.MethodCooperative:  decimal.NewFromInt(40),
		},
		TotalAmountTarget: decimal.NewFromInt(1_000_000),
		RemainingBalance:  decimal.NewFromInt(1_000_000),
	}
	require.NoError(t, db.Create(&plan).Error)

	target, err := ResolveTarget(db, tc, propertyID, 7)
	require.NoError(t, err)

	assert.True(t, target.Mix())
	assert.True(t, target.TotalTarget.Equal(decimal.NewFromInt(1_000_000)))
	require.NotNil(t, target.PlanID)
	assert.Equal(t, plan.ID, *target.PlanID)

	assert.True(t, target.AmountByMethod[models.MethodEquityWallet].Equal(decimal.NewFromInt(600_000)))
	assert.True(t, target.AmountByMethod[models.MethodCooperative].Equal(decimal.NewFromInt(400_000)))
	assert.ElementsMatch(t,
		models.MethodList{models.MethodEquityWallet, models.MethodCooperative},
		target.AllowedMethods)
}

func TestResolveTarget_SingleMethodPlanWithoutAmount(t *testing.T) {
	db := newTestDB(t)
	propertyID := seedProperty(t, db, 3_500_000)

	plan := models.PaymentPlan{
		CooperativeID:     tc.CooperativeID,
		PropertyID:        propertyID,
		MemberID:          7,
		FundingOption:     models.OptionLoan,
		TotalAmountTarget: decimal.NewFromInt(3_500_000),
	}
	require.NoError(t, db.Create(&plan).Error)
	// Обнуляем сумму после создания: цель должна упасть обратно на цену объекта.
	require.NoError(t, db.Model(&plan).Update("total_amount_target", decimal.Zero).Error)

	target, err := ResolveTarget(db, tc, propertyID, 7)
	require.NoError(t, err)

	assert.False(t, target.Mix())
	assert.True(t, target.TotalTarget.Equal(decimal.NewFromInt(3_500_000)))
	assert.Equal(t, models.MethodList{models.MethodLoan}, target.AllowedMethods)
}

func TestResolveTarget_FallsBackToApprovedInterest(t *testing.T) {
	db := newTestDB(t)
	propertyID := seedProperty(t, db, 5_000_000)

	interest := models.PropertyInterest{
		CooperativeID: tc.CooperativeID,
		PropertyID:    propertyID,
		MemberID:      3,
		FundingOption: models.OptionMortgage,
		Status:        models.InterestApproved,
	}
	require.NoError(t, db.Create(&interest).Error)

	target, err := ResolveTarget(db, tc, propertyID, 3)
	require.NoError(t, err)

	assert.Equal(t, models.MethodList{models.MethodMortgage}, target.AllowedMethods)
	assert.True(t, target.TotalTarget.Equal(decimal.NewFromInt(5_000_000)))
	assert.Nil(t, target.PlanID)
}

func TestResolveTarget_InterestPreferredMethodsWin(t *testing.T) {
	db := newTestDB(t)
	propertyID := seedProperty(t, db, 5_000_000)

	interest := models.PropertyInterest{
		CooperativeID:           tc.CooperativeID,
		PropertyID:              propertyID,
		MemberID:                3,
		FundingOption:           models.OptionCash,
		PreferredPaymentMethods: models.MethodList{models.MethodEquityWallet, models.MethodCash},
		Status:                  models.InterestApproved,
	}
	require.NoError(t, db.Create(&interest).Error)

	target, err := ResolveTarget(db, tc, propertyID, 3)
	require.NoError(t, err)
	assert.Equal(t,
		models.MethodList{models.MethodEquityWallet, models.MethodCash},
		target.AllowedMethods)
}

func TestResolveTarget_NoPlanNoInterest(t *testing.T) {
	db := newTestDB(t)
	propertyID := seedProperty(t, db, 1_000_000)

	// Неодобренная заявка целью не является.
	pending := models.PropertyInterest{
		CooperativeID: tc.CooperativeID,
		PropertyID:    propertyID,
		MemberID:      9,
		FundingOption: models.OptionCash,
		Status:        models.InterestPending,
	}
	require.NoError(t, db.Create(&pending).Error)

	_, err := ResolveTarget(db, tc, propertyID, 9)
	assert.ErrorIs(t, err, ErrNoFundingTarget)
}

func TestResolveTarget_Idempotent(t *testing.T) {
	db := newTestDB(t)
	propertyID := seedProperty(t, db, 2_500_000)

	plan := models.PaymentPlan{
		CooperativeID: tc.CooperativeID,
		PropertyID:    propertyID,
		MemberID:      7,
		FundingOption: models.OptionMix,
		MixAllocations: models.MixAllocations{
			models.MethodMortgage: decimal.NewFromInt(70),
			models.MethodCash:     decimal.NewFromInt(30),
		},
		TotalAmountTarget: decimal.NewFromInt(2_500_000),
	}
	require.NoError(t, db.Create(&plan).Error)

	first, err := ResolveTarget(db, tc, propertyID, 7)
	require.NoError(t, err)
	second, err := ResolveTarget(db, tc, propertyID, 7)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestResolveTarget_TenantIsolation(t *testing.T) {
	db := newTestDB(t)
	propertyID := seedProperty(t, db, 1_000_000)

	other := tenant.Context{CooperativeID: 2}
	_, err := ResolveTarget(db, other, propertyID, 7)
	assert.ErrorIs(t, err, ErrNoFundingTarget)
}
