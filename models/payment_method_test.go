package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMixAllocationsValidate(t *testing.T) {
	valid := MixAllocations{
		MethodEquityWallet: decimal.NewFromInt(60),
		MethodCooperative:  decimal.NewFromInt(40),
	}
	assert.NoError(t, valid.Validate())

	empty := MixAllocations{}
	assert.Error(t, empty.Validate())

	not100 := MixAllocations{
		MethodEquityWallet: decimal.NewFromInt(60),
		MethodCooperative:  decimal.NewFromInt(50),
	}
	assert.Error(t, not100.Validate())

	negative := MixAllocations{
		MethodEquityWallet: decimal.NewFromInt(110),
		MethodCooperative:  decimal.NewFromInt(-10),
	}
	assert.Error(t, negative.Validate())

	unknownMethod := MixAllocations{
		PaymentMethod("crypto"): decimal.NewFromInt(100),
	}
	assert.Error(t, unknownMethod.Validate())
}

func TestFundingOptionMethod(t *testing.T) {
	assert.Equal(t, MethodEquityWallet, OptionEquityWallet.Method())
	assert.Equal(t, MethodMortgage, OptionMortgage.Method())
	assert.Equal(t, MethodLoan, OptionLoan.Method())
	assert.Equal(t, MethodCooperative, OptionCooperative.Method())
	// Неизвестные варианты и mix сводятся к cash.
	assert.Equal(t, MethodCash, OptionMix.Method())
	assert.Equal(t, MethodCash, FundingOption("barter").Method())
}

func TestMethodListContains(t *testing.T) {
	l := MethodList{MethodMortgage, MethodCash}
	assert.True(t, l.Contains(MethodMortgage))
	assert.False(t, l.Contains(MethodLoan))
}
