package valuation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"domus-crm/models"
)

func TestCurrentAndPredictiveValue(t *testing.T) {
	price := decimal.NewFromInt(1_000_000)

	cases := []struct {
		propType   models.PropertyType
		current    string
		predictive string
	}{
		{models.PropertyHouse, "1080000.00", "1209600.00"},
		{models.PropertyDuplex, "1080000.00", "1209600.00"},
		{models.PropertyBungalow, "1080000.00", "1209600.00"},
		{models.PropertyApartment, "1060000.00", "1166000.00"},
		{models.PropertyLand, "1120000.00", "1321600.00"},
		{models.PropertyType("warehouse"), "1050000.00", "1134000.00"}, // default rates
	}

	for _, tc := range cases {
		t.Run(string(tc.propType), func(t *testing.T) {
			p := models.Property{Type: tc.propType, Price: price}
			current := CurrentValue(p)
			assert.Equal(t, tc.current, current.StringFixed(2))
			assert.Equal(t, tc.predictive, PredictiveValue(p, current).StringFixed(2))
		})
	}
}
