// domus-crm/internal/valuation/estimator.go

// Пакет valuation - простая модель удорожания объектов. Чистые функции без
// побочных эффектов и без ошибок: для неизвестного типа берутся ставки по умолчанию.
package valuation

import (
	"github.com/shopspring/decimal"

	"domus-crm/models"
)

type rates struct {
	appreciation decimal.Decimal // текущее удорожание
	growth       decimal.Decimal // прогнозный рост
}

var rateTable = map[models.PropertyType]rates{
	models.PropertyHouse:     {decimal.NewFromFloat(0.08), decimal.NewFromFloat(0.12)},
	models.PropertyDuplex:    {decimal.NewFromFloat(0.08), decimal.NewFromFloat(0.12)},
	models.PropertyBungalow:  {decimal.NewFromFloat(0.08), decimal.NewFromFloat(0.12)},
	models.PropertyApartment: {decimal.NewFromFloat(0.06), decimal.NewFromFloat(0.10)},
	models.PropertyLand:      {decimal.NewFromFloat(0.12), decimal.NewFromFloat(0.18)},
}

var defaultRates = rates{decimal.NewFromFloat(0.05), decimal.NewFromFloat(0.08)}

var one = decimal.NewFromInt(1)

func ratesFor(t models.PropertyType) rates {
	if r, ok := rateTable[t]; ok {
		return r
	}
	return defaultRates
}

// CurrentValue - текущая оценка: цена с учетом удорожания по типу объекта.
func CurrentValue(p models.Property) decimal.Decimal {
	return p.Price.Mul(one.Add(ratesFor(p.Type).appreciation)).Round(2)
}

// PredictiveValue - прогнозная оценка от текущей стоимости.
func PredictiveValue(p models.Property, currentValue decimal.Decimal) decimal.Decimal {
	return currentValue.Mul(one.Add(ratesFor(p.Type).growth)).Round(2)
}
