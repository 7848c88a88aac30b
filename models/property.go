// domus-crm/models/property.go
package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PropertyType используется оценщиком стоимости для выбора ставок удорожания.
type PropertyType string

const (
	PropertyHouse     PropertyType = "house"
	PropertyDuplex    PropertyType = "duplex"
	PropertyBungalow  PropertyType = "bungalow"
	PropertyApartment PropertyType = "apartment"
	PropertyLand      PropertyType = "land"
)

// Property - объект недвижимости кооператива.
type Property struct {
	gorm.Model
	CooperativeID uint            `json:"cooperativeId" gorm:"not null;index"`
	Title         string          `json:"title"`
	Type          PropertyType    `json:"type" gorm:"column:property_type"`
	Location      string          `json:"location"`
	Price         decimal.Decimal `json:"price" gorm:"type:numeric(14,2);not null"`
	Status        string          `json:"status" gorm:"default:'available'"`
}
