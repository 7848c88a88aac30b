// domus-crm/models/member.go
package models

import "gorm.io/gorm"

// Member - пайщик кооператива. Все финансовые записи привязываются к нему
// и к его кооперативу (CooperativeID - явный ключ арендатора).
type Member struct {
	gorm.Model
	CooperativeID uint   `json:"cooperativeId" gorm:"not null;index"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email" gorm:"uniqueIndex"`
	Phone         string `json:"phone"`
	Role          string `json:"role" gorm:"default:'member'"` // member | admin
	Status        string `json:"status" gorm:"default:'active'"`
}
