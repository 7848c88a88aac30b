// domus-crm/internal/tenant/tenant.go
package tenant

import "gorm.io/gorm"

// Context - явный контекст арендатора (кооператива). Передается параметром в
// каждый вызов резолвера и движков; никакого глобального "текущего кооператива"
// в приложении нет.
type Context struct {
	CooperativeID uint
}

// Scope - GORM-скоуп, ограничивающий запрос записями данного кооператива.
func Scope(tc Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("cooperative_id = ?", tc.CooperativeID)
	}
}
