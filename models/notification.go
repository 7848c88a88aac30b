// domus-crm/models/notification.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification - уведомление администраторам кооператива. Создается после
// успешного зачисления платежа; сбой создания не откатывает сам платеж.
type Notification struct {
	gorm.Model
	CooperativeID uint       `json:"cooperativeId" gorm:"not null;index"`
	Kind          string     `json:"kind" gorm:"not null"`
	Title         string     `json:"title"`
	Body          string     `json:"body"`
	Metadata      TxMetadata `json:"metadata,omitempty" gorm:"type:jsonb"`
	ReadAt        *time.Time `json:"readAt,omitempty"`
}
