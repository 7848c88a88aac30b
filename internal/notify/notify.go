// domus-crm/internal/notify/notify.go

// Пакет notify - "выстрелил и забыл" уведомления администраторам. Сбой записи
// уведомления логируется и никогда не влияет на вызвавшую операцию.
package notify

import (
	"log/slog"

	"gorm.io/gorm"

	"domus-crm/internal/tenant"
	"domus-crm/models"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// NotifyAdmins создает уведомление для админов кооператива.
func (s *Service) NotifyAdmins(tc tenant.Context, kind, title, body string, metadata map[string]interface{}) {
	n := models.Notification{
		CooperativeID: tc.CooperativeID,
		Kind:          kind,
		Title:         title,
		Body:          body,
		Metadata:      metadata,
	}
	if err := s.db.Create(&n).Error; err != nil {
		slog.Warn("Не удалось создать уведомление для админов", "kind", kind, "error", err)
	}
}
