// domus-crm/internal/handlers/notification_handler.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"domus-crm/config"
	"domus-crm/models"
)

// ListNotificationsHandler возвращает уведомления кооператива, новые первыми.
func ListNotificationsHandler(c *gin.Context) {
	tc, ok := mustTenant(c)
	if !ok {
		return
	}

	base := config.DB.Model(&models.Notification{}).
		Where("cooperative_id = ?", tc.CooperativeID)

	if c.Query("unread") == "true" {
		base = base.Where("read_at IS NULL")
	}

	var totalRows int64
	base.Count(&totalRows)

	var notifications []models.Notification
	if err := base.Scopes(Paginate(c)).Order("created_at DESC").Find(&notifications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, CreatePaginatedResponse(c, notifications, totalRows))
}

// MarkNotificationReadHandler помечает уведомление прочитанным.
func MarkNotificationReadHandler(c *gin.Context) {
	tc, ok := mustTenant(c)
	if !ok {
		return
	}
	notificationID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	now := time.Now()
	res := config.DB.Model(&models.Notification{}).
		Where("id = ? AND cooperative_id = ?", notificationID, tc.CooperativeID).
		Update("read_at", &now)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Уведомление не найдено"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Уведомление прочитано"})
}
