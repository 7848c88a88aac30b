// domus-crm/internal/routes/router.go
package routes

import (
	"domus-crm/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes инициализирует все маршруты приложения.
func SetupRoutes(r *gin.Engine) {
	// Все маршруты ядра требуют аутентификации: middleware проверяет JWT и
	// кладет в контекст запроса пайщика и его кооператив.
	authRequired := r.Group("/")
	authRequired.Use(middleware.AuthMiddleware())
	{
		RegisterAPIRoutes(authRequired)
	}
}
