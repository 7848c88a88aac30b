// domus-crm/internal/middleware/auth_middleware.go
package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"domus-crm/config"
	"domus-crm/internal/tenant"
	"domus-crm/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

// CachedMemberData - данные пайщика в кэше: кооператив и роли,
// чтобы не ходить в БД на каждый запрос.
type CachedMemberData struct {
	MemberID      uint     `json:"member_id"`
	CooperativeID uint     `json:"cooperative_id"`
	Roles         []string `json:"roles"`
}

// AuthMiddleware проверяет JWT и кладет в контекст запроса ID пайщика и явный
// контекст арендатора tenant.Context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie("auth_token")
		if err != nil || tokenStr == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				handleAuthError(c, "Authorization token not provided")
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				handleAuthError(c, "Invalid Authorization header format")
				return
			}
			tokenStr = parts[1]
		}

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return config.JwtKey, nil
		})
		if err != nil || !token.Valid {
			c.SetCookie("auth_token", "", -1, "/", "", false, true)
			handleAuthError(c, "Invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			handleAuthError(c, "Invalid token claims")
			return
		}

		memberIDFloat, ok := claims["member_id"].(float64)
		if !ok {
			handleAuthError(c, "Invalid member ID format in token")
			return
		}
		memberID := uint(memberIDFloat)

		data, err := loadMemberData(memberID)
		if err != nil {
			handleAuthError(c, "Member not found")
			return
		}

		c.Set("member_id", data.MemberID)
		c.Set("member_roles", data.Roles)
		c.Set("tenant", tenant.Context{CooperativeID: data.CooperativeID})
		c.Next()
	}
}

// loadMemberData читает данные пайщика из кэша, при промахе - из БД.
func loadMemberData(memberID uint) (*CachedMemberData, error) {
	cacheKey := fmt.Sprintf("member:auth:%d", memberID)

	if config.RDB != nil {
		cached, err := config.RDB.Get(config.Ctx, cacheKey).Result()
		if err == nil {
			var data CachedMemberData
			if jsonErr := json.Unmarshal([]byte(cached), &data); jsonErr == nil {
				return &data, nil
			}
		} else if err != redis.Nil {
			slog.Warn("Ошибка чтения из Redis, идем в БД", "error", err)
		}
	}

	var member models.Member
	if err := config.DB.First(&member, memberID).Error; err != nil {
		return nil, err
	}

	roles := []string{"member"}
	if member.Role != "" && member.Role != "member" {
		roles = append(roles, member.Role)
	}
	data := &CachedMemberData{
		MemberID:      member.ID,
		CooperativeID: member.CooperativeID,
		Roles:         roles,
	}

	if config.RDB != nil {
		if payload, err := json.Marshal(data); err == nil {
			if err := config.RDB.Set(config.Ctx, cacheKey, payload, 10*time.Minute).Err(); err != nil {
				slog.Warn("Не удалось записать данные пайщика в кэш", "error", err)
			}
		}
	}
	return data, nil
}

// RoleMiddleware пропускает только пользователей с нужной ролью.
func RoleMiddleware(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles, ok := c.Get("member_roles")
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Roles not resolved"})
			return
		}
		for _, r := range roles.([]string) {
			if r == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Недостаточно прав"})
	}
}

func handleAuthError(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
}
