package middleware

import (
	"Brandscope/internal/pkg/response"
	"Brandscope/internal/service"
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
)

// CronSecretMiddleware 定时任务端点的共享密钥校验
// 调度器带 Authorization: Bearer <secret> 调用，密钥未配置时端点直接关闭
func CronSecretMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			response.Error(c, service.ErrCronUnauthorized)
			c.Abort()
			return
		}

		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			response.Error(c, service.ErrCronUnauthorized)
			c.Abort()
			return
		}

		c.Next()
	}
}
