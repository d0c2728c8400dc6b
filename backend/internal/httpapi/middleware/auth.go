package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// UserMiddleware 鉴权占位：真正的登录/验签在上游（网关或 auth 服务）完成，
// 这里只认 x-user-id 头。头缺失直接 401，不放行匿名请求。
func UserMiddleware() gin.HandlerFunc {
	// 返回一个符合 gin.HandlerFunc 类型的函数
	return func(c *gin.Context) {
		// strings.TrimSpace(...): 防御性处理，去掉可能出现的前后空格或换行，避免无效匹配。
		userID := strings.TrimSpace(c.GetHeader("x-user-id"))
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "UNAUTHENTICATED",
				"message": "x-user-id header is missing",
			})
			return
		}
		c.Set("userId", userID)
		c.Next()
	}
}
