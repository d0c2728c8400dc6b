package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"mylist-service/backend/internal/repo"
)

type MyListHandler struct {
	repo         repo.MyListRepo
	defaultLimit int
}

func NewMyListHandler(r repo.MyListRepo, defaultLimit int) *MyListHandler {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	return &MyListHandler{repo: r, defaultLimit: defaultLimit}
}

// 从 gin.Context 取中间件注入的 userId；取不到说明路由没挂中间件
func currentUserID(c *gin.Context) (string, bool) {
	v, ok := c.Get("userId")
	if !ok {
		return "", false
	}
	userID, ok := v.(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// 业务错误 → 状态码。客户端可修复的给 400，后端瞬时故障给 503（可重试）
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repo.ErrInvalidCursor):
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_CURSOR", "message": err.Error()})
	case errors.Is(err, repo.ErrInvalidLimit):
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_LIMIT", "message": err.Error()})
	case errors.Is(err, repo.ErrInvalidContent):
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_CONTENT", "message": err.Error()})
	default:
		c.JSON(http.StatusServiceUnavailable, gin.H{"code": "STORE_UNAVAILABLE", "message": "temporary backend failure, retry later"})
	}
}

// GET /my-list?limit=&cursor=
func (h *MyListHandler) GetMyList() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHENTICATED", "message": "missing user"})
			return
		}

		limit := h.defaultLimit
		if s := c.Query("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_LIMIT", "message": "limit must be an integer"})
				return
			}
			limit = n
		}

		page, err := h.repo.GetPage(c.Request.Context(), userID, c.Query("cursor"), limit)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"items":      page.Items,
			"nextCursor": page.NextCursor,
			"hasMore":    page.HasMore,
		})
	}
}

type addReq struct {
	ContentID   string `json:"contentId" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

// POST /my-list
// 重复 add 也是 200：幂等语义，返回的是已有的那条
func (h *MyListHandler) AddToMyList() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHENTICATED", "message": "missing user"})
			return
		}
		var req addReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "message": err.Error()})
			return
		}
		item, err := h.repo.Add(c.Request.Context(), userID, req.ContentID, req.ContentType)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "added to my list", "item": item})
	}
}

// DELETE /my-list/:contentId
// 删除不存在的条目也是 200，幂等
func (h *MyListHandler) RemoveFromMyList() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHENTICATED", "message": "missing user"})
			return
		}
		contentID := c.Param("contentId")
		if contentID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "message": "missing contentId"})
			return
		}
		if err := h.repo.Remove(c.Request.Context(), userID, contentID); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "removed from my list"})
	}
}
