package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mylist-service/backend/internal/entity"
	"mylist-service/backend/internal/repo"
)

// 演示用的内容创建入口，让 add 能端到端跑起来；真实环境内容目录是别的服务
type ContentHandler struct {
	store repo.ContentStore
}

func NewContentHandler(store repo.ContentStore) *ContentHandler {
	return &ContentHandler{store: store}
}

type createContentReq struct {
	ContentID   string `json:"contentId" binding:"required"`
	Title       string `json:"title" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

// POST /content
func (h *ContentHandler) CreateContent() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createContentReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "message": err.Error()})
			return
		}
		content, err := h.store.CreateContent(c.Request.Context(), &entity.Content{
			ContentID:   req.ContentID,
			Title:       req.Title,
			ContentType: req.ContentType,
			CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"content": content})
	}
}
