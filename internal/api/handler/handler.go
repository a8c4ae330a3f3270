package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/tayar/internal/ingest"
	"github.com/d60-Lab/tayar/internal/service"
	"github.com/d60-Lab/tayar/pkg/response"
)

// Handler 聚合所有 HTTP 处理函数依赖的服务
type Handler struct {
	articles   service.ArticleService
	engagement service.EngagementService
	catalog    service.CatalogService
	ingest     ingest.Runner
}

func New(articles service.ArticleService, engagement service.EngagementService, catalog service.CatalogService, runner ingest.Runner) *Handler {
	return &Handler{articles: articles, engagement: engagement, catalog: catalog, ingest: runner}
}

// Health 存活检查
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(200, gin.H{"status": "OK"})
}

// fail 把服务层错误映射成 HTTP 状态
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrArticleNotFound),
		errors.Is(err, service.ErrSourceNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrBookmarkNotFound),
		errors.Is(err, service.ErrReactionNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrDuplicateURL):
		response.Conflict(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}

func pathID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(v), true
}

// viewerID 可选的 userId 查询参数
func viewerID(c *gin.Context) (*uint, bool) {
	raw := c.Query("userId")
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid userId")
		return nil, false
	}
	id := uint(v)
	return &id, true
}

func queryInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}
