package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/tayar/internal/repository"
	"github.com/d60-Lab/tayar/internal/service"
	"github.com/d60-Lab/tayar/pkg/response"
)

type createArticleRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description" binding:"required"`
	Content     string     `json:"content" binding:"required"`
	ImageURL    string     `json:"imageUrl" binding:"required"`
	SourceID    uint       `json:"sourceId" binding:"required"`
	URL         string     `json:"url" binding:"required,url"`
	ReadTime    int        `json:"readTime" binding:"min=0"`
	PublishedAt *time.Time `json:"publishedAt"`
	Tags        []string   `json:"tags" binding:"max=20,dive,max=64"`
}

// ListArticles 文章列表
// @Summary 文章列表（支持搜索与分页）
// @Tags 文章
// @Produce json
// @Param limit query int false "每页数量" default(10)
// @Param offset query int false "偏移量" default(0)
// @Param search query string false "标题/摘要/正文关键字"
// @Param userId query int false "当前用户ID，用于收藏状态"
// @Success 200 {object} response.Response{data=[]model.ArticleWithRelations}
// @Failure 400 {object} response.Response
// @Router /api/articles [get]
func (h *Handler) ListArticles(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	offset, ok := queryInt(c, "offset")
	if !ok {
		return
	}
	viewer, ok := viewerID(c)
	if !ok {
		return
	}
	list, err := h.articles.List(c.Request.Context(), repository.ListOptions{
		Limit:  limit,
		Offset: offset,
		Search: c.Query("search"),
	}, viewer)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, list)
}

// GetArticle 文章详情，带 userId 时记录一次浏览
// @Summary 文章详情
// @Tags 文章
// @Produce json
// @Param id path int true "文章ID"
// @Param userId query int false "当前用户ID"
// @Success 200 {object} response.Response{data=model.ArticleWithRelations}
// @Failure 404 {object} response.Response
// @Router /api/articles/{id} [get]
func (h *Handler) GetArticle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	viewer, ok := viewerID(c)
	if !ok {
		return
	}
	a, err := h.articles.Get(c.Request.Context(), id, viewer)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, a)
}

// CreateArticle 直接发布文章
// @Summary 发布文章
// @Tags 文章
// @Accept json
// @Produce json
// @Param request body createArticleRequest true "文章内容"
// @Success 201 {object} response.Response{data=model.ArticleWithRelations}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/articles [post]
func (h *Handler) CreateArticle(c *gin.Context) {
	var req createArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}
	a, err := h.articles.Create(c.Request.Context(), service.CreateArticleInput{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		ImageURL:    req.ImageURL,
		SourceID:    req.SourceID,
		URL:         req.URL,
		ReadTime:    req.ReadTime,
		PublishedAt: req.PublishedAt,
		Tags:        req.Tags,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, a)
}

// ListTagArticles 某标签下的文章
// @Summary 按标签查询文章
// @Tags 文章
// @Produce json
// @Param tagName path string true "标签名（大小写不敏感）"
// @Param userId query int false "当前用户ID"
// @Success 200 {object} response.Response{data=[]model.ArticleWithRelations}
// @Router /api/tags/{tagName}/articles [get]
func (h *Handler) ListTagArticles(c *gin.Context) {
	viewer, ok := viewerID(c)
	if !ok {
		return
	}
	list, err := h.articles.ListByTag(c.Request.Context(), c.Param("tagName"), viewer)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, list)
}
