package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/tayar/pkg/response"
)

type bookmarkRequest struct {
	UserID    uint `json:"userId" binding:"required"`
	ArticleID uint `json:"articleId" binding:"required"`
}

type historyRequest struct {
	UserID    uint       `json:"userId" binding:"required"`
	ArticleID uint       `json:"articleId" binding:"required"`
	ViewedAt  *time.Time `json:"viewedAt"`
}

type reactionRequest struct {
	UserID    uint   `json:"userId" binding:"required"`
	ArticleID uint   `json:"articleId" binding:"required"`
	Type      string `json:"type" binding:"required,max=32"`
}

type commentRequest struct {
	UserID    uint       `json:"userId" binding:"required"`
	ArticleID uint       `json:"articleId" binding:"required"`
	Content   string     `json:"content" binding:"required,max=5000"`
	CreatedAt *time.Time `json:"createdAt"`
}

// ListBookmarks 用户收藏
// @Summary 收藏列表
// @Tags 收藏
// @Produce json
// @Param userId path int true "用户ID"
// @Success 200 {object} response.Response{data=[]model.ArticleWithRelations}
// @Router /api/users/{userId}/bookmarks [get]
func (h *Handler) ListBookmarks(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	list, err := h.engagement.ListBookmarks(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, list)
}

// AddBookmark 收藏（重复收藏不报错）
// @Summary 添加收藏
// @Tags 收藏
// @Accept json
// @Produce json
// @Param request body bookmarkRequest true "收藏信息"
// @Success 201 {object} response.Response{data=model.Bookmark}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/bookmarks [post]
func (h *Handler) AddBookmark(c *gin.Context) {
	var req bookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}
	b, err := h.engagement.AddBookmark(c.Request.Context(), req.UserID, req.ArticleID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, b)
}

// RemoveBookmark 取消收藏
// @Summary 取消收藏
// @Tags 收藏
// @Accept json
// @Produce json
// @Param request body bookmarkRequest true "收藏信息"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/bookmarks [delete]
func (h *Handler) RemoveBookmark(c *gin.Context) {
	var req bookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}
	if err := h.engagement.RemoveBookmark(c.Request.Context(), req.UserID, req.ArticleID); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"removed": true})
}

// ListHistory 阅读记录，最近浏览在前
// @Summary 阅读记录
// @Tags 阅读记录
// @Produce json
// @Param userId path int true "用户ID"
// @Success 200 {object} response.Response{data=[]model.ArticleWithRelations}
// @Router /api/users/{userId}/history [get]
func (h *Handler) ListHistory(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	list, err := h.engagement.ListHistory(c.Request.Context(), userID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, list)
}

// ClearHistory 清空阅读记录
// @Summary 清空阅读记录
// @Tags 阅读记录
// @Produce json
// @Param userId path int true "用户ID"
// @Success 200 {object} response.Response
// @Router /api/users/{userId}/history [delete]
func (h *Handler) ClearHistory(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	if err := h.engagement.ClearHistory(c.Request.Context(), userID); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"cleared": true})
}

// RecordView 记录浏览（已存在则更新时间）
// @Summary 记录浏览
// @Tags 阅读记录
// @Accept json
// @Produce json
// @Param request body historyRequest true "浏览信息"
// @Success 201 {object} response.Response{data=model.ReadingHistory}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/history [post]
func (h *Handler) RecordView(c *gin.Context) {
	var req historyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}
	rec, err := h.engagement.RecordView(c.Request.Context(), req.UserID, req.ArticleID, req.ViewedAt)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, rec)
}

// ReactionSummary 点赞数与评论数
// @Summary 互动统计
// @Tags 互动
// @Produce json
// @Param id path int true "文章ID"
// @Success 200 {object} response.Response{data=model.ReactionSummary}
// @Router /api/articles/{id}/reactions [get]
func (h *Handler) ReactionSummary(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	sum, err := h.engagement.ReactionSummary(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, sum)
}

// AddReaction 表态（重复不报错）
// @Summary 添加表态
// @Tags 互动
// @Accept json
// @Produce json
// @Param request body reactionRequest true "表态信息"
// @Success 201 {object} response.Response{data=model.Reaction}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/reactions [post]
func (h *Handler) AddReaction(c *gin.Context) {
	var req reactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}
	r, err := h.engagement.AddReaction(c.Request.Context(), req.UserID, req.ArticleID, req.Type)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, r)
}

// RemoveReaction 取消表态
// @Summary 取消表态
// @Tags 互动
// @Accept json
// @Produce json
// @Param request body reactionRequest true "表态信息"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/reactions [delete]
func (h *Handler) RemoveReaction(c *gin.Context) {
	var req reactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}
	if err := h.engagement.RemoveReaction(c.Request.Context(), req.UserID, req.ArticleID, req.Type); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"removed": true})
}

// ListComments 评论（带作者），最新在前
// @Summary 评论列表
// @Tags 互动
// @Produce json
// @Param id path int true "文章ID"
// @Success 200 {object} response.Response{data=[]model.CommentWithUser}
// @Router /api/articles/{id}/comments [get]
func (h *Handler) ListComments(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	list, err := h.engagement.ListComments(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, list)
}

// AddComment 发表评论
// @Summary 发表评论
// @Tags 互动
// @Accept json
// @Produce json
// @Param request body commentRequest true "评论内容"
// @Success 201 {object} response.Response{data=model.Comment}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/comments [post]
func (h *Handler) AddComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}
	cm, err := h.engagement.AddComment(c.Request.Context(), req.UserID, req.ArticleID, req.Content, req.CreatedAt)
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, cm)
}
