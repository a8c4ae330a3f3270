package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/tayar/pkg/response"
)

// ListTags 全部标签
// @Summary 标签列表
// @Tags 目录
// @Produce json
// @Success 200 {object} response.Response{data=[]model.Tag}
// @Router /api/tags [get]
func (h *Handler) ListTags(c *gin.Context) {
	tags, err := h.catalog.Tags(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, tags)
}

// ListSources 全部来源
// @Summary 来源列表
// @Tags 目录
// @Produce json
// @Success 200 {object} response.Response{data=[]model.Source}
// @Router /api/sources [get]
func (h *Handler) ListSources(c *gin.Context) {
	sources, err := h.catalog.Sources(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, sources)
}
