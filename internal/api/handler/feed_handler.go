package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/tayar/pkg/response"
)

// FetchFeeds 手动触发一次抓取；已有抓取进行中时等待其结束后再执行
// @Summary 手动抓取订阅源
// @Tags 订阅源
// @Produce json
// @Success 200 {object} response.Response{data=ingest.RunReport}
// @Failure 429 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/rss/fetch [post]
func (h *Handler) FetchFeeds(c *gin.Context) {
	report, err := h.ingest.Run(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, report)
}
