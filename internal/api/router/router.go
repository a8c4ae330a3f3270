package router

import (
	"reflect"
	"strings"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/time/rate"

	"github.com/d60-Lab/tayar/config"
	_ "github.com/d60-Lab/tayar/docs"
	"github.com/d60-Lab/tayar/internal/api/handler"
	"github.com/d60-Lab/tayar/pkg/middleware"
)

// Setup 注册全部路由
func Setup(cfg *config.Config, h *handler.Handler) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// 校验错误里使用 json 字段名
		v.RegisterTagNameFunc(jsonFieldName)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Sentry.DSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true, Timeout: 2 * time.Second}))
	}
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	r.Use(middleware.RequestID())
	r.Use(cors.New(corsConfig(cfg.Server.CORSOrigins)))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.GET("/health", h.Health)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api", middleware.AccessLog(), middleware.Timeout(cfg.Server.HandlerTimeout))
	{
		api.GET("/articles", h.ListArticles)
		api.POST("/articles", h.CreateArticle)
		api.GET("/articles/:id", h.GetArticle)
		api.GET("/articles/:id/reactions", h.ReactionSummary)
		api.GET("/articles/:id/comments", h.ListComments)

		api.GET("/tags", h.ListTags)
		api.GET("/tags/:tagName/articles", h.ListTagArticles)
		api.GET("/sources", h.ListSources)

		api.GET("/users/:userId/bookmarks", h.ListBookmarks)
		api.GET("/users/:userId/history", h.ListHistory)
		api.DELETE("/users/:userId/history", h.ClearHistory)

		api.POST("/bookmarks", h.AddBookmark)
		api.DELETE("/bookmarks", h.RemoveBookmark)
		api.POST("/history", h.RecordView)
		api.POST("/reactions", h.AddReaction)
		api.DELETE("/reactions", h.RemoveReaction)
		api.POST("/comments", h.AddComment)
	}

	// 抓取不受请求超时约束，但限流
	limiter := rate.NewLimiter(rate.Limit(cfg.Ingest.TriggerRate), cfg.Ingest.TriggerBurst)
	r.POST("/api/rss/fetch", middleware.AccessLog(), middleware.RateLimit(limiter), h.FetchFeeds)

	return r
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", middleware.RequestIDHeader)
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}
