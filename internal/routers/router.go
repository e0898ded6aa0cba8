// Package routers 组装 HTTP 路由
package routers

import (
	"time"

	"github.com/haierkeys/team-notes-service/internal/app"
	"github.com/haierkeys/team-notes-service/internal/middleware"
	"github.com/haierkeys/team-notes-service/internal/routers/api_router"
	"github.com/haierkeys/team-notes-service/internal/routers/mcp_router"
	"github.com/haierkeys/team-notes-service/pkg/limiter"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

var methodLimiters = limiter.NewMethodLimiter().AddBuckets(
	limiter.BucketRule{
		Key:          "/api/notes",
		FillInterval: time.Second,
		Capacity:     100,
		Quantum:      100,
	},
)

func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {

	cfg := appContainer.Config()

	r := gin.New()

	// MCP 工具入口，身份在每次调用时从 Authorization 头解析
	mcpRouter := mcp_router.New(appContainer)
	r.Any("/mcp", gin.WrapH(mcpRouter.Handler()))

	api := r.Group("/api")
	{
		api.Use(middleware.AppInfo())
		api.Use(middleware.Tracer(cfg.Tracer))
		api.Use(middleware.RateLimiter(methodLimiters))
		api.Use(middleware.ContextTimeout(cfg.GetContextTimeout()))
		api.Use(middleware.Cors())
		api.Use(middleware.LangWithTranslator(uni))
		api.Use(middleware.AccessLog())
		api.Use(middleware.RecoveryWithLogger(appContainer.Logger()))

		// 创建 Handlers（注入 App Container）
		noteHandler := api_router.NewNoteHandler(appContainer)
		statusHandler := api_router.NewStatusHandler(appContainer)
		identityHandler := api_router.NewIdentityHandler(appContainer)

		// 存储可用性探测（无需认证）
		api.GET("/notes/status", statusHandler.NotesStatus)

		auth := api.Group("", middleware.IdentityAuth(appContainer.TokenManager))
		{
			auth.GET("/identity", identityHandler.Whoami)

			auth.GET("/notes", noteHandler.List)
			auth.POST("/notes", noteHandler.Create)
			auth.POST("/notes/new", noteHandler.CreateScratch)
			auth.GET("/notes/:id", noteHandler.Get)
			auth.PUT("/notes/:id", noteHandler.Update)
			auth.DELETE("/notes/:id", noteHandler.Delete)
		}
	}

	r.Use(middleware.Cors())
	r.NoRoute(middleware.NoFound())

	return r
}
