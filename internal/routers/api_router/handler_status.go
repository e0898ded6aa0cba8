package api_router

import (
	"github.com/haierkeys/team-notes-service/internal/app"
	"github.com/haierkeys/team-notes-service/internal/service"
	pkgapp "github.com/haierkeys/team-notes-service/pkg/app"
	"github.com/haierkeys/team-notes-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// StatusHandler 健康状态 API 路由处理器
type StatusHandler struct {
	*Handler
}

// NewStatusHandler 创建 StatusHandler 实例
func NewStatusHandler(a *app.App) *StatusHandler {
	return &StatusHandler{
		Handler: NewHandler(a),
	}
}

// NotesStatus 笔记存储可用性探测
// 数据库未配置或不可达时返回 503，供客户端优雅降级
func (h *StatusHandler) NotesStatus(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	status := h.App.StatusService.Check(c.Request.Context())
	if status.Database != service.DatabaseStatusOK {
		response.ToResponse(code.ErrorDatabaseUnavailable.WithData(status))
		return
	}

	response.ToResponse(code.Success.WithData(status))
}
