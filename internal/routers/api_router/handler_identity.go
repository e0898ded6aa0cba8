package api_router

import (
	"github.com/haierkeys/team-notes-service/internal/app"
	"github.com/haierkeys/team-notes-service/internal/dto"
	"github.com/haierkeys/team-notes-service/internal/middleware"
	pkgapp "github.com/haierkeys/team-notes-service/pkg/app"
	"github.com/haierkeys/team-notes-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// IdentityHandler 身份 API 路由处理器
type IdentityHandler struct {
	*Handler
}

// NewIdentityHandler 创建 IdentityHandler 实例
func NewIdentityHandler(a *app.App) *IdentityHandler {
	return &IdentityHandler{
		Handler: NewHandler(a),
	}
}

// Whoami 返回会话 Token 解析出的身份上下文
func (h *IdentityHandler) Whoami(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	identity := middleware.GetIdentity(c)
	if identity == nil {
		response.ToResponse(code.ErrorInvalidAuthToken)
		return
	}

	response.ToResponse(code.Success.WithData(dto.IdentityFromDomain(identity)))
}
