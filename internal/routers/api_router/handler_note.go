package api_router

import (
	"github.com/haierkeys/team-notes-service/internal/app"
	"github.com/haierkeys/team-notes-service/internal/domain"
	"github.com/haierkeys/team-notes-service/internal/dto"
	"github.com/haierkeys/team-notes-service/internal/middleware"
	pkgapp "github.com/haierkeys/team-notes-service/pkg/app"
	"github.com/haierkeys/team-notes-service/pkg/code"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NoteHandler 笔记 API 路由处理器
// 使用 App Container 注入依赖，支持统一错误处理
type NoteHandler struct {
	*Handler
}

// NewNoteHandler 创建 NoteHandler 实例
func NewNoteHandler(a *app.App) *NoteHandler {
	return &NoteHandler{
		Handler: NewHandler(a),
	}
}

// identity 提取身份上下文，缺失时输出认证错误
func (h *NoteHandler) identity(c *gin.Context, response *pkgapp.Response) *domain.Identity {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		response.ToResponse(code.ErrorInvalidAuthToken)
		return nil
	}
	return identity
}

// List 获取调用者可见的全部笔记
func (h *NoteHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	identity := h.identity(c, response)
	if identity == nil {
		return
	}

	list, err := h.App.NoteService.List(c.Request.Context(), identity)
	if err != nil {
		response.ToResponseError(err)
		return
	}

	response.ToResponse(code.Success.WithData(list))
}

// Get 获取单条可见笔记
func (h *NoteHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	identity := h.identity(c, response)
	if identity == nil {
		return
	}

	uri := &dto.NoteURI{}
	if err := c.ShouldBindUri(uri); err != nil {
		response.ToResponse(code.ErrorInvalidParams.WithDetails(err.Error()))
		return
	}

	note, err := h.App.NoteService.Get(c.Request.Context(), identity, uri.ID)
	if err != nil {
		response.ToResponseError(err)
		return
	}

	response.ToResponse(code.Success.WithData(note))
}

// Create 创建笔记
func (h *NoteHandler) Create(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	identity := h.identity(c, response)
	if identity == nil {
		return
	}

	params := &dto.NoteCreateRequest{}
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteHandler.Create.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	note, err := h.App.NoteService.Create(c.Request.Context(), identity, params)
	if err != nil {
		response.ToResponseError(err)
		return
	}

	response.ToResponse(code.Success.WithData(note))
}

// CreateScratch 创建一条空白草稿笔记
func (h *NoteHandler) CreateScratch(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	identity := h.identity(c, response)
	if identity == nil {
		return
	}

	note, err := h.App.NoteService.Create(c.Request.Context(), identity, &dto.NoteCreateRequest{
		Title:   domain.DefaultTitle,
		Content: domain.ScratchContent,
	})
	if err != nil {
		response.ToResponseError(err)
		return
	}

	response.ToResponse(code.Success.WithData(note))
}

// Update 部分更新笔记
func (h *NoteHandler) Update(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	identity := h.identity(c, response)
	if identity == nil {
		return
	}

	uri := &dto.NoteURI{}
	if err := c.ShouldBindUri(uri); err != nil {
		response.ToResponse(code.ErrorInvalidParams.WithDetails(err.Error()))
		return
	}

	params := &dto.NoteUpdateRequest{}
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("NoteHandler.Update.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	note, err := h.App.NoteService.Update(c.Request.Context(), identity, uri.ID, params)
	if err != nil {
		response.ToResponseError(err)
		return
	}

	response.ToResponse(code.Success.WithData(note))
}

// Delete 删除笔记
func (h *NoteHandler) Delete(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	identity := h.identity(c, response)
	if identity == nil {
		return
	}

	uri := &dto.NoteURI{}
	if err := c.ShouldBindUri(uri); err != nil {
		response.ToResponse(code.ErrorInvalidParams.WithDetails(err.Error()))
		return
	}

	deleted, err := h.App.NoteService.Delete(c.Request.Context(), identity, uri.ID)
	if err != nil {
		response.ToResponseError(err)
		return
	}

	response.ToResponse(code.Success.WithData(&dto.NoteDeleteResult{Deleted: deleted}))
}
