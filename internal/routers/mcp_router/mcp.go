// Package mcp_router 提供 MCP 工具路由
// 每个工具调用从 Authorization 头独立解析身份上下文，
// 与 HTTP API 走同一套服务层授权逻辑
package mcp_router

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/haierkeys/team-notes-service/internal/app"
	"github.com/haierkeys/team-notes-service/internal/domain"
	"github.com/haierkeys/team-notes-service/internal/dto"
	"github.com/haierkeys/team-notes-service/internal/middleware"
	"github.com/haierkeys/team-notes-service/pkg/code"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// identityCtxKey MCP 请求上下文中身份的键类型
type identityCtxKey struct{}

// MCPRouter MCP 工具路由
type MCPRouter struct {
	app        *app.App
	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
}

// New 创建 MCPRouter 实例并注册全部工具
func New(a *app.App) *MCPRouter {
	m := &MCPRouter{app: a}

	s := server.NewMCPServer(
		app.Name,
		app.Version,
		server.WithToolCapabilities(false),
	)

	s.AddTool(mcp.NewTool("listNotes",
		mcp.WithDescription("List all notes visible to the caller, most recently updated first"),
	), m.listNotes)

	s.AddTool(mcp.NewTool("getNote",
		mcp.WithDescription("Get a single note by id"),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	), m.getNote)

	s.AddTool(mcp.NewTool("createNote",
		mcp.WithDescription("Create a note owned by the caller"),
		mcp.WithString("title", mcp.Description("Note title, defaults to Untitled")),
		mcp.WithString("content", mcp.Description("Note content")),
		mcp.WithString("visibility", mcp.Description("private or shared, defaults to private")),
		mcp.WithBoolean("isFavorite", mcp.Description("Favorite flag")),
		mcp.WithArray("tags", mcp.Description("Tag list")),
	), m.createNote)

	s.AddTool(mcp.NewTool("updateNote",
		mcp.WithDescription("Partially update a note; omitted fields keep their value"),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("content", mcp.Description("New content")),
		mcp.WithString("visibility", mcp.Description("private or shared")),
		mcp.WithBoolean("isFavorite", mcp.Description("Favorite flag")),
		mcp.WithArray("tags", mcp.Description("Tag list")),
	), m.updateNote)

	s.AddTool(mcp.NewTool("deleteNote",
		mcp.WithDescription("Delete a note by id"),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	), m.deleteNote)

	s.AddTool(mcp.NewTool("whoami",
		mcp.WithDescription("Show the identity context resolved from the session token"),
	), m.whoami)

	m.mcpServer = s
	m.httpServer = server.NewStreamableHTTPServer(s,
		server.WithHTTPContextFunc(m.injectIdentity),
	)

	return m
}

// Handler 返回可挂载的 HTTP 处理器
func (m *MCPRouter) Handler() http.Handler {
	return m.httpServer
}

// injectIdentity 从 Authorization 头解析身份上下文并注入请求上下文
// 解析失败时不注入，工具调用阶段统一报认证错误
func (m *MCPRouter) injectIdentity(ctx context.Context, r *http.Request) context.Context {
	token := middleware.StripBearer(r.Header.Get("Authorization"))
	if token == "" {
		return ctx
	}

	claims, err := m.app.TokenManager.Parse(token)
	if err != nil {
		return ctx
	}

	identity, err := domain.NewIdentity(claims.MemberID, claims.OrganizationID, claims.Roles)
	if err != nil {
		return ctx
	}

	return context.WithValue(ctx, identityCtxKey{}, identity)
}

// identityFrom 提取请求上下文中的身份
func identityFrom(ctx context.Context) (*domain.Identity, *mcp.CallToolResult) {
	identity, ok := ctx.Value(identityCtxKey{}).(*domain.Identity)
	if !ok || identity == nil {
		return nil, mcp.NewToolResultError(code.ErrorIncompleteIdentity.Msg())
	}
	return identity, nil
}

// toolJSON 将结果序列化为工具输出
func toolJSON(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (m *MCPRouter) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identity, errResult := identityFrom(ctx)
	if errResult != nil {
		return errResult, nil
	}

	list, err := m.app.NoteService.List(ctx, identity)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolJSON(list)
}

func (m *MCPRouter) getNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identity, errResult := identityFrom(ctx)
	if errResult != nil {
		return errResult, nil
	}

	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	note, svcErr := m.app.NoteService.Get(ctx, identity, id)
	if svcErr != nil {
		return mcp.NewToolResultError(svcErr.Error()), nil
	}
	return toolJSON(note)
}

func (m *MCPRouter) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identity, errResult := identityFrom(ctx)
	if errResult != nil {
		return errResult, nil
	}

	params := &dto.NoteCreateRequest{
		Title:      req.GetString("title", ""),
		Content:    req.GetString("content", ""),
		Visibility: req.GetString("visibility", ""),
		IsFavorite: req.GetBool("isFavorite", false),
		Tags:       req.GetStringSlice("tags", nil),
	}

	note, err := m.app.NoteService.Create(ctx, identity, params)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return toolJSON(note)
}

func (m *MCPRouter) updateNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identity, errResult := identityFrom(ctx)
	if errResult != nil {
		return errResult, nil
	}

	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	// 逐字段检查参数是否出现，保持部分更新的存在性语义
	args := req.GetArguments()
	params := &dto.NoteUpdateRequest{}
	if _, ok := args["title"]; ok {
		v := req.GetString("title", "")
		params.Title = &v
	}
	if _, ok := args["content"]; ok {
		v := req.GetString("content", "")
		params.Content = &v
	}
	if _, ok := args["visibility"]; ok {
		v := req.GetString("visibility", "")
		params.Visibility = &v
	}
	if _, ok := args["isFavorite"]; ok {
		v := req.GetBool("isFavorite", false)
		params.IsFavorite = &v
	}
	if _, ok := args["tags"]; ok {
		v := req.GetStringSlice("tags", []string{})
		params.Tags = &v
	}

	note, svcErr := m.app.NoteService.Update(ctx, identity, id, params)
	if svcErr != nil {
		return mcp.NewToolResultError(svcErr.Error()), nil
	}
	return toolJSON(note)
}

func (m *MCPRouter) deleteNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identity, errResult := identityFrom(ctx)
	if errResult != nil {
		return errResult, nil
	}

	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	deleted, svcErr := m.app.NoteService.Delete(ctx, identity, id)
	if svcErr != nil {
		return mcp.NewToolResultError(svcErr.Error()), nil
	}
	return toolJSON(&dto.NoteDeleteResult{Deleted: deleted})
}

func (m *MCPRouter) whoami(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identity, errResult := identityFrom(ctx)
	if errResult != nil {
		return errResult, nil
	}

	return toolJSON(dto.IdentityFromDomain(identity))
}
