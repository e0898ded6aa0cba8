package code

import "net/http"

// 通用码
var (
	Success = NewSuss(0, lang{"success", "成功"})

	ErrorServerInternal  = NewError(10000, http.StatusInternalServerError, lang{"server internal error", "服务内部错误"})
	ErrorInvalidParams   = NewError(10001, http.StatusBadRequest, lang{"invalid request parameters", "请求参数错误"})
	ErrorNotFoundAPI     = NewError(10002, http.StatusNotFound, lang{"api not found", "接口不存在"})
	ErrorTooManyRequests = NewError(10003, http.StatusTooManyRequests, lang{"too many requests", "请求过多"})
	ErrorRequestTimeout  = NewError(10004, http.StatusRequestTimeout, lang{"request timeout", "请求超时"})
)

// 身份认证码
// 身份上下文由外部身份提供方签发的会话 Token 解析得到
var (
	ErrorNotAuthToken       = NewError(10010, http.StatusUnauthorized, lang{"authentication required", "需要身份认证"})
	ErrorInvalidAuthToken   = NewError(10011, http.StatusUnauthorized, lang{"invalid or expired session token", "会话 Token 无效或已过期"})
	ErrorIncompleteIdentity = NewError(10012, http.StatusUnauthorized, lang{"no member or organization found in session token", "会话 Token 中缺少成员或组织信息"})
)

// 存储码
var (
	ErrorDBQuery             = NewError(10020, http.StatusInternalServerError, lang{"database query error", "数据库查询错误"})
	ErrorDatabaseUnavailable = NewError(10021, http.StatusServiceUnavailable, lang{"notes are disabled because no database is configured", "数据库未配置，笔记功能不可用"})
)

// 笔记业务码
// 403 类消息区分所有权、角色与可见性转换三种拒绝原因
// 404 类对读路径刻意不区分"不存在"与"无权访问"
var (
	ErrorNoteTitleContentRequired = NewError(20001, http.StatusBadRequest, lang{"title or content is required", "标题或内容不能都为空"})
	ErrorNoteInvalidVisibility    = NewError(20002, http.StatusBadRequest, lang{"visibility must be either \"private\" or \"shared\"", "可见性只能为 private 或 shared"})
	ErrorNoteNotFound             = NewError(20003, http.StatusNotFound, lang{"note not found", "笔记不存在"})
	ErrorNoteNotFoundOrDenied     = NewError(20004, http.StatusNotFound, lang{"note not found or access denied", "笔记不存在或无权访问"})
	ErrorNotePrivateEdit          = NewError(20005, http.StatusForbidden, lang{"only the creator can edit private notes", "只有创建者可以编辑私有笔记"})
	ErrorNoteSharedToPrivate      = NewError(20006, http.StatusForbidden, lang{"only the creator can make a shared note private", "只有创建者可以将共享笔记设为私有"})
	ErrorNoteDeleteShared         = NewError(20007, http.StatusForbidden, lang{"only the note owner or an admin can delete shared notes", "只有笔记所有者或管理员可以删除共享笔记"})
	ErrorNoteDeleteOwn            = NewError(20008, http.StatusForbidden, lang{"you can only delete notes you created", "只能删除自己创建的笔记"})
	ErrorNoteUpdateFailed         = NewError(20009, http.StatusInternalServerError, lang{"failed to update note", "更新笔记失败"})
)
