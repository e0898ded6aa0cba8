// Package dto 定义请求与响应结构
package dto

import (
	"github.com/haierkeys/team-notes-service/internal/domain"
	"github.com/haierkeys/team-notes-service/pkg/convert"
	"github.com/haierkeys/team-notes-service/pkg/timex"
)

// NoteCreateRequest 创建笔记请求
// 标题与内容至少提供一个，由服务层校验
type NoteCreateRequest struct {
	Title      string   `json:"title" form:"title"`
	Content    string   `json:"content" form:"content"`
	Visibility string   `json:"visibility" form:"visibility" binding:"omitempty,oneof=private shared"`
	IsFavorite bool     `json:"isFavorite" form:"isFavorite"`
	Tags       []string `json:"tags" form:"tags"`
}

// NoteUpdateRequest 更新笔记请求
// 指针字段区分"显式提供"与"未提供"，nil 字段保持原值
type NoteUpdateRequest struct {
	Title      *string   `json:"title" form:"title"`
	Content    *string   `json:"content" form:"content"`
	Visibility *string   `json:"visibility" form:"visibility"`
	IsFavorite *bool     `json:"isFavorite" form:"isFavorite"`
	Tags       *[]string `json:"tags" form:"tags"`
}

// Patch 转换为领域层的部分更新集合
func (r *NoteUpdateRequest) Patch() *domain.NotePatch {
	p := &domain.NotePatch{
		Title:      r.Title,
		Content:    r.Content,
		IsFavorite: r.IsFavorite,
		Tags:       r.Tags,
	}
	if r.Visibility != nil {
		v := domain.Visibility(*r.Visibility)
		p.Visibility = &v
	}
	return p
}

// NoteURI 路径参数
type NoteURI struct {
	ID string `uri:"id" binding:"required"`
}

// Note 笔记响应
type Note struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	OwnerMemberID  string     `json:"ownerMemberId"`
	OrganizationID string     `json:"organizationId"`
	Visibility     string     `json:"visibility"`
	IsFavorite     bool       `json:"isFavorite"`
	Tags           []string   `json:"tags"`
	CreatedAt      timex.Time `json:"createdAt"`
	UpdatedAt      timex.Time `json:"updatedAt"`
}

// NoteFromDomain 将领域模型转换为响应结构
func NoteFromDomain(n *domain.Note) *Note {
	if n == nil {
		return nil
	}
	note := convert.StructAssign(n, &Note{}).(*Note)
	if note.Tags == nil {
		note.Tags = []string{}
	}
	return note
}

// NoteList 笔记列表响应
type NoteList struct {
	List  []*Note `json:"list"`
	Count int     `json:"count"`
}

// NoteListFromDomain 将领域模型列表转换为响应结构
func NoteListFromDomain(notes []*domain.Note) *NoteList {
	list := make([]*Note, 0, len(notes))
	for _, n := range notes {
		list = append(list, NoteFromDomain(n))
	}
	return &NoteList{List: list, Count: len(list)}
}

// NoteDeleteResult 删除结果响应
type NoteDeleteResult struct {
	Deleted bool `json:"deleted"`
}

// Identity 当前身份响应
type Identity struct {
	MemberID       string   `json:"memberId"`
	OrganizationID string   `json:"organizationId"`
	Roles          []string `json:"roles"`
	IsAdmin        bool     `json:"isAdmin"`
}

// IdentityFromDomain 将身份上下文转换为响应结构
func IdentityFromDomain(id *domain.Identity) *Identity {
	return &Identity{
		MemberID:       id.MemberID,
		OrganizationID: id.OrganizationID,
		Roles:          id.Roles.Strings(),
		IsAdmin:        id.IsAdmin(),
	}
}

// Status 服务与存储健康状态响应
type Status struct {
	Service  string `json:"service"`
	Database string `json:"database"`
}
