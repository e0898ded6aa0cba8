// Package domain 定义领域模型和接口
package domain

import "time"

// Visibility 定义笔记可见性
type Visibility string

const (
	// VisibilityPrivate 私有：仅创建者可见
	VisibilityPrivate Visibility = "private"
	// VisibilityShared 共享：组织内全部成员可见
	VisibilityShared Visibility = "shared"
)

// Valid 判断可见性取值是否合法
func (v Visibility) Valid() bool {
	return v == VisibilityPrivate || v == VisibilityShared
}

// DefaultTitle 创建时标题为空的默认值
const DefaultTitle = "Untitled"

// ScratchContent 空白草稿笔记的初始内容
const ScratchContent = "# Untitled\n\nStart writing your note here..."

// Note 笔记领域模型
// OwnerMemberID 与 OrganizationID 创建后不可变，笔记不能在租户间移动
type Note struct {
	ID             string
	Title          string
	Content        string
	OwnerMemberID  string
	OrganizationID string
	Visibility     Visibility
	IsFavorite     bool
	Tags           []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsPrivate 判断笔记是否私有
func (n *Note) IsPrivate() bool {
	return n.Visibility == VisibilityPrivate
}

// IsShared 判断笔记是否共享
func (n *Note) IsShared() bool {
	return n.Visibility == VisibilityShared
}

// IsOwnedBy 判断笔记是否由指定成员创建
func (n *Note) IsOwnedBy(memberID string) bool {
	return n.OwnerMemberID == memberID
}

// NotePatch 部分更新的字段集合
// 指针字段表示"显式提供"，nil 字段保持原值不变
type NotePatch struct {
	Title      *string
	Content    *string
	Visibility *Visibility
	IsFavorite *bool
	Tags       *[]string
}

// IsEmpty 判断是否没有任何字段被提供
func (p *NotePatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Visibility == nil &&
		p.IsFavorite == nil && p.Tags == nil
}
