package domain

import "context"

// NoteRepository 笔记仓储接口
// 所有条件语句在存储层一次完成租户与可见性过滤，
// 避免"先检查后操作"在并发下的竞态
type NoteRepository interface {
	// ListVisible 获取调用者可见的全部笔记，按 updated_at 倒序
	// 可见即：同组织内的共享笔记，或调用者自己的私有笔记
	ListVisible(ctx context.Context, organizationID, memberID string) ([]*Note, error)

	// GetVisible 按可见性谓词获取单条笔记
	// 不存在、跨组织、他人私有三种情况均返回未找到，不可区分
	GetVisible(ctx context.Context, id, organizationID, memberID string) (*Note, error)

	// GetInOrganization 仅按 id + 组织获取笔记（删除路径专用，不含可见性过滤）
	GetInOrganization(ctx context.Context, id, organizationID string) (*Note, error)

	// Create 创建笔记，分配 ID 与时间戳
	Create(ctx context.Context, note *Note) (*Note, error)

	// UpdateVisible 条件更新：WHERE 再次断言租户与可见性谓词
	// 只更新 patch 中显式提供的字段，始终刷新 updated_at
	// 谓词不再匹配（零行受影响）时返回未找到
	UpdateVisible(ctx context.Context, id, organizationID, memberID string, patch *NotePatch) (*Note, error)

	// DeleteInOrganization 条件删除：按 id + 组织物理删除
	// 返回是否删除了行
	DeleteInOrganization(ctx context.Context, id, organizationID string) (bool, error)

	// Ping 探测底层存储是否可达
	Ping(ctx context.Context) error
}
