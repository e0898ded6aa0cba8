package dao

import (
	"context"

	"github.com/haierkeys/team-notes-service/internal/domain"
	"github.com/haierkeys/team-notes-service/internal/model"
	"github.com/haierkeys/team-notes-service/pkg/convert"
	"github.com/haierkeys/team-notes-service/pkg/timex"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// noteRepository 实现 domain.NoteRepository 接口
type noteRepository struct {
	dao *Dao
}

// NewNoteRepository 创建 NoteRepository 实例
func NewNoteRepository(dao *Dao) domain.NoteRepository {
	return &noteRepository{dao: dao}
}

// toDomain 将数据库模型转换为领域模型
func (r *noteRepository) toDomain(m *model.Note) *domain.Note {
	if m == nil {
		return nil
	}
	return convert.StructAssign(m, &domain.Note{}).(*domain.Note)
}

// toModel 将领域模型转换为数据库模型
func (r *noteRepository) toModel(note *domain.Note) *model.Note {
	if note == nil {
		return nil
	}
	return convert.StructAssign(note, &model.Note{}).(*model.Note)
}

// visibleScope 租户 + 可见性谓词
// 私有笔记仅对创建者可见，共享笔记对组织内全部成员可见
func visibleScope(organizationID, memberID string) func(tx *gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where("organization_id = ?", organizationID).
			Where("(visibility = ? AND owner_member_id = ?) OR visibility = ?",
				string(domain.VisibilityPrivate), memberID, string(domain.VisibilityShared))
	}
}

// ListVisible 获取调用者可见的全部笔记，按 updated_at 倒序
func (r *noteRepository) ListVisible(ctx context.Context, organizationID, memberID string) ([]*domain.Note, error) {
	var ms []*model.Note
	err := r.dao.db.WithContext(ctx).
		Scopes(visibleScope(organizationID, memberID)).
		Order("updated_at DESC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}

	notes := make([]*domain.Note, 0, len(ms))
	for _, m := range ms {
		notes = append(notes, r.toDomain(m))
	}
	return notes, nil
}

// GetVisible 按可见性谓词获取单条笔记
func (r *noteRepository) GetVisible(ctx context.Context, id, organizationID, memberID string) (*domain.Note, error) {
	var m model.Note
	err := r.dao.db.WithContext(ctx).
		Where("id = ?", id).
		Scopes(visibleScope(organizationID, memberID)).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// GetInOrganization 仅按 id + 组织获取笔记
func (r *noteRepository) GetInOrganization(ctx context.Context, id, organizationID string) (*domain.Note, error) {
	var m model.Note
	err := r.dao.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, organizationID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// Create 创建笔记，分配 ID 与时间戳
func (r *noteRepository) Create(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	m := r.toModel(note)
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := timex.Now()
	m.CreatedAt = now
	m.UpdatedAt = now

	if err := r.dao.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// UpdateVisible 条件更新
// WHERE 再次断言租户与可见性谓词，把"先检查后操作"折叠成单条原子语句：
// 并发下谓词不再匹配时零行受影响，按未找到上报，绝不越过访问边界
func (r *noteRepository) UpdateVisible(ctx context.Context, id, organizationID, memberID string, patch *domain.NotePatch) (*domain.Note, error) {
	values := &model.Note{UpdatedAt: timex.Now()}
	cols := []string{"updated_at"}

	if patch.Title != nil {
		values.Title = *patch.Title
		cols = append(cols, "title")
	}
	if patch.Content != nil {
		values.Content = *patch.Content
		cols = append(cols, "content")
	}
	if patch.Visibility != nil {
		values.Visibility = string(*patch.Visibility)
		cols = append(cols, "visibility")
	}
	if patch.IsFavorite != nil {
		values.IsFavorite = *patch.IsFavorite
		cols = append(cols, "is_favorite")
	}
	if patch.Tags != nil {
		values.Tags = *patch.Tags
		cols = append(cols, "tags")
	}

	res := r.dao.db.WithContext(ctx).
		Model(&model.Note{}).
		Where("id = ?", id).
		Scopes(visibleScope(organizationID, memberID)).
		Select(cols).
		Updates(values)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return r.GetVisible(ctx, id, organizationID, memberID)
}

// DeleteInOrganization 条件删除：按 id + 组织物理删除，防止跨租户删除
func (r *noteRepository) DeleteInOrganization(ctx context.Context, id, organizationID string) (bool, error) {
	res := r.dao.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, organizationID).
		Delete(&model.Note{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Ping 探测底层存储是否可达
func (r *noteRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.dao.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
