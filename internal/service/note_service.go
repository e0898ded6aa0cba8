package service

import (
	"context"

	"github.com/haierkeys/team-notes-service/internal/domain"
	"github.com/haierkeys/team-notes-service/internal/dto"
	"github.com/haierkeys/team-notes-service/pkg/code"
	"github.com/haierkeys/team-notes-service/pkg/logger"

	"go.uber.org/zap"
)

// NoteService 定义笔记业务服务接口
// 每个方法都以调用者的身份上下文为授权依据
type NoteService interface {
	// List 获取调用者可见的全部笔记，按 updated_at 倒序
	List(ctx context.Context, identity *domain.Identity) (*dto.NoteList, error)

	// Get 获取单条可见笔记
	Get(ctx context.Context, identity *domain.Identity, noteID string) (*dto.Note, error)

	// Create 创建笔记，所有者与组织由身份上下文决定
	Create(ctx context.Context, identity *domain.Identity, params *dto.NoteCreateRequest) (*dto.Note, error)

	// Update 部分更新笔记，逐层执行可见性与编辑授权检查
	Update(ctx context.Context, identity *domain.Identity, noteID string, params *dto.NoteUpdateRequest) (*dto.Note, error)

	// Delete 删除笔记，所有者或管理员（仅共享笔记）可删
	Delete(ctx context.Context, identity *domain.Identity, noteID string) (bool, error)
}

// noteService 实现 NoteService 接口
type noteService struct {
	noteRepo domain.NoteRepository
	logger   *zap.Logger
}

// NewNoteService 创建 NoteService 实例
// noteRepo 为 nil 表示未配置数据库，所有方法返回不可用错误
func NewNoteService(noteRepo domain.NoteRepository, lg *zap.Logger) NoteService {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &noteService{
		noteRepo: noteRepo,
		logger:   lg,
	}
}

// List 获取调用者可见的全部笔记
func (s *noteService) List(ctx context.Context, identity *domain.Identity) (*dto.NoteList, error) {
	if s.noteRepo == nil {
		return nil, code.ErrorDatabaseUnavailable
	}

	notes, err := s.noteRepo.ListVisible(ctx, identity.OrganizationID, identity.MemberID)
	if err != nil {
		return nil, dbError(err)
	}
	return dto.NoteListFromDomain(notes), nil
}

// Get 获取单条可见笔记
// 不存在、跨组织、他人私有三种情况均返回同一个未找到错误
func (s *noteService) Get(ctx context.Context, identity *domain.Identity, noteID string) (*dto.Note, error) {
	if s.noteRepo == nil {
		return nil, code.ErrorDatabaseUnavailable
	}

	note, err := s.noteRepo.GetVisible(ctx, noteID, identity.OrganizationID, identity.MemberID)
	if err != nil {
		if isNotFound(err) {
			return nil, code.ErrorNoteNotFoundOrDenied
		}
		return nil, dbError(err)
	}
	return dto.NoteFromDomain(note), nil
}

// Create 创建笔记
func (s *noteService) Create(ctx context.Context, identity *domain.Identity, params *dto.NoteCreateRequest) (*dto.Note, error) {
	if s.noteRepo == nil {
		return nil, code.ErrorDatabaseUnavailable
	}

	title := params.Title
	content := params.Content
	if title == "" && content == "" {
		return nil, code.ErrorNoteTitleContentRequired
	}
	if title == "" {
		title = domain.DefaultTitle
	}

	visibility := domain.VisibilityPrivate
	if params.Visibility != "" {
		visibility = domain.Visibility(params.Visibility)
		if !visibility.Valid() {
			return nil, code.ErrorNoteInvalidVisibility
		}
	}

	tags := params.Tags
	if tags == nil {
		tags = []string{}
	}

	note, err := s.noteRepo.Create(ctx, &domain.Note{
		Title:          title,
		Content:        content,
		OwnerMemberID:  identity.MemberID,
		OrganizationID: identity.OrganizationID,
		Visibility:     visibility,
		IsFavorite:     params.IsFavorite,
		Tags:           tags,
	})
	if err != nil {
		return nil, dbError(err)
	}

	s.logger.Info("note created",
		zap.String(logger.FieldNoteID, note.ID),
		zap.String(logger.FieldMemberID, identity.MemberID),
		zap.String(logger.FieldOrganizationID, identity.OrganizationID),
		zap.String(logger.FieldVisibility, string(note.Visibility)),
	)
	return dto.NoteFromDomain(note), nil
}

// Update 部分更新笔记
// 检查顺序：可见性谓词取回、私有笔记创建者限定、可见性取值校验、
// 共享转私有创建者限定，最后以条件 UPDATE 落库
func (s *noteService) Update(ctx context.Context, identity *domain.Identity, noteID string, params *dto.NoteUpdateRequest) (*dto.Note, error) {
	if s.noteRepo == nil {
		return nil, code.ErrorDatabaseUnavailable
	}

	note, err := s.noteRepo.GetVisible(ctx, noteID, identity.OrganizationID, identity.MemberID)
	if err != nil {
		if isNotFound(err) {
			return nil, code.ErrorNoteNotFoundOrDenied
		}
		return nil, dbError(err)
	}

	if note.IsPrivate() && !note.IsOwnedBy(identity.MemberID) {
		return nil, code.ErrorNotePrivateEdit
	}

	patch := params.Patch()
	if patch.Visibility != nil {
		if !patch.Visibility.Valid() {
			return nil, code.ErrorNoteInvalidVisibility
		}
		if note.IsShared() && *patch.Visibility == domain.VisibilityPrivate && !note.IsOwnedBy(identity.MemberID) {
			return nil, code.ErrorNoteSharedToPrivate
		}
	}

	updated, err := s.noteRepo.UpdateVisible(ctx, noteID, identity.OrganizationID, identity.MemberID, patch)
	if err != nil {
		if isNotFound(err) {
			// 授权检查通过后谓词不再匹配，说明并发修改抢先
			s.logger.Warn("note update lost race",
				zap.String(logger.FieldNoteID, noteID),
				zap.String(logger.FieldMemberID, identity.MemberID),
				zap.String(logger.FieldOrganizationID, identity.OrganizationID),
			)
			return nil, code.ErrorNoteUpdateFailed
		}
		return nil, dbError(err)
	}

	s.logger.Info("note updated",
		zap.String(logger.FieldNoteID, updated.ID),
		zap.String(logger.FieldMemberID, identity.MemberID),
		zap.String(logger.FieldOrganizationID, identity.OrganizationID),
	)
	return dto.NoteFromDomain(updated), nil
}

// Delete 删除笔记
// 取回阶段只按 id + 组织过滤，不做可见性过滤：
// 管理员要能删除别人创建的共享笔记
func (s *noteService) Delete(ctx context.Context, identity *domain.Identity, noteID string) (bool, error) {
	if s.noteRepo == nil {
		return false, code.ErrorDatabaseUnavailable
	}

	note, err := s.noteRepo.GetInOrganization(ctx, noteID, identity.OrganizationID)
	if err != nil {
		if isNotFound(err) {
			return false, code.ErrorNoteNotFound
		}
		return false, dbError(err)
	}

	isOwner := note.IsOwnedBy(identity.MemberID)
	if !isOwner && !(identity.IsAdmin() && note.IsShared()) {
		if note.IsShared() {
			return false, code.ErrorNoteDeleteShared
		}
		return false, code.ErrorNoteDeleteOwn
	}

	deleted, err := s.noteRepo.DeleteInOrganization(ctx, noteID, identity.OrganizationID)
	if err != nil {
		return false, dbError(err)
	}

	s.logger.Info("note deleted",
		zap.String(logger.FieldNoteID, noteID),
		zap.String(logger.FieldMemberID, identity.MemberID),
		zap.String(logger.FieldOrganizationID, identity.OrganizationID),
		zap.Strings(logger.FieldRoles, identity.Roles.Strings()),
		zap.Bool("deleted", deleted),
	)
	return deleted, nil
}
