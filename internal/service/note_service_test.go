package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/haierkeys/team-notes-service/internal/domain"
	"github.com/haierkeys/team-notes-service/internal/dto"
	"github.com/haierkeys/team-notes-service/pkg/code"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// mockNoteRepo 内存实现，复刻存储层的租户与可见性谓词
type mockNoteRepo struct {
	domain.NoteRepository
	notes map[string]*domain.Note
	seq   int

	failAll    error // 所有操作返回该错误
	failUpdate bool  // 条件更新返回零行
}

func newMockNoteRepo() *mockNoteRepo {
	return &mockNoteRepo{notes: make(map[string]*domain.Note)}
}

func (m *mockNoteRepo) visible(n *domain.Note, organizationID, memberID string) bool {
	if n.OrganizationID != organizationID {
		return false
	}
	return n.Visibility == domain.VisibilityShared ||
		(n.Visibility == domain.VisibilityPrivate && n.OwnerMemberID == memberID)
}

func (m *mockNoteRepo) ListVisible(ctx context.Context, organizationID, memberID string) ([]*domain.Note, error) {
	if m.failAll != nil {
		return nil, m.failAll
	}
	var out []*domain.Note
	for _, n := range m.notes {
		if m.visible(n, organizationID, memberID) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *mockNoteRepo) GetVisible(ctx context.Context, id, organizationID, memberID string) (*domain.Note, error) {
	if m.failAll != nil {
		return nil, m.failAll
	}
	n, ok := m.notes[id]
	if !ok || !m.visible(n, organizationID, memberID) {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *n
	return &cp, nil
}

func (m *mockNoteRepo) GetInOrganization(ctx context.Context, id, organizationID string) (*domain.Note, error) {
	if m.failAll != nil {
		return nil, m.failAll
	}
	n, ok := m.notes[id]
	if !ok || n.OrganizationID != organizationID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *n
	return &cp, nil
}

func (m *mockNoteRepo) Create(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	if m.failAll != nil {
		return nil, m.failAll
	}
	m.seq++
	cp := *note
	cp.ID = fmt.Sprintf("note-%d", m.seq)
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	m.notes[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *mockNoteRepo) UpdateVisible(ctx context.Context, id, organizationID, memberID string, patch *domain.NotePatch) (*domain.Note, error) {
	if m.failAll != nil {
		return nil, m.failAll
	}
	if m.failUpdate {
		return nil, gorm.ErrRecordNotFound
	}
	n, ok := m.notes[id]
	if !ok || !m.visible(n, organizationID, memberID) {
		return nil, gorm.ErrRecordNotFound
	}
	if patch.Title != nil {
		n.Title = *patch.Title
	}
	if patch.Content != nil {
		n.Content = *patch.Content
	}
	if patch.Visibility != nil {
		n.Visibility = *patch.Visibility
	}
	if patch.IsFavorite != nil {
		n.IsFavorite = *patch.IsFavorite
	}
	if patch.Tags != nil {
		n.Tags = *patch.Tags
	}
	n.UpdatedAt = time.Now()
	cp := *n
	return &cp, nil
}

func (m *mockNoteRepo) DeleteInOrganization(ctx context.Context, id, organizationID string) (bool, error) {
	if m.failAll != nil {
		return false, m.failAll
	}
	n, ok := m.notes[id]
	if !ok || n.OrganizationID != organizationID {
		return false, nil
	}
	delete(m.notes, id)
	return true, nil
}

func (m *mockNoteRepo) Ping(ctx context.Context) error {
	return m.failAll
}

func (m *mockNoteRepo) add(n *domain.Note) *domain.Note {
	m.seq++
	if n.ID == "" {
		n.ID = fmt.Sprintf("note-%d", m.seq)
	}
	m.notes[n.ID] = n
	return n
}

func identityOf(member, org string, roles ...string) *domain.Identity {
	id, err := domain.NewIdentity(member, org, roles)
	if err != nil {
		panic(err)
	}
	return id
}

func strPtr(s string) *string    { return &s }
func boolPtr(b bool) *bool       { return &b }
func tagsPtr(t []string) *[]string { return &t }

func TestNoteService_Create(t *testing.T) {
	ctx := context.Background()
	alice := identityOf("alice", "org-1")

	t.Run("defaults applied", func(t *testing.T) {
		repo := newMockNoteRepo()
		svc := NewNoteService(repo, nil)

		note, err := svc.Create(ctx, alice, &dto.NoteCreateRequest{Content: "hello"})
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultTitle, note.Title)
		assert.Equal(t, "hello", note.Content)
		assert.Equal(t, string(domain.VisibilityPrivate), note.Visibility)
		assert.False(t, note.IsFavorite)
		assert.Equal(t, []string{}, note.Tags)
		assert.Equal(t, "alice", note.OwnerMemberID)
		assert.Equal(t, "org-1", note.OrganizationID)
	})

	t.Run("owner and organization come from identity only", func(t *testing.T) {
		repo := newMockNoteRepo()
		svc := NewNoteService(repo, nil)

		note, err := svc.Create(ctx, alice, &dto.NoteCreateRequest{
			Title:      "shared plan",
			Visibility: "shared",
			IsFavorite: true,
			Tags:       []string{"plan"},
		})
		require.NoError(t, err)
		assert.Equal(t, "alice", note.OwnerMemberID)
		assert.Equal(t, "org-1", note.OrganizationID)
		assert.Equal(t, string(domain.VisibilityShared), note.Visibility)
		assert.True(t, note.IsFavorite)
	})

	t.Run("empty title and content rejected", func(t *testing.T) {
		svc := NewNoteService(newMockNoteRepo(), nil)
		_, err := svc.Create(ctx, alice, &dto.NoteCreateRequest{})
		assert.True(t, code.Is(err, code.ErrorNoteTitleContentRequired))
	})

	t.Run("invalid visibility rejected", func(t *testing.T) {
		svc := NewNoteService(newMockNoteRepo(), nil)
		_, err := svc.Create(ctx, alice, &dto.NoteCreateRequest{Title: "x", Visibility: "public"})
		assert.True(t, code.Is(err, code.ErrorNoteInvalidVisibility))
	})
}

func TestNoteService_Get(t *testing.T) {
	ctx := context.Background()
	repo := newMockNoteRepo()
	svc := NewNoteService(repo, nil)

	private := repo.add(&domain.Note{
		Title: "secret", OwnerMemberID: "alice", OrganizationID: "org-1",
		Visibility: domain.VisibilityPrivate,
	})
	shared := repo.add(&domain.Note{
		Title: "team doc", OwnerMemberID: "alice", OrganizationID: "org-1",
		Visibility: domain.VisibilityShared,
	})

	tests := []struct {
		name     string
		identity *domain.Identity
		noteID   string
		wantErr  *code.Code
	}{
		{"owner reads own private", identityOf("alice", "org-1"), private.ID, nil},
		{"teammate reads shared", identityOf("bob", "org-1"), shared.ID, nil},
		{"teammate denied on foreign private", identityOf("bob", "org-1"), private.ID, code.ErrorNoteNotFoundOrDenied},
		{"cross organization denied", identityOf("alice", "org-2"), shared.ID, code.ErrorNoteNotFoundOrDenied},
		{"missing id", identityOf("alice", "org-1"), "no-such-note", code.ErrorNoteNotFoundOrDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			note, err := svc.Get(ctx, tt.identity, tt.noteID)
			if tt.wantErr != nil {
				assert.True(t, code.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.noteID, note.ID)
		})
	}
}

func TestNoteService_List(t *testing.T) {
	ctx := context.Background()
	repo := newMockNoteRepo()
	svc := NewNoteService(repo, nil)

	repo.add(&domain.Note{Title: "alice private", OwnerMemberID: "alice", OrganizationID: "org-1", Visibility: domain.VisibilityPrivate})
	repo.add(&domain.Note{Title: "alice shared", OwnerMemberID: "alice", OrganizationID: "org-1", Visibility: domain.VisibilityShared})
	repo.add(&domain.Note{Title: "bob private", OwnerMemberID: "bob", OrganizationID: "org-1", Visibility: domain.VisibilityPrivate})
	repo.add(&domain.Note{Title: "org2 shared", OwnerMemberID: "carol", OrganizationID: "org-2", Visibility: domain.VisibilityShared})

	list, err := svc.List(ctx, identityOf("bob", "org-1"))
	require.NoError(t, err)
	assert.Equal(t, 2, list.Count)

	titles := make([]string, 0, list.Count)
	for _, n := range list.List {
		titles = append(titles, n.Title)
	}
	assert.ElementsMatch(t, []string{"alice shared", "bob private"}, titles)
}

func TestNoteService_Update(t *testing.T) {
	ctx := context.Background()

	newFixture := func() (*mockNoteRepo, NoteService, *domain.Note, *domain.Note) {
		repo := newMockNoteRepo()
		svc := NewNoteService(repo, nil)
		private := repo.add(&domain.Note{
			Title: "private", OwnerMemberID: "alice", OrganizationID: "org-1",
			Visibility: domain.VisibilityPrivate,
		})
		shared := repo.add(&domain.Note{
			Title: "shared", OwnerMemberID: "alice", OrganizationID: "org-1",
			Visibility: domain.VisibilityShared,
		})
		return repo, svc, private, shared
	}

	t.Run("owner edits private", func(t *testing.T) {
		_, svc, private, _ := newFixture()
		note, err := svc.Update(ctx, identityOf("alice", "org-1"), private.ID,
			&dto.NoteUpdateRequest{Title: strPtr("private v2")})
		require.NoError(t, err)
		assert.Equal(t, "private v2", note.Title)
	})

	t.Run("teammate edits shared", func(t *testing.T) {
		_, svc, _, shared := newFixture()
		note, err := svc.Update(ctx, identityOf("bob", "org-1"), shared.ID,
			&dto.NoteUpdateRequest{Content: strPtr("bob was here")})
		require.NoError(t, err)
		assert.Equal(t, "bob was here", note.Content)
	})

	t.Run("teammate cannot see foreign private", func(t *testing.T) {
		_, svc, private, _ := newFixture()
		_, err := svc.Update(ctx, identityOf("bob", "org-1"), private.ID,
			&dto.NoteUpdateRequest{Title: strPtr("x")})
		assert.True(t, code.Is(err, code.ErrorNoteNotFoundOrDenied))
	})

	t.Run("admin role grants no edit privilege", func(t *testing.T) {
		_, svc, private, _ := newFixture()
		_, err := svc.Update(ctx, identityOf("bob", "org-1", "admin"), private.ID,
			&dto.NoteUpdateRequest{Title: strPtr("x")})
		assert.True(t, code.Is(err, code.ErrorNoteNotFoundOrDenied))
	})

	t.Run("creator makes shared note private", func(t *testing.T) {
		_, svc, _, shared := newFixture()
		note, err := svc.Update(ctx, identityOf("alice", "org-1"), shared.ID,
			&dto.NoteUpdateRequest{Visibility: strPtr("private")})
		require.NoError(t, err)
		assert.Equal(t, string(domain.VisibilityPrivate), note.Visibility)
	})

	t.Run("non creator cannot make shared note private", func(t *testing.T) {
		_, svc, _, shared := newFixture()
		_, err := svc.Update(ctx, identityOf("bob", "org-1"), shared.ID,
			&dto.NoteUpdateRequest{Visibility: strPtr("private")})
		assert.True(t, code.Is(err, code.ErrorNoteSharedToPrivate))
	})

	t.Run("non creator keeps shared visibility while editing", func(t *testing.T) {
		_, svc, _, shared := newFixture()
		note, err := svc.Update(ctx, identityOf("bob", "org-1"), shared.ID,
			&dto.NoteUpdateRequest{Visibility: strPtr("shared"), Title: strPtr("renamed")})
		require.NoError(t, err)
		assert.Equal(t, "renamed", note.Title)
	})

	t.Run("invalid visibility rejected", func(t *testing.T) {
		_, svc, private, _ := newFixture()
		_, err := svc.Update(ctx, identityOf("alice", "org-1"), private.ID,
			&dto.NoteUpdateRequest{Visibility: strPtr("public")})
		assert.True(t, code.Is(err, code.ErrorNoteInvalidVisibility))
	})

	t.Run("cross organization denied", func(t *testing.T) {
		_, svc, _, shared := newFixture()
		_, err := svc.Update(ctx, identityOf("alice", "org-2"), shared.ID,
			&dto.NoteUpdateRequest{Title: strPtr("x")})
		assert.True(t, code.Is(err, code.ErrorNoteNotFoundOrDenied))
	})

	t.Run("lost race maps to update failed", func(t *testing.T) {
		repo, svc, private, _ := newFixture()
		repo.failUpdate = true
		_, err := svc.Update(ctx, identityOf("alice", "org-1"), private.ID,
			&dto.NoteUpdateRequest{Title: strPtr("x")})
		assert.True(t, code.Is(err, code.ErrorNoteUpdateFailed))
	})

	t.Run("partial patch keeps unset fields", func(t *testing.T) {
		repo, svc, _, _ := newFixture()
		note := repo.add(&domain.Note{
			Title: "full", Content: "body", OwnerMemberID: "alice", OrganizationID: "org-1",
			Visibility: domain.VisibilityPrivate, IsFavorite: true, Tags: []string{"a"},
		})
		updated, err := svc.Update(ctx, identityOf("alice", "org-1"), note.ID,
			&dto.NoteUpdateRequest{IsFavorite: boolPtr(false), Tags: tagsPtr([]string{})})
		require.NoError(t, err)
		assert.Equal(t, "full", updated.Title)
		assert.Equal(t, "body", updated.Content)
		assert.False(t, updated.IsFavorite)
		assert.Empty(t, updated.Tags)
	})
}

func TestNoteService_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		identity   *domain.Identity
		visibility domain.Visibility
		owner      string
		wantErr    *code.Code
		wantDel    bool
	}{
		{"owner deletes own private", identityOf("alice", "org-1"), domain.VisibilityPrivate, "alice", nil, true},
		{"owner deletes own shared", identityOf("alice", "org-1"), domain.VisibilityShared, "alice", nil, true},
		{"admin deletes foreign shared", identityOf("boss", "org-1", "admin"), domain.VisibilityShared, "alice", nil, true},
		{"admin cannot delete foreign private", identityOf("boss", "org-1", "admin"), domain.VisibilityPrivate, "alice", code.ErrorNoteDeleteOwn, false},
		{"member cannot delete foreign shared", identityOf("bob", "org-1"), domain.VisibilityShared, "alice", code.ErrorNoteDeleteShared, false},
		{"member cannot delete foreign private", identityOf("bob", "org-1"), domain.VisibilityPrivate, "alice", code.ErrorNoteDeleteOwn, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockNoteRepo()
			svc := NewNoteService(repo, nil)
			note := repo.add(&domain.Note{
				Title: "target", OwnerMemberID: tt.owner, OrganizationID: "org-1",
				Visibility: tt.visibility,
			})

			deleted, err := svc.Delete(ctx, tt.identity, note.ID)
			if tt.wantErr != nil {
				assert.True(t, code.Is(err, tt.wantErr), "got %v", err)
				assert.Contains(t, repo.notes, note.ID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDel, deleted)
			assert.NotContains(t, repo.notes, note.ID)
		})
	}

	t.Run("missing note", func(t *testing.T) {
		svc := NewNoteService(newMockNoteRepo(), nil)
		_, err := svc.Delete(ctx, identityOf("alice", "org-1"), "no-such-note")
		assert.True(t, code.Is(err, code.ErrorNoteNotFound))
	})

	t.Run("cross organization reads as missing", func(t *testing.T) {
		repo := newMockNoteRepo()
		svc := NewNoteService(repo, nil)
		note := repo.add(&domain.Note{
			Title: "target", OwnerMemberID: "alice", OrganizationID: "org-1",
			Visibility: domain.VisibilityShared,
		})
		_, err := svc.Delete(ctx, identityOf("alice", "org-2", "admin"), note.ID)
		assert.True(t, code.Is(err, code.ErrorNoteNotFound))
		assert.Contains(t, repo.notes, note.ID)
	})
}

func TestNoteService_DatabaseUnavailable(t *testing.T) {
	ctx := context.Background()
	svc := NewNoteService(nil, nil)
	alice := identityOf("alice", "org-1")

	_, err := svc.List(ctx, alice)
	assert.True(t, code.Is(err, code.ErrorDatabaseUnavailable))
	_, err = svc.Get(ctx, alice, "x")
	assert.True(t, code.Is(err, code.ErrorDatabaseUnavailable))
	_, err = svc.Create(ctx, alice, &dto.NoteCreateRequest{Title: "x"})
	assert.True(t, code.Is(err, code.ErrorDatabaseUnavailable))
	_, err = svc.Update(ctx, alice, "x", &dto.NoteUpdateRequest{})
	assert.True(t, code.Is(err, code.ErrorDatabaseUnavailable))
	_, err = svc.Delete(ctx, alice, "x")
	assert.True(t, code.Is(err, code.ErrorDatabaseUnavailable))
}

func TestNoteService_StorageFailure(t *testing.T) {
	ctx := context.Background()
	repo := newMockNoteRepo()
	repo.failAll = errors.New("connection refused")
	svc := NewNoteService(repo, nil)

	_, err := svc.List(ctx, identityOf("alice", "org-1"))
	assert.True(t, code.Is(err, code.ErrorDBQuery))
}

// 完整协作流程：草稿、共享、协作编辑、收回可见性、管理员清理
func TestNoteService_CollaborationFlow(t *testing.T) {
	ctx := context.Background()
	repo := newMockNoteRepo()
	svc := NewNoteService(repo, nil)

	alice := identityOf("alice", "org-1")
	bob := identityOf("bob", "org-1")
	boss := identityOf("boss", "org-1", "admin")

	// alice 创建私有草稿，bob 看不到
	draft, err := svc.Create(ctx, alice, &dto.NoteCreateRequest{Title: "Draft", Content: "v1"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, bob, draft.ID)
	assert.True(t, code.Is(err, code.ErrorNoteNotFoundOrDenied))

	// alice 共享后 bob 可以读写
	_, err = svc.Update(ctx, alice, draft.ID, &dto.NoteUpdateRequest{Visibility: strPtr("shared")})
	require.NoError(t, err)

	got, err := svc.Get(ctx, bob, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "Draft", got.Title)

	_, err = svc.Update(ctx, bob, draft.ID, &dto.NoteUpdateRequest{Content: strPtr("v2 by bob")})
	require.NoError(t, err)

	// bob 不能收回可见性，alice 可以
	_, err = svc.Update(ctx, bob, draft.ID, &dto.NoteUpdateRequest{Visibility: strPtr("private")})
	assert.True(t, code.Is(err, code.ErrorNoteSharedToPrivate))

	_, err = svc.Update(ctx, alice, draft.ID, &dto.NoteUpdateRequest{Visibility: strPtr("private")})
	require.NoError(t, err)

	// 收回后 bob 再次不可见，管理员也删不掉私有笔记
	_, err = svc.Get(ctx, bob, draft.ID)
	assert.True(t, code.Is(err, code.ErrorNoteNotFoundOrDenied))

	_, err = svc.Delete(ctx, boss, draft.ID)
	assert.True(t, code.Is(err, code.ErrorNoteDeleteOwn))

	// alice 重新共享后管理员可删
	_, err = svc.Update(ctx, alice, draft.ID, &dto.NoteUpdateRequest{Visibility: strPtr("shared")})
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, boss, draft.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}
