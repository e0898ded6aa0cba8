package dao

import (
	"context"
	"testing"
	"time"

	"github.com/haierkeys/team-notes-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestRepo(t *testing.T) domain.NoteRepository {
	t.Helper()
	db, err := NewDBEngine(DatabaseConfig{
		Type:         "sqlite",
		Path:         ":memory:",
		AutoMigrate:  true,
		MaxIdleConns: 1,
		MaxOpenConns: 1,
	})
	require.NoError(t, err)
	return NewNoteRepository(New(db, context.Background()))
}

func seedNote(t *testing.T, repo domain.NoteRepository, title, owner, org string, vis domain.Visibility) *domain.Note {
	t.Helper()
	n, err := repo.Create(context.Background(), &domain.Note{
		Title:          title,
		Content:        "content of " + title,
		OwnerMemberID:  owner,
		OrganizationID: org,
		Visibility:     vis,
		Tags:           []string{},
	})
	require.NoError(t, err)
	require.NotEmpty(t, n.ID)
	return n
}

func TestNoteRepository_ListVisible(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seedNote(t, repo, "alice private", "alice", "org-1", domain.VisibilityPrivate)
	seedNote(t, repo, "alice shared", "alice", "org-1", domain.VisibilityShared)
	seedNote(t, repo, "bob private", "bob", "org-1", domain.VisibilityPrivate)
	seedNote(t, repo, "other org shared", "carol", "org-2", domain.VisibilityShared)

	tests := []struct {
		name     string
		org      string
		member   string
		expected []string
	}{
		{
			name:     "owner sees own private and shared",
			org:      "org-1",
			member:   "alice",
			expected: []string{"alice private", "alice shared"},
		},
		{
			name:     "teammate sees shared plus own private only",
			org:      "org-1",
			member:   "bob",
			expected: []string{"alice shared", "bob private"},
		},
		{
			name:     "other organization is fully isolated",
			org:      "org-2",
			member:   "alice",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notes, err := repo.ListVisible(ctx, tt.org, tt.member)
			assert.NoError(t, err)
			titles := make([]string, 0, len(notes))
			for _, n := range notes {
				titles = append(titles, n.Title)
			}
			assert.ElementsMatch(t, tt.expected, titles)
		})
	}
}

func TestNoteRepository_ListVisible_Order(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := seedNote(t, repo, "first", "alice", "org-1", domain.VisibilityShared)
	time.Sleep(1100 * time.Millisecond)
	seedNote(t, repo, "second", "alice", "org-1", domain.VisibilityShared)
	time.Sleep(1100 * time.Millisecond)

	// 更新 first 后它应该回到列表首位
	title := "first touched"
	_, err := repo.UpdateVisible(ctx, first.ID, "org-1", "alice", &domain.NotePatch{Title: &title})
	require.NoError(t, err)

	notes, err := repo.ListVisible(ctx, "org-1", "alice")
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "first touched", notes[0].Title)
	assert.Equal(t, "second", notes[1].Title)
}

func TestNoteRepository_GetVisible(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	private := seedNote(t, repo, "private", "alice", "org-1", domain.VisibilityPrivate)
	shared := seedNote(t, repo, "shared", "alice", "org-1", domain.VisibilityShared)

	got, err := repo.GetVisible(ctx, private.ID, "org-1", "alice")
	assert.NoError(t, err)
	assert.Equal(t, "private", got.Title)

	got, err = repo.GetVisible(ctx, shared.ID, "org-1", "bob")
	assert.NoError(t, err)
	assert.Equal(t, "shared", got.Title)

	// 他人私有与跨组织均为未找到
	_, err = repo.GetVisible(ctx, private.ID, "org-1", "bob")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.GetVisible(ctx, shared.ID, "org-2", "alice")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.GetVisible(ctx, "missing-id", "org-1", "alice")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestNoteRepository_GetInOrganization(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	private := seedNote(t, repo, "private", "alice", "org-1", domain.VisibilityPrivate)

	// 删除路径不做可见性过滤，组织内任何成员都能取到
	got, err := repo.GetInOrganization(ctx, private.ID, "org-1")
	assert.NoError(t, err)
	assert.Equal(t, "alice", got.OwnerMemberID)

	_, err = repo.GetInOrganization(ctx, private.ID, "org-2")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestNoteRepository_UpdateVisible(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	note := seedNote(t, repo, "draft", "alice", "org-1", domain.VisibilityPrivate)

	title := "draft v2"
	fav := true
	tags := []string{"work", "urgent"}
	updated, err := repo.UpdateVisible(ctx, note.ID, "org-1", "alice", &domain.NotePatch{
		Title:      &title,
		IsFavorite: &fav,
		Tags:       &tags,
	})
	require.NoError(t, err)
	assert.Equal(t, "draft v2", updated.Title)
	assert.Equal(t, "content of draft", updated.Content)
	assert.True(t, updated.IsFavorite)
	assert.Equal(t, []string{"work", "urgent"}, updated.Tags)

	// 谓词不匹配时零行受影响
	_, err = repo.UpdateVisible(ctx, note.ID, "org-1", "bob", &domain.NotePatch{Title: &title})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.UpdateVisible(ctx, note.ID, "org-2", "alice", &domain.NotePatch{Title: &title})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestNoteRepository_UpdateVisible_ClearFields(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	note := seedNote(t, repo, "keep", "alice", "org-1", domain.VisibilityPrivate)

	// 显式置空与未提供是两回事
	empty := ""
	noTags := []string{}
	updated, err := repo.UpdateVisible(ctx, note.ID, "org-1", "alice", &domain.NotePatch{
		Content: &empty,
		Tags:    &noTags,
	})
	require.NoError(t, err)
	assert.Equal(t, "keep", updated.Title)
	assert.Equal(t, "", updated.Content)
	assert.Empty(t, updated.Tags)
}

func TestNoteRepository_DeleteInOrganization(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	note := seedNote(t, repo, "to delete", "alice", "org-1", domain.VisibilityShared)

	// 跨组织删除不生效
	deleted, err := repo.DeleteInOrganization(ctx, note.ID, "org-2")
	assert.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = repo.DeleteInOrganization(ctx, note.ID, "org-1")
	assert.NoError(t, err)
	assert.True(t, deleted)

	// 重复删除返回 false
	deleted, err = repo.DeleteInOrganization(ctx, note.ID, "org-1")
	assert.NoError(t, err)
	assert.False(t, deleted)
}

func TestNoteRepository_Ping(t *testing.T) {
	repo := newTestRepo(t)
	assert.NoError(t, repo.Ping(context.Background()))
}
