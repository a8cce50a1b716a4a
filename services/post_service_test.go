package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postline/postline/models"
)

func TestPostCreateRequiresText(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	author := createUser(t, db, "auth")

	_, err := svc.Create(author.ID, "", "", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(author.ID, "   ", "", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPostCreateUnknownGroup(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	author := createUser(t, db, "auth")

	_, err := svc.Create(author.ID, "text", "nonexistent", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostListingsEndToEnd(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	author := createUser(t, db, "auth")
	group := createGroup(t, db, "Тестовая группа", "test-slug")

	created, err := svc.Create(author.ID, "Тестовый текст", "test-slug", "")
	require.NoError(t, err)

	all, err := svc.ListAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, created.ID, all[0].ID)
	assert.Equal(t, "Тестовый текст", all[0].Text)
	assert.Equal(t, "auth", all[0].User.Username)
	require.NotNil(t, all[0].GroupID)
	assert.Equal(t, group.ID, *all[0].GroupID)

	byGroup, err := svc.ListByGroup("test-slug")
	require.NoError(t, err)
	require.Len(t, byGroup, 1)
	assert.Equal(t, created.ID, byGroup[0].ID)

	_, err = svc.ListByGroup("nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)

	byAuthor, err := svc.ListByAuthor("auth")
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)

	_, err = svc.ListByAuthor("ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostListingOrderIsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	author := createUser(t, db, "auth")

	base := time.Now().Add(-time.Hour)
	oldest := createPostAt(t, db, author, nil, "first", base)
	middle := createPostAt(t, db, author, nil, "second", base.Add(10*time.Minute))
	newest := createPostAt(t, db, author, nil, "third", base.Add(20*time.Minute))

	posts, err := svc.ListAll()
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, newest.ID, posts[0].ID)
	assert.Equal(t, middle.ID, posts[1].ID)
	assert.Equal(t, oldest.ID, posts[2].ID)
}

func TestPostOrderTiebreakOnEqualTimestamps(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	author := createUser(t, db, "auth")

	at := time.Now()
	first := createPostAt(t, db, author, nil, "a", at)
	second := createPostAt(t, db, author, nil, "b", at)

	posts, err := svc.ListAll()
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)
}

func TestPostUpdateKeepsCreatedAt(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	author := createUser(t, db, "auth")

	created, err := svc.Create(author.ID, "original", "", "")
	require.NoError(t, err)

	updated, err := svc.Update(created.ID, author.ID, "edited", "", "")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Text)
	assert.WithinDuration(t, created.CreatedAt, updated.CreatedAt, time.Second)
}

func TestPostUpdateByStrangerIsRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	author := createUser(t, db, "auth")
	stranger := createUser(t, db, "stranger")

	created, err := svc.Create(author.ID, "mine", "", "")
	require.NoError(t, err)

	_, err = svc.Update(created.ID, stranger.ID, "stolen", "", "")
	assert.ErrorIs(t, err, ErrAuthorization)

	assert.ErrorIs(t, svc.Delete(created.ID, stranger.ID), ErrAuthorization)
}

func TestDeletingGroupDetachesPosts(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostService(db)
	groups := NewGroupService(db)
	author := createUser(t, db, "auth")
	createGroup(t, db, "Тестовая группа", "test-slug")

	created, err := posts.Create(author.ID, "Тестовый текст", "test-slug", "")
	require.NoError(t, err)
	require.NotNil(t, created.GroupID)

	require.NoError(t, groups.Delete("test-slug"))

	survivor, err := posts.Get(created.ID)
	require.NoError(t, err)
	assert.Nil(t, survivor.GroupID)

	all, err := posts.ListAll()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDeletingAuthorCascadesToPosts(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostService(db)
	users := NewUserService(db)
	author := createUser(t, db, "auth")
	other := createUser(t, db, "other")

	_, err := posts.Create(author.ID, "doomed", "", "")
	require.NoError(t, err)
	kept, err := posts.Create(other.ID, "kept", "", "")
	require.NoError(t, err)

	require.NoError(t, users.Delete(author.ID))

	all, err := posts.ListAll()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, kept.ID, all[0].ID)

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Where("user_id = ?", author.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPostDeleteCascadesToComments(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostService(db)
	comments := NewCommentService(db)
	author := createUser(t, db, "auth")

	created, err := posts.Create(author.ID, "with comments", "", "")
	require.NoError(t, err)
	_, err = comments.Create(created.ID, author.ID, "nice")
	require.NoError(t, err)

	require.NoError(t, posts.Delete(created.ID, author.ID))

	var count int64
	require.NoError(t, db.Model(&models.Comment{}).Where("post_id = ?", created.ID).Count(&count).Error)
	assert.Zero(t, count)
}
