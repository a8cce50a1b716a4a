package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postline/postline/models"
)

func TestCommentCreateAndList(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostService(db)
	comments := NewCommentService(db)
	author := createUser(t, db, "auth")
	reader := createUser(t, db, "reader")

	post, err := posts.Create(author.ID, "a post", "", "")
	require.NoError(t, err)

	created, err := comments.Create(post.ID, reader.ID, "Тестовый комментарий")
	require.NoError(t, err)
	assert.Equal(t, "reader", created.User.Username)

	listed, err := comments.ListByPost(post.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
}

func TestCommentRequiresText(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostService(db)
	comments := NewCommentService(db)
	author := createUser(t, db, "auth")

	post, err := posts.Create(author.ID, "a post", "", "")
	require.NoError(t, err)

	_, err = comments.Create(post.ID, author.ID, "  ")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCommentOnMissingPost(t *testing.T) {
	db := newTestDB(t)
	comments := NewCommentService(db)
	author := createUser(t, db, "auth")

	_, err := comments.Create(12345, author.ID, "hello?")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = comments.ListByPost(12345)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCommentGoneWhenPostDeleted(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostService(db)
	comments := NewCommentService(db)
	author := createUser(t, db, "auth")
	reader := createUser(t, db, "reader")

	post, err := posts.Create(author.ID, "doomed post", "", "")
	require.NoError(t, err)
	_, err = comments.Create(post.ID, reader.ID, "doomed comment")
	require.NoError(t, err)

	require.NoError(t, posts.Delete(post.ID, author.ID))

	var count int64
	require.NoError(t, db.Model(&models.Comment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCommentGoneWhenAuthorDeleted(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostService(db)
	comments := NewCommentService(db)
	users := NewUserService(db)
	author := createUser(t, db, "auth")
	commenter := createUser(t, db, "commenter")

	post, err := posts.Create(author.ID, "stays", "", "")
	require.NoError(t, err)
	_, err = comments.Create(post.ID, commenter.ID, "goes away")
	require.NoError(t, err)

	require.NoError(t, users.Delete(commenter.ID))

	listed, err := comments.ListByPost(post.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)

	// the post itself is untouched
	_, err = posts.Get(post.ID)
	assert.NoError(t, err)
}

func TestCommentDeleteByStrangerIsRejected(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostService(db)
	comments := NewCommentService(db)
	author := createUser(t, db, "auth")
	stranger := createUser(t, db, "stranger")

	post, err := posts.Create(author.ID, "a post", "", "")
	require.NoError(t, err)
	created, err := comments.Create(post.ID, author.ID, "mine")
	require.NoError(t, err)

	assert.ErrorIs(t, comments.Delete(created.ID, stranger.ID), ErrAuthorization)
	assert.NoError(t, comments.Delete(created.ID, author.ID))
}
