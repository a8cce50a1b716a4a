package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db)

	created, err := svc.Create("Тестовая группа", "test-slug", "Тестовое описание")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := svc.GetBySlug("test-slug")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Тестовая группа", got.Title)
}

func TestGroupSlugMustBeUnique(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db)

	_, err := svc.Create("First", "test-slug", "")
	require.NoError(t, err)

	_, err = svc.Create("Second", "test-slug", "")
	assert.ErrorIs(t, err, ErrUniqueness)
}

func TestGroupValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db)

	_, err := svc.Create("", "slug", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create("Title", "  ", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGroupGetUnknownSlug(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db)

	_, err := svc.GetBySlug("nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGroupUpdate(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db)

	_, err := svc.Create("Old", "test-slug", "old description")
	require.NoError(t, err)

	updated, err := svc.Update("test-slug", "New", "")
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, "old description", updated.Description)
	assert.Equal(t, "test-slug", updated.Slug)
}

func TestGroupDeleteUnknownSlug(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db)

	assert.ErrorIs(t, svc.Delete("nonexistent"), ErrNotFound)
}
