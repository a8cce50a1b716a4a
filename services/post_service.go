package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/postline/postline/models"
)

// PostService owns post lifecycle and the four listing queries feeding every
// page of the application: global, group, author, and followed-authors.
type PostService struct {
	db *gorm.DB
}

// NewPostService creates a PostService backed by the given database.
func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db}
}

// feedQuery is the shared shape of every listing: author preloaded, newest
// first, id as tiebreak so equal timestamps still order deterministically.
func (s *PostService) feedQuery() *gorm.DB {
	return s.db.Preload("User").Preload("Group").Order("created_at DESC, id DESC")
}

// Create inserts a post for the given author, optionally attached to a group
// identified by slug. CreatedAt is assigned by the store and never changes.
func (s *PostService) Create(userID uint, text, groupSlug, image string) (*models.Post, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: post text cannot be empty", ErrValidation)
	}

	post := models.Post{UserID: userID, Text: text, Image: image}
	if groupSlug != "" {
		var group models.Group
		if err := s.db.Where("slug = ?", groupSlug).First(&group).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: group %q", ErrNotFound, groupSlug)
			}
			return nil, err
		}
		post.GroupID = &group.ID
	}

	if err := s.db.Create(&post).Error; err != nil {
		return nil, err
	}
	if err := s.db.Preload("User").Preload("Group").First(&post, post.ID).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// Get returns one post with its author, group, and comments.
func (s *PostService) Get(id uint) (*models.Post, error) {
	var post models.Post
	err := s.db.Preload("User").Preload("Group").Preload("Comments").Preload("Comments.User").First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &post, nil
}

// Update replaces the text, group, and image of a post. Only the author may
// edit; CreatedAt is left untouched.
func (s *PostService) Update(id, editorID uint, text, groupSlug, image string) (*models.Post, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: post text cannot be empty", ErrValidation)
	}

	var post models.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post %d", ErrNotFound, id)
		}
		return nil, err
	}
	if post.UserID != editorID {
		return nil, fmt.Errorf("%w: post %d belongs to another author", ErrAuthorization, id)
	}

	post.Text = text
	post.Image = image
	post.GroupID = nil
	if groupSlug != "" {
		var group models.Group
		if err := s.db.Where("slug = ?", groupSlug).First(&group).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: group %q", ErrNotFound, groupSlug)
			}
			return nil, err
		}
		post.GroupID = &group.ID
	}

	if err := s.db.Save(&post).Error; err != nil {
		return nil, err
	}
	if err := s.db.Preload("User").Preload("Group").First(&post, post.ID).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// Delete removes a post and cascades to its comments in one transaction.
// Only the author may delete.
func (s *PostService) Delete(id, editorID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: post %d", ErrNotFound, id)
			}
			return err
		}
		if post.UserID != editorID {
			return fmt.Errorf("%w: post %d belongs to another author", ErrAuthorization, id)
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
}

// ListAll returns every post, newest first.
func (s *PostService) ListAll() ([]models.Post, error) {
	var posts []models.Post
	if err := s.feedQuery().Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListByGroup returns the posts attached to the group with the given slug.
func (s *PostService) ListByGroup(slug string) ([]models.Post, error) {
	var group models.Group
	if err := s.db.Where("slug = ?", slug).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: group %q", ErrNotFound, slug)
		}
		return nil, err
	}

	var posts []models.Post
	if err := s.feedQuery().Where("group_id = ?", group.ID).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListByAuthor returns the posts written by the user with the given username.
func (s *PostService) ListByAuthor(username string) ([]models.Post, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %q", ErrNotFound, username)
		}
		return nil, err
	}

	var posts []models.Post
	if err := s.feedQuery().Where("user_id = ?", user.ID).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListFollowedFeed returns posts by the authors the viewer follows. A viewer
// following nobody gets an empty feed, not an error. Callers must have
// authenticated the viewer already.
func (s *PostService) ListFollowedFeed(viewerID uint) ([]models.Post, error) {
	followed := s.db.Model(&models.Follow{}).Select("followed_id").Where("follower_id = ?", viewerID)

	var posts []models.Post
	if err := s.feedQuery().Where("user_id IN (?)", followed).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}
