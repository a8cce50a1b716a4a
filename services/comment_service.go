package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/postline/postline/models"
)

// CommentService manages replies under posts. A comment is owned jointly by
// its post and its author: losing either removes it.
type CommentService struct {
	db *gorm.DB
}

// NewCommentService creates a CommentService backed by the given database.
func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

// Create adds a comment by the given user to an existing post.
func (s *CommentService) Create(postID, userID uint, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: comment text cannot be empty", ErrValidation)
	}

	var post models.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post %d", ErrNotFound, postID)
		}
		return nil, err
	}

	comment := models.Comment{PostID: post.ID, UserID: userID, Text: text}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}
	if err := s.db.Preload("User").First(&comment, comment.ID).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByPost returns the comments under a post, newest first.
func (s *CommentService) ListByPost(postID uint) ([]models.Comment, error) {
	var post models.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: post %d", ErrNotFound, postID)
		}
		return nil, err
	}

	var comments []models.Comment
	err := s.db.Preload("User").Where("post_id = ?", postID).Order("created_at DESC, id DESC").Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// Delete removes a comment. Only its author may delete it.
func (s *CommentService) Delete(id, editorID uint) error {
	var comment models.Comment
	if err := s.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: comment %d", ErrNotFound, id)
		}
		return err
	}
	if comment.UserID != editorID {
		return fmt.Errorf("%w: comment %d belongs to another author", ErrAuthorization, id)
	}
	return s.db.Delete(&comment).Error
}
