package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/postline/postline/models"
)

// GroupService manages topic groups. Deleting a group never deletes posts;
// it only clears their group reference.
type GroupService struct {
	db *gorm.DB
}

// NewGroupService creates a GroupService backed by the given database.
func NewGroupService(db *gorm.DB) *GroupService {
	return &GroupService{db: db}
}

// Create adds a new group; the slug must be unique and URL-safe.
func (s *GroupService) Create(title, slug, description string) (*models.Group, error) {
	title = strings.TrimSpace(title)
	slug = strings.TrimSpace(slug)
	if title == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", ErrValidation)
	}
	if slug == "" {
		return nil, fmt.Errorf("%w: slug cannot be empty", ErrValidation)
	}

	var count int64
	if err := s.db.Model(&models.Group{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: slug %q already exists", ErrUniqueness, slug)
	}

	group := models.Group{Title: title, Slug: slug, Description: description}
	if err := s.db.Create(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// GetBySlug returns the group identified by slug.
func (s *GroupService) GetBySlug(slug string) (*models.Group, error) {
	var group models.Group
	if err := s.db.Where("slug = ?", slug).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: group %q", ErrNotFound, slug)
		}
		return nil, err
	}
	return &group, nil
}

// List returns all groups ordered by title.
func (s *GroupService) List() ([]models.Group, error) {
	var groups []models.Group
	if err := s.db.Order("title ASC").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// Update changes the title or description of an existing group. The slug is
// the group's identity and stays fixed.
func (s *GroupService) Update(slug, title, description string) (*models.Group, error) {
	group, err := s.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if title = strings.TrimSpace(title); title != "" {
		group.Title = title
	}
	if description != "" {
		group.Description = description
	}
	if err := s.db.Save(group).Error; err != nil {
		return nil, err
	}
	return group, nil
}

// Delete removes a group and detaches its posts in one transaction. Posts
// survive with an empty group reference.
func (s *GroupService) Delete(slug string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var group models.Group
		if err := tx.Where("slug = ?", slug).First(&group).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: group %q", ErrNotFound, slug)
			}
			return err
		}
		if err := tx.Model(&models.Post{}).Where("group_id = ?", group.ID).Update("group_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&group).Error
	})
}
