package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/postline/postline/models"
)

// FollowService manages the directed follow graph between users.
type FollowService struct {
	db *gorm.DB
}

// NewFollowService creates a FollowService backed by the given database.
func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{db: db}
}

// Follow creates the edge (follower, target). Following yourself is rejected
// with ErrSelfFollow; following the same author twice is rejected with
// ErrDuplicateFollow rather than silently succeeding, so clients can surface
// the state mismatch.
func (s *FollowService) Follow(followerID, targetID uint) error {
	if followerID == targetID {
		return fmt.Errorf("%w: user %d", ErrSelfFollow, followerID)
	}

	var target models.User
	if err := s.db.First(&target, targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %d", ErrNotFound, targetID)
		}
		return err
	}

	var count int64
	err := s.db.Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, targetID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: user %d already follows %d", ErrDuplicateFollow, followerID, targetID)
	}

	return s.db.Create(&models.Follow{FollowerID: followerID, FollowedID: targetID}).Error
}

// Unfollow removes the edge (follower, target). Removing an edge that does
// not exist is a no-op, not an error.
func (s *FollowService) Unfollow(followerID, targetID uint) error {
	return s.db.Where("follower_id = ? AND followed_id = ?", followerID, targetID).
		Delete(&models.Follow{}).Error
}

// IsFollowing reports whether follower currently follows target.
func (s *FollowService) IsFollowing(followerID, targetID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, targetID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Following returns the users the given user follows.
func (s *FollowService) Following(userID uint) ([]models.User, error) {
	followed := s.db.Model(&models.Follow{}).Select("followed_id").Where("follower_id = ?", userID)

	var users []models.User
	if err := s.db.Where("id IN (?)", followed).Order("username ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Followers returns the users following the given user.
func (s *FollowService) Followers(userID uint) ([]models.User, error) {
	followers := s.db.Model(&models.Follow{}).Select("follower_id").Where("followed_id = ?", userID)

	var users []models.User
	if err := s.db.Where("id IN (?)", followers).Order("username ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
