package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/postline/postline/services"
	"github.com/postline/postline/utils"
)

// ProfileController serves author pages and the follow graph: the profile
// feed, follow/unfollow actions, and the authenticated "following" feed.
type ProfileController struct {
	posts   *services.PostService
	follows *services.FollowService
	users   *services.UserService
}

// NewProfileController creates a new ProfileController instance.
func NewProfileController(db *gorm.DB) *ProfileController {
	return &ProfileController{
		posts:   services.NewPostService(db),
		follows: services.NewFollowService(db),
		users:   services.NewUserService(db),
	}
}

// ListAuthorPosts returns the paginated feed of one author's posts.
func (pc *ProfileController) ListAuthorPosts(ctx *gin.Context) {
	username := strings.TrimSpace(ctx.Param("username"))
	posts, err := pc.posts.ListByAuthor(username)
	if err != nil {
		respondServiceError(ctx, 40060, err)
		return
	}

	page := services.ParsePageNumber(ctx.Query("page"))
	utils.Success(ctx, pagePayload(services.Paginate(posts, page)))
}

// FollowingFeed returns the paginated feed of posts by authors the viewer
// follows. Route middleware guarantees the viewer is authenticated.
func (pc *ProfileController) FollowingFeed(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40130, "unauthorized")
		return
	}

	posts, err := pc.posts.ListFollowedFeed(userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to build feed")
		return
	}

	page := services.ParsePageNumber(ctx.Query("page"))
	utils.Success(ctx, pagePayload(services.Paginate(posts, page)))
}

// Follow makes the authenticated user follow the author in the path.
func (pc *ProfileController) Follow(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40131, "unauthorized")
		return
	}

	target, err := pc.users.GetByUsername(strings.TrimSpace(ctx.Param("username")))
	if err != nil {
		respondServiceError(ctx, 40061, err)
		return
	}

	if err := pc.follows.Follow(userID, target.ID); err != nil {
		respondServiceError(ctx, 40062, err)
		return
	}
	utils.Success(ctx, gin.H{"message": "following " + target.Username})
}

// Unfollow removes the follow edge; removing a missing edge succeeds quietly.
func (pc *ProfileController) Unfollow(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40132, "unauthorized")
		return
	}

	target, err := pc.users.GetByUsername(strings.TrimSpace(ctx.Param("username")))
	if err != nil {
		respondServiceError(ctx, 40063, err)
		return
	}

	if err := pc.follows.Unfollow(userID, target.ID); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to unfollow")
		return
	}
	utils.Success(ctx, gin.H{"message": "unfollowed " + target.Username})
}

// ListFollowing returns the authors the given user follows.
func (pc *ProfileController) ListFollowing(ctx *gin.Context) {
	user, err := pc.users.GetByUsername(strings.TrimSpace(ctx.Param("username")))
	if err != nil {
		respondServiceError(ctx, 40064, err)
		return
	}
	users, err := pc.follows.Following(user.ID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to list following")
		return
	}
	utils.Success(ctx, gin.H{"following": users})
}

// ListFollowers returns the users following the given author.
func (pc *ProfileController) ListFollowers(ctx *gin.Context) {
	user, err := pc.users.GetByUsername(strings.TrimSpace(ctx.Param("username")))
	if err != nil {
		respondServiceError(ctx, 40065, err)
		return
	}
	users, err := pc.follows.Followers(user.ID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50063, "failed to list followers")
		return
	}
	utils.Success(ctx, gin.H{"followers": users})
}
