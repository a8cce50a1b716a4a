package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/postline/postline/services"
	"github.com/postline/postline/utils"
)

// GroupController manages topic groups and the group-scoped feed.
type GroupController struct {
	groups *services.GroupService
	posts  *services.PostService
}

// NewGroupController creates a new GroupController instance.
func NewGroupController(db *gorm.DB) *GroupController {
	return &GroupController{
		groups: services.NewGroupService(db),
		posts:  services.NewPostService(db),
	}
}

// CreateGroup adds a new group with a unique slug.
func (g *GroupController) CreateGroup(ctx *gin.Context) {
	var req struct {
		Title       string `json:"title" binding:"required"`
		Slug        string `json:"slug" binding:"required,max=64"`
		Description string `json:"description"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid request payload")
		return
	}

	group, err := g.groups.Create(req.Title, req.Slug, utils.Sanitize(req.Description))
	if err != nil {
		respondServiceError(ctx, 40051, err)
		return
	}
	utils.Success(ctx, gin.H{"group": group})
}

// ListGroups returns all groups.
func (g *GroupController) ListGroups(ctx *gin.Context) {
	groups, err := g.groups.List()
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to list groups")
		return
	}
	utils.Success(ctx, gin.H{"groups": groups})
}

// GetGroup returns a single group by slug.
func (g *GroupController) GetGroup(ctx *gin.Context) {
	slug := strings.TrimSpace(ctx.Param("slug"))
	group, err := g.groups.GetBySlug(slug)
	if err != nil {
		respondServiceError(ctx, 40052, err)
		return
	}
	utils.Success(ctx, gin.H{"group": group})
}

// UpdateGroup changes a group's title or description.
func (g *GroupController) UpdateGroup(ctx *gin.Context) {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40053, "invalid request payload")
		return
	}

	slug := strings.TrimSpace(ctx.Param("slug"))
	group, err := g.groups.Update(slug, req.Title, utils.Sanitize(req.Description))
	if err != nil {
		respondServiceError(ctx, 40054, err)
		return
	}
	utils.Success(ctx, gin.H{"group": group})
}

// DeleteGroup removes a group; its posts stay, detached.
func (g *GroupController) DeleteGroup(ctx *gin.Context) {
	slug := strings.TrimSpace(ctx.Param("slug"))
	if err := g.groups.Delete(slug); err != nil {
		respondServiceError(ctx, 40055, err)
		return
	}
	// detached posts render differently in the global feed
	utils.InvalidateByPrefix(feedCachePrefix)
	utils.Success(ctx, gin.H{"message": "group deleted"})
}

// ListGroupPosts returns the paginated feed of one group.
func (g *GroupController) ListGroupPosts(ctx *gin.Context) {
	slug := strings.TrimSpace(ctx.Param("slug"))
	posts, err := g.posts.ListByGroup(slug)
	if err != nil {
		respondServiceError(ctx, 40056, err)
		return
	}

	page := services.ParsePageNumber(ctx.Query("page"))
	utils.Success(ctx, pagePayload(services.Paginate(posts, page)))
}
