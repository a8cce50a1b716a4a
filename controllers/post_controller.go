package controllers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/postline/postline/config"
	"github.com/postline/postline/services"
	"github.com/postline/postline/utils"
)

// PostController serves the global feed and post/comment mutations. The
// global feed is the one cached listing: rendered pages live in Redis for
// FeedCacheTTLSeconds and every post mutation invalidates them.
type PostController struct {
	posts    *services.PostService
	comments *services.CommentService
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{
		posts:    services.NewPostService(db),
		comments: services.NewCommentService(db),
	}
}

// ListPosts returns the paginated global feed, newest first.
func (p *PostController) ListPosts(ctx *gin.Context) {
	page := services.ParsePageNumber(ctx.Query("page"))

	cacheKey := fmt.Sprintf("%spage=%d", feedCachePrefix, page)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	posts, err := p.posts.ListAll()
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to list posts")
		return
	}

	payload := pagePayload(services.Paginate(posts, page))
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	ttl := time.Duration(config.Get().FeedCacheTTLSeconds) * time.Second
	utils.CacheSetJSON(cacheKey, wrapper, ttl)
	utils.Success(ctx, payload)
}

// GetPost returns a single post with its comments.
func (p *PostController) GetPost(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid post id")
		return
	}
	post, err := p.posts.Get(uint(id))
	if err != nil {
		respondServiceError(ctx, 40401, err)
		return
	}
	utils.Success(ctx, gin.H{"post": post})
}

// CreatePost allows authenticated users to publish a post, optionally into a
// group and with an uploaded image.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req struct {
		Text  string `json:"text" binding:"required"`
		Group string `json:"group"`
		Image string `json:"image"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid request payload")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40120, "unauthorized")
		return
	}

	post, err := p.posts.Create(userID, utils.Sanitize(req.Text), req.Group, req.Image)
	if err != nil {
		respondServiceError(ctx, 40022, err)
		return
	}

	utils.InvalidateByPrefix(feedCachePrefix)
	utils.Success(ctx, gin.H{"post": post})
}

// UpdatePost allows the author to edit their post.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	var req struct {
		Text  string `json:"text" binding:"required"`
		Group string `json:"group"`
		Image string `json:"image"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40023, "invalid request payload")
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40024, "invalid post id")
		return
	}
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40121, "unauthorized")
		return
	}

	post, err := p.posts.Update(uint(id), userID, utils.Sanitize(req.Text), req.Group, req.Image)
	if err != nil {
		respondServiceError(ctx, 40025, err)
		return
	}

	utils.InvalidateByPrefix(feedCachePrefix)
	utils.Success(ctx, gin.H{"post": post})
}

// DeletePost allows the author to delete their post together with its comments.
func (p *PostController) DeletePost(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40026, "invalid post id")
		return
	}
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40122, "unauthorized")
		return
	}

	if err := p.posts.Delete(uint(id), userID); err != nil {
		respondServiceError(ctx, 40027, err)
		return
	}

	utils.InvalidateByPrefix(feedCachePrefix)
	utils.Success(ctx, gin.H{"message": "post deleted"})
}

// CreateComment allows authenticated users to comment on a post.
func (p *PostController) CreateComment(ctx *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}

	postID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40031, "invalid post id")
		return
	}
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40123, "unauthorized")
		return
	}

	comment, err := p.comments.Create(uint(postID), userID, utils.Sanitize(req.Text))
	if err != nil {
		respondServiceError(ctx, 40032, err)
		return
	}
	utils.Success(ctx, gin.H{"comment": comment})
}

// ListComments returns the comments under a post, newest first.
func (p *PostController) ListComments(ctx *gin.Context) {
	postID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40033, "invalid post id")
		return
	}
	comments, err := p.comments.ListByPost(uint(postID))
	if err != nil {
		respondServiceError(ctx, 40034, err)
		return
	}
	utils.Success(ctx, gin.H{"comments": comments})
}

// DeleteComment allows the comment author to delete it.
func (p *PostController) DeleteComment(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("commentId"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40035, "invalid comment id")
		return
	}
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40124, "unauthorized")
		return
	}
	if err := p.comments.Delete(uint(id), userID); err != nil {
		respondServiceError(ctx, 40036, err)
		return
	}
	utils.Success(ctx, gin.H{"message": "comment deleted"})
}

// UploadImage stores a post image under static/uploads and returns its URL.
func (p *PostController) UploadImage(ctx *gin.Context) {
	if _, ok := getUserID(ctx); !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40125, "unauthorized")
		return
	}

	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "no file uploaded")
		return
	}
	defer file.Close()

	const maxSize = 10 * 1024 * 1024
	if header.Size > maxSize {
		utils.Error(ctx, http.StatusBadRequest, 40041, "file size exceeds 10MB")
		return
	}

	now := time.Now()
	baseDir := filepath.Join(".", "static", "uploads", now.Format("2006"), now.Format("01"), now.Format("02"))
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to create upload directory")
		return
	}

	ext := filepath.Ext(filepath.Base(header.Filename))
	name := uuid.NewString() + ext
	dstPath := filepath.Join(baseDir, name)

	out, err := os.Create(dstPath)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to save file")
		return
	}
	defer out.Close()

	lr := &io.LimitedReader{R: file, N: maxSize + 1}
	written, err := io.Copy(out, lr)
	if err != nil || written > maxSize {
		_ = out.Close()
		_ = os.Remove(dstPath)
		utils.Error(ctx, http.StatusBadRequest, 40042, "failed to store file")
		return
	}

	url := fmt.Sprintf("/static/uploads/%s/%s/%s/%s", now.Format("2006"), now.Format("01"), now.Format("02"), name)
	utils.Success(ctx, gin.H{"url": url})
}
