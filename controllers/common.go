package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/postline/postline/middleware"
	"github.com/postline/postline/models"
	"github.com/postline/postline/services"
	"github.com/postline/postline/utils"
)

// feedCachePrefix keys the cached global feed pages in Redis.
const feedCachePrefix = "cache:feed:global:"

// pagePayload renders a page of posts in the envelope shape every listing
// endpoint shares.
func pagePayload(page services.Page[models.Post]) gin.H {
	return gin.H{
		"items": page.Items,
		"pagination": gin.H{
			"page":        page.Number,
			"page_size":   services.PageSize,
			"total_pages": page.TotalPages,
			"has_prev":    page.HasPrev,
			"has_next":    page.HasNext,
		},
	}
}

// respondServiceError maps service layer sentinel errors onto HTTP statuses.
// Errors arrive here unmodified; nothing below swallows them.
func respondServiceError(ctx *gin.Context, code int, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.Error(ctx, http.StatusBadRequest, code, err.Error())
	case errors.Is(err, services.ErrUniqueness),
		errors.Is(err, services.ErrDuplicateFollow):
		utils.Error(ctx, http.StatusConflict, code, err.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, code, err.Error())
	case errors.Is(err, services.ErrAuthorization):
		utils.Error(ctx, http.StatusForbidden, code, err.Error())
	case errors.Is(err, services.ErrSelfFollow):
		utils.Error(ctx, http.StatusBadRequest, code, err.Error())
	default:
		utils.Error(ctx, http.StatusInternalServerError, code, "internal error")
	}
}

func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}
