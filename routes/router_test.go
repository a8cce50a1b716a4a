package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/postline/postline/config"
	"github.com/postline/postline/models"
)

var testDBSeq atomic.Int64

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	config.SetForTesting(config.AppConfig{
		AppPort:             "0",
		JWTSecret:           "router-test-secret",
		RateLimitPerMinute:  10000,
		AllowedOrigins:      []string{"*"},
		FeedCacheTTLSeconds: 20,
		GinMode:             "test",
		RedisHost:           "127.0.0.1",
		RedisPort:           6379,
		LogLevel:            "error",
	})

	dsn := fmt.Sprintf("file:router_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
	))

	return SetupRouter(db)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerAndLogin(t *testing.T, r *gin.Engine, username string) string {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": username,
		"password": "test-password",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUnknownRouteReturns404(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/api/v1/nonsense", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "route not found")
}

func TestAnonymousCommentIsRejected(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/v1/posts/1/comments", "", gin.H{"text": "hi"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAnonymousFollowingFeedIsRejected(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/api/v1/feed/following", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPostLifecycleOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	token := registerAndLogin(t, r, "auth")

	w := doJSON(t, r, http.MethodPost, "/api/v1/groups", token, gin.H{
		"title": "Test group",
		"slug":  "test-slug",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/api/v1/posts", token, gin.H{
		"text":  "Тестовый текст",
		"group": "test-slug",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/api/v1/groups/test-slug/posts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listResp struct {
		Data struct {
			Items      []models.Post `json:"items"`
			Pagination struct {
				Page       int `json:"page"`
				TotalPages int `json:"total_pages"`
			} `json:"pagination"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	require.Len(t, listResp.Data.Items, 1)
	assert.Equal(t, "Тестовый текст", listResp.Data.Items[0].Text)
	assert.Equal(t, 1, listResp.Data.Pagination.Page)
	assert.Equal(t, 1, listResp.Data.Pagination.TotalPages)

	w = doJSON(t, r, http.MethodGet, "/api/v1/groups/nonexistent/posts", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/users/auth/posts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// a stranger cannot edit the author's post
	strangerToken := registerAndLogin(t, r, "stranger")
	postID := listResp.Data.Items[0].ID
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/v1/posts/%d", postID), strangerToken, gin.H{"text": "stolen"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestFollowOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	forestToken := registerAndLogin(t, r, "Forest")
	authorToken := registerAndLogin(t, r, "author")
	followerToken := registerAndLogin(t, r, "follower")

	w := doJSON(t, r, http.MethodPost, "/api/v1/users/author/follow", forestToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// repeat follow conflicts, self follow is invalid
	w = doJSON(t, r, http.MethodPost, "/api/v1/users/author/follow", forestToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	w = doJSON(t, r, http.MethodPost, "/api/v1/users/Forest/follow", forestToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/posts", authorToken, gin.H{"text": "fresh post"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var feedResp struct {
		Data struct {
			Items []models.Post `json:"items"`
		} `json:"data"`
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/feed/following", forestToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &feedResp))
	assert.Len(t, feedResp.Data.Items, 1)

	w = doJSON(t, r, http.MethodGet, "/api/v1/feed/following", followerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	feedResp.Data.Items = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &feedResp))
	assert.Empty(t, feedResp.Data.Items)

	// unfollowing twice stays a no-op
	w = doJSON(t, r, http.MethodDelete, "/api/v1/users/author/follow", forestToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodDelete, "/api/v1/users/author/follow", forestToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
