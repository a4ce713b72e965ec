package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cppla/rankbbs/config"
	"github.com/cppla/rankbbs/models"
	"github.com/cppla/rankbbs/utils"
)

const testSecret = "middleware-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiterBlocksBurst(t *testing.T) {
	t.Parallel()

	// 4 per minute gives a burst of 2
	limiter := NewIPRateLimiter(4)
	assert.True(t, limiter.Allow("1.2.3.4"))
	assert.True(t, limiter.Allow("1.2.3.4"))
	assert.False(t, limiter.Allow("1.2.3.4"))
	assert.True(t, limiter.Allow("5.6.7.8"), "buckets are per key")
}

func TestRateLimiterMiddleware(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.GET("/", NewIPRateLimiter(2).Middleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), `"code":42901`)
}

func TestRateLimiterSweepsIdleVisitorsPeriodically(t *testing.T) {
	limiter := NewIPRateLimiter(60)
	clock := time.Unix(1_700_000_000, 0)
	limiter.now = func() time.Time { return clock }

	limiter.Allow("10.0.0.1")
	limiter.Allow("10.0.0.2")
	require.Len(t, limiter.visitors, 2)

	// Expired but not yet swept: a sweep ran on the first request.
	clock = clock.Add(limiterSweepInterval / 2)
	limiter.visitors["10.0.0.1"].expires = clock.Add(-time.Second)
	limiter.Allow("10.0.0.2")
	assert.Len(t, limiter.visitors, 2)

	clock = clock.Add(limiterSweepInterval)
	limiter.Allow("10.0.0.2")
	assert.Len(t, limiter.visitors, 1)
	assert.NotContains(t, limiter.visitors, "10.0.0.1")
	assert.Equal(t, clock, limiter.lastSweep)

	clock = clock.Add(limiterIdleTTL + time.Second)
	limiter.Allow("10.0.0.3")
	assert.Len(t, limiter.visitors, 1)
	assert.Contains(t, limiter.visitors, "10.0.0.3")
}

func TestRateLimiterDisabled(t *testing.T) {
	t.Parallel()

	limiter := NewIPRateLimiter(0)
	for i := 0; i < 100; i++ {
		require.True(t, limiter.Allow("ip"))
	}
}

func authEngine() *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthRequired(testSecret), func(c *gin.Context) {
		id, _ := CurrentUser(c)
		c.String(http.StatusOK, id)
	})
	return r
}

func TestAuthRequired(t *testing.T) {
	t.Parallel()

	token, _, err := utils.GenerateToken(testSecret, "user1", time.Hour)
	require.NoError(t, err)
	other, _, err := utils.GenerateToken("another-secret", "user1", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{"valid", "Bearer " + token, http.StatusOK, ""},
		{"missing", "", http.StatusUnauthorized, "40101"},
		{"bad scheme", "Basic " + token, http.StatusUnauthorized, "40102"},
		{"empty token", "Bearer  ", http.StatusUnauthorized, "40103"},
		{"wrong secret", "Bearer " + other, http.StatusUnauthorized, "40105"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := serve(authEngine(), req)
			assert.Equal(t, tt.status, w.Code)
			if tt.code != "" {
				assert.Contains(t, w.Body.String(), `"code":`+tt.code)
			} else {
				assert.Equal(t, "user1", w.Body.String())
			}
		})
	}
}

func TestAuthRejectsRevokedToken(t *testing.T) {
	t.Parallel()

	token, claims, err := utils.GenerateToken(testSecret, "user2", time.Hour)
	require.NoError(t, err)
	utils.BlacklistToken(context.Background(), claims.ID, claims.ExpiresAt.Time)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := serve(authEngine(), req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"code":40104`)
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(utils.RequestIDKey)) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(generated)
	require.NoError(t, err)
	assert.Equal(t, generated, w.Body.String())

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, incoming)
	assert.Equal(t, incoming, serve(r, req).Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "not a uuid")
	assert.NotEqual(t, "not a uuid", serve(r, req).Header().Get(RequestIDHeader))
}

func openAnalytics(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.InitDatabase(config.AppConfig{DBDriver: "sqlite", LogLevel: "silent"}, &models.PageView{})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestPageViewRecorderCountsRouteTemplates(t *testing.T) {
	t.Parallel()

	db := openAnalytics(t)
	r := gin.New()
	r.Use(PageViewRecorder(db))
	r.GET("/api/v1/posts/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/api/v1/posts/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/api/v1/posts/1", "/api/v1/posts/2", "/api/v1/posts/2"} {
		serve(r, httptest.NewRequest(http.MethodGet, path, nil))
	}
	serve(r, httptest.NewRequest(http.MethodGet, "/missing", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	serve(r, httptest.NewRequest(http.MethodPost, "/api/v1/posts/1", nil))

	var rows []models.PageView
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "/api/v1/posts/:id", rows[0].Path)
	assert.Equal(t, int64(3), rows[0].Count)
}

func TestPageViewRecorderWithoutDB(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.Use(PageViewRecorder(nil))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
}

func TestRecordPageViewSeparatesDays(t *testing.T) {
	t.Parallel()

	db := openAnalytics(t)
	day1 := time.Date(2024, 3, 1, 9, 0, 0, 0, time.Local)
	require.NoError(t, RecordPageView(db, "/x", day1))
	require.NoError(t, RecordPageView(db, "/x", day1.Add(2*time.Hour)))
	require.NoError(t, RecordPageView(db, "/x", day1.Add(24*time.Hour)))

	var total int64
	require.NoError(t, db.Model(&models.PageView{}).Where("date = ?", models.Day(day1)).
		Select("COALESCE(SUM(count),0)").Scan(&total).Error)
	assert.Equal(t, int64(2), total)

	var rows int64
	require.NoError(t, db.Model(&models.PageView{}).Count(&rows).Error)
	assert.Equal(t, int64(2), rows)
}
