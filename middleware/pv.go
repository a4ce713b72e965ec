package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/rankbbs/models"
	"github.com/cppla/rankbbs/utils"
)

// skipped routes never count as views
var pvSkip = map[string]struct{}{
	"/health":       {},
	"/ws":           {},
	"/api/v1/stats": {},
}

// PageViewRecorder counts successful GET requests per day and route template.
// A nil db disables recording.
func PageViewRecorder(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if db == nil || c.Request.Method != http.MethodGet {
			return
		}
		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}

		// Route templates keep the table bounded: /api/v1/posts/:id rather than one row per post.
		path := c.FullPath()
		if path == "" {
			return
		}
		if _, skip := pvSkip[path]; skip {
			return
		}

		if err := RecordPageView(db, path, time.Now()); err != nil {
			utils.L().Warn("record page view", zap.String("path", path), zap.Error(err))
		}
	}
}

// RecordPageView adds one view of path on the local day of at.
func RecordPageView(db *gorm.DB, path string, at time.Time) error {
	day := models.Day(at)
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}, {Name: "path"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("count + 1"), "updated_at": time.Now()}),
	}).Create(&models.PageView{Date: day, Path: path, Count: 1}).Error
}
