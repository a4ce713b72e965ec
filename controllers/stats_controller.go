package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/rankbbs/models"
	"github.com/cppla/rankbbs/store"
	"github.com/cppla/rankbbs/utils"
)

const topPathsLimit = 5

// StatsController reports content counts and, when analytics is on, today's page views.
type StatsController struct {
	store *store.Store
	db    *gorm.DB
	now   func() time.Time
}

// NewStatsController creates a new StatsController instance. db may be nil.
func NewStatsController(s *store.Store, db *gorm.DB) *StatsController {
	return &StatsController{store: s, db: db, now: time.Now}
}

type pathCount struct {
	Path  string `json:"path"`
	Count int64  `json:"count"`
}

// GetStats returns aggregate statistics for the board.
func (s *StatsController) GetStats(ctx *gin.Context) {
	counts := s.store.Stats()
	payload := gin.H{
		"post_count":    counts.Posts,
		"comment_count": counts.Comments,
		"user_count":    counts.Users,
	}

	if s.db != nil {
		today := models.Day(s.now())

		var views int64
		if err := s.db.Model(&models.PageView{}).
			Where("date = ?", today).
			Select("COALESCE(SUM(count),0)").
			Scan(&views).Error; err != nil {
			// Fallback to 0 instead of failing the whole endpoint
			utils.S().Warnw("sum page views failed", append(requestLogFields(ctx), "error", err)...)
			views = 0
		}

		top := []pathCount{}
		if err := s.db.Model(&models.PageView{}).
			Where("date = ?", today).
			Order("count DESC").
			Order("path ASC").
			Limit(topPathsLimit).
			Select("path", "count").
			Scan(&top).Error; err != nil {
			utils.S().Warnw("top paths failed", append(requestLogFields(ctx), "error", err)...)
			top = []pathCount{}
		}

		payload["page_views_today"] = views
		payload["top_paths_today"] = top
	}

	utils.Success(ctx, payload)
}
