package main

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cppla/rankbbs/config"
	"github.com/cppla/rankbbs/models"
	"github.com/cppla/rankbbs/routes"
	"github.com/cppla/rankbbs/store"
	"github.com/cppla/rankbbs/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	board := store.New()
	if cfg.SeedDemoData {
		if err := store.Seed(board); err != nil {
			utils.Logger.Fatal("seed demo data", zap.Error(err))
		}
		stats := board.Stats()
		utils.Logger.Info("demo data loaded", zap.Int("posts", stats.Posts), zap.Int("comments", stats.Comments))
	}

	var db *gorm.DB
	if cfg.AnalyticsEnabled {
		var err error
		db, err = config.InitDatabase(cfg, &models.PageView{})
		if err != nil {
			utils.Logger.Fatal("init analytics database", zap.Error(err))
		}
	}

	if err := utils.InitRedis(ctx, cfg); err != nil {
		utils.Logger.Warn("redis unavailable, token blacklist kept in memory", zap.Error(err))
	}
	defer func() { _ = utils.CloseRedis() }()
	utils.StartBlacklistJanitor(ctx, 5*time.Minute)

	hub := utils.NewHub(cfg.AllowedOrigins)
	go hub.Run(ctx)

	r := routes.SetupRouter(board, cfg, db, hub)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r, cancel); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
