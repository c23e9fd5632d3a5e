package app

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vietanh2810/gametables-api/internal/api"
	"github.com/vietanh2810/gametables-api/internal/config"
	"github.com/vietanh2810/gametables-api/internal/db"
	"github.com/vietanh2810/gametables-api/internal/dispatch"
	"github.com/vietanh2810/gametables-api/internal/logger"
	"github.com/vietanh2810/gametables-api/internal/repository"
	"github.com/vietanh2810/gametables-api/internal/repository/dao"
	"github.com/vietanh2810/gametables-api/internal/scheduler"
)

func Start() error {
	ctx := context.Background()

	conf, err := config.Load("./cmd/app/config.yml")
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	users := repository.NewUserRepository(dao.NewUserDAO(postgresDB))
	if err = users.SyncRoleGrants(ctx, conf.Roles); err != nil {
		return fmt.Errorf("failed to sync role grants -> %w", err)
	}

	sinks := []dispatch.Sink{dispatch.LogSink{}}
	if conf.Redis.Enabled() {
		rdb, err := db.OpenRedis(ctx, conf.Redis)
		if err != nil {
			return fmt.Errorf("failed to initialize redis -> %w", err)
		}
		defer rdb.Close()
		sinks = append(sinks, dispatch.NewRedisSink(rdb, conf.Redis.Channel))
	}

	s := api.NewServer(conf, postgresDB, dispatch.New(sinks...))

	if conf.Scheduler.Enabled {
		jobs := scheduler.New(s.Tables)
		if err = jobs.Register(conf.Scheduler.Spec); err != nil {
			return fmt.Errorf("failed to schedule table lifecycle -> %w", err)
		}
		jobs.Start()
		defer jobs.Stop()
	}

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}
