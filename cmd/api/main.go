package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cms-admin/internal/config"
	"cms-admin/internal/database"
	"cms-admin/internal/repository/postgres"
	"cms-admin/internal/router"
	"cms-admin/pkg/logger"
)

func main() {
	// config + logger
	cfg := config.Load()
	l := logger.New(cfg.Env)

	// db
	pool, err := database.Open(context.Background(), cfg)
	if err != nil {
		l.Fatal().Err(err).Msg("db connect failed")
	}
	defer pool.Close()

	// schema is owned by the binary: pending migrations run before serving
	if err := database.Migrate(context.Background(), pool); err != nil {
		l.Fatal().Err(err).Msg("migrations failed")
	}

	// http
	r := router.New(router.Deps{
		Cfg:        cfg,
		Log:        l,
		Users:      postgres.NewUserRepo(pool),
		Complaints: postgres.NewComplaintRepo(pool),
		Pages:      postgres.NewPageRepo(pool),
		Posts:      postgres.NewPostRepo(pool),
		Categories: postgres.NewCategoryRepo(pool),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		l.Info().Str("addr", srv.Addr).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	l.Info().Msg("shutdown complete")
}
