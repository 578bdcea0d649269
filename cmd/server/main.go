package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"huffpack_go/internal/config"
	"huffpack_go/internal/handler"
	"huffpack_go/internal/repo"
	"huffpack_go/internal/router"
	"huffpack_go/internal/service"
	"huffpack_go/pkg/logger"
)

func main() {
	// 설정/로거 초기화
	cfg := config.Load()
	logg := logger.NewWithLevel(cfg.LogLevel)

	// 의존성 생성
	runRepo := repo.NewRunRepoInMemory()
	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		pool, err := repo.Open(ctx, cfg.DatabaseURL)
		if err == nil {
			err = repo.Migrate(ctx, pool)
		}
		cancel()
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer pool.Close()
		runRepo = repo.NewRunRepoPostgres(pool)
		logg.Infof("storing runs in postgres")
	}
	codecSvc := service.NewCodecService(runRepo, logg, cfg.CodecOptions(logg), cfg.CompareZstd)
	codecH := handler.NewCodecHandler(codecSvc, cfg.MaxBodyBytes)

	// Gin 라우터 생성 및 라우팅 구성
	r := gin.Default()
	router.Register(r, router.Dependencies{
		CodecHandler: codecH,
	})

	addr := ":" + cfg.Port
	log.Printf("starting server at %s\n", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
