package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/cinemood/internal/api"
	"github.com/wonny/cinemood/internal/api/handlers"
	"github.com/wonny/cinemood/internal/recommend"
	"github.com/wonny/cinemood/pkg/logger"
	"github.com/wonny/cinemood/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "추천 API 서버 시작",
	Long: `읽기 전용 추천 API 서버를 시작합니다.
카탈로그가 빌드되기 전에도 기동되며, 이 경우 조회 요청은 412를 반환합니다.

Endpoints:
  GET  /health                               - 저장소 ping (카탈로그 내용은 읽지 않음)
  GET  /titles?query=&limit=                 - 제목 부분 검색
  GET  /recommendations?mood=&k=&min_count=  - 기분별 추천
  GET  /moods                                - 기분 → 장르 테이블

Example:
  go run ./cmd/cinemood api
  go run ./cmd/cinemood api --port 8000`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본: PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== cinemood API Server ===")

	// 1. Load config
	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Connect to store and redis
	deps, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer deps.Close()

	// 4. Mood table (immutable for the process lifetime)
	moods, err := loadMoods(cfg, log)
	if err != nil {
		return err
	}

	// 5. Recommendation engine (+ response cache)
	engine := recommend.NewEngine(deps.repo, moods, log)
	recommender := recommend.NewCachedRecommender(engine, deps.cache, cfg.API.CacheTTL, log)

	// 6. Create handler and router
	catalogHandler := handlers.NewCatalogHandler(recommender, deps.repo, log)
	router := api.NewRouter(catalogHandler, api.RouterConfig{
		CORSAllowedOrigins: cfg.API.CORSAllowedOrigins,
		Limiter: api.NewClientLimiter(cfg.API.RateLimitPerMinute,
			redis.NewRateLimiter(deps.redis, redisPrefix)),
	}, log)

	// 7. Create servers
	servers := []*api.Server{api.New(cfg, log, router)}
	if cfg.MetricsEnabled {
		servers = append(servers, api.NewMetricsServer(cfg, log))
	}

	// 8. Start servers with graceful shutdown
	errCh := make(chan error, len(servers))
	for _, s := range servers {
		go func(s *api.Server) {
			if err := s.Start(); err != nil {
				errCh <- err
			}
		}(s)
	}

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	if cfg.MetricsEnabled {
		fmt.Printf("📈 Metrics on http://localhost:%s/metrics\n", cfg.MetricsPort)
	}
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  GET  /titles")
	fmt.Println("  GET  /recommendations")
	fmt.Println("  GET  /moods")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal or a server failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	var runErr error
	select {
	case <-quit:
	case runErr = <-errCh:
		log.WithError(runErr).Error("Server failed")
	}

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, s := range servers {
		if err := s.Shutdown(ctx); err != nil && runErr == nil {
			runErr = fmt.Errorf("server shutdown failed: %w", err)
		}
	}

	log.Info("Server stopped")
	return runErr
}
