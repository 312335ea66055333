package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/Aashish23092/scorecard-ocr/client"
	"github.com/Aashish23092/scorecard-ocr/config"
	"github.com/Aashish23092/scorecard-ocr/handler"
	"github.com/Aashish23092/scorecard-ocr/logger"
	"github.com/Aashish23092/scorecard-ocr/service"
	"github.com/Aashish23092/scorecard-ocr/utils/scorecard"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	log := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
	log.WithFields(logrus.Fields{
		"env":          cfg.Env,
		"ocr_provider": cfg.OCRProvider,
		"port":         cfg.ServerPort,
	}).Info("Starting scorecard service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ocr := buildOCR(cfg, log)
	store := buildStore(ctx, cfg, log)
	metrics := service.NewMetrics()

	preprocess := client.DefaultPreprocessOptions()
	preprocess.Binarize = cfg.OCRBinarize

	labeler := scorecard.ContentLabeler{}
	interpreter := scorecard.NewInterpreter(
		scorecard.WithLabeler(labeler),
		scorecard.WithRowTolerance(cfg.RowTolerance),
	)

	reader := service.NewDocumentReader(ocr, service.NewPDFProcessor(), preprocess, metrics, log)
	scorecardService := service.NewScorecardService(reader, interpreter, labeler, store, metrics, cfg.DefaultHoleCount, log)
	scorecardHandler := handler.NewScorecardHandler(scorecardService, cfg.MaxFileSize, log)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	// Configure max multipart memory (32 MB)
	router.MaxMultipartMemory = 32 << 20

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Scorecard OCR",
		})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	limiter := handler.NewIPRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	scorecardHandler.RegisterRoutes(router.Group("/api/v1"), handler.RateLimit(limiter))

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}
}

// buildOCR selects the OCR chain. Remote PaddleOCR calls go through a
// circuit breaker; "auto" falls back to local Tesseract.
func buildOCR(cfg *config.Config, log *logrus.Logger) service.OCRProvider {
	if cfg.TesseractDataPath != "" {
		os.Setenv("TESSDATA_PREFIX", cfg.TesseractDataPath)
	}
	tesseract := client.NewTesseractClient(cfg.TesseractDataPath, log)
	paddle := client.NewBreaker(
		client.NewPaddleClient(cfg.PaddleOCRURL, cfg.OCRTimeout, log),
		cfg.BreakerMaxRequests, cfg.BreakerTimeout, log,
	)

	switch cfg.OCRProvider {
	case "paddle":
		return service.NewFallbackOCR(log, paddle)
	case "tesseract":
		return service.NewFallbackOCR(log, tesseract)
	}
	return service.NewFallbackOCR(log, paddle, tesseract)
}

func buildStore(ctx context.Context, cfg *config.Config, log *logrus.Logger) service.TeamStore {
	if cfg.RedisURL == "" {
		log.Info("REDIS_URL not set, keeping teams in memory")
		return service.NewMemoryTeamStore()
	}

	rdb, err := service.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to Redis")
	}
	log.WithField("ttl", cfg.TeamTTL).Info("Storing teams in Redis")
	return service.NewRedisTeamStore(rdb, cfg.TeamTTL, log)
}
