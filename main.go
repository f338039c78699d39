package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vedalipi/config"
	"vedalipi/gemini"
	"vedalipi/handlers"
	"vedalipi/llm"
	"vedalipi/metrics"
	"vedalipi/ocr"
	"vedalipi/service"
	"vedalipi/session"
	"vedalipi/stubllm"
	"vedalipi/version"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Warn("Warning: .env file not found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if level, err := log.ParseLevel(cfg.LogLevel); err != nil {
		log.Warnf("Unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		log.SetLevel(log.InfoLevel)
	} else {
		log.SetLevel(level)
	}
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics.Register()

	extractor, err := newExtractor(cfg)
	if err != nil {
		log.Fatalf("Failed to create OCR extractor: %v", err)
	}
	gen := newGenerator(cfg)

	log.WithFields(log.Fields{
		"ocr":    extractor.Name(),
		"llm":    gen.SourceName(),
		"source": config.LanguageName(cfg.SourceLanguage),
		"target": config.LanguageName(cfg.TargetLanguage),
	}).Info("Starting the manuscript service...")

	pipeline := service.NewPipeline(
		extractor,
		service.NewTranslator(gen, cfg.SourceLanguage, cfg.TargetLanguage),
		service.NewInterpreter(gen),
		cfg.SourceLanguage,
		cfg.MaxImageDimension,
	)

	store := session.NewStore(cfg.SessionIdleTTL)
	store.Start(cfg.SessionIdleTTL / 4)

	info := version.Get(handlers.ServiceName)
	info.OCR = extractor.Name()
	info.LLM = gen.SourceName()

	h := handlers.NewHandlers(pipeline, service.NewResponder(gen), store, cfg.MaxUploadBytes, info)
	router := handlers.NewRouter(h, handlers.RouterOptions{
		AllowedOrigins:     cfg.AllowedOrigins,
		SessionCookie:      cfg.SessionCookie,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Starting HTTP server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}
	store.Stop()

	log.Info("Server exited")
}

func newExtractor(cfg *config.Config) (ocr.Extractor, error) {
	switch cfg.OCRProvider {
	case config.OCRProviderTesseract:
		return ocr.NewTesseractEngine()
	default:
		return ocr.NewVisionClient(cfg.VisionAPIKey, cfg.VisionEndpoint, cfg.UpstreamTimeout), nil
	}
}

func newGenerator(cfg *config.Config) llm.Generator {
	switch cfg.LLMProvider {
	case config.LLMProviderStub:
		log.Warn("LLM_PROVIDER=stub: translations and answers are placeholders")
		return stubllm.NewClient()
	default:
		return gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiEndpoint, cfg.UpstreamTimeout)
	}
}
