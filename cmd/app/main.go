// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chat-assistant-backend/internal/config"
	"chat-assistant-backend/internal/domain/ports/adapter"
	aiAdapter "chat-assistant-backend/internal/infra/adapters/ai"
	"chat-assistant-backend/internal/infra/adapters/assemblyai"
	"chat-assistant-backend/internal/infra/adapters/imagegen"
	"chat-assistant-backend/internal/infra/adapters/knowledge"
	newsAdapter "chat-assistant-backend/internal/infra/adapters/news"
	"chat-assistant-backend/internal/infra/adapters/speech"
	visionAdapter "chat-assistant-backend/internal/infra/adapters/vision"
	weatherAdapter "chat-assistant-backend/internal/infra/adapters/weather"
	pg "chat-assistant-backend/internal/infra/db/postgres"
	"chat-assistant-backend/internal/infra/logging"
	"chat-assistant-backend/internal/infra/media"
	"chat-assistant-backend/internal/infra/metrics"
	red "chat-assistant-backend/internal/infra/redis"
	"chat-assistant-backend/internal/infra/web"
	"chat-assistant-backend/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	for _, key := range cfg.MissingProviderKeys() {
		logger.Warn().Str("key", key).Msg("provider key missing; dependent routes will be unavailable")
	}

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("postgres schema")
	}

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)
	jobStore := red.NewTranscriptionJobStore(redisClient, cfg.Redis.TTL, logger)

	// ---- Media storage ----
	mediaStore, err := media.NewStore(cfg.Server.MediaDir, cfg.Server.MediaBaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("media store")
	}

	// ---- Provider adapters (nil when unconfigured; routes degrade) ----
	var completion adapter.CompletionAdapter
	if cfg.Providers.GroqKey != "" {
		completion, err = aiAdapter.NewGroqAdapter(cfg.Providers.GroqKey, cfg.Providers.GroqModel, cfg.Providers.Temperature, cfg.Providers.MaxTokens)
		if err != nil {
			logger.Fatal().Err(err).Msg("groq adapter")
		}
		logger.Info().Str("model", cfg.Providers.GroqModel).Msg("completion adapter: groq")
	}

	var stt adapter.TranscriptionAdapter
	if cfg.Providers.AssemblyAIKey != "" {
		stt, err = assemblyai.NewClient(cfg.Providers.AssemblyAIKey, cfg.Transcription, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("assemblyai client")
		}
		logger.Info().
			Dur("poll_interval", cfg.Transcription.PollInterval).
			Dur("max_wait", cfg.Transcription.MaxWait).
			Msg("transcription adapter: assemblyai")
	}

	var vision adapter.VisionAdapter
	if cfg.Providers.HFKey != "" {
		vision, err = visionAdapter.NewHuggingFaceClassifier(cfg.Providers.HFKey, cfg.Providers.HTTPTimeout)
		if err != nil {
			logger.Fatal().Err(err).Msg("huggingface classifier")
		}
	}

	var weather adapter.WeatherAdapter
	if cfg.Providers.WeatherKey != "" {
		weather, err = weatherAdapter.NewWeatherAPI(cfg.Providers.WeatherKey, cfg.Providers.HTTPTimeout)
		if err != nil {
			logger.Fatal().Err(err).Msg("weather adapter")
		}
	}

	var news adapter.NewsAdapter
	if cfg.Providers.NewsKey != "" {
		news, err = newsAdapter.NewNewsAPI(cfg.Providers.NewsKey, cfg.Providers.HTTPTimeout)
		if err != nil {
			logger.Fatal().Err(err).Msg("news adapter")
		}
	}

	tts := speech.NewGoogleTTS(cfg.Providers.HTTPTimeout)
	images := imagegen.NewPollinations(cfg.Providers.HTTPTimeout)
	lookups := knowledge.NewClient(cfg.Providers.HTTPTimeout)

	// ---- Repositories & use cases ----
	turnsRepo := pg.NewConversationRepo(pool)
	chatUC := usecase.NewChatUseCase(turnsRepo, completion)
	transcriptionUC := usecase.NewTranscriptionUseCase(stt, jobStore, logger)
	historyUC := usecase.NewHistoryUseCase(turnsRepo)
	mediaUC := usecase.NewMediaUseCase(tts, images, mediaStore)
	visionUC := usecase.NewVisionUseCase(vision)
	gateway := usecase.NewRequestGateway(logger)

	// ---- HTTP ----
	metrics.MustRegister()
	server := web.NewServer(&cfg.Server, web.Deps{
		Chat:          chatUC,
		Transcription: transcriptionUC,
		History:       historyUC,
		Media:         mediaUC,
		Vision:        visionUC,
		Weather:       weather,
		News:          news,
		Knowledge:     lookups,
		Gateway:       gateway,
		Limiter:       rateLimiter,
	}, logger)

	go func() {
		if err := server.Start(mediaStore.Dir()); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server")
		}
	}()

	// ---- Graceful shutdown ----
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}
