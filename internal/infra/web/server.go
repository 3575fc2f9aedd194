package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"chat-assistant-backend/internal/config"
	"chat-assistant-backend/internal/domain/ports/adapter"
	red "chat-assistant-backend/internal/infra/redis"
	"chat-assistant-backend/internal/usecase"
)

// Server wires the /api surface consumed by the React frontend.
type Server struct {
	cfg           *config.ServerConfig
	chat          usecase.ChatUseCase
	transcription usecase.TranscriptionUseCase
	history       usecase.HistoryUseCase
	media         usecase.MediaUseCase
	vision        usecase.VisionUseCase
	weather       adapter.WeatherAdapter
	news          adapter.NewsAdapter
	knowledge     adapter.KnowledgeAdapter
	gateway       *usecase.RequestGateway
	limiter       *red.RateLimiter
	log           *zerolog.Logger

	srv *http.Server
}

type Deps struct {
	Chat          usecase.ChatUseCase
	Transcription usecase.TranscriptionUseCase
	History       usecase.HistoryUseCase
	Media         usecase.MediaUseCase
	Vision        usecase.VisionUseCase
	Weather       adapter.WeatherAdapter
	News          adapter.NewsAdapter
	Knowledge     adapter.KnowledgeAdapter
	Gateway       *usecase.RequestGateway
	Limiter       *red.RateLimiter
}

func NewServer(cfg *config.ServerConfig, deps Deps, log *zerolog.Logger) *Server {
	return &Server{
		cfg:           cfg,
		chat:          deps.Chat,
		transcription: deps.Transcription,
		history:       deps.History,
		media:         deps.Media,
		vision:        deps.Vision,
		weather:       deps.Weather,
		news:          deps.News,
		knowledge:     deps.Knowledge,
		gateway:       deps.Gateway,
		limiter:       deps.Limiter,
		log:           log,
	}
}

// Router builds the chi router with all middleware and routes attached.
func (s *Server) Router(mediaDir string) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(s.log))
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   s.cfg.Origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("API is working!"))
	})
	r.Get("/api/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	// Provider-backed routes sit behind the redis rate limiter.
	throttled := rateLimit(s.limiter, s.cfg.RateLimit, s.cfg.RateWindow, s.log)
	r.Group(func(r chi.Router) {
		r.Use(throttled)
		r.Post("/api/chat", s.handleChat)
		r.Post("/api/suggestions", s.handleSuggestions)
		r.Post("/api/stt", s.handleSTT)
		r.Post("/api/tts", s.handleTTS)
		r.Post("/api/vision", s.handleVision)
		r.Post("/api/image", s.handleImageGen)
	})

	r.Get("/api/stt/{jobId}", s.handleJobStatus)

	r.Route("/api/history", func(r chi.Router) {
		r.Post("/{userId}/{conversationId}", s.handleAppendTurn)
		r.Get("/{userId}/{conversationId}", s.handleGetHistory)
		r.Delete("/{userId}/{conversationId}", s.handleClearConversation)
		r.Delete("/{userId}", s.handleClearAllHistory)
	})

	r.Get("/api/weather", s.handleWeather)
	r.Get("/api/news", s.handleNews)
	r.Route("/api/knowledge", func(r chi.Router) {
		r.Get("/wiki", s.handleWiki)
		r.Get("/define", s.handleDefine)
		r.Get("/quote", s.handleQuote)
		r.Get("/joke", s.handleJoke)
	})

	// Generated media (tts audio, images) served statically.
	fileServer := http.StripPrefix("/media/", http.FileServer(http.Dir(mediaDir)))
	r.Get("/media/*", fileServer.ServeHTTP)

	return r
}

// Start blocks serving HTTP until Shutdown or a listener error.
func (s *Server) Start(mediaDir string) error {
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.Router(mediaDir),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // STT polling can hold a response open
		IdleTimeout:  time.Minute,
	}
	s.log.Info().Int("port", s.cfg.Port).Msg("http server listening")
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
