package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"chat-assistant-backend/internal/domain/model"
	"chat-assistant-backend/internal/usecase"
)

// maxUploadBytes bounds multipart bodies (audio and image uploads).
const maxUploadBytes = 32 << 20

type chatRequest struct {
	Message        string `json:"message"`
	UserID         string `json:"userId"`
	ConversationID string `json:"conversationId"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "no message provided"})
		return
	}

	slot := "chat:" + req.UserID + ":" + req.ConversationID
	if req.UserID == "" {
		slot = "chat:" + r.RemoteAddr
	}

	var reply string
	h := s.gateway.Start(r.Context(), slot, func(ctx context.Context) error {
		var err error
		reply, err = s.chat.SendMessage(ctx, req.UserID, req.ConversationID, req.Message)
		return err
	})
	if err := h.Wait(); err != nil {
		writeError(w, err, "sorry, I am unable to respond right now")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"response": reply})
}

type suggestionsRequest struct {
	Reply string `json:"reply"`
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	var req suggestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Reply == "" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"suggestions": {}})
		return
	}
	suggestions, err := s.chat.Suggestions(r.Context(), req.Reply)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string][]string{"suggestions": {}})
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"suggestions": suggestions})
}

func (s *Server) handleSTT(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "no audio file uploaded"})
		return
	}
	file, header, err := r.FormFile("audio")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "no audio file uploaded"})
		return
	}
	defer file.Close()
	audio, err := io.ReadAll(file)
	if err != nil || len(audio) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "no audio file uploaded"})
		return
	}
	s.log.Info().Str("filename", header.Filename).Msg("received audio file")

	slot := "stt:" + r.RemoteAddr
	var result *usecase.TranscriptResult
	h := s.gateway.Start(r.Context(), slot, func(ctx context.Context) error {
		var err error
		result, err = s.transcription.Transcribe(ctx, header.Filename, audio)
		return err
	})
	if err := h.Wait(); err != nil {
		writeError(w, err, "STT failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	job, err := s.transcription.JobStatus(r.Context(), chi.URLParam(r, "jobId"))
	if err != nil {
		writeError(w, err, "job not found")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

type ttsRequest struct {
	Text string `json:"text"`
	Lang string `json:"lang"`
}

func (s *Server) handleTTS(w http.ResponseWriter, r *http.Request) {
	var req ttsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "no text provided"})
		return
	}
	audioURL, err := s.media.Speak(r.Context(), req.Text, req.Lang)
	if err != nil {
		writeError(w, err, "TTS failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"audioUrl": audioURL})
}

func (s *Server) handleVision(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "no image uploaded"})
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "no image uploaded"})
		return
	}
	defer file.Close()
	image, err := io.ReadAll(file)
	if err != nil || len(image) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "no image uploaded"})
		return
	}
	s.log.Info().Str("filename", header.Filename).Msg("received image file")

	match, err := s.vision.Analyze(r.Context(), r.FormValue("prompt"), image)
	if err != nil {
		writeError(w, err, "image analysis failed")
		return
	}
	writeJSON(w, http.StatusOK, match)
}

type imageRequest struct {
	Prompt string `json:"prompt"`
}

func (s *Server) handleImageGen(w http.ResponseWriter, r *http.Request) {
	var req imageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Prompt == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "prompt is required"})
		return
	}
	img, err := s.media.GenerateImage(r.Context(), req.Prompt)
	if err != nil {
		writeError(w, err, "image generation failed")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

// ---- History ----

type appendTurnRequest struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
	Image  string `json:"image"`
}

func (s *Server) handleAppendTurn(w http.ResponseWriter, r *http.Request) {
	var req appendTurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	turn := &model.ConversationTurn{
		UserID:         chi.URLParam(r, "userId"),
		ConversationID: chi.URLParam(r, "conversationId"),
		Sender:         model.Sender(req.Sender),
		Text:           req.Text,
		Image:          req.Image,
	}
	if err := s.history.Append(r.Context(), turn); err != nil {
		writeError(w, err, "error saving message")
		return
	}
	writeJSON(w, http.StatusCreated, turn)
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	turns, err := s.history.List(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "conversationId"))
	if err != nil {
		writeError(w, err, "error fetching history")
		return
	}
	writeJSON(w, http.StatusOK, turns)
}

func (s *Server) handleClearConversation(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.history.ClearConversation(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "conversationId"))
	if err != nil {
		writeError(w, err, "error clearing conversation")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "conversation cleared successfully",
		"deleted": deleted,
	})
}

func (s *Server) handleClearAllHistory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	deleted, err := s.history.ClearAllForUser(r.Context(), userID)
	if err != nil {
		writeError(w, err, "error clearing all history")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("all history cleared for user %s", userID),
		"deleted": deleted,
	})
}

// ---- Lookups ----

func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	if s.weather == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "weather provider not configured"})
		return
	}
	city := r.URL.Query().Get("city")
	if city == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "city is required"})
		return
	}
	report, err := s.weather.Current(r.Context(), city)
	if err != nil {
		writeError(w, err, "failed to fetch weather data")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	if s.news == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "news provider not configured"})
		return
	}
	q := r.URL.Query()
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))
	articles, err := s.news.Search(r.Context(), q.Get("query"), q.Get("lang"), pageSize)
	if err != nil {
		writeError(w, err, "failed to fetch news")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"query":    q.Get("query"),
		"total":    len(articles),
		"articles": articles,
	})
}

func (s *Server) handleWiki(w http.ResponseWriter, r *http.Request) {
	summary, err := s.knowledge.WikiSummary(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err, "wikipedia lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleDefine(w http.ResponseWriter, r *http.Request) {
	def, err := s.knowledge.Define(r.Context(), r.URL.Query().Get("word"))
	if err != nil {
		writeError(w, err, "dictionary lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, def)
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	quote, err := s.knowledge.Quote(r.Context())
	if err != nil {
		writeError(w, err, "quote fetch failed")
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (s *Server) handleJoke(w http.ResponseWriter, r *http.Request) {
	joke, err := s.knowledge.Joke(r.Context())
	if err != nil {
		writeError(w, err, "joke fetch failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"joke": joke})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
