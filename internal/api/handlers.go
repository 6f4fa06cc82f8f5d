// Package api exposes the matching engine over a local HTTP API and an MCP
// tool surface. All routes except /health require the bearer token.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kalambet/attune/internal/matching"
	"github.com/kalambet/attune/internal/storage"
)

const maxBodySize = 1 << 20 // 1MB

// maxTopK caps per-request result counts; the whole point of the ranker is
// a short list.
const maxTopK = 100

// AppDeps holds the handler dependencies.
type AppDeps struct {
	Store   *storage.Store
	Matcher *matching.Matcher
	Token   string
}

// NewHandler builds the chi router for the attune API.
func NewHandler(deps AppDeps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(deps.Token))

		r.Get("/match/{entityID}", handleMatch(deps))
		r.Post("/entities", handleCreateEntity(deps))
		r.Get("/entities/{id}", handleGetEntity(deps))
		r.Put("/entities/{id}/answers", handlePutAnswers(deps))
		r.Get("/entities/{id}/answers", handleListAnswers(deps))
		r.Get("/therapists", handleListTherapists(deps))
		r.Get("/vocabulary", handleVocabulary(deps))
	})

	return r
}

func handleMatch(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entityID := chi.URLParam(r, "entityID")

		if _, err := deps.Store.GetEntity(entityID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				httpError(w, http.StatusNotFound, "not_found_error", "entity %s not found", entityID)
				return
			}
			httpError(w, http.StatusInternalServerError, "api_error", "loading entity: %v", err)
			return
		}

		topK := 0
		if raw := r.URL.Query().Get("top_k"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "top_k must be a positive integer")
				return
			}
			topK = n
		}
		if topK > maxTopK {
			topK = maxTopK
		}

		results, err := deps.Matcher.Rank(r.Context(), entityID, topK)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "ranking failed: %v", err)
			return
		}
		if results == nil {
			results = []matching.Result{}
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"entity_id": entityID,
			"matches":   results,
		})
	}
}

type entityRequest struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Matchable *bool  `json:"matchable"`
}

type entityResponse struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Matchable bool   `json:"matchable"`
}

func handleCreateEntity(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
		defer r.Body.Close()

		var req entityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Role != string(matching.RoleUser) && req.Role != string(matching.RoleTherapist) {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "role must be %q or %q", matching.RoleUser, matching.RoleTherapist)
			return
		}

		if req.ID == "" {
			req.ID = uuid.New().String()
		}
		matchable := req.Role == string(matching.RoleTherapist)
		if req.Matchable != nil {
			matchable = *req.Matchable
		}

		if err := deps.Store.SaveEntity(storage.Entity{
			ID:          req.ID,
			Role:        req.Role,
			DisplayName: req.Name,
			Email:       req.Email,
			Matchable:   matchable,
		}); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "saving entity: %v", err)
			return
		}

		writeJSON(w, http.StatusCreated, entityResponse{
			ID:        req.ID,
			Role:      req.Role,
			Name:      req.Name,
			Email:     req.Email,
			Matchable: matchable,
		})
	}
}

func handleGetEntity(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		e, err := deps.Store.GetEntity(id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found_error", "entity %s not found", id)
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "loading entity: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, entityResponse{
			ID:        e.ID,
			Role:      e.Role,
			Name:      e.DisplayName,
			Email:     e.Email,
			Matchable: e.Matchable,
		})
	}
}

func handlePutAnswers(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
		defer r.Body.Close()

		id := chi.URLParam(r, "id")
		if _, err := deps.Store.GetEntity(id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				httpError(w, http.StatusNotFound, "not_found_error", "entity %s not found", id)
				return
			}
			httpError(w, http.StatusInternalServerError, "api_error", "loading entity: %v", err)
			return
		}

		var req struct {
			Answers map[string]json.RawMessage `json:"answers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if len(req.Answers) == 0 {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "answers is required")
			return
		}

		count := 0
		for key, raw := range req.Answers {
			qid, err := strconv.Atoi(key)
			if err != nil {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "answer key %q is not a question ID", key)
				return
			}
			if err := deps.Store.UpsertAnswer(id, qid, rawAnswerValue(raw)); err != nil {
				httpError(w, http.StatusInternalServerError, "api_error", "saving answer %d: %v", qid, err)
				return
			}
			count++
		}

		writeJSON(w, http.StatusOK, map[string]any{"entity_id": id, "saved": count})
	}
}

func handleListAnswers(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		answers, err := deps.Store.ListAnswers(id)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "listing answers: %v", err)
			return
		}

		type answerResponse struct {
			QuestionID int    `json:"question_id"`
			Answer     string `json:"answer"`
		}
		out := make([]answerResponse, len(answers))
		for i, a := range answers {
			out[i] = answerResponse{QuestionID: a.QuestionID, Answer: a.Value}
		}
		writeJSON(w, http.StatusOK, map[string]any{"entity_id": id, "answers": out})
	}
}

func handleListTherapists(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		refs, err := deps.Store.ListTherapists()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "listing therapists: %v", err)
			return
		}
		if refs == nil {
			refs = []matching.TherapistRef{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"therapists": refs})
	}
}

func handleVocabulary(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vocab, err := matching.BuildVocabulary(deps.Store)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "building vocabulary: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"by_category": vocab.ByCategory,
			"categories":  vocab.Categories,
		})
	}
}

// rawAnswerValue stores string answers as plain text and anything else
// (lists, slider maps) as its JSON encoding — the raw_value contract.
func rawAnswerValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
