// Package api provides HTTP handlers for the API.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/studyset-api/internal/api/shared"
	"github.com/phrazzld/studyset-api/internal/domain"
	"github.com/phrazzld/studyset-api/internal/platform/logger"
	"github.com/phrazzld/studyset-api/internal/service"
)

// SetHandler handles flashcard-set HTTP requests
type SetHandler struct {
	setService service.SetService
	logger     *slog.Logger
}

// NewSetHandler creates a new SetHandler
func NewSetHandler(setService service.SetService, logger *slog.Logger) *SetHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SetHandler")
	}

	return &SetHandler{
		setService: setService,
		logger:     logger.With(slog.String("component", "set_handler")),
	}
}

// ListSets handles GET /api/sets requests.
// It returns summaries of every set owned by the authenticated user,
// most recently updated first.
func (h *SetHandler) ListSets(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := h.requireUserID(w, r, log)
	if !ok {
		return
	}

	sets, err := h.setService.ListSets(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, setsToSummaries(sets))
}

// ListPublicSets handles GET /api/sets/public requests.
// The public listing sits outside the ownership gate and needs no
// authentication.
func (h *SetHandler) ListPublicSets(w http.ResponseWriter, r *http.Request) {
	sets, err := h.setService.ListPublicSets(r.Context(), 0)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, setsToSummaries(sets))
}

// CreateSet handles POST /api/sets requests.
func (h *SetHandler) CreateSet(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := h.requireUserID(w, r, log)
	if !ok {
		return
	}

	var req CreateSetRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	input := service.CreateSetInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Tags:        req.Tags,
		IsPublic:    req.IsPublic,
	}
	for _, card := range req.Cards {
		input.Cards = append(input.Cards, service.CardInput{
			Question: card.Question,
			Answer:   card.Answer,
		})
	}

	set, err := h.setService.CreateSet(r.Context(), userID, input)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("created set",
		slog.String("set_id", set.ID.String()),
		slog.String("user_id", userID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, setToDetail(set))
}

// GetSet handles GET /api/sets/{id} requests.
func (h *SetHandler) GetSet(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := h.requireUserID(w, r, log)
	if !ok {
		return
	}

	setID, ok := h.parseIDParam(w, r, "id", "Invalid set ID")
	if !ok {
		return
	}

	set, err := h.setService.GetSet(r.Context(), userID, setID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, setToDetail(set))
}

// UpdateSet handles PUT /api/sets/{id} requests.
// Only the fields present in the request body change.
func (h *SetHandler) UpdateSet(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := h.requireUserID(w, r, log)
	if !ok {
		return
	}

	setID, ok := h.parseIDParam(w, r, "id", "Invalid set ID")
	if !ok {
		return
	}

	var req UpdateSetRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	update := domain.SetUpdate{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Tags:        req.Tags,
		IsPublic:    req.IsPublic,
	}

	set, err := h.setService.UpdateSet(r.Context(), userID, setID, update)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, setToDetail(set))
}

// DeleteSet handles DELETE /api/sets/{id} requests.
func (h *SetHandler) DeleteSet(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := h.requireUserID(w, r, log)
	if !ok {
		return
	}

	setID, ok := h.parseIDParam(w, r, "id", "Invalid set ID")
	if !ok {
		return
	}

	if err := h.setService.DeleteSet(r.Context(), userID, setID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("deleted set",
		slog.String("set_id", setID.String()),
		slog.String("user_id", userID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// AddCard handles POST /api/sets/{id}/cards requests.
func (h *SetHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := h.requireUserID(w, r, log)
	if !ok {
		return
	}

	setID, ok := h.parseIDParam(w, r, "id", "Invalid set ID")
	if !ok {
		return
	}

	var req CardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	set, err := h.setService.AddCard(r.Context(), userID, setID, req.Question, req.Answer)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, setToDetail(set))
}

// UpdateCard handles PUT /api/sets/{id}/cards/{cardId} requests.
// The card's review state is untouched; only its text changes.
func (h *SetHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := h.requireUserID(w, r, log)
	if !ok {
		return
	}

	setID, ok := h.parseIDParam(w, r, "id", "Invalid set ID")
	if !ok {
		return
	}
	cardID, ok := h.parseIDParam(w, r, "cardId", "Invalid card ID")
	if !ok {
		return
	}

	var req CardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	set, err := h.setService.UpdateCard(r.Context(), userID, setID, cardID, req.Question, req.Answer)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, setToDetail(set))
}

// RemoveCard handles DELETE /api/sets/{id}/cards/{cardId} requests.
func (h *SetHandler) RemoveCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := h.requireUserID(w, r, log)
	if !ok {
		return
	}

	setID, ok := h.parseIDParam(w, r, "id", "Invalid set ID")
	if !ok {
		return
	}
	cardID, ok := h.parseIDParam(w, r, "cardId", "Invalid card ID")
	if !ok {
		return
	}

	set, err := h.setService.RemoveCard(r.Context(), userID, setID, cardID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, setToDetail(set))
}

// RecordReview handles POST /api/sets/{id}/cards/{cardId}/review requests.
func (h *SetHandler) RecordReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := h.requireUserID(w, r, log)
	if !ok {
		return
	}

	setID, ok := h.parseIDParam(w, r, "id", "Invalid set ID")
	if !ok {
		return
	}
	cardID, ok := h.parseIDParam(w, r, "cardId", "Invalid card ID")
	if !ok {
		return
	}

	var req ReviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	receipt, err := h.setService.RecordReview(r.Context(), userID, setID, cardID, *req.IsCorrect)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("recorded review",
		slog.String("set_id", setID.String()),
		slog.String("card_id", cardID.String()),
		slog.Bool("is_correct", receipt.IsCorrect))
	shared.RespondWithJSON(w, r, http.StatusOK, ReviewResponse{
		CardID:       receipt.CardID.String(),
		IsCorrect:    receipt.IsCorrect,
		Timestamp:    receipt.Timestamp,
		ReviewCount:  receipt.ReviewCount,
		TotalReviews: receipt.TotalReviews,
		AverageScore: receipt.AverageScore,
	})
}

// requireUserID extracts the authenticated user ID from the request
// context, responding 401 when the auth middleware did not set one.
func (h *SetHandler) requireUserID(
	w http.ResponseWriter,
	r *http.Request,
	log *slog.Logger,
) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return uuid.Nil, false
	}
	return userID, true
}

// parseIDParam parses a UUID URL parameter, responding 400 on failure.
func (h *SetHandler) parseIDParam(
	w http.ResponseWriter,
	r *http.Request,
	name, message string,
) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, message)
		return uuid.Nil, false
	}
	return id, true
}

// cardToResponse transforms a domain card into its wire shape.
// Correctness becomes the nullable isCorrect bool.
func cardToResponse(card domain.Card) CardResponse {
	return CardResponse{
		ID:           card.ID.String(),
		Question:     card.Question,
		Answer:       card.Answer,
		IsCorrect:    card.IsCorrectValue(),
		LastReviewed: card.LastReviewedAt,
		ReviewCount:  card.ReviewCount,
	}
}

// setToSummary transforms a domain set into its list wire shape.
func setToSummary(set *domain.Set) SetSummaryResponse {
	return SetSummaryResponse{
		ID:           set.ID.String(),
		Title:        set.Title,
		Description:  set.Description,
		CardCount:    set.CardCount(),
		Category:     set.Category,
		Tags:         set.Tags,
		IsPublic:     set.IsPublic,
		TotalReviews: set.TotalReviews,
		AverageScore: set.AverageScore,
		CreatedAt:    set.CreatedAt,
		UpdatedAt:    set.UpdatedAt,
	}
}

// setToDetail transforms a domain set into its detail wire shape,
// cards included.
func setToDetail(set *domain.Set) SetDetailResponse {
	cards := make([]CardResponse, 0, len(set.Cards))
	for _, card := range set.Cards {
		cards = append(cards, cardToResponse(card))
	}
	return SetDetailResponse{
		SetSummaryResponse: setToSummary(set),
		Cards:              cards,
	}
}

// setsToSummaries transforms a list of sets, never returning nil so the
// wire shape is always a JSON array.
func setsToSummaries(sets []*domain.Set) []SetSummaryResponse {
	out := make([]SetSummaryResponse, 0, len(sets))
	for _, set := range sets {
		out = append(out, setToSummary(set))
	}
	return out
}
