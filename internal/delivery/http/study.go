package http

import (
	"net/http"

	"github.com/aliskhannn/nihon-flash/internal/service"
)

func (h *Handler) StudyBatch(w http.ResponseWriter, r *http.Request) {
	deckID, err := pathID(r, "deckID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", service.DefaultStudyLimit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	views, err := h.study.StudyBatch(r.Context(), UserIDFromContext(r.Context()), deckID, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, studyBatchResponse{Cards: newRenderedCards(views)})
}

func (h *Handler) SubmitStudy(w http.ResponseWriter, r *http.Request) {
	var req submitStudyRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	results := make([]service.StudyResult, 0, len(req.Results))
	for _, res := range req.Results {
		results = append(results, service.StudyResult{CardID: res.CardID, Correct: res.Correct})
	}

	updated, err := h.study.SubmitStudy(r.Context(), UserIDFromContext(r.Context()), req.DeckID, results)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, submitStudyResponse{Updated: updated})
}

func (h *Handler) ReviewQueue(w http.ResponseWriter, r *http.Request) {
	deckID, err := pathID(r, "deckID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	dueOnly, err := queryBool(r, "due_only", true)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", service.DefaultReviewLimit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	views, err := h.study.ReviewQueue(r.Context(), UserIDFromContext(r.Context()), deckID, dueOnly, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, newRenderedCards(views))
}

func (h *Handler) ReviewCard(w http.ResponseWriter, r *http.Request) {
	cardID, err := pathID(r, "cardID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req reviewRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	progress, err := h.study.Review(r.Context(), UserIDFromContext(r.Context()), cardID, *req.Correct)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, newProgressResponse(progress))
}

func (h *Handler) SetSuspension(w http.ResponseWriter, r *http.Request) {
	cardID, err := pathID(r, "cardID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req suspensionRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	progress, err := h.study.SetSuspended(r.Context(), UserIDFromContext(r.Context()), cardID, *req.Suspended)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, newProgressResponse(progress))
}

func (h *Handler) CardLogs(w http.ResponseWriter, r *http.Request) {
	cardID, err := pathID(r, "cardID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", service.DefaultLogLimit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	logs, err := h.study.Logs(r.Context(), UserIDFromContext(r.Context()), cardID, limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, newReviewLogs(logs))
}

func (h *Handler) DeckStats(w http.ResponseWriter, r *http.Request) {
	deckID, err := pathID(r, "deckID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	stats, err := h.study.DeckStats(r.Context(), UserIDFromContext(r.Context()), deckID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, newDeckStatsResponse(stats))
}

func (h *Handler) DeckCards(w http.ResponseWriter, r *http.Request) {
	deckID, err := pathID(r, "deckID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	views, err := h.study.DeckCards(r.Context(), UserIDFromContext(r.Context()), deckID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, newCardsWithStats(views))
}
