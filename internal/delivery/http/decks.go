package http

import (
	"net/http"

	"github.com/aliskhannn/nihon-flash/internal/domain/entities"
)

func (h *Handler) ListDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := h.decks.List(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := make([]deckResponse, 0, len(decks))
	for _, d := range decks {
		resp = append(resp, newDeckResponse(d))
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	var req deckRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	deck := req.entity()
	if err := h.decks.Create(r.Context(), UserIDFromContext(r.Context()), deck); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, newDeckResponse(deck))
}

func (h *Handler) GetDeck(w http.ResponseWriter, r *http.Request) {
	deckID, err := pathID(r, "deckID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	deck, err := h.decks.Get(r.Context(), UserIDFromContext(r.Context()), deckID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, newDeckResponse(deck))
}

func (h *Handler) CreateMedia(w http.ResponseWriter, r *http.Request) {
	deckID, err := pathID(r, "deckID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req mediaRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	asset := &entities.MediaAsset{
		DeckID:      deckID,
		FileName:    req.FileName,
		URL:         req.URL,
		MediaType:   entities.MediaType(req.MediaType),
		Attribution: req.Attribution,
		License:     req.License,
		Metadata:    req.Metadata,
	}
	if err := h.media.Register(r.Context(), UserIDFromContext(r.Context()), asset); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, newMediaResponse(asset))
}
