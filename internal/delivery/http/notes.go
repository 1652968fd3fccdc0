package http

import "net/http"

func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	note, cards, err := h.notes.Create(r.Context(), UserIDFromContext(r.Context()), req.input())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, newNoteResponse(note, cards))
}

func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "noteID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	note, err := h.notes.Get(r.Context(), UserIDFromContext(r.Context()), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, newNoteResponse(note, nil))
}
