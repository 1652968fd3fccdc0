package http

import (
	"net/http"

	"github.com/aliskhannn/nihon-flash/internal/domain/entities"
	"github.com/aliskhannn/nihon-flash/internal/service"
)

func (h *Handler) ListNoteTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.noteTypes.List(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := make([]noteTypeResponse, 0, len(types))
	for _, nt := range types {
		resp = append(resp, newNoteTypeResponse(nt))
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetNoteType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "noteTypeID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	nt, err := h.noteTypes.Get(r.Context(), UserIDFromContext(r.Context()), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, newNoteTypeResponse(nt))
}

func (h *Handler) CreateNoteType(w http.ResponseWriter, r *http.Request) {
	var req noteTypeRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	nt := &entities.NoteType{Name: req.Name, Description: req.Description, DeckID: req.DeckID}
	if err := h.noteTypes.Create(r.Context(), UserIDFromContext(r.Context()), nt); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, newNoteTypeResponse(nt))
}

func (h *Handler) UpdateNoteType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "noteTypeID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req noteTypeUpdateRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	patch := service.NoteTypePatch{Name: req.Name, Description: req.Description, DeckID: req.DeckID}
	nt, err := h.noteTypes.Update(r.Context(), UserIDFromContext(r.Context()), id, patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, newNoteTypeResponse(nt))
}

func (h *Handler) DeleteNoteType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "noteTypeID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.noteTypes.Delete(r.Context(), UserIDFromContext(r.Context()), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CreateField(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "noteTypeID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req fieldRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	f := &entities.NoteField{
		NoteTypeID: id,
		Name:       req.Name,
		Label:      req.Label,
		FieldType:  entities.NoteFieldType(req.FieldType),
		IsRequired: req.IsRequired == nil || *req.IsRequired,
		Hint:       req.Hint,
		Config:     req.Config,
	}
	if err := h.noteTypes.CreateField(r.Context(), UserIDFromContext(r.Context()), f, req.SortOrder); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, newFieldResponse(f))
}

func (h *Handler) UpdateField(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "fieldID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req fieldUpdateRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	f, err := h.noteTypes.UpdateField(r.Context(), UserIDFromContext(r.Context()), id, req.patch())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, newFieldResponse(f))
}

func (h *Handler) DeleteField(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "fieldID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.noteTypes.DeleteField(r.Context(), UserIDFromContext(r.Context()), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "noteTypeID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req templateRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	t := &entities.CardTemplate{
		NoteTypeID:    id,
		Name:          req.Name,
		FrontTemplate: req.FrontTemplate,
		BackTemplate:  req.BackTemplate,
		CSS:           req.CSS,
		IsActive:      req.IsActive == nil || *req.IsActive,
	}
	if err := h.noteTypes.CreateTemplate(r.Context(), UserIDFromContext(r.Context()), t); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, newTemplateResponse(t))
}

func (h *Handler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "templateID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req templateUpdateRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	patch := service.TemplatePatch{
		Name:          req.Name,
		FrontTemplate: req.FrontTemplate,
		BackTemplate:  req.BackTemplate,
		CSS:           req.CSS,
		IsActive:      req.IsActive,
	}
	t, err := h.noteTypes.UpdateTemplate(r.Context(), UserIDFromContext(r.Context()), id, patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, newTemplateResponse(t))
}

func (h *Handler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "templateID")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.noteTypes.DeleteTemplate(r.Context(), UserIDFromContext(r.Context()), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
