package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/parisxmas/health-index-server/internal/service"
	"github.com/parisxmas/health-index-server/internal/validation"
)

type SubmissionHandler struct {
	svc *service.SubmissionService
}

func NewSubmissionHandler(svc *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{svc: svc}
}

// Submit is the public form endpoint. The payload is the candidate record
// without id or submittedAt; those are server-assigned.
func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := readJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, err := h.svc.Create(payload); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Error())
			return
		}
		log.Printf("submit: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error saving submission.")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Submission successful"})
}

func (h *SubmissionHandler) List(w http.ResponseWriter, r *http.Request) {
	subs, err := h.svc.List()
	if err != nil {
		log.Printf("list submissions: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error fetching submissions.")
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

func (h *SubmissionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var fields map[string]any
	if err := readJSON(r, &fields); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sub, err := h.svc.Update(id, fields)
	if err != nil {
		h.writeDomainError(w, err, "update submission", "Server error updating submission.")
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (h *SubmissionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Delete(id); err != nil {
		h.writeDomainError(w, err, "delete submission", "Server error deleting submission.")
		return
	}
	writeMsg(w, http.StatusOK, "Submission deleted successfully")
}

// writeDomainError maps the error taxonomy to status codes. Store failures
// are logged with their cause and surfaced as a generic 500.
func (h *SubmissionHandler) writeDomainError(w http.ResponseWriter, err error, op, generic string) {
	var verr *validation.Error
	var nf *service.NotFoundError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	case errors.As(err, &nf):
		writeMsg(w, http.StatusNotFound, "Submission not found")
	default:
		log.Printf("%s: %v", op, err)
		writeError(w, http.StatusInternalServerError, generic)
	}
}
