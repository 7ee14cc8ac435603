package web

import (
	"net/http"

	"produce-reports/internal/picklist"
)

// pickList renders the posted order as a PDF. An empty or malformed body is
// rejected before anything is rendered.
func (h *Handler) pickList(w http.ResponseWriter, r *http.Request) {
	var req picklist.Request
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.PickList(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeDocument(w, res)
}

func (h *Handler) pickListSchema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, picklist.Schema())
}
