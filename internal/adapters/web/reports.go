package web

import (
	"fmt"
	"net/http"
	"strconv"

	"produce-reports/internal/app"
)

func (h *Handler) orderReport(w http.ResponseWriter, r *http.Request) {
	req := reportRequest(r)

	var (
		res *app.ReportResult
		err error
	)
	switch format := r.URL.Query().Get("format"); format {
	case "", app.FormatXLSX:
		res, err = h.svc.OrderReport(r.Context(), req)
	case app.FormatCSV:
		res, err = h.svc.OrderReportCSV(r.Context(), req)
	default:
		writeError(w, r, fmt.Sprintf("unsupported format %q", format), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeDocument(w, res)
}

func (h *Handler) purchaseReport(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.PurchaseReport(r.Context(), reportRequest(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeDocument(w, res)
}

func reportRequest(r *http.Request) app.ReportRequest {
	q := r.URL.Query()
	return app.ReportRequest{Start: q.Get("start"), End: q.Get("end")}
}

// writeDocument sends a generated file as a download.
func writeDocument(w http.ResponseWriter, res *app.ReportResult) {
	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Body)))
	if res.Dropped > 0 {
		w.Header().Set("X-Dropped-Items", strconv.Itoa(res.Dropped))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Body)
}
