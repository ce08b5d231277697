package handlers

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"
	"time"
)

func csvHeaders(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
}

// csvCell neutralises values a spreadsheet would evaluate as a formula
func csvCell(v string) string {
	if v == "" {
		return v
	}
	switch v[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + v
	}
	return v
}

// writeCSV streams header and rows as a CSV attachment. Once the first
// byte is out the status can no longer change, so write errors are logged.
func (h *Handler) writeCSV(w http.ResponseWriter, r *http.Request, filename string, header []string, rows [][]string) {
	csvHeaders(w, filename)
	writer := csv.NewWriter(w)

	if err := writer.Write(header); err != nil {
		h.log.Error().Err(err).Str("file", filename).Str("path", r.URL.Path).Msg("csv export failed")
		return
	}
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = csvCell(v)
		}
		if err := writer.Write(cells); err != nil {
			h.log.Error().Err(err).Str("file", filename).Str("path", r.URL.Path).Msg("csv export failed")
			return
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		h.log.Error().Err(err).Str("file", filename).Str("path", r.URL.Path).Msg("csv export failed")
	}
}

// ExportNews serves every news item as CSV
func (h *Handler) ExportNews(w http.ResponseWriter, r *http.Request) {
	items, err := h.newsRepo.List(r.Context(), "")
	if err != nil {
		h.internalError(w, r, err, "failed to export news")
		return
	}

	rows := make([][]string, 0, len(items))
	for _, n := range items {
		rows = append(rows, []string{
			n.ID.String(),
			n.Title,
			n.Summary,
			string(n.Status),
			n.PublishDate.Format(time.RFC3339),
			n.Author,
			strings.Join(n.Tags, ";"),
			strconv.FormatBool(n.Featured),
			strconv.Itoa(len(n.Versions)),
		})
	}
	h.writeCSV(w, r, "news.csv",
		[]string{"id", "title", "summary", "status", "publishDate", "author", "tags", "featured", "versions"}, rows)
}

// ExportNotices serves every notice as CSV
func (h *Handler) ExportNotices(w http.ResponseWriter, r *http.Request) {
	notices, err := h.noticeRepo.List(r.Context(), false)
	if err != nil {
		h.internalError(w, r, err, "failed to export notices")
		return
	}

	rows := make([][]string, 0, len(notices))
	for _, n := range notices {
		rows = append(rows, []string{
			n.ID.String(),
			n.Title,
			n.Description,
			n.Date.Format(time.RFC3339),
			n.Category,
			strconv.FormatBool(n.SendPush),
			strconv.FormatBool(n.IsActive),
		})
	}
	h.writeCSV(w, r, "notices.csv",
		[]string{"id", "title", "description", "date", "category", "sendPush", "isActive"}, rows)
}
