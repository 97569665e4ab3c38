package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"khazana/internal/core"
	"khazana/internal/format"
	applog "khazana/internal/log"
	"khazana/internal/view"
)

type indexData struct {
	Title        string
	Subtitle     string
	Author       string
	IncomeTypes  []string
	ExpenseTypes []string
	Filter       string
	Query        string
	Table        view.Table
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	vp := ParseViewParams(r.URL.Query())

	records, err := s.svc.List(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List records error", "error", err)
		http.Error(w, "ریکارڈ لوڈ نہیں ہو سکے", http.StatusInternalServerError)
		return
	}

	author, err := s.svc.Author(r.Context())
	if err != nil {
		slog.WarnContext(r.Context(), "Load author error", "error", err)
	}

	filtered := core.Filter(records, vp.Filter, vp.Query)
	data := indexData{
		Title:        s.cfg.OrgTitle,
		Subtitle:     s.cfg.OrgSubtitle,
		Author:       author,
		IncomeTypes:  s.partition.Income,
		ExpenseTypes: s.partition.Expense,
		Filter:       vp.Filter,
		Query:        vp.Query,
		Table:        view.BuildTable(filtered, s.partition),
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed",
			"error", err,
			applog.FieldPath, r.URL.Path,
			applog.FieldComponent, applog.ComponentTemplate,
			"error_type", applog.ErrorTypeConfiguration)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleRecordsTable renders the records table partial for the current view.
func (s *Server) handleRecordsTable(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	vp := ParseViewParams(r.URL.Query())
	html, err := s.renderTable(r.Context(), vp)
	if err != nil {
		slog.ErrorContext(r.Context(), "Records table error", "error", err, "filter", vp.Filter, "query", vp.Query)
		_, _ = w.Write([]byte(`<div id="records-table" class="placeholder">ریکارڈ لوڈ کرنے میں خرابی</div>`))
		return
	}
	_, _ = w.Write([]byte(html))
}

// renderTable returns the rendered table partial for the view, caching the
// result until the next mutation or TTL expiry.
func (s *Server) renderTable(ctx context.Context, vp ViewParams) (string, error) {
	key := vp.Filter + "\x00" + vp.Query
	if html, found := s.tableCache.Get(key); found {
		slog.DebugContext(ctx, "Table cache hit", "filter", vp.Filter, "query", vp.Query)
		return html, nil
	}

	records, err := s.svc.List(ctx)
	if err != nil {
		return "", fmt.Errorf("load records: %w", err)
	}
	filtered := core.Filter(records, vp.Filter, vp.Query)
	table := view.BuildTable(filtered, s.partition)

	if s.templates == nil {
		return "", errors.New("templates not loaded")
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "records_table.html", table); err != nil {
		return "", fmt.Errorf("render records table: %w", err)
	}

	html := buf.String()
	s.tableCache.Set(key, html)
	slog.DebugContext(ctx, "Table cached", "filter", vp.Filter, "query", vp.Query, "rows", table.Count)
	return html, nil
}

func (s *Server) handleSaveRecord(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	rec := ParseRecordForm(r.Form)
	if rec.Type != "" && !s.partition.IsIncome(rec.Type) && !s.partition.IsExpense(rec.Type) {
		UnprocessableEntityError("نامعلوم قسم: " + rec.Type).Write(w)
		return
	}
	// New entries carry the moment of entry as their display date.
	// Edits leave an empty date alone so the stored one survives.
	if rec.ID == "" && rec.Date == "" {
		rec.Date = format.DateTime(time.Now())
	}

	id, err := s.svc.Upsert(r.Context(), rec)
	switch {
	case errors.Is(err, core.ErrEmptyType):
		UnprocessableEntityError("قسم منتخب کریں").Write(w)
		return
	case errors.Is(err, core.ErrEmptyName):
		UnprocessableEntityError("نام / ادارہ درج کریں").Write(w)
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "Record save error", "error", err, "record_type", rec.Type, "record_name", rec.Name)
		InternalServerError("ریکارڈ محفوظ نہیں ہو سکا").Write(w)
		return
	}

	s.tableCache.Purge()

	op := applog.OpCreate
	if rec.ID != "" {
		op = applog.OpUpdate
	}
	s.structured.LogRecordSaved(r.Context(), op, id, rec.Type, rec.Name, rec.Amount)

	NewHTMXResponse().
		TriggerRecordsChanged(id).
		TriggerFormReset().
		TriggerSuccessNotification("ریکارڈ محفوظ ہو گیا").
		BodyHTML(`<div class="success">ریکارڈ محفوظ ہو گیا</div>`).
		Write(w)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	if resp := RequireDeleteOrPOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	id := r.Form.Get("id")
	if id == "" {
		id = r.URL.Query().Get("id")
	}
	if id == "" {
		BadRequestError("ریکارڈ کی شناخت درکار ہے").Write(w)
		return
	}

	if err := s.svc.Delete(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Record delete error", "error", err, "record_id", id)
		InternalServerError("ریکارڈ حذف نہیں ہو سکا").Write(w)
		return
	}

	s.tableCache.Purge()

	slog.InfoContext(r.Context(), "Record deleted",
		applog.FieldComponent, applog.ComponentLedger,
		applog.FieldOperation, applog.OpDelete,
		applog.FieldRecordID, id)

	NewHTMXResponse().
		TriggerRecordsChanged(id).
		TriggerSuccessNotification("ریکارڈ حذف ہو گیا").
		BodyHTML(`<div class="success">ریکارڈ حذف ہو گیا</div>`).
		Write(w)
}

func (s *Server) handleSaveAuthor(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	author := sanitizeInput(r.Form.Get("author"))
	if err := s.svc.SetAuthor(r.Context(), author); err != nil {
		slog.ErrorContext(r.Context(), "Author save error", "error", err)
		InternalServerError("نام محفوظ نہیں ہو سکا").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerSuccessNotification("رپورٹ کنندہ کا نام محفوظ ہو گیا").
		BodyHTML(`<div class="success">نام محفوظ ہو گیا</div>`).
		Write(w)
}
