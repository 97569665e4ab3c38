package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"khazana/internal/core"
	"khazana/internal/export"
	applog "khazana/internal/log"
	"khazana/internal/printer"
	"khazana/internal/report"
)

const emptyExportMessage = "برآمد کے لیے کوئی ریکارڈ موجود نہیں"

// viewMeta assembles the report metadata for the current view.
func (s *Server) viewMeta(r *http.Request, vp ViewParams) report.Meta {
	ctx := r.Context()
	author, err := s.svc.Author(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Load author error", "error", err)
	}

	label := vp.Filter
	if label == core.FilterAll {
		label = ""
	}

	return report.Meta{
		Title:       s.cfg.OrgTitle,
		Subtitle:    s.cfg.OrgSubtitle,
		Author:      author,
		FilterLabel: label,
		SearchQuery: vp.Query,
		GeneratedAt: time.Now(),
		FontURL:     s.absoluteFontURL(r),
	}
}

// absoluteFontURL resolves a server-relative font path against the request
// host. Reports are opened as standalone documents and downloaded files, so
// a bare path would never reach the typeface.
func (s *Server) absoluteFontURL(r *http.Request) string {
	fontURL := s.cfg.FontURL
	if fontURL == "" || strings.Contains(fontURL, "://") {
		return fontURL
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host + fontURL
}

// filteredRecords loads the ledger and applies the view's filter and query.
func (s *Server) filteredRecords(ctx context.Context, vp ViewParams) ([]core.Record, error) {
	records, err := s.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	return core.Filter(records, vp.Filter, vp.Query), nil
}

// serveDownload writes an export file as an attachment.
func serveDownload(w http.ResponseWriter, file *export.File) {
	w.Header().Set("Content-Type", file.MIME)
	w.Header().Set("Content-Disposition", `attachment; filename="`+file.Name+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Data)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	vp := ParseViewParams(r.URL.Query())
	records, err := s.filteredRecords(r.Context(), vp)
	if err != nil {
		slog.ErrorContext(r.Context(), "CSV export load error", "error", err)
		InternalServerError("برآمد ناکام ہو گئی").Write(w)
		return
	}

	file, err := export.CSV(records, time.Now())
	if errors.Is(err, export.ErrNoRecords) {
		UnprocessableEntityError(emptyExportMessage).Write(w)
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "CSV export error", "error", err)
		InternalServerError("برآمد ناکام ہو گئی").Write(w)
		return
	}

	slog.InfoContext(r.Context(), "Export served",
		applog.FieldComponent, applog.ComponentExport,
		applog.FieldExportFormat, "csv",
		applog.FieldRecordCount, len(records),
		"file", file.Name)
	serveDownload(w, file)
}

func (s *Server) handleExportXLS(w http.ResponseWriter, r *http.Request) {
	vp := ParseViewParams(r.URL.Query())
	records, err := s.filteredRecords(r.Context(), vp)
	if err != nil {
		slog.ErrorContext(r.Context(), "XLS export load error", "error", err)
		InternalServerError("برآمد ناکام ہو گئی").Write(w)
		return
	}

	file, err := export.Excel(s.builder, records, s.viewMeta(r, vp), time.Now())
	if errors.Is(err, export.ErrNoRecords) {
		UnprocessableEntityError(emptyExportMessage).Write(w)
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "XLS export error", "error", err)
		InternalServerError("برآمد ناکام ہو گئی").Write(w)
		return
	}

	slog.InfoContext(r.Context(), "Export served",
		applog.FieldComponent, applog.ComponentExport,
		applog.FieldExportFormat, "xls",
		applog.FieldRecordCount, len(records),
		"file", file.Name)
	serveDownload(w, file)
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	vp := ParseViewParams(r.URL.Query())
	records, err := s.filteredRecords(r.Context(), vp)
	if err != nil {
		slog.ErrorContext(r.Context(), "XLSX export load error", "error", err)
		InternalServerError("برآمد ناکام ہو گئی").Write(w)
		return
	}

	file, err := export.XLSX(records, s.partition, time.Now())
	if errors.Is(err, export.ErrNoRecords) {
		UnprocessableEntityError(emptyExportMessage).Write(w)
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "XLSX export error", "error", err)
		InternalServerError("برآمد ناکام ہو گئی").Write(w)
		return
	}

	slog.InfoContext(r.Context(), "Export served",
		applog.FieldComponent, applog.ComponentExport,
		applog.FieldExportFormat, "xlsx",
		applog.FieldRecordCount, len(records),
		"file", file.Name)
	serveDownload(w, file)
}

// handlePrint kicks off a print run for the current view. The flow runs in
// the background so a slow viewer surface never stalls the request.
func (s *Server) handlePrint(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if s.printer == nil {
		InternalServerError("پرنٹ کی سہولت دستیاب نہیں").Write(w)
		return
	}

	if err := r.ParseForm(); err != nil {
		BadRequestError("درخواست کی ساخت درست نہیں").Write(w)
		return
	}
	vp := ParseViewParams(r.Form)
	records, err := s.filteredRecords(r.Context(), vp)
	if err != nil {
		slog.ErrorContext(r.Context(), "Print load error", "error", err)
		InternalServerError("پرنٹ ناکام ہو گیا").Write(w)
		return
	}
	if len(records) == 0 {
		UnprocessableEntityError("پرنٹ کے لیے کوئی ریکارڈ موجود نہیں").Write(w)
		return
	}

	meta := s.viewMeta(r, vp)

	// Acquire the surface before answering so a blocked surface reaches
	// the user as a notice instead of a log line. Only the flow itself
	// runs detached.
	run, err := s.printer.Prepare(r.Context(), records, meta)
	if errors.Is(err, printer.ErrSurfaceUnavailable) {
		slog.ErrorContext(r.Context(), "Print surface unavailable", "error", err)
		ErrorResponse(http.StatusServiceUnavailable, "پرنٹ کا ذریعہ دستیاب نہیں").Write(w)
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Print preparation failed", "error", err)
		InternalServerError("پرنٹ ناکام ہو گیا").Write(w)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		if err := run(ctx); err != nil {
			s.structured.LogError(ctx, "Print run failed", err, applog.ComponentPrinter, applog.OpPrint,
				applog.NewFields().WithView(vp.Filter, vp.Query))
		}
	}()

	NewHTMXResponse().
		TriggerSuccessNotification("پرنٹ شروع ہو گیا").
		BodyHTML(`<div class="success">پرنٹ شروع ہو گیا</div>`).
		Write(w)
}
