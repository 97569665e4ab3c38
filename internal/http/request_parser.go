package http

import (
	"net/http"
	"net/url"
	"strings"

	"khazana/internal/core"
)

// ViewParams holds the type filter and search query of a table view.
type ViewParams struct {
	Filter string
	Query  string
}

// ParseViewParams extracts filter and query values, defaulting the filter
// to the all-records view.
func ParseViewParams(values url.Values) ViewParams {
	filter := strings.TrimSpace(values.Get("filter"))
	if filter == "" {
		filter = core.FilterAll
	}
	return ViewParams{
		Filter: filter,
		Query:  strings.TrimSpace(values.Get("q")),
	}
}

// ParseRecordForm builds a record from submitted form values. Field values
// are sanitized but not validated here, the ledger service owns validation.
func ParseRecordForm(form url.Values) core.Record {
	return core.Record{
		ID:     strings.TrimSpace(form.Get("id")),
		Type:   sanitizeInput(form.Get("type")),
		Amount: strings.TrimSpace(form.Get("amount")),
		Name:   sanitizeInput(form.Get("name")),
		Date:   sanitizeInput(form.Get("date")),
		Note:   sanitizeInput(form.Get("note")),
	}
}

// sanitizeInput removes control characters and trims whitespace
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// RequirePOST is a convenience function for POST-only handlers.
func RequirePOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodPost)
}

// RequireDeleteOrPOST is a convenience function for DELETE/POST handlers.
func RequireDeleteOrPOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodDelete, http.MethodPost)
}

// ParseFormOrFail parses the request form and returns an error response on failure.
// Returns nil on success.
func ParseFormOrFail(r *http.Request) *HTMXResponseBuilder {
	if err := r.ParseForm(); err != nil {
		return BadRequestError("درخواست کی ساخت درست نہیں")
	}
	return nil
}
