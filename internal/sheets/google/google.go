// Package google mirrors the ledger to a Google Sheets spreadsheet.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"khazana/internal/core"
	ports "khazana/internal/sheets"

	"golang.org/x/oauth2"
	goauth "golang.org/x/oauth2/google"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// Ensure interface conformance
var _ ports.LedgerMirror = (*Client)(nil)

// Column headers mirror the CSV export so the sheet reads the same way.
var headerRow = []any{"قسم", "نام / ادارہ", "رقم", "تاریخ", "تفصیل"}

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID
// Credentials: GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE,
// or GOOGLE_APPLICATION_CREDENTIALS.
// Optional: GOOGLE_SHEET_NAME (default "Khazana").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	sheetName := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetName == "" {
		sheetName = "Khazana"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// newSheetsService initializes a Sheets Service. An OAuth client plus a
// stored token (minted by the oauth-init command) takes precedence, service
// account credentials are the fallback.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	if ts, err := oauthTokenSource(ctx); err != nil {
		return nil, err
	} else if ts != nil {
		service, err := gsheet.NewService(ctx, goption.WithTokenSource(ts))
		if err != nil {
			return nil, fmt.Errorf("create sheets service: %w", err)
		}
		return service, nil
	}

	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))

	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing credentials (set GOOGLE_OAUTH_CLIENT_JSON/FILE with GOOGLE_OAUTH_TOKEN_FILE, or GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return service, nil
}

// oauthTokenSource builds a token source from an OAuth client config and a
// previously minted token file. Returns nil when OAuth is not configured.
func oauthTokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	clientJSON := strings.TrimSpace(os.Getenv("GOOGLE_OAUTH_CLIENT_JSON"))
	clientFile := strings.TrimSpace(os.Getenv("GOOGLE_OAUTH_CLIENT_FILE"))
	if clientJSON == "" && clientFile == "" {
		return nil, nil
	}

	var b []byte
	var err error
	if clientJSON != "" {
		b = []byte(clientJSON)
	} else {
		b, err = os.ReadFile(clientFile)
		if err != nil {
			return nil, fmt.Errorf("read oauth client file: %w", err)
		}
	}

	cfg, err := goauth.ConfigFromJSON(b, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse oauth client config: %w", err)
	}

	tokenFile := strings.TrimSpace(os.Getenv("GOOGLE_OAUTH_TOKEN_FILE"))
	if tokenFile == "" {
		tokenFile = "token.json"
	}
	tb, err := os.ReadFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("read oauth token file (run oauth-init first): %w", err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal(tb, &tok); err != nil {
		return nil, fmt.Errorf("parse oauth token: %w", err)
	}

	return cfg.TokenSource(ctx, &tok), nil
}

// ReplaceAll clears the mirror sheet and writes the full ledger snapshot.
func (c *Client) ReplaceAll(ctx context.Context, records []core.Record, totals core.Totals) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	clearRange := fmt.Sprintf("%s!A:E", c.sheetName)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", clearRange, err)
	}

	values := snapshotValues(records, totals)
	writeRange := fmt.Sprintf("%s!A1", c.sheetName)
	vr := &gsheet.ValueRange{Values: values}

	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, writeRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return fmt.Errorf("write snapshot to %s: %w", c.sheetName, err)
	}

	slog.InfoContext(ctx, "Mirrored ledger to Google Sheets",
		"sheet", c.sheetName,
		"records", len(records))

	return nil
}

// snapshotValues lays the ledger out as sheet rows: header, one row per
// record, then a totals block separated by a blank row.
func snapshotValues(records []core.Record, totals core.Totals) [][]any {
	values := make([][]any, 0, len(records)+5)
	values = append(values, headerRow)

	for _, rec := range records {
		var amount any = ""
		if rec.Amount != "" {
			amount, _ = rec.AmountValue().Float64()
		}
		values = append(values, []any{rec.Type, rec.Name, amount, rec.Date, rec.Note})
	}

	income, _ := totals.Income.Float64()
	expense, _ := totals.Expense.Float64()
	balance, _ := totals.Balance.Float64()

	values = append(values,
		[]any{},
		[]any{"کل آمدنی", "", income, "", ""},
		[]any{"کل اخراجات", "", expense, "", ""},
		[]any{"بقایا رقم", "", balance, "", ""},
	)

	return values
}
