package ledger

import (
	"context"
	"fmt"
	"os"
	"regexp"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"potool/internal/logger"
	"potool/pkg/models"
)

// SheetsLedger stores PO rows in one worksheet of a Google spreadsheet.
// Columns A:J follow models.LedgerHeaders; the PO number lives in column A.
type SheetsLedger struct {
	svc           *sheets.Service
	spreadsheetID string
	worksheet     string
	log           zerolog.Logger
}

const ledgerColumns = 10 // A:J

// NewSheetsLedger connects to the spreadsheet behind sheetURL and ensures
// the worksheet exists with its header row.
func NewSheetsLedger(ctx context.Context, sheetURL, worksheet string) (*SheetsLedger, error) {
	const op = "NewSheetsLedger"

	log := logger.WithComponent("ledger")

	spreadsheetID, err := extractSpreadsheetID(sheetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to extract spreadsheet ID: %w", op, err)
	}

	log.Debug().Str("spreadsheet_id", spreadsheetID).Str("worksheet", worksheet).Msg("Connecting to ledger spreadsheet")

	var creds []byte
	if credsFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credsFile != "" {
		creds, err = os.ReadFile(credsFile)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to read credentials file: %w", op, err)
		}
	} else if credsJSON := os.Getenv("GOOGLE_CREDENTIALS"); credsJSON != "" {
		creds = []byte(credsJSON)
	} else {
		return nil, fmt.Errorf("%s: neither GOOGLE_APPLICATION_CREDENTIALS nor GOOGLE_CREDENTIALS is set", op)
	}

	config, err := google.JWTConfigFromJSON(creds, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse credentials: %w", op, err)
	}

	client := config.Client(ctx)
	svc, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create sheets service: %w", op, err)
	}

	l := &SheetsLedger{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		worksheet:     worksheet,
		log:           log,
	}

	if err := l.ensureWorksheet(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return l, nil
}

// extractSpreadsheetID extracts the spreadsheet ID from a Google Sheets URL
func extractSpreadsheetID(url string) (string, error) {
	re := regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)
	matches := re.FindStringSubmatch(url)
	if len(matches) < 2 {
		return "", fmt.Errorf("invalid Google Sheets URL format")
	}
	return matches[1], nil
}

func (l *SheetsLedger) Append(ctx context.Context, row []interface{}) error {
	const op = "Append"

	valueRange := &sheets.ValueRange{Values: [][]interface{}{row}}
	_, err := l.svc.Spreadsheets.Values.Append(
		l.spreadsheetID,
		l.worksheet+"!A:J",
		valueRange,
	).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to append row: %w", op, err)
	}

	l.log.Info().Str("worksheet", l.worksheet).Msg("Appended ledger row")
	return nil
}

func (l *SheetsLedger) Find(ctx context.Context, key string) (int, bool, error) {
	const op = "Find"

	ids, err := l.IDColumn(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", op, err)
	}
	for i, id := range ids {
		if id == key {
			return i + 2, true, nil // +2: header row plus 1-based indexing
		}
	}
	return 0, false, nil
}

func (l *SheetsLedger) Update(ctx context.Context, handle int, row []interface{}) error {
	const op = "Update"

	if handle < 2 {
		return fmt.Errorf("%s: %w: row %d", op, ErrRowNotFound, handle)
	}

	rangeSpec := fmt.Sprintf("%s!A%d:J%d", l.worksheet, handle, handle)
	valueRange := &sheets.ValueRange{Values: [][]interface{}{row}}
	_, err := l.svc.Spreadsheets.Values.Update(
		l.spreadsheetID,
		rangeSpec,
		valueRange,
	).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to update row %d: %w", op, handle, err)
	}

	l.log.Info().Int("row", handle).Str("worksheet", l.worksheet).Msg("Updated ledger row")
	return nil
}

func (l *SheetsLedger) ReadAll(ctx context.Context) ([][]string, error) {
	const op = "ReadAll"

	values, err := l.readRange(ctx, l.worksheet+"!A:J")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(values) <= 1 {
		return nil, nil
	}

	rows := make([][]string, 0, len(values)-1)
	for _, raw := range values[1:] {
		row := make([]string, len(raw))
		for i, v := range raw {
			row[i] = fmt.Sprint(v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (l *SheetsLedger) IDColumn(ctx context.Context) ([]string, error) {
	const op = "IDColumn"

	values, err := l.readRange(ctx, l.worksheet+"!A2:A")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ids := make([]string, 0, len(values))
	for _, raw := range values {
		if len(raw) > 0 {
			ids = append(ids, fmt.Sprint(raw[0]))
		} else {
			ids = append(ids, "")
		}
	}
	return ids, nil
}

func (l *SheetsLedger) readRange(ctx context.Context, rangeSpec string) ([][]interface{}, error) {
	resp, err := l.svc.Spreadsheets.Values.Get(l.spreadsheetID, rangeSpec).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read range %s: %w", rangeSpec, err)
	}
	return resp.Values, nil
}

// ensureWorksheet creates the worksheet with its header row on first use.
func (l *SheetsLedger) ensureWorksheet(ctx context.Context) error {
	const op = "ensureWorksheet"

	spreadsheet, err := l.svc.Spreadsheets.Get(l.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to get spreadsheet: %w", op, err)
	}

	var sheetExists bool
	var sheetID int64
	for _, sh := range spreadsheet.Sheets {
		if sh.Properties.Title == l.worksheet {
			sheetExists = true
			sheetID = sh.Properties.SheetId
			break
		}
	}

	if !sheetExists {
		l.log.Info().Str("worksheet", l.worksheet).Msg("Creating ledger worksheet")

		batchUpdateReq := &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{
				{AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: l.worksheet},
				}},
			},
		}
		resp, err := l.svc.Spreadsheets.BatchUpdate(l.spreadsheetID, batchUpdateReq).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("%s: failed to create worksheet: %w", op, err)
		}
		sheetID = resp.Replies[0].AddSheet.Properties.SheetId
	}

	headerRange := fmt.Sprintf("%s!A1:J1", l.worksheet)
	resp, err := l.svc.Spreadsheets.Values.Get(l.spreadsheetID, headerRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%s: failed to get headers: %w", op, err)
	}

	if len(resp.Values) == 0 || len(resp.Values[0]) == 0 {
		l.log.Info().Str("worksheet", l.worksheet).Msg("Writing ledger header row")

		headers := make([]interface{}, len(models.LedgerHeaders))
		for i, h := range models.LedgerHeaders {
			headers[i] = h
		}

		valueRange := &sheets.ValueRange{Values: [][]interface{}{headers}}
		_, err = l.svc.Spreadsheets.Values.Update(
			l.spreadsheetID,
			headerRange,
			valueRange,
		).ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("%s: failed to write headers: %w", op, err)
		}

		if err := l.formatHeaders(ctx, sheetID); err != nil {
			l.log.Warn().Err(err).Msg("Failed to format headers, continuing anyway")
		}
	}

	return nil
}

// formatHeaders makes the header row bold and auto-sizes the columns.
func (l *SheetsLedger) formatHeaders(ctx context.Context, sheetID int64) error {
	const op = "formatHeaders"

	requests := []*sheets.Request{
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   ledgerColumns,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{Bold: true},
						BackgroundColor: &sheets.Color{
							Red:   0.9,
							Green: 0.9,
							Blue:  0.9,
						},
					},
				},
				Fields: "userEnteredFormat(textFormat,backgroundColor)",
			},
		},
		{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   ledgerColumns,
				},
			},
		},
	}

	batchUpdateReq := &sheets.BatchUpdateSpreadsheetRequest{Requests: requests}
	if _, err := l.svc.Spreadsheets.BatchUpdate(l.spreadsheetID, batchUpdateReq).Context(ctx).Do(); err != nil {
		return fmt.Errorf("%s: failed to format headers: %w", op, err)
	}

	return nil
}
