package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Veraticus/payfilter/internal/common"
	"github.com/Veraticus/payfilter/internal/model"
	"github.com/Veraticus/payfilter/internal/service"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// spreadsheetAPI is the slice of the Sheets API the writer uses.
type spreadsheetAPI interface {
	Get(ctx context.Context, spreadsheetID string) error
	Create(ctx context.Context, spreadsheet *sheets.Spreadsheet) (*sheets.Spreadsheet, error)
	Clear(ctx context.Context, spreadsheetID, rangeStr string) error
	Update(ctx context.Context, spreadsheetID, rangeStr string, values *sheets.ValueRange) error
	BatchUpdate(ctx context.Context, spreadsheetID string, req *sheets.BatchUpdateSpreadsheetRequest) error
}

type googleAPI struct {
	service *sheets.Service
}

func (g *googleAPI) Get(ctx context.Context, spreadsheetID string) error {
	_, err := g.service.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	return err
}

func (g *googleAPI) Create(ctx context.Context, spreadsheet *sheets.Spreadsheet) (*sheets.Spreadsheet, error) {
	return g.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
}

func (g *googleAPI) Clear(ctx context.Context, spreadsheetID, rangeStr string) error {
	_, err := g.service.Spreadsheets.Values.Clear(spreadsheetID, rangeStr, &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

func (g *googleAPI) Update(ctx context.Context, spreadsheetID, rangeStr string, values *sheets.ValueRange) error {
	_, err := g.service.Spreadsheets.Values.Update(spreadsheetID, rangeStr, values).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	return err
}

func (g *googleAPI) BatchUpdate(ctx context.Context, spreadsheetID string, req *sheets.BatchUpdateSpreadsheetRequest) error {
	_, err := g.service.Spreadsheets.BatchUpdate(spreadsheetID, req).Context(ctx).Do()
	return err
}

// Writer exports payment tables to a Google Sheet.
type Writer struct {
	api      spreadsheetAPI
	logger   *slog.Logger
	location *time.Location
	config   Config
}

// NewWriter creates a Google Sheets exporter.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return newWriter(&googleAPI{service: srv}, config, logger), nil
}

func newWriter(api spreadsheetAPI, config Config, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = common.Component("sheets")
	}
	return &Writer{
		api:      api,
		config:   config,
		logger:   logger,
		location: config.location(),
	}
}

// Export replaces the sheet contents with the summary block and one row per
// payment. Formatting failures are logged, not returned.
func (w *Writer) Export(ctx context.Context, payments []model.Payment, summary service.ExportSummary) error {
	w.logger.Info("starting sheets export",
		"payments", len(payments),
		"filter", summary.FilterLabel)

	spreadsheetID, err := w.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	if clearErr := w.api.Clear(ctx, spreadsheetID, "A:Z"); clearErr != nil {
		return fmt.Errorf("failed to clear sheet: %w", clearErr)
	}

	values := buildValues(payments, summary, w.location)

	retryOpts := service.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	err = common.WithRetry(ctx, func() error {
		return w.writeData(ctx, spreadsheetID, values)
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	if w.config.EnableFormatting {
		err = common.WithRetry(ctx, func() error {
			return w.api.BatchUpdate(ctx, spreadsheetID, formattingRequests(len(values)))
		}, retryOpts)
		if err != nil {
			w.logger.Warn("failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("sheets export completed",
		"spreadsheet_id", spreadsheetID,
		"rows_written", len(values))

	return nil
}

func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}
		if token.RefreshToken == "" {
			saved, err := LoadToken(config.TokenFile)
			if err != nil {
				return nil, fmt.Errorf("unable to load token from %s: %w", config.TokenFile, err)
			}
			token = saved
		}

		tokenSource = oauthConfig(config.ClientID, config.ClientSecret, "").TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, error) {
	if w.config.SpreadsheetID != "" {
		if err := w.api.Get(ctx, w.config.SpreadsheetID); err != nil {
			return "", fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
		}
		return w.config.SpreadsheetID, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.location.String(),
		},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: sheetTitle}},
		},
	}

	created, err := w.api.Create(ctx, spreadsheet)
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	return created.SpreadsheetId, nil
}

// writeData writes values in batches of config.BatchSize rows.
func (w *Writer) writeData(ctx context.Context, spreadsheetID string, values [][]any) error {
	for i := 0; i < len(values); i += w.config.BatchSize {
		end := min(i+w.config.BatchSize, len(values))

		batch := values[i:end]
		rangeStr := fmt.Sprintf("A%d", i+1)
		if err := w.api.Update(ctx, spreadsheetID, rangeStr, &sheets.ValueRange{Values: batch}); err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", i+1, err)
		}

		w.logger.Debug("wrote batch", "start_row", i+1, "rows", len(batch))
	}

	return nil
}

func formattingRequests(totalRows int) *sheets.BatchUpdateSpreadsheetRequest {
	requests := []*sheets.Request{
		// Title
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          0,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   1,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{Bold: true, FontSize: 16},
					},
				},
				Fields: "userEnteredFormat.textFormat",
			},
		},
		// Column headers
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          0,
					StartRowIndex:    headerRowIndex,
					EndRowIndex:      headerRowIndex + 1,
					StartColumnIndex: 0,
					EndColumnIndex:   int64(len(paymentHeaders)),
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{Bold: true},
					},
				},
				Fields: "userEnteredFormat.textFormat",
			},
		},
		// Amounts
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          0,
					StartRowIndex:    headerRowIndex + 1,
					EndRowIndex:      int64(totalRows),
					StartColumnIndex: amountColumn,
					EndColumnIndex:   amountColumn + 1,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						NumberFormat: &sheets.NumberFormat{Type: "NUMBER", Pattern: "#,##0.00"},
					},
				},
				Fields: "userEnteredFormat.numberFormat",
			},
		},
		{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    0,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   int64(len(paymentHeaders)),
				},
			},
		},
		{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId: 0,
					GridProperties: &sheets.GridProperties{
						FrozenRowCount: headerRowIndex + 1,
					},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		},
	}

	return &sheets.BatchUpdateSpreadsheetRequest{Requests: requests}
}

var _ service.PaymentExporter = (*Writer)(nil)
