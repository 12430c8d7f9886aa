package sheets

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/Veraticus/payfilter/internal/model"
	"github.com/Veraticus/payfilter/internal/service"
	"github.com/Veraticus/payfilter/internal/testutil/payments"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/sheets/v4"
)

type updateCall struct {
	rangeStr string
	values   [][]any
}

type fakeAPI struct {
	getErr         error
	updateErr      error
	batchErr       error
	created        *sheets.Spreadsheet
	gotID          string
	cleared        []string
	updates        []updateCall
	batchUpdates   int
	updateFailures int
}

func (f *fakeAPI) Get(_ context.Context, spreadsheetID string) error {
	f.gotID = spreadsheetID
	return f.getErr
}

func (f *fakeAPI) Create(_ context.Context, spreadsheet *sheets.Spreadsheet) (*sheets.Spreadsheet, error) {
	f.created = spreadsheet
	return &sheets.Spreadsheet{SpreadsheetId: "new-sheet", SpreadsheetUrl: "https://example.invalid/new-sheet"}, nil
}

func (f *fakeAPI) Clear(_ context.Context, spreadsheetID, rangeStr string) error {
	f.cleared = append(f.cleared, spreadsheetID+"!"+rangeStr)
	return nil
}

func (f *fakeAPI) Update(_ context.Context, _, rangeStr string, values *sheets.ValueRange) error {
	if f.updateFailures > 0 {
		f.updateFailures--
		return f.updateErr
	}
	f.updates = append(f.updates, updateCall{rangeStr: rangeStr, values: values.Values})
	return nil
}

func (f *fakeAPI) BatchUpdate(_ context.Context, _ string, _ *sheets.BatchUpdateSpreadsheetRequest) error {
	f.batchUpdates++
	return f.batchErr
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.ServiceAccountPath = "/path/to/key.json"
	cfg.RetryDelay = time.Millisecond
	return cfg
}

func testSummary() service.ExportSummary {
	return service.ExportSummary{
		GeneratedAt: payments.ReferenceTime,
		FilterLabel: "Status: Succeeded",
		ResultLabel: "4 results",
	}
}

func TestBuildValues(t *testing.T) {
	sample := payments.Sample()
	values := buildValues(sample, testSummary(), time.UTC)

	require.Len(t, values, headerRowIndex+1+len(sample))
	assert.Equal(t, []any{sheetTitle}, values[0])
	assert.Equal(t, []any{"Filter", "Status: Succeeded"}, values[2])
	assert.Equal(t, []any{"Results", "4 results"}, values[3])
	assert.Equal(t, []any{"Generated", "2024-03-22 12:00"}, values[4])
	assert.Equal(t, paymentHeaders, values[headerRowIndex])

	first := values[headerRowIndex+1]
	assert.Equal(t, []any{
		"2024-03-21 03:50",
		"Payment for Invoice",
		5.59,
		"USD",
		"Succeeded",
		"Card",
		"customer@gmail.com",
		"1",
	}, first)

	last := values[len(values)-1]
	assert.Equal(t, "10", last[7])
}

func TestBuildValues_Defaults(t *testing.T) {
	loc := time.FixedZone("EST", -5*60*60)
	values := buildValues(nil, service.ExportSummary{GeneratedAt: payments.ReferenceTime}, loc)

	require.Len(t, values, headerRowIndex+1)
	assert.Equal(t, []any{"Filter", "No filters"}, values[2])
	assert.Equal(t, []any{"Results", "0 results"}, values[3])
	assert.Equal(t, []any{"Generated", "2024-03-22 07:00"}, values[4])
}

func TestWriter_ExportCreatesSpreadsheet(t *testing.T) {
	api := &fakeAPI{}
	w := newWriter(api, testConfig(), testLogger())

	err := w.Export(context.Background(), payments.Sample(), testSummary())
	require.NoError(t, err)

	require.NotNil(t, api.created)
	assert.Equal(t, DefaultSpreadsheetName, api.created.Properties.Title)
	assert.Equal(t, "UTC", api.created.Properties.TimeZone)
	assert.Equal(t, []string{"new-sheet!A:Z"}, api.cleared)
	require.Len(t, api.updates, 1)
	assert.Equal(t, "A1", api.updates[0].rangeStr)
	assert.Len(t, api.updates[0].values, headerRowIndex+1+10)
	assert.Equal(t, 1, api.batchUpdates)
}

func TestWriter_ExportExistingSpreadsheet(t *testing.T) {
	api := &fakeAPI{}
	cfg := testConfig()
	cfg.SpreadsheetID = "existing"
	cfg.EnableFormatting = false
	w := newWriter(api, cfg, testLogger())

	require.NoError(t, w.Export(context.Background(), payments.Sample(), testSummary()))
	assert.Equal(t, "existing", api.gotID)
	assert.Nil(t, api.created)
	assert.Equal(t, 0, api.batchUpdates)

	api.getErr = errors.New("forbidden")
	err := w.Export(context.Background(), payments.Sample(), testSummary())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to access spreadsheet existing")
}

func TestWriter_ExportBatches(t *testing.T) {
	api := &fakeAPI{}
	cfg := testConfig()
	cfg.BatchSize = 5
	w := newWriter(api, cfg, testLogger())

	require.NoError(t, w.Export(context.Background(), payments.Sample(), testSummary()))

	// 7 summary rows + 10 payments
	require.Len(t, api.updates, 4)
	assert.Equal(t, "A1", api.updates[0].rangeStr)
	assert.Equal(t, "A6", api.updates[1].rangeStr)
	assert.Equal(t, "A11", api.updates[2].rangeStr)
	assert.Equal(t, "A16", api.updates[3].rangeStr)
	assert.Len(t, api.updates[3].values, 2)
}

func TestWriter_ExportRetriesWrites(t *testing.T) {
	api := &fakeAPI{updateErr: errors.New("503"), updateFailures: 1}
	w := newWriter(api, testConfig(), testLogger())

	require.NoError(t, w.Export(context.Background(), []model.Payment{payments.New(t, "p1").Build()}, testSummary()))
	assert.Len(t, api.updates, 1)
}

func TestWriter_ExportWriteFailure(t *testing.T) {
	api := &fakeAPI{updateErr: errors.New("503"), updateFailures: 10}
	w := newWriter(api, testConfig(), testLogger())

	err := w.Export(context.Background(), payments.Sample(), testSummary())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write data")
}

func TestWriter_FormattingFailureIsNotFatal(t *testing.T) {
	api := &fakeAPI{batchErr: errors.New("bad request")}
	w := newWriter(api, testConfig(), testLogger())

	require.NoError(t, w.Export(context.Background(), payments.Sample(), testSummary()))
	assert.Equal(t, 3, api.batchUpdates)
}

func TestFormattingRequests(t *testing.T) {
	req := formattingRequests(20)
	require.Len(t, req.Requests, 5)

	amounts := req.Requests[2].RepeatCell
	require.NotNil(t, amounts)
	assert.Equal(t, int64(amountColumn), amounts.Range.StartColumnIndex)
	assert.Equal(t, int64(headerRowIndex+1), amounts.Range.StartRowIndex)
	assert.Equal(t, int64(20), amounts.Range.EndRowIndex)

	frozen := req.Requests[4].UpdateSheetProperties
	require.NotNil(t, frozen)
	assert.Equal(t, int64(headerRowIndex+1), frozen.Properties.GridProperties.FrozenRowCount)
}

func TestMockExporter(t *testing.T) {
	mock := NewMockExporter()
	require.NoError(t, mock.Export(context.Background(), payments.Sample(), testSummary()))

	boom := errors.New("boom")
	mock.ExportFunc = func(context.Context, []model.Payment, service.ExportSummary) error { return boom }
	assert.ErrorIs(t, mock.Export(context.Background(), nil, testSummary()), boom)

	calls := mock.Calls()
	require.Len(t, calls, 2)
	assert.Len(t, calls[0].Payments, 10)
	assert.ErrorIs(t, calls[1].Error, boom)
}
