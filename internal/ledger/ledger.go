// Package ledger appends donations to the Google Sheets donation log.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"

	"google.golang.org/api/sheets/v4"

	"github.com/ymkw/kifulog/internal/donation"
)

// ErrSheetNotFound indicates the configured sheet title doesn't exist in the
// spreadsheet.
var ErrSheetNotFound = errors.New("sheet not found")

// headerRow is written to an empty sheet so the log is readable on its own.
var headerRow = []interface{}{"寄付日時", "寄付者名", "寄付金額", "寄付頻度"}

// recordedDateLayout matches the normalized mail timestamp. Rows are appended
// as USER_ENTERED, so Sheets types a value in this layout as a date.
const recordedDateLayout = "2006/01/02 15:04:05"

type sheetsSvc interface {
	SheetTitles(ctx context.Context, spreadsheetID string) ([]string, error)
	ReadRange(ctx context.Context, spreadsheetID, readRange string) (*sheets.ValueRange, error)
	AppendRow(ctx context.Context, spreadsheetID, appendRange string, row []interface{}) error
}

func New(svc sheetsSvc, spreadsheetID, sheetName string) *Recorder {
	return &Recorder{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}
}

// Recorder appends one row per donation to the configured sheet.
type Recorder struct {
	svc           sheetsSvc
	spreadsheetID string
	sheetName     string
}

// EnsureHeaders appends the header row when the sheet is still empty. Header
// presence is best-effort: every failure is logged and swallowed so a broken
// header check never blocks donation processing.
func (r *Recorder) EnsureHeaders(ctx context.Context) {
	vr, err := r.svc.ReadRange(ctx, r.spreadsheetID, r.rangeRef("A1:D1"))
	if err != nil {
		log.Println(fmt.Errorf("header check ReadRange failed: %w", err))
		return
	}

	if len(vr.Values) > 0 {
		return
	}

	if err := r.svc.AppendRow(ctx, r.spreadsheetID, r.rangeRef("A1:D1"), headerRow); err != nil {
		log.Println(fmt.Errorf("header AppendRow failed: %w", err))
	}
}

// Record appends [date, name, amount, frequency]. A parseable date is
// re-serialized through time.Time so Sheets stores it as a date value; an
// unparseable one is recorded as the raw string.
func (r *Recorder) Record(ctx context.Context, d donation.Details) error {
	if err := r.checkSheetExists(ctx); err != nil {
		return err
	}

	var date interface{} = d.Date
	if t, ok := donation.ParseDate(d.Date); ok {
		date = t.Format(recordedDateLayout)
	}

	row := []interface{}{date, d.Name, d.Amount, d.Frequency}
	if err := r.svc.AppendRow(ctx, r.spreadsheetID, r.rangeRef("A:D"), row); err != nil {
		return fmt.Errorf("svc.AppendRow failed: %w", err)
	}

	return nil
}

func (r *Recorder) checkSheetExists(ctx context.Context) error {
	titles, err := r.svc.SheetTitles(ctx, r.spreadsheetID)
	if err != nil {
		return fmt.Errorf("svc.SheetTitles failed: %w", err)
	}

	for _, t := range titles {
		if t == r.sheetName {
			return nil
		}
	}

	return fmt.Errorf("%w: %q", ErrSheetNotFound, r.sheetName)
}

func (r *Recorder) rangeRef(cells string) string {
	return fmt.Sprintf("'%s'!%s", r.sheetName, cells)
}
