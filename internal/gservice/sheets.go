package gservice

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/ymkw/kifulog/internal/auth"
)

func NewSheets(cfg *oauth2.Config, tok *auth.Token) *Sheets {
	return &Sheets{
		cfg: cfg,
		tok: tok,
	}
}

type Sheets struct {
	cfg *oauth2.Config
	tok *auth.Token
}

// SheetTitles returns the titles of all sheets in the spreadsheet.
func (s *Sheets) SheetTitles(ctx context.Context, spreadsheetID string) ([]string, error) {
	svc, err := s.newSvc(ctx)
	if err != nil {
		return nil, fmt.Errorf("newSvc failed: %w", err)
	}

	resp, err := svc.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties.title").Do()
	if err != nil {
		return nil, fmt.Errorf("spreadsheets.Get failed: %w", err)
	}

	titles := make([]string, 0, len(resp.Sheets))
	for _, sh := range resp.Sheets {
		if sh.Properties != nil {
			titles = append(titles, sh.Properties.Title)
		}
	}

	return titles, nil
}

func (s *Sheets) ReadRange(ctx context.Context, spreadsheetID, readRange string) (*sheets.ValueRange, error) {
	svc, err := s.newSvc(ctx)
	if err != nil {
		return nil, fmt.Errorf("newSvc failed: %w", err)
	}

	resp, err := svc.Spreadsheets.Values.Get(spreadsheetID, readRange).Do()
	if err != nil {
		return nil, fmt.Errorf("values.Get failed: %w", err)
	}

	return resp, nil
}

// AppendRow appends one row after the last row of the given range.
// USER_ENTERED lets Sheets type date and number cells the way manual input
// would.
func (s *Sheets) AppendRow(ctx context.Context, spreadsheetID, appendRange string, row []interface{}) error {
	svc, err := s.newSvc(ctx)
	if err != nil {
		return fmt.Errorf("newSvc failed: %w", err)
	}

	vr := &sheets.ValueRange{Values: [][]interface{}{row}}

	_, err = svc.Spreadsheets.Values.Append(spreadsheetID, appendRange, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Do()
	if err != nil {
		return fmt.Errorf("values.Append failed: %w", err)
	}

	return nil
}

func (s *Sheets) newSvc(ctx context.Context) (*sheets.Service, error) {
	t, err := s.tok.OAuthToken()
	if err != nil {
		return nil, fmt.Errorf("tok.OAuthToken failed: %w", err)
	}

	clt := s.cfg.Client(ctx, t)

	svc, err := sheets.NewService(ctx, option.WithHTTPClient(clt))
	if err != nil {
		return nil, fmt.Errorf("sheets.NewService failed: %w", err)
	}

	return svc, nil
}
