package sheets

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/google"
	sheetsapi "google.golang.org/api/sheets/v4"
	"google.golang.org/api/option"
)

// Scopes match what the spreadsheet worker needs: sheet read/write
// plus drive metadata for opening the document by id.
var scopes = []string{
	"https://www.googleapis.com/auth/spreadsheets",
	"https://www.googleapis.com/auth/drive",
}

const (
	defaultRowCount    = 1000
	defaultColumnCount = 26
)

// Worksheets is the narrow spreadsheet surface the services depend
// on. Tests substitute an in-memory fake.
type Worksheets interface {
	// Titles lists the worksheet titles in the spreadsheet.
	Titles(ctx context.Context) ([]string, error)
	// Create adds a worksheet with default capacity.
	Create(ctx context.Context, title string) error
	// Rows returns every populated row of a worksheet as strings.
	Rows(ctx context.Context, title string) ([][]string, error)
	// Append appends exactly one row after the last populated row.
	Append(ctx context.Context, title string, row []interface{}) error
	// WriteHeader overwrites row 1 with the given headers.
	WriteHeader(ctx context.Context, title string, headers []string) error
}

// Client talks to one Google spreadsheet identified by its id.
type Client struct {
	svc           *sheetsapi.Service
	spreadsheetID string
}

// NewClient builds a sheets client from raw service account JSON.
func NewClient(ctx context.Context, credentials []byte, spreadsheetID string) (*Client, error) {
	jwtConfig, err := google.JWTConfigFromJSON(credentials, scopes...)
	if err != nil {
		return nil, fmt.Errorf("invalid service account credentials: %w", err)
	}

	svc, err := sheetsapi.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to build sheets service: %w", err)
	}

	return &Client{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// SpreadsheetTitle returns the document title, used as a cheap
// connectivity probe at startup.
func (c *Client) SpreadsheetTitle(ctx context.Context) (string, error) {
	doc, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Fields("properties.title").Context(ctx).Do()
	if err != nil {
		return "", err
	}
	return doc.Properties.Title, nil
}

func (c *Client) Titles(ctx context.Context) ([]string, error) {
	doc, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(doc.Sheets))
	for _, sheet := range doc.Sheets {
		titles = append(titles, sheet.Properties.Title)
	}
	return titles, nil
}

func (c *Client) Create(ctx context.Context, title string) error {
	_, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			AddSheet: &sheetsapi.AddSheetRequest{
				Properties: &sheetsapi.SheetProperties{
					Title: title,
					GridProperties: &sheetsapi.GridProperties{
						RowCount:    defaultRowCount,
						ColumnCount: defaultColumnCount,
					},
				},
			},
		}},
	}).Context(ctx).Do()
	return err
}

func (c *Client) Rows(ctx context.Context, title string) ([][]string, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, quoteTitle(title)).
		Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			cells = append(cells, fmt.Sprint(cell))
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func (c *Client) Append(ctx context.Context, title string, row []interface{}) error {
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, quoteTitle(title), &sheetsapi.ValueRange{
		Values: [][]interface{}{row},
	}).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	return err
}

func (c *Client) WriteHeader(ctx context.Context, title string, headers []string) error {
	row := make([]interface{}, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, quoteTitle(title)+"!A1", &sheetsapi.ValueRange{
		Values: [][]interface{}{row},
	}).ValueInputOption("RAW").Context(ctx).Do()
	return err
}

// quoteTitle wraps a worksheet title for use in an A1 range; titles
// with spaces need the quotes.
func quoteTitle(title string) string {
	return "'" + title + "'"
}
