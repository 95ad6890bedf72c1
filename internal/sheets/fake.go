package sheets

import (
	"context"
	"fmt"
	"sync"
)

// Fake is an in-memory Worksheets implementation for tests, mirroring
// the append/read semantics of the real backend. Err* fields inject
// failures per operation.
type Fake struct {
	mu    sync.Mutex
	order []string
	data  map[string][][]string

	ErrTitles      error
	ErrCreate      error
	ErrRows        error
	ErrAppend      error
	ErrWriteHeader error
}

// NewFake builds a fake spreadsheet containing the given empty
// worksheets.
func NewFake(titles ...string) *Fake {
	f := &Fake{data: map[string][][]string{}}
	for _, t := range titles {
		f.order = append(f.order, t)
		f.data[t] = nil
	}
	return f
}

// Seed replaces the rows of a worksheet, creating it if needed.
func (f *Fake) Seed(title string, rows [][]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[title]; !ok {
		f.order = append(f.order, title)
	}
	f.data[title] = rows
}

// RowsOf returns the current rows of a worksheet for assertions.
func (f *Fake) RowsOf(title string) [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.data[title]...)
}

func (f *Fake) Titles(ctx context.Context) ([]string, error) {
	if f.ErrTitles != nil {
		return nil, f.ErrTitles
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.order...), nil
}

func (f *Fake) Create(ctx context.Context, title string) error {
	if f.ErrCreate != nil {
		return f.ErrCreate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[title]; ok {
		return fmt.Errorf("worksheet %q already exists", title)
	}
	f.order = append(f.order, title)
	f.data[title] = nil
	return nil
}

func (f *Fake) Rows(ctx context.Context, title string) ([][]string, error) {
	if f.ErrRows != nil {
		return nil, f.ErrRows
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	rows, ok := f.data[title]
	if !ok {
		return nil, fmt.Errorf("worksheet %q not found", title)
	}
	return append([][]string(nil), rows...), nil
}

func (f *Fake) Append(ctx context.Context, title string, row []interface{}) error {
	if f.ErrAppend != nil {
		return f.ErrAppend
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[title]; !ok {
		return fmt.Errorf("worksheet %q not found", title)
	}
	cells := make([]string, len(row))
	for i, cell := range row {
		cells[i] = fmt.Sprint(cell)
	}
	f.data[title] = append(f.data[title], cells)
	return nil
}

func (f *Fake) WriteHeader(ctx context.Context, title string, headers []string) error {
	if f.ErrWriteHeader != nil {
		return f.ErrWriteHeader
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data[title]; !ok {
		return fmt.Errorf("worksheet %q not found", title)
	}
	header := append([]string(nil), headers...)
	if len(f.data[title]) == 0 {
		f.data[title] = [][]string{header}
	} else {
		f.data[title][0] = header
	}
	return nil
}
