package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/has-bi/you-posm/internal/app/model"
	"github.com/has-bi/you-posm/internal/sheets"
	"github.com/has-bi/you-posm/pkg/logger"
)

// LookupService serves the store and employee name lists backing the
// form's selection inputs, and records first-seen names.
type LookupService interface {
	// List returns the unique, trimmed, non-empty names of a lookup
	// sheet, sorted ascending. Served from cache when available.
	List(ctx context.Context, sheet string) ([]string, error)
	// AddIfAbsent appends a name unless an exact trimmed match
	// already exists. Returns true when the name is present after the
	// call, false only on a write failure.
	AddIfAbsent(ctx context.Context, sheet string, name string) bool
	// Refresh re-reads both lookup sheets into the cache.
	Refresh(ctx context.Context) error
}

type lookupService struct {
	ws sheets.Worksheets

	mu    sync.RWMutex
	cache map[string][]string
}

func NewLookupService(ws sheets.Worksheets) LookupService {
	return &lookupService{
		ws:    ws,
		cache: map[string][]string{},
	}
}

func (s *lookupService) List(ctx context.Context, sheet string) ([]string, error) {
	s.mu.RLock()
	cached, ok := s.cache[sheet]
	s.mu.RUnlock()
	if ok {
		return append([]string(nil), cached...), nil
	}
	return s.fetch(ctx, sheet)
}

func (s *lookupService) fetch(ctx context.Context, sheet string) ([]string, error) {
	rows, err := s.ws.Rows(ctx, sheet)
	if err != nil {
		logger.Error("Failed to read lookup sheet", err, map[string]interface{}{
			"worksheet": sheet,
		})
		return nil, err
	}

	names := uniqueNames(rows)

	s.mu.Lock()
	s.cache[sheet] = names
	s.mu.Unlock()

	return append([]string(nil), names...), nil
}

// uniqueNames collapses the first column into a sorted, deduplicated
// name list. Row 1 is the header and is skipped. Duplicates can exist
// in the sheet (append-only log, concurrent writers); they are folded
// here at read time.
func uniqueNames(rows [][]string) []string {
	seen := map[string]bool{}
	var names []string
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *lookupService) AddIfAbsent(ctx context.Context, sheet string, name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}

	// Read-then-write: a concurrent submission of the same new name
	// can slip past this check and leave a duplicate row. Accepted;
	// uniqueNames dedupes at read time.
	rows, err := s.ws.Rows(ctx, sheet)
	if err != nil {
		logger.Error("Failed to read lookup sheet before insert", err, map[string]interface{}{
			"worksheet": sheet,
			"name":      name,
		})
		return false
	}
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}
		if strings.TrimSpace(row[0]) == name {
			return true
		}
	}

	if err := s.ws.Append(ctx, sheet, []interface{}{name}); err != nil {
		logger.Error("Failed to append lookup entry", err, map[string]interface{}{
			"worksheet": sheet,
			"name":      name,
		})
		return false
	}

	logger.Info("Lookup entry added", map[string]interface{}{
		"worksheet": sheet,
		"name":      name,
	})

	s.mu.Lock()
	delete(s.cache, sheet)
	s.mu.Unlock()
	return true
}

func (s *lookupService) Refresh(ctx context.Context) error {
	var firstErr error
	for _, sheet := range []string{model.StoreSheet, model.EmployeeSheet} {
		s.mu.Lock()
		delete(s.cache, sheet)
		s.mu.Unlock()
		if _, err := s.fetch(ctx, sheet); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
