package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/has-bi/you-posm/pkg/logger"
)

// EnsureSheet makes sure a worksheet exists and carries the expected
// header row. It is idempotent and never destructive: a sheet whose
// header differs from the expectation is left untouched and the
// mismatch is logged, because rewriting headers above live rows would
// silently break the ledger.
func EnsureSheet(ctx context.Context, ws Worksheets, title string, headers []string) error {
	titles, err := ws.Titles(ctx)
	if err != nil {
		return fmt.Errorf("failed to list worksheets: %w", err)
	}

	exists := false
	for _, t := range titles {
		if t == title {
			exists = true
			break
		}
	}
	if !exists {
		if err := ws.Create(ctx, title); err != nil {
			return fmt.Errorf("failed to create worksheet %q: %w", title, err)
		}
		logger.Info("Worksheet created", map[string]interface{}{
			"worksheet": title,
		})
	}

	rows, err := ws.Rows(ctx, title)
	if err != nil {
		return fmt.Errorf("failed to read worksheet %q: %w", title, err)
	}

	if sheetIsEmpty(rows) {
		if err := ws.WriteHeader(ctx, title, headers); err != nil {
			return fmt.Errorf("failed to write header for %q: %w", title, err)
		}
		logger.Info("Header row written", map[string]interface{}{
			"worksheet": title,
			"headers":   headers,
		})
		return nil
	}

	if !headerMatches(rows[0], headers) {
		logger.Warn("Worksheet header differs from expected schema, leaving sheet untouched", map[string]interface{}{
			"worksheet": title,
			"expected":  strings.Join(headers, ", "),
			"actual":    strings.Join(rows[0], ", "),
		})
	}
	return nil
}

// sheetIsEmpty reports whether the sheet has no data. A single row of
// entirely blank cells still counts as empty.
func sheetIsEmpty(rows [][]string) bool {
	if len(rows) == 0 {
		return true
	}
	if len(rows) > 1 {
		return false
	}
	for _, cell := range rows[0] {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func headerMatches(actual, expected []string) bool {
	if len(actual) < len(expected) {
		return false
	}
	for i, want := range expected {
		if strings.TrimSpace(actual[i]) != want {
			return false
		}
	}
	// Extra trailing columns are tolerated; only the expected prefix
	// matters for row assembly.
	return true
}
