package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/has-bi/you-posm/internal/app/model"
	"github.com/has-bi/you-posm/internal/sheets"
	"github.com/has-bi/you-posm/pkg/logger"
)

var (
	ErrUploadFailed = errors.New("image upload failed")
	ErrWriteFailed  = errors.New("ledger append failed")
)

// ValidationErrors lists every missing required field of a
// submission. Checks never fail fast so the form can show all
// problems at once.
type ValidationErrors []string

func (e ValidationErrors) Error() string {
	return "invalid submission: " + strings.Join(e, "; ")
}

// VisitInput is one form submission as handed over by the controller.
type VisitInput struct {
	StoreName    string
	EmployeeName string
	VisitDate    time.Time
	BeforeImage  []byte
	AfterImage   []byte
	OutOfStock   bool
	Notes        string
}

// VisitService runs the submission workflow: validate, record new
// lookup names, upload both photos, append the ledger row.
type VisitService interface {
	Submit(ctx context.Context, input VisitInput) (*model.VisitRecord, error)
}

type visitService struct {
	ws     sheets.Worksheets
	images ImageService
	lookup LookupService
	now    func() time.Time
}

func NewVisitService(ws sheets.Worksheets, images ImageService, lookup LookupService) VisitService {
	return &visitService{
		ws:     ws,
		images: images,
		lookup: lookup,
		now:    time.Now,
	}
}

func (s *visitService) Submit(ctx context.Context, input VisitInput) (*model.VisitRecord, error) {
	input.StoreName = strings.TrimSpace(input.StoreName)
	input.EmployeeName = strings.TrimSpace(input.EmployeeName)

	// Validation runs before any write; an invalid submission leaves
	// the spreadsheet and the bucket untouched.
	var problems ValidationErrors
	if input.StoreName == "" {
		problems = append(problems, "Store name is required")
	}
	if input.EmployeeName == "" {
		problems = append(problems, "Employee name is required")
	}
	if len(input.BeforeImage) == 0 {
		problems = append(problems, "Before image is required")
	}
	if len(input.AfterImage) == 0 {
		problems = append(problems, "After image is required")
	}
	if len(problems) > 0 {
		return nil, problems
	}

	if input.VisitDate.IsZero() {
		input.VisitDate = s.now()
	}

	// Lookup inserts are advisory: a failed insert degrades the
	// dropdowns, not the submission.
	if !s.lookup.AddIfAbsent(ctx, model.StoreSheet, input.StoreName) {
		logger.Warn("Store lookup insert failed", map[string]interface{}{
			"store": input.StoreName,
		})
	}
	if !s.lookup.AddIfAbsent(ctx, model.EmployeeSheet, input.EmployeeName) {
		logger.Warn("Employee lookup insert failed", map[string]interface{}{
			"employee": input.EmployeeName,
		})
	}

	beforeURL, err := s.images.Ingest(ctx, input.BeforeImage, input.StoreName, input.EmployeeName, KindBefore)
	if err != nil {
		return nil, fmt.Errorf("%w: before image: %w", ErrUploadFailed, err)
	}
	afterURL, err := s.images.Ingest(ctx, input.AfterImage, input.StoreName, input.EmployeeName, KindAfter)
	if err != nil {
		// The before object stays in the bucket unreferenced; the
		// ledger row is what must never be partial.
		return nil, fmt.Errorf("%w: after image: %w", ErrUploadFailed, err)
	}

	notes := strings.TrimSpace(input.Notes)
	if input.OutOfStock {
		notes = model.OutOfStockNote
	}

	record := &model.VisitRecord{
		StoreName:      input.StoreName,
		EmployeeName:   input.EmployeeName,
		VisitDate:      input.VisitDate,
		BeforeImageURL: beforeURL,
		AfterImageURL:  afterURL,
		SubmittedAt:    s.now(),
		Status:         model.StatusVisited,
		Notes:          notes,
	}

	if err := s.ws.Append(ctx, model.LedgerSheet, record.Row()); err != nil {
		logger.Error("Ledger append failed", err, map[string]interface{}{
			"store":    record.StoreName,
			"employee": record.EmployeeName,
		})
		return nil, fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	logger.Info("Visit recorded", map[string]interface{}{
		"store":    record.StoreName,
		"employee": record.EmployeeName,
		"date":     record.VisitDate.Format(model.DateLayout),
		"status":   record.Status,
	})

	// Keep the dropdowns warm for the next render; best effort.
	if err := s.lookup.Refresh(ctx); err != nil {
		logger.Warn("Lookup refresh after submit failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return record, nil
}
