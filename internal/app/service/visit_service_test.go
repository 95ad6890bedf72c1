package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/has-bi/you-posm/internal/app/model"
	"github.com/has-bi/you-posm/internal/sheets"
	"github.com/has-bi/you-posm/internal/storage"
)

func setupVisitServiceTest(t *testing.T) (VisitService, *sheets.Fake, *storage.Fake) {
	fake := sheets.NewFake()
	fake.Seed(model.LedgerSheet, [][]string{model.LedgerHeaders})
	fake.Seed(model.StoreSheet, [][]string{model.StoreHeaders})
	fake.Seed(model.EmployeeSheet, [][]string{model.EmployeeHeaders})

	fakeStore := storage.NewFake("posm-test")
	lookup := NewLookupService(fake)
	visit := NewVisitService(fake, NewImageService(fakeStore), lookup)
	return visit, fake, fakeStore
}

func validInput(t *testing.T) VisitInput {
	return VisitInput{
		StoreName:    "New Mart",
		EmployeeName: "Jane Doe",
		VisitDate:    time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		BeforeImage:  testPhoto(t, 120, 80),
		AfterImage:   testPhoto(t, 120, 80),
		Notes:        "Shelf restocked",
	}
}

func TestVisitService_Submit_HappyPath(t *testing.T) {
	visit, fake, fakeStore := setupVisitServiceTest(t)

	record, err := visit.Submit(context.Background(), validInput(t))
	require.NoError(t, err)

	// Ledger gained exactly one row with both URL columns populated.
	ledger := fake.RowsOf(model.LedgerSheet)
	require.Len(t, ledger, 2)
	row := ledger[1]
	assert.Equal(t, "New Mart", row[0])
	assert.Equal(t, "Jane Doe", row[1])
	assert.Equal(t, "2024-05-01", row[2])
	assert.NotEmpty(t, row[3])
	assert.NotEmpty(t, row[4])
	assert.Equal(t, "Visited", row[6])
	assert.Equal(t, "Shelf restocked", row[7])

	// Both lookup sheets learned the new names.
	assert.Equal(t, "New Mart", fake.RowsOf(model.StoreSheet)[1][0])
	assert.Equal(t, "Jane Doe", fake.RowsOf(model.EmployeeSheet)[1][0])

	// Two photos stored.
	assert.Len(t, fakeStore.Objects(), 2)
	assert.Equal(t, record.BeforeImageURL, row[3])
	assert.Equal(t, record.AfterImageURL, row[4])
}

func TestVisitService_Submit_OutOfStockOverridesNotes(t *testing.T) {
	visit, fake, _ := setupVisitServiceTest(t)

	input := validInput(t)
	input.OutOfStock = true
	input.Notes = "typed something"

	_, err := visit.Submit(context.Background(), input)
	require.NoError(t, err)

	ledger := fake.RowsOf(model.LedgerSheet)
	require.Len(t, ledger, 2)
	assert.Equal(t, model.OutOfStockNote, ledger[1][7])
}

func TestVisitService_Submit_CollectsAllValidationErrors(t *testing.T) {
	visit, fake, fakeStore := setupVisitServiceTest(t)

	_, err := visit.Submit(context.Background(), VisitInput{})

	var problems ValidationErrors
	require.ErrorAs(t, err, &problems)
	assert.Len(t, problems, 4)
	assert.Contains(t, problems, "Store name is required")
	assert.Contains(t, problems, "Employee name is required")
	assert.Contains(t, problems, "Before image is required")
	assert.Contains(t, problems, "After image is required")

	// Zero writes anywhere.
	assert.Len(t, fake.RowsOf(model.LedgerSheet), 1)
	assert.Len(t, fake.RowsOf(model.StoreSheet), 1)
	assert.Len(t, fake.RowsOf(model.EmployeeSheet), 1)
	assert.Empty(t, fakeStore.Objects())
}

func TestVisitService_Submit_PartialValidationFailure(t *testing.T) {
	visit, fake, _ := setupVisitServiceTest(t)

	input := validInput(t)
	input.EmployeeName = "  "
	input.AfterImage = nil

	_, err := visit.Submit(context.Background(), input)

	var problems ValidationErrors
	require.ErrorAs(t, err, &problems)
	assert.Len(t, problems, 2)
	assert.Len(t, fake.RowsOf(model.LedgerSheet), 1)
}

func TestVisitService_Submit_UploadFailureWritesNoRow(t *testing.T) {
	visit, fake, fakeStore := setupVisitServiceTest(t)
	fakeStore.ErrUpload = assert.AnError

	_, err := visit.Submit(context.Background(), validInput(t))
	assert.ErrorIs(t, err, ErrUploadFailed)

	// No partial record: the ledger is untouched.
	assert.Len(t, fake.RowsOf(model.LedgerSheet), 1)
}

func TestVisitService_Submit_AppendFailure(t *testing.T) {
	visit, fake, _ := setupVisitServiceTest(t)
	fake.ErrAppend = assert.AnError

	_, err := visit.Submit(context.Background(), validInput(t))
	assert.ErrorIs(t, err, ErrWriteFailed)
}

func TestVisitService_Submit_ExistingNamesNotDuplicated(t *testing.T) {
	visit, fake, _ := setupVisitServiceTest(t)
	fake.Seed(model.StoreSheet, [][]string{model.StoreHeaders, {"New Mart"}})
	fake.Seed(model.EmployeeSheet, [][]string{model.EmployeeHeaders, {"Jane Doe"}})

	_, err := visit.Submit(context.Background(), validInput(t))
	require.NoError(t, err)

	assert.Len(t, fake.RowsOf(model.StoreSheet), 2)
	assert.Len(t, fake.RowsOf(model.EmployeeSheet), 2)
}
