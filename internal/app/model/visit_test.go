package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVisitRecord_Row(t *testing.T) {
	record := VisitRecord{
		StoreName:      "New Mart",
		EmployeeName:   "Jane Doe",
		VisitDate:      time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		BeforeImageURL: "https://storage.googleapis.com/b/before.jpg",
		AfterImageURL:  "https://storage.googleapis.com/b/after.jpg",
		SubmittedAt:    time.Date(2024, 5, 1, 14, 30, 5, 0, time.UTC),
		Status:         StatusVisited,
		Notes:          "Shelf restocked",
	}

	row := record.Row()
	assert.Len(t, row, len(LedgerHeaders))
	assert.Equal(t, []interface{}{
		"New Mart",
		"Jane Doe",
		"2024-05-01",
		"https://storage.googleapis.com/b/before.jpg",
		"https://storage.googleapis.com/b/after.jpg",
		"2024-05-01 14:30:05",
		"Visited",
		"Shelf restocked",
	}, row)
}
