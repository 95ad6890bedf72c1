package model

import "time"

// Worksheet titles inside the backing spreadsheet. The ledger lives
// in the spreadsheet's default first sheet.
const (
	LedgerSheet   = "Sheet1"
	EmployeeSheet = "Employee Sheet"
	StoreSheet    = "Store Sheet"
)

// VisitStatus values ever written to the ledger. Older exports also
// contain "Active"; new rows are always "Visited".
const (
	StatusVisited = "Visited"
	StatusActive  = "Active"
)

// OutOfStockNote replaces any typed note when the out-of-stock flag
// is set on submission.
const OutOfStockNote = "Out of Stock"

const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

// LedgerHeaders is the ledger column order. VisitRecord.Row must stay
// in lockstep with this slice.
var LedgerHeaders = []string{
	"Store Name",
	"Employee",
	"Date",
	"Before Picture",
	"After Picture",
	"Timestamp",
	"Status",
	"Notes",
}

var (
	EmployeeHeaders = []string{"Employee Name"}
	StoreHeaders    = []string{"Store Name"}
)

// VisitRecord is one completed store visit. It is only constructed
// after both image uploads succeeded, appended once to the ledger and
// never updated.
type VisitRecord struct {
	StoreName      string
	EmployeeName   string
	VisitDate      time.Time
	BeforeImageURL string
	AfterImageURL  string
	SubmittedAt    time.Time
	Status         string
	Notes          string
}

// Row serializes the record into ledger column order. Keeping the
// mapping here, next to LedgerHeaders, is what catches column-order
// mistakes at review time instead of in production data.
func (r VisitRecord) Row() []interface{} {
	return []interface{}{
		r.StoreName,
		r.EmployeeName,
		r.VisitDate.Format(DateLayout),
		r.BeforeImageURL,
		r.AfterImageURL,
		r.SubmittedAt.Format(TimestampLayout),
		r.Status,
		r.Notes,
	}
}
