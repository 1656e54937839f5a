package report

import "fmt"

// Columns of every employee sheet, in order.
var Columns = []string{"Date", "Day", "Nature of Work", "Time In", "Time Out", "Hours", "Remarks"}

// Row is one calendar day of one employee. Empty strings are blank cells.
type Row struct {
	Date         string `json:"date"`
	Day          string `json:"day"`
	NatureOfWork string `json:"natureOfWork"`
	TimeIn       string `json:"timeIn"`
	TimeOut      string `json:"timeOut"`
	Hours        string `json:"hours"`
	Remarks      string `json:"remarks"`
}

func (r Row) Cells() []string {
	return []string{r.Date, r.Day, r.NatureOfWork, r.TimeIn, r.TimeOut, r.Hours, r.Remarks}
}

// Sheet holds one employee's rows for the whole range.
type Sheet struct {
	Name     string `json:"name"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Rows     []Row  `json:"rows"`
}

// FileName keeps the caller's date strings verbatim.
func FileName(start, end string) string {
	return fmt.Sprintf("Attendance_Report_%s_to_%s.xlsx", start, end)
}
