package report

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"go-otta/internal/domain"
	reporterrors "go-otta/internal/report/errors"
)

const (
	rowDateLayout = "01/02/2006"
	rowDayLayout  = "Monday"
	rowTimeLayout = "03:04 PM"

	maxSheetName      = 30
	fallbackSheetName = "Employee"
)

var sheetNameStrip = regexp.MustCompile(`[^\w\s]`)

// Compile expands the sparse log set into one dense sheet per employee,
// covering every day from start to end inclusive. Employees appear in the
// order of their first log. The output depends only on its arguments.
func Compile(logs []domain.TimeLog, start, end string, loc *time.Location) ([]Sheet, error) {
	if loc == nil {
		loc = time.Local
	}
	from, to, err := parseRange(start, end, loc)
	if err != nil {
		return nil, err
	}

	order, byUser := partition(logs)
	if len(order) == 0 {
		return nil, reporterrors.ErrNoReportData
	}

	names := newSheetNamer()
	sheets := make([]Sheet, 0, len(order))
	for _, userID := range order {
		userLogs := byUser[userID]
		userName := userLogs[0].UserName
		if userName == "" {
			userName = "User " + userID
		}

		sheet := Sheet{
			Name:     names.next(userName),
			UserID:   userID,
			UserName: userName,
		}
		for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
			sheet.Rows = append(sheet.Rows, buildRow(day, userLogs, loc))
		}
		sheets = append(sheets, sheet)
	}
	return sheets, nil
}

func parseRange(start, end string, loc *time.Location) (time.Time, time.Time, error) {
	from, err := time.ParseInLocation(domain.DateLayout, start, loc)
	if err != nil {
		return time.Time{}, time.Time{}, reporterrors.ErrInvalidDate
	}
	to, err := time.ParseInLocation(domain.DateLayout, end, loc)
	if err != nil {
		return time.Time{}, time.Time{}, reporterrors.ErrInvalidDate
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, reporterrors.ErrInvalidRange
	}
	return from, to, nil
}

func partition(logs []domain.TimeLog) ([]string, map[string][]domain.TimeLog) {
	var order []string
	byUser := make(map[string][]domain.TimeLog)
	for _, l := range logs {
		if _, seen := byUser[l.UserID]; !seen {
			order = append(order, l.UserID)
		}
		byUser[l.UserID] = append(byUser[l.UserID], l)
	}
	return order, byUser
}

func buildRow(day time.Time, logs []domain.TimeLog, loc *time.Location) Row {
	row := Row{
		Date: day.Format(rowDateLayout),
		Day:  day.Format(rowDayLayout),
	}

	log := findByDate(logs, day.Format(domain.DateLayout))
	switch {
	case log == nil:
		if !isWeekend(day) {
			row.NatureOfWork = "ABSENT"
		}
	case log.Type == domain.LogTypeOfficeWork:
		row.NatureOfWork = "OFFICE WORK"
		row.TimeIn = log.CheckIn.In(loc).Format(rowTimeLayout)
		row.TimeOut = "Active"
		if log.CheckOut != nil {
			row.TimeOut = log.CheckOut.In(loc).Format(rowTimeLayout)
		}
		if m := log.Minutes(); m > 0 {
			row.Hours = fmt.Sprintf("%.2f", float64(m)/60)
		}
		row.Remarks = log.Remarks
	default:
		row.NatureOfWork = strings.ReplaceAll(string(log.Type), "_", " ")
		row.Remarks = log.Remarks
	}
	return row
}

// findByDate returns the first entry recorded on date.
func findByDate(logs []domain.TimeLog, date string) *domain.TimeLog {
	for i := range logs {
		if logs[i].Date == date {
			return &logs[i]
		}
	}
	return nil
}

func isWeekend(day time.Time) bool {
	wd := day.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// sheetNamer sanitizes employee names into unique worksheet names.
type sheetNamer struct {
	used map[string]bool
}

func newSheetNamer() *sheetNamer {
	return &sheetNamer{used: make(map[string]bool)}
}

func (n *sheetNamer) next(employee string) string {
	base := truncate(sheetNameStrip.ReplaceAllString(employee, ""), maxSheetName)
	if strings.TrimSpace(base) == "" {
		base = fallbackSheetName
	}

	name := base
	for i := 2; n.used[strings.ToLower(name)]; i++ {
		suffix := fmt.Sprintf(" %d", i)
		name = truncate(base, maxSheetName-len(suffix)) + suffix
	}
	n.used[strings.ToLower(name)] = true
	return name
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
