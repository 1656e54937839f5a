package report

import (
	"strings"
	"testing"
	"time"

	"go-otta/internal/domain"
	reporterrors "go-otta/internal/report/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(day string, hhmm string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", day+" "+hhmm, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func officeLog(id, userID, name, day, in, out string, minutes int) domain.TimeLog {
	l := domain.TimeLog{
		ID:       id,
		UserID:   userID,
		UserName: name,
		Type:     domain.LogTypeOfficeWork,
		CheckIn:  at(day, in),
		Status:   domain.LogStatusActive,
		Date:     day,
	}
	if out != "" {
		co := at(day, out)
		l.CheckOut = &co
		l.DurationMinutes = &minutes
		l.Status = domain.LogStatusCompleted
	}
	return l
}

func leaveLog(id, userID, name, day string, t domain.LogType, remarks string) domain.TimeLog {
	marker := at(day, "00:00")
	zero := 0
	return domain.TimeLog{
		ID: id, UserID: userID, UserName: name, Type: t,
		CheckIn: marker, CheckOut: &marker, DurationMinutes: &zero,
		Status: domain.LogStatusCompleted, Date: day, Remarks: remarks,
	}
}

func TestCompile_AllWeekdaysAbsent(t *testing.T) {
	logs := []domain.TimeLog{officeLog("old", "u1", "Alex Rivera", "2024-02-01", "09:00", "17:00", 480)}

	sheets, err := Compile(logs, "2024-03-04", "2024-03-08", time.UTC)
	require.NoError(t, err)
	require.Len(t, sheets, 1)
	require.Len(t, sheets[0].Rows, 5)
	for _, row := range sheets[0].Rows {
		assert.Equal(t, "ABSENT", row.NatureOfWork)
		assert.Empty(t, row.TimeIn)
		assert.Empty(t, row.Hours)
	}
	assert.Equal(t, "03/04/2024", sheets[0].Rows[0].Date)
	assert.Equal(t, "Monday", sheets[0].Rows[0].Day)
	assert.Equal(t, "Friday", sheets[0].Rows[4].Day)
}

func TestCompile_WeekendsAreBlank(t *testing.T) {
	logs := []domain.TimeLog{officeLog("old", "u1", "Alex Rivera", "2024-02-01", "09:00", "17:00", 480)}

	sheets, err := Compile(logs, "2024-03-04", "2024-03-10", time.UTC)
	require.NoError(t, err)
	rows := sheets[0].Rows
	require.Len(t, rows, 7)

	assert.Equal(t, "Saturday", rows[5].Day)
	assert.Empty(t, rows[5].NatureOfWork)
	assert.Equal(t, "Sunday", rows[6].Day)
	assert.Empty(t, rows[6].NatureOfWork)
	assert.Equal(t, "ABSENT", rows[4].NatureOfWork)
}

func TestCompile_RowContents(t *testing.T) {
	office := officeLog("a", "u1", "Alex Rivera", "2024-03-04", "09:05", "17:35", 510)
	office.Remarks = "standup"
	active := officeLog("b", "u1", "Alex Rivera", "2024-03-05", "08:30", "", 0)
	sick := leaveLog("c", "u1", "Alex Rivera", "2024-03-06", domain.LogTypeSickLeave, "flu")
	casual := leaveLog("d", "u1", "Alex Rivera", "2024-03-07", domain.LogTypeCasualLeave, "")
	zeroLength := officeLog("e", "u1", "Alex Rivera", "2024-03-08", "10:00", "10:00", 0)

	sheets, err := Compile([]domain.TimeLog{office, active, sick, casual, zeroLength}, "2024-03-04", "2024-03-08", time.UTC)
	require.NoError(t, err)
	rows := sheets[0].Rows

	assert.Equal(t, Row{
		Date: "03/04/2024", Day: "Monday", NatureOfWork: "OFFICE WORK",
		TimeIn: "09:05 AM", TimeOut: "05:35 PM", Hours: "8.50", Remarks: "standup",
	}, rows[0])

	assert.Equal(t, "08:30 AM", rows[1].TimeIn)
	assert.Equal(t, "Active", rows[1].TimeOut)
	assert.Empty(t, rows[1].Hours)

	assert.Equal(t, Row{Date: "03/06/2024", Day: "Wednesday", NatureOfWork: "SICK LEAVE", Remarks: "flu"}, rows[2])
	assert.Equal(t, "CASUAL LEAVE", rows[3].NatureOfWork)

	assert.Equal(t, "10:00 AM", rows[4].TimeOut)
	assert.Empty(t, rows[4].Hours, "zero duration renders blank")
}

func TestCompile_FirstEntryOfDayWins(t *testing.T) {
	logs := []domain.TimeLog{
		officeLog("first", "u1", "Alex Rivera", "2024-03-04", "09:00", "12:00", 180),
		officeLog("second", "u1", "Alex Rivera", "2024-03-04", "13:00", "17:00", 240),
	}

	sheets, err := Compile(logs, "2024-03-04", "2024-03-04", time.UTC)
	require.NoError(t, err)
	require.Len(t, sheets[0].Rows, 1)
	assert.Equal(t, "3.00", sheets[0].Rows[0].Hours)
}

func TestCompile_UsesLocationForTimes(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	logs := []domain.TimeLog{officeLog("a", "u1", "Alex Rivera", "2024-03-04", "07:00", "15:00", 480)}

	sheets, err := Compile(logs, "2024-03-04", "2024-03-04", loc)
	require.NoError(t, err)
	assert.Equal(t, "09:00 AM", sheets[0].Rows[0].TimeIn)
	assert.Equal(t, "05:00 PM", sheets[0].Rows[0].TimeOut)
}

func TestCompile_SheetPerUserInFirstSeenOrder(t *testing.T) {
	logs := []domain.TimeLog{
		officeLog("1", "u3", "Jordan Smith", "2024-03-04", "09:00", "17:00", 480),
		officeLog("2", "u1", "Alex Rivera", "2024-03-04", "09:00", "17:00", 480),
		officeLog("3", "u3", "Jordan S. (renamed)", "2024-03-05", "09:00", "17:00", 480),
	}

	sheets, err := Compile(logs, "2024-03-04", "2024-03-05", time.UTC)
	require.NoError(t, err)
	require.Len(t, sheets, 2)
	assert.Equal(t, "Jordan Smith", sheets[0].Name, "name comes from the first log")
	assert.Equal(t, "Alex Rivera", sheets[1].Name)
	assert.Equal(t, "OFFICE WORK", sheets[0].Rows[1].NatureOfWork)
	assert.Equal(t, "ABSENT", sheets[1].Rows[1].NatureOfWork)
}

func TestCompile_SheetNames(t *testing.T) {
	long := strings.Repeat("abcdefghij", 4)
	logs := []domain.TimeLog{
		officeLog("1", "u1", "O'Brien, Pat!", "2024-03-04", "09:00", "17:00", 480),
		officeLog("2", "u2", long, "2024-03-04", "09:00", "17:00", 480),
		officeLog("3", "u3", "OBrien Pat", "2024-03-04", "09:00", "17:00", 480),
		officeLog("4", "u4", "@#$", "2024-03-04", "09:00", "17:00", 480),
		officeLog("5", "u5", "", "2024-03-04", "09:00", "17:00", 480),
		officeLog("6", "u6", long+"xyz", "2024-03-04", "09:00", "17:00", 480),
	}

	sheets, err := Compile(logs, "2024-03-04", "2024-03-04", time.UTC)
	require.NoError(t, err)

	var names []string
	for _, s := range sheets {
		names = append(names, s.Name)
		assert.LessOrEqual(t, len(s.Name), 30)
	}
	assert.Equal(t, []string{
		"OBrien Pat",
		long[:30],
		"OBrien Pat 2",
		"Employee",
		"User u5",
		long[:28] + " 2",
	}, names)
	assert.Equal(t, "User u5", sheets[4].UserName)
}

func TestCompile_Errors(t *testing.T) {
	logs := []domain.TimeLog{officeLog("1", "u1", "Alex Rivera", "2024-03-04", "09:00", "17:00", 480)}

	_, err := Compile(logs, "2024-03-10", "2024-03-04", time.UTC)
	assert.ErrorIs(t, err, reporterrors.ErrInvalidRange)

	_, err = Compile(logs, "03/04/2024", "2024-03-04", time.UTC)
	assert.ErrorIs(t, err, reporterrors.ErrInvalidDate)

	_, err = Compile(nil, "2024-03-04", "2024-03-04", time.UTC)
	assert.ErrorIs(t, err, reporterrors.ErrNoReportData)
}

func TestCompile_Deterministic(t *testing.T) {
	logs := []domain.TimeLog{
		officeLog("1", "u1", "Alex Rivera", "2024-03-04", "09:00", "17:00", 480),
		leaveLog("2", "u2", "Sarah Chen", "2024-03-05", domain.LogTypeOther, "training"),
	}

	a, err := Compile(logs, "2024-03-01", "2024-03-31", time.UTC)
	require.NoError(t, err)
	b, err := Compile(logs, "2024-03-01", "2024-03-31", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a[0].Rows, 31)
	assert.Equal(t, "OTHER", a[1].Rows[4].NatureOfWork)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Attendance_Report_2024-03-01_to_2024-03-31.xlsx", FileName("2024-03-01", "2024-03-31"))
}
