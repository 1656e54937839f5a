package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

var columnWidths = []float64{15, 15, 20, 15, 15, 10, 30}

// WriteWorkbook renders one worksheet per sheet, header row first.
func WriteWorkbook(sheets []Sheet) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, err
	}

	for i, s := range sheets {
		idx, err := f.NewSheet(s.Name)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", s.Name, err)
		}
		if i == 0 {
			f.SetActiveSheet(idx)
		}

		for col, w := range columnWidths {
			name := colName(col)
			if err := f.SetColWidth(s.Name, name, name, w); err != nil {
				return nil, err
			}
		}

		if err := f.SetSheetRow(s.Name, "A1", &Columns); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(s.Name, "A1", cell(colName(len(Columns)-1), 1), headerStyle); err != nil {
			return nil, err
		}

		for r, row := range s.Rows {
			cells := row.Cells()
			if err := f.SetSheetRow(s.Name, cell("A", r+2), &cells); err != nil {
				return nil, err
			}
		}
	}

	if len(sheets) > 0 && !hasSheet(sheets, defaultSheet) {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return nil, err
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func hasSheet(sheets []Sheet, name string) bool {
	for _, s := range sheets {
		if strings.EqualFold(s.Name, name) {
			return true
		}
	}
	return false
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
