package reports

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

type ExcelExporter interface {
	GetCellValues() []interface{}
}

// WriteExcel renders one sheet with a heading row and streams it to w.
// Handlers set the spreadsheet content type and attachment disposition.
func WriteExcel(w io.Writer, headings []string, rows []ExcelExporter) error {
	f := excelize.NewFile()
	sheetName := "Sheet1"
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	col := 'A'
	for _, h := range headings {
		f.SetCellValue(sheetName, string(col)+"1", h)
		col++
	}

	rowNo := 2
	for _, d := range rows {
		col := 'A'
		for _, value := range d.GetCellValues() {
			f.SetCellValue(sheetName, string(col)+fmt.Sprint(rowNo), value)
			col++
		}
		rowNo++
	}

	return f.Write(w)
}
