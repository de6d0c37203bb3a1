// Package export renders a filtered, sorted, column-projected view as
// delimited text or a spreadsheet. Both formats are built from the same
// Table call, so they always carry identical logical data.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"review_analytics/internal/domain"
)

// DefaultColumns is the data-view default projection.
var DefaultColumns = []string{"brand", "customer_name", "rating", "date", "matched_keywords"}

// AllColumns lists every projectable canonical column.
var AllColumns = []string{"brand", "customer_name", "review_text", "rating", "date", "matched_keywords", "link"}

const sheetName = "Reviews"

// Table projects the view onto the requested columns. Column order follows
// the request; an empty request means DefaultColumns.
func Table(v domain.FilteredView, columns []string) (header []string, rows [][]string, err error) {
	if len(columns) == 0 {
		columns = DefaultColumns
	}
	for _, c := range columns {
		if !knownColumn(c) {
			return nil, nil, fmt.Errorf("%w: %q", domain.ErrUnknownColumn, c)
		}
	}
	rows = make([][]string, 0, len(v))
	for _, r := range v {
		row := make([]string, len(columns))
		for i, c := range columns {
			row[i] = cell(r, c)
		}
		rows = append(rows, row)
	}
	return columns, rows, nil
}

func knownColumn(name string) bool {
	for _, c := range AllColumns {
		if c == name {
			return true
		}
	}
	return false
}

func cell(r domain.Review, column string) string {
	switch column {
	case "brand":
		return r.Brand
	case "customer_name":
		return r.CustomerName
	case "review_text":
		return r.ReviewText
	case "rating":
		return strconv.Itoa(r.Rating)
	case "date":
		return r.Date.Format("2006-01-02")
	case "matched_keywords":
		return r.MatchedKeywords
	case "link":
		return r.Link
	}
	return ""
}

// WriteCSV streams the projected view as UTF-8 comma-separated text.
func WriteCSV(w io.Writer, v domain.FilteredView, columns []string) error {
	header, rows, err := Table(v, columns)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the same table as a single-sheet workbook.
func WriteXLSX(w io.Writer, v domain.FilteredView, columns []string) error {
	header, rows, err := Table(v, columns)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	for i, h := range header {
		cellName, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cellName, h); err != nil {
			return err
		}
	}
	for rowIdx, row := range rows {
		for colIdx, val := range row {
			cellName, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err := f.SetCellValue(sheetName, cellName, val); err != nil {
				return err
			}
		}
	}
	return f.Write(w)
}
