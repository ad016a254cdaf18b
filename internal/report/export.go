package report

import (
	"io"
	"sort"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Overview"
	growthSheet  = "Growth"
)

func setRow(f *excelize.File, sheet string, row int, values ...interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func sortedKeys(m map[string]int) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}

// WriteXLSX renders the overview as a workbook with a summary sheet and a
// monthly growth sheet.
func WriteXLSX(w io.Writer, ov Overview) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return errors.Wrap(err, "rename sheet")
	}
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Users", ov.Users.Total},
	}
	for _, k := range sortedKeys(ov.Users.ByType) {
		rows = append(rows, []interface{}{"Users (" + k + ")", ov.Users.ByType[k]})
	}
	rows = append(rows, []interface{}{"Orders", ov.Orders.Total})
	for _, k := range sortedKeys(ov.Orders.ByStatus) {
		rows = append(rows, []interface{}{"Orders (" + k + ")", ov.Orders.ByStatus[k]})
	}
	rows = append(rows,
		[]interface{}{"Revenue", ov.Orders.Revenue},
		[]interface{}{"Average order value", ov.Orders.AverageValue},
		[]interface{}{"Median order value", ov.Orders.MedianValue},
		[]interface{}{"Inquiries", ov.Inquiries.Total},
		[]interface{}{"Stock keys", ov.StockKeys},
	)
	for i, r := range rows {
		if err := setRow(f, summarySheet, i+1, r...); err != nil {
			return errors.Wrap(err, "write overview")
		}
	}

	if _, err := f.NewSheet(growthSheet); err != nil {
		return errors.Wrap(err, "create growth sheet")
	}
	if err := setRow(f, growthSheet, 1, "Month", "Orders", "Revenue"); err != nil {
		return errors.Wrap(err, "write growth")
	}
	for i, mp := range ov.Growth {
		if err := setRow(f, growthSheet, i+2, mp.Month, mp.Orders, mp.Revenue); err != nil {
			return errors.Wrap(err, "write growth")
		}
	}

	_, err := f.WriteTo(w)
	return errors.Wrap(err, "write workbook")
}
