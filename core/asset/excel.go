package asset

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const excelSheetName = "Assets"

// ExportExcel writes the filtered asset list as an .xlsx workbook and
// returns the number of exported rows. Columns follow ExportHeader so the
// sheet round-trips through ImportCSV once saved as CSV.
func (svc *service) ExportExcel(ctx context.Context, w io.Writer, fs FilterState) (int, error) {
	assets, catNames, err := svc.exportData(ctx, fs)
	if err != nil {
		return 0, err
	}

	f := excelize.NewFile()
	defer f.Close() // nolint:errcheck

	if err = f.SetSheetName(f.GetSheetName(0), excelSheetName); err != nil {
		return 0, errors.Wrap(err, "renaming sheet")
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return 0, errors.Wrap(err, "creating header style")
	}

	if err = f.SetSheetRow(excelSheetName, "A1", rowSlice(ExportHeader)); err != nil {
		return 0, errors.Wrap(err, "writing header row")
	}
	lastCol, err := excelize.ColumnNumberToName(len(ExportHeader))
	if err != nil {
		return 0, err
	}
	if err = f.SetCellStyle(excelSheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return 0, errors.Wrap(err, "styling header row")
	}

	for i, a := range assets {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return 0, err
		}
		if err = f.SetSheetRow(excelSheetName, cell, rowSlice(exportRow(a, catNames[a.CategoryID]))); err != nil {
			return 0, errors.Wrap(err, "writing asset row")
		}
	}

	// freeze the header row
	if err = f.SetPanes(excelSheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return 0, errors.Wrap(err, "freezing header row")
	}

	if _, err = f.WriteTo(w); err != nil {
		return 0, errors.Wrap(err, "writing workbook")
	}
	return len(assets), nil
}

func rowSlice(ss []string) *[]interface{} {
	row := make([]interface{}, len(ss))
	for i, s := range ss {
		row[i] = s
	}
	return &row
}
