package export

import (
	"github.com/xuri/excelize/v2"

	"github.com/lzcapp/PhotoGPSExtractor/internal/metadata"
)

const sheetName = "Locations"

// writeXLSX writes the tabular view as a spreadsheet: bold header on a
// shaded first row, columns sized to their widest content. Numeric fields
// are written as numbers so spreadsheet consumers can sort and filter them.
func writeXLSX(path string, records []metadata.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
	if err != nil {
		return err
	}

	header := make([]interface{}, len(tabularHeader))
	widths := make([]int, len(tabularHeader))
	for i, h := range tabularHeader {
		header[i] = h
		widths[i] = len(h)
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", "F1", headerStyle); err != nil {
		return err
	}

	for i, rec := range records {
		strs := tabularRow(rec)
		for j, s := range strs {
			if len(s) > widths[j] {
				widths[j] = len(s)
			}
		}
		cells := []interface{}{rec.Latitude, rec.Longitude, nil, nil, strs[4], strs[5]}
		if rec.Altitude != nil {
			cells[2] = *rec.Altitude
		}
		if rec.Timestamp != nil {
			cells[3] = *rec.Timestamp
		}
		start, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, start, &cells); err != nil {
			return err
		}
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		width := float64(w) + 2
		if width < 10 {
			width = 10
		}
		if width > 60 {
			width = 60
		}
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}
