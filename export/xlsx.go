package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/carmarket/engine"
)

// maxSheetName is Excel's limit on sheet name length.
const maxSheetName = 31

// WriteWorkbook saves every chart's data to one XLSX file, a sheet per chart
// named after its ID.
func WriteWorkbook(path string, charts []*engine.ChartConfig) (err error) {
	if len(charts) == 0 {
		return fmt.Errorf("workbook: %w", engine.ErrNoData)
	}

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("workbook style: %w", err)
	}

	for i, cfg := range charts {
		sheet := sheetName(cfg.ID)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("sheet %s: %w", sheet, err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("sheet %s: %w", sheet, err)
		}

		if err := fillSheet(f, sheet, cfg, bold); err != nil {
			return fmt.Errorf("sheet %s: %w", sheet, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func fillSheet(f *excelize.File, sheet string, cfg *engine.ChartConfig, headerStyle int) error {
	header, rows := Table(cfg)

	for col, h := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, colName(col), colName(col), 22); err != nil {
			return err
		}
	}
	if len(header) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return err
		}
	}

	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

func colName(col int) string {
	name, _ := excelize.ColumnNumberToName(col + 1)
	return name
}

func sheetName(id string) string {
	if len(id) > maxSheetName {
		return id[:maxSheetName]
	}
	return id
}
