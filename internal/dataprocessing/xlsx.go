package dataprocessing

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"presviz/pkg/contracts/domain"
)

// parseWorkbook reads the first sheet of an Excel workbook and feeds its
// rows through the same column-inference path as delimited text. Sensor
// logs exported from Excel keep the observations in the first sheet.
func parseWorkbook(path string, opts ParseOptions) ([]domain.Point, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	var data [][]string
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(row[0]), commentPrefix) {
			continue
		}
		blank := true
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				blank = false
				break
			}
		}
		if blank {
			continue
		}
		data = append(data, row)
	}

	return ParseRows(data, opts), nil
}
