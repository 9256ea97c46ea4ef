package questions

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadBank reads a custom question bank from an xlsx workbook: one question
// per row, first non-empty cell wins, header rows mentioning "question"
// skipped. Coaches maintain these banks as plain spreadsheets.
func LoadBank(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open bank: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets in %s", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read bank rows: %w", err)
	}

	var out []string
	for i, row := range rows {
		cell := ""
		for _, c := range row {
			if strings.TrimSpace(c) != "" {
				cell = strings.TrimSpace(c)
				break
			}
		}
		if cell == "" {
			continue
		}
		if i == 0 && strings.Contains(strings.ToLower(cell), "question") {
			continue // header row
		}
		out = append(out, cell)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no questions in %s", path)
	}
	return out, nil
}
