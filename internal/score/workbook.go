package score

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Column headers expected in comparison workbooks. 上限/下限 hold the
// reference values, 上限新/下限新 the freshly extracted ones.
var requiredColumns = []string{"检验项目", "类型", "上限", "下限", "上限新", "下限新"}

// ReadWorkbook loads every sheet of a comparison workbook into rows keyed by
// sheet name, preserving sheet order.
func ReadWorkbook(path string) ([]string, map[string][]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	bySheet := make(map[string][]Row, len(sheets))
	for _, sheet := range sheets {
		rows, err := readSheet(f, sheet)
		if err != nil {
			return nil, nil, fmt.Errorf("sheet %q: %w", sheet, err)
		}
		bySheet[sheet] = rows
	}
	return sheets, bySheet, nil
}

func readSheet(f *excelize.File, sheet string) ([]Row, error) {
	cells, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(cells) == 0 {
		return nil, nil
	}

	col := make(map[string]int, len(cells[0]))
	for i, h := range cells[0] {
		col[h] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	pick := func(row []string, name string) string {
		i := col[name]
		if i >= len(row) {
			return ""
		}
		return row[i]
	}

	var rows []Row
	for _, r := range cells[1:] {
		name := pick(r, "检验项目")
		if name == "" {
			continue
		}
		rows = append(rows, Row{
			Name:     name,
			Type:     pick(r, "类型"),
			Upper:    pick(r, "上限"),
			Lower:    pick(r, "下限"),
			NewUpper: pick(r, "上限新"),
			NewLower: pick(r, "下限新"),
		})
	}
	return rows, nil
}
