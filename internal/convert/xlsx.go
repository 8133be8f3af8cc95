// Package convert moves checklists between XLSX workbooks and the JSON wire
// format used by the extraction endpoint.
package convert

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/materialqc/specsheet/internal/spec"
)

// resultHeaders is the column order for exported result sheets.
var resultHeaders = []string{"项目代码", "检验项目", "类型", "上限", "下限", "单位"}

// WorkbookToChecklist reads the first sheet of a checklist workbook into
// items. Rows missing a project code or an item name are skipped; the type
// defaults to quantitative; qualitative rows get fixed "0" limits, all
// others start empty.
func WorkbookToChecklist(path string) ([]spec.Item, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	col := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		col[strings.TrimSpace(h)] = i
	}
	pick := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var items []spec.Item
	for _, row := range rows[1:] {
		code := pick(row, "项目代码")
		name := pick(row, "检验项目")
		if code == "" || name == "" {
			continue
		}
		typ := pick(row, "类型")
		if typ == "" {
			typ = spec.TypeQuantitative
		}
		upper, lower := "", ""
		if typ == spec.TypeQualitative {
			upper, lower = "0", "0"
		}
		items = append(items, spec.Item{
			ProjectCode: code,
			Name:        name,
			Type:        typ,
			Upper:       upper,
			Lower:       lower,
			Unit:        pick(row, "单位"),
		})
	}
	return items, nil
}

// WriteChecklistJSON writes a checklist as indented UTF-8 JSON.
func WriteChecklistJSON(path string, items []spec.Item) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

// AppendResultSheet adds a result list to a workbook as a new sheet named
// after the source document. The workbook is created when missing.
func AppendResultSheet(path, sheetName string, items []spec.Item) error {
	var f *excelize.File
	if _, err := os.Stat(path); err == nil {
		f, err = excelize.OpenFile(path)
		if err != nil {
			return fmt.Errorf("open workbook: %w", err)
		}
	} else {
		f = excelize.NewFile()
	}
	defer f.Close()

	// Sheet names cap at 31 chars in the XLSX format.
	if len([]rune(sheetName)) > 31 {
		sheetName = string([]rune(sheetName)[:31])
	}
	if idx, _ := f.GetSheetIndex(sheetName); idx == -1 {
		if _, err := f.NewSheet(sheetName); err != nil {
			return fmt.Errorf("new sheet: %w", err)
		}
	}

	for i, h := range resultHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return err
		}
	}
	for r, it := range items {
		values := []string{it.ProjectCode, it.Name, it.Type, it.Upper, it.Lower, it.Unit}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
