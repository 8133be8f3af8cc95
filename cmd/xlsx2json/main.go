// xlsx2json converts checklist workbooks into the dataList JSON payload
// accepted by the extraction service. The input may be one workbook or a
// folder of them; each workbook becomes <stem>.json.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/materialqc/specsheet/internal/convert"
)

func main() {
	in := flag.String("in", "", "input .xlsx workbook or folder of workbooks")
	out := flag.String("out", "", "output folder (default: alongside the input)")
	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "usage: xlsx2json -in checklist.xlsx|folder [-out folder]")
		os.Exit(2)
	}

	files, err := workbookPaths(*in)
	if err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		color.Yellow("no .xlsx files under %s", *in)
		os.Exit(1)
	}
	if *out != "" {
		if err := os.MkdirAll(*out, 0o755); err != nil {
			color.Red("create output folder: %v", err)
			os.Exit(1)
		}
	}

	failed := 0
	for _, file := range files {
		dest := jsonPath(file, *out)
		items, err := convert.WorkbookToChecklist(file)
		if err != nil {
			color.Red("%s: %v", filepath.Base(file), err)
			failed++
			continue
		}
		if err := convert.WriteChecklistJSON(dest, items); err != nil {
			color.Red("%s: %v", filepath.Base(file), err)
			failed++
			continue
		}
		color.Green("%s -> %s (%d items)", filepath.Base(file), filepath.Base(dest), len(items))
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func workbookPaths(in string) ([]string, error) {
	info, err := os.Stat(in)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{in}, nil
	}
	entries, err := os.ReadDir(in)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".xlsx") {
			files = append(files, filepath.Join(in, e.Name()))
		}
	}
	return files, nil
}

func jsonPath(file, outDir string) string {
	stem := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	if outDir == "" {
		outDir = filepath.Dir(file)
	}
	return filepath.Join(outDir, stem+".json")
}
