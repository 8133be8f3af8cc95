// speccompare scores extraction accuracy: it walks a workbook whose sheets
// hold reference limits alongside newly extracted ones and prints per-sheet
// and overall match rates.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/materialqc/specsheet/internal/score"
)

func main() {
	file := flag.String("file", "", "comparison workbook (.xlsx)")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: speccompare -file results.xlsx")
		os.Exit(2)
	}

	sheets, rows, err := score.ReadWorkbook(*file)
	if err != nil {
		color.Red("read workbook: %v", err)
		os.Exit(1)
	}

	bar := progressbar.Default(int64(len(sheets)), "scoring")
	results := make([]score.SheetResult, 0, len(sheets))
	for _, sheet := range sheets {
		results = append(results, score.ScoreSheet(sheet, rows[sheet]))
		_ = bar.Add(1)
	}
	fmt.Println()

	for _, r := range results {
		line := fmt.Sprintf("%-30s %4d/%4d cells  %6.2f%%", r.Sheet, r.Matched, r.TotalCells, r.Rate())
		if r.Mismatched == 0 {
			color.Green(line)
		} else {
			color.Yellow(line)
		}
	}

	sum := score.Aggregate(results)
	fmt.Println()
	color.Cyan("overall: %d/%d cells  %.2f%%", sum.Matched, sum.TotalCells, sum.Rate())
}
