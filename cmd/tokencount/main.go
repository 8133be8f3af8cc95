// tokencount reports the token footprint of a markdown document, overall and
// per heading section, to help keep prompts inside the model's context.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/materialqc/specsheet/internal/tokens"
)

func main() {
	file := flag.String("file", "", "markdown file to analyze")
	model := flag.String("model", "gpt-4", "model whose encoding to use")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: tokencount -file doc.md [-model gpt-4]")
		os.Exit(2)
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		color.Red("read file: %v", err)
		os.Exit(1)
	}
	md := string(raw)

	count, err := tokens.NewTiktokenCounter(*model)
	if err != nil {
		color.Red("load encoder: %v", err)
		os.Exit(1)
	}

	total, err := count(md)
	if err != nil {
		color.Red("count tokens: %v", err)
		os.Exit(1)
	}
	color.Cyan("%s: %d tokens (%d bytes)", *file, total, len(raw))

	sections, err := tokens.AnalyzeSections(md, count)
	if err != nil {
		color.Red("analyze sections: %v", err)
		os.Exit(1)
	}
	for _, s := range sections {
		indent := ""
		for i := 1; i < s.Level; i++ {
			indent += "  "
		}
		fmt.Printf("%s%-40s %6d tokens  %s\n", indent, s.Title, s.Tokens, s.Preview)
	}
}
