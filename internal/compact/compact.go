// Package compact reduces parsed document markdown to the smallest form that
// still carries the same content, so prompts stay inside the model's token
// window.
package compact

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	reImage     = regexp.MustCompile(`!\[.*?\]\(.*?\)`)
	reHTMLTable = regexp.MustCompile(`(?s)<table.*?</table>`)
	reSpaces    = regexp.MustCompile(` +`)
	reTrailing  = regexp.MustCompile(`[ \t]+\n`)
	reBlankRuns = regexp.MustCompile(`\n{2,}`)
)

// Markdown strips image references, flattens embedded HTML tables into
// compact pipe tables, and normalizes whitespace. Only formatting changes;
// the operation is idempotent.
func Markdown(md string) string {
	content := reImage.ReplaceAllString(md, "")
	content = reHTMLTable.ReplaceAllStringFunc(content, flattenTable)

	content = reSpaces.ReplaceAllString(content, " ")
	content = reTrailing.ReplaceAllString(content, "\n")
	content = reBlankRuns.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}

// flattenTable re-emits one HTML table as a minimal pipe table: header row,
// separator row, data rows. Rows with zero extracted cells are dropped; a
// table with fewer than two rows yields at most the single row without a
// separator.
func flattenTable(tableHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(tableHTML))
	if err != nil {
		return ""
	}
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return ""
	}

	var rows []string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(cell.Text()))
		})
		if len(cells) > 0 {
			rows = append(rows, "|"+strings.Join(cells, "|")+"|")
		}
	})

	if len(rows) == 0 {
		return ""
	}
	if len(rows) < 2 {
		return rows[0]
	}

	cols := strings.Count(rows[0], "|") - 1
	sep := "|" + strings.Join(repeat("---", cols), "|") + "|"
	return rows[0] + "\n" + sep + "\n" + strings.Join(rows[1:], "\n")
}

func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}
