// Package postprocess applies the fixups every result list gets before it
// leaves the pipeline: project-code back-fill and large-number notation.
package postprocess

import (
	"fmt"
	"math"
	"strconv"

	"github.com/materialqc/specsheet/internal/spec"
)

// ScientificThreshold is the magnitude above which limits are rewritten in
// exponential form.
const ScientificThreshold = 100000

// BackfillCodes fills empty project codes from the name→code mapping built
// from the inbound checklist. Returns a copy; input is not mutated.
func BackfillCodes(items []spec.Item, codes map[string]string) []spec.Item {
	out := make([]spec.Item, len(items))
	copy(out, items)
	for i := range out {
		if out[i].ProjectCode == "" && out[i].Name != "" {
			if code, ok := codes[out[i].Name]; ok {
				out[i].ProjectCode = code
			}
		}
	}
	return out
}

// NormalizeLargeNumbers rewrites limits whose absolute value exceeds the
// threshold into exponential form with an uppercase marker and two decimal
// digits. Sentinels (∞, empty) and non-numeric values pass through.
func NormalizeLargeNumbers(items []spec.Item) []spec.Item {
	out := make([]spec.Item, len(items))
	copy(out, items)
	for i := range out {
		out[i].Upper = normalizeValue(out[i].Upper)
		out[i].Lower = normalizeValue(out[i].Lower)
	}
	return out
}

func normalizeValue(v string) string {
	if v == spec.Infinity || v == "" {
		return v
	}
	num, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return v
	}
	if math.Abs(num) > ScientificThreshold {
		return fmt.Sprintf("%.2E", num)
	}
	return v
}
