package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/bookkeeper"
)

// Metric is one computed return figure. A metric whose computation did
// not converge (or was not computable from the inputs) carries the error
// instead of a value and renders as N/A.
type Metric struct {
	Name  string
	Value bookkeeper.Percent
	Err   error
}

// ReturnsMarkdown renders the return metrics of a period side by side.
func ReturnsMarkdown(from, to bookkeeper.Date, metrics []Metric) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Returns from %s to %s\n\n", from, to)
	fmt.Fprintln(&b, "| Metric | Return |")
	fmt.Fprintln(&b, "|:---|---:|")
	for _, m := range metrics {
		if m.Err != nil {
			fmt.Fprintf(&b, "| %s | N/A |\n", m.Name)
			continue
		}
		fmt.Fprintf(&b, "| %s | %s |\n", m.Name, m.Value.SignedString())
	}

	return b.String()
}
