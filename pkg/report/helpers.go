package report

import "strings"

var cellReplacer = strings.NewReplacer("|", `\|`, "\n", " ")

// cell escapes s for use inside a markdown table cell.
func cell(s string) string {
	if s == "" {
		return "-"
	}
	return cellReplacer.Replace(s)
}
