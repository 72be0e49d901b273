package stats

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatCount renders n with digit grouping, e.g. 1,234.
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// FormatPercent renders count/total as a percentage with one decimal,
// e.g. "33.3%".
func FormatPercent(count, total int) string {
	return printer.Sprintf("%.1f%%", Percent(count, total))
}
