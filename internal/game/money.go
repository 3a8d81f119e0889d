package game

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Vietnamese)

// FormatV renders an amount with Vietnamese digit grouping, e.g. "1.234.567 V".
func FormatV(amount int64) string {
	return printer.Sprintf("%d V", amount)
}
