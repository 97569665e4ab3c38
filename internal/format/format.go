// Package format holds the value-to-text transforms shared by the live
// table, the report document and the exporters.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"khazana/internal/core"
)

var urduPrinter = message.NewPrinter(language.MustParse("ur-PK"))

// Amount renders a parsed amount with the rupee glyph and ur-PK digit
// grouping, at most two fraction digits.
func Amount(d decimal.Decimal) string {
	f, _ := d.Float64()
	return "₨ " + urduPrinter.Sprint(number.Decimal(f, number.MaxFractionDigits(2)))
}

// AmountString parses and renders in one step; invalid input renders as zero.
func AmountString(s string) string {
	return Amount(core.ParseAmount(s))
}

var (
	urduWeekdays = [...]string{"اتوار", "پیر", "منگل", "بدھ", "جمعرات", "جمعہ", "ہفتہ"}
	urduMonths   = [...]string{"جنوری", "فروری", "مارچ", "اپریل", "مئی", "جون",
		"جولائی", "اگست", "ستمبر", "اکتوبر", "نومبر", "دسمبر"}
)

// DateTime renders a full Urdu date with a short 12-hour time, e.g.
// "منگل، 5 مارچ، 2024، 4:30 بعد دوپہر".
func DateTime(t time.Time) string {
	meridiem := "قبل دوپہر"
	hour := t.Hour()
	if hour >= 12 {
		meridiem = "بعد دوپہر"
	}
	hour12 := hour % 12
	if hour12 == 0 {
		hour12 = 12
	}
	return fmt.Sprintf("%s، %d %s، %d، %d:%02d %s",
		urduWeekdays[int(t.Weekday())], t.Day(), urduMonths[int(t.Month())-1],
		t.Year(), hour12, t.Minute(), meridiem)
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeHTML escapes the five HTML-significant characters.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

var newlineCollapser = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// SanitizeCell collapses embedded line breaks to single spaces and trims.
// CSV quoting (wrapping and quote doubling) is the caller's job.
func SanitizeCell(s string) string {
	return strings.TrimSpace(newlineCollapser.Replace(s))
}

var noteBreaker = strings.NewReplacer("\r\n", "<br />", "\n", "<br />", "\r", "<br />")

// NoteHTML renders a note for HTML embedding: "-" when empty, otherwise
// escaped with line breaks turned into break tags.
func NoteHTML(s string) string {
	if s == "" {
		return "-"
	}
	return noteBreaker.Replace(EscapeHTML(s))
}

// FileStamp renders the zero-padded date used in export filenames.
func FileStamp(t time.Time) string {
	return t.Format("2006-01-02")
}
