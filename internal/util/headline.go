package util

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// Headline turns a raw keyword like "fintech-startups" into a display
// name like "Fintech Startups".
func Headline(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	return titleCaser.String(strings.Join(strings.Fields(s), " "))
}
