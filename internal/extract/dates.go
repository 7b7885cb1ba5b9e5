// Package extract derives structured metadata from unstructured portal
// and pleading text: canonical dates, labeled relevant dates, and a
// best-guess pleading title from first-page text. Everything here is
// best-effort; upstream text comes out of a web portal and scanned
// filings, so no function in this package returns an error.
package extract

import (
	"regexp"
	"strings"
	"time"
)

// canonicalLayout is the MM-DD-YYYY form every date normalizes to.
const canonicalLayout = "01-02-2006"

// dateLayouts are tried in order; the first successful parse wins.
// Non-padded layouts accept both "3/5/2024" and "03/05/2024".
var dateLayouts = []string{
	"1/2/2006",
	"1-2-2006",
	"2006-1-2",
	"1/2/06",
	"Jan 2, 2006",
	"January 2, 2006",
}

var (
	isoDateRE = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	usDateRE  = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`)
)

// NormalizeDate reformats a free-form date string to MM-DD-YYYY. If no
// known format matches, it falls back to scanning for an ISO-like or
// US-slash-like substring before returning the input unchanged.
func NormalizeDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(canonicalLayout)
		}
	}
	if m := isoDateRE.FindString(s); m != "" {
		if t, err := time.Parse("2006-1-2", m); err == nil {
			return t.Format(canonicalLayout)
		}
	}
	if m := usDateRE.FindString(s); m != "" {
		if t, err := time.Parse("1/2/2006", m); err == nil {
			return t.Format(canonicalLayout)
		}
	}
	return s
}

// dateAlt matches either a textual date ("March 5, 2024") or a slash
// date ("3/5/24", "03/05/2024") as the single capture group.
const dateAlt = `((?:\w{3,9}\s+\d{1,2},\s+\d{4})|(?:\d{1,2}/\d{1,2}/\d{2,4}))`

type relevantPattern struct {
	label string
	re    *regexp.Regexp
}

var relevantPatterns = []relevantPattern{
	{"HEARING", regexp.MustCompile(`(?i)hearing (?:is )?set (?:for|on)\s+` + dateAlt)},
	{"HEARING", regexp.MustCompile(`(?i)individual hearing on\s+` + dateAlt)},
	{"HEARING", regexp.MustCompile(`(?i)master hearing on\s+` + dateAlt)},
	{"DUE", regexp.MustCompile(`(?i)(?:applications?|relief|brief|evidence|documents?)\s+(?:are\s+)?due\s+(?:by|on)\s+` + dateAlt)},
	{"DEADLINE", regexp.MustCompile(`(?i)deadline(?:s)?\s+(?:(?:is|are)\s+)?(?:set\s+)?(?:for|on)\s+` + dateAlt)},
}

// ExtractRelevantDates scans body text for hearing, due-date, and
// deadline phrasings and returns findings as "<LABEL> <MM-DD-YYYY>"
// joined with " ; ". Findings are deduplicated preserving first
// occurrence. Order across labels follows the pattern list, not
// textual position.
func ExtractRelevantDates(text string) string {
	if text == "" {
		return ""
	}
	var findings []string
	seen := make(map[string]struct{})
	for _, p := range relevantPatterns {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			if len(m) < 2 || m[1] == "" {
				continue
			}
			finding := p.label + " " + NormalizeDate(m[1])
			if _, dup := seen[finding]; dup {
				continue
			}
			seen[finding] = struct{}{}
			findings = append(findings, finding)
		}
	}
	return strings.Join(findings, " ; ")
}
