package extract

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	// maxTitleLines caps how far down page one the scorer looks.
	maxTitleLines = 60
	// minTitleLineLen filters out page numbers and stray tokens.
	minTitleLineLen = 8
	// keywordBonus separates pleading captions from other uppercase
	// boilerplate such as court headers.
	keywordBonus = 0.15
)

var pleadingKeywordRE = regexp.MustCompile(`(?i)\b(MOTION|ORDER|NOTICE|EVIDENCE|APPLICATION|BRIEF|DECLARATION|EXHIBIT|SUBMISSION)\b`)

// ClassifyTitle guesses a pleading title from first-page text. Pleading
// captions are conventionally rendered in capitals near the top of page
// one, so each candidate line scores its uppercase letter ratio plus a
// keyword bonus; the earliest strictly-highest-scoring line wins.
// Returns "" when no line qualifies.
func ClassifyTitle(firstPageText string) string {
	if firstPageText == "" {
		return ""
	}
	var (
		best       string
		bestScore  float64
		considered int
	)
	for _, line := range strings.Split(firstPageText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		considered++
		if considered > maxTitleLines {
			break
		}
		if len(line) < minTitleLineLen {
			continue
		}
		letters, upper := 0, 0
		for _, r := range line {
			if unicode.IsLetter(r) {
				letters++
				if unicode.IsUpper(r) {
					upper++
				}
			}
		}
		if letters == 0 {
			continue
		}
		score := float64(upper) / float64(letters)
		if pleadingKeywordRE.MatchString(line) {
			score += keywordBonus
		}
		if score > bestScore {
			bestScore = score
			best = line
		}
	}
	return best
}
