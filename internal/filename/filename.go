// Package filename synthesizes sanitized, collision-free output names
// for harvested documents.
package filename

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"ecasharvest/internal/extract"
)

const (
	// fallbackName is used when every name component is empty.
	fallbackName = "ECAS_Document"
	// Ext is appended to every synthesized name.
	Ext = ".pdf"
)

var (
	reservedReplacer = strings.NewReplacer(
		"/", "-",
		`\`, "-",
		":", " - ",
		"*", "",
		"?", "",
		`"`, "'",
		"<", "(",
		">", ")",
		"|", "-",
	)
	whitespaceRE = regexp.MustCompile(`\s+`)
)

// Sanitize maps path separators and reserved filesystem characters to
// safe equivalents and collapses runs of whitespace.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	s = reservedReplacer.Replace(s)
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(s, " "))
}

// Build combines label, pleading title, filing date, and notes into a
// sanitized filename. The date component passes through date
// normalization instead of character sanitization.
func Build(label, pleadingTitle, fileDate, notes string) string {
	var parts []string
	if label != "" {
		parts = append(parts, Sanitize(label))
	}
	if pleadingTitle != "" {
		parts = append(parts, Sanitize(pleadingTitle))
	}
	if fileDate != "" {
		parts = append(parts, extract.NormalizeDate(fileDate))
	}
	if notes != "" {
		parts = append(parts, Sanitize(notes))
	}
	name := strings.Join(parts, " - ")
	if name == "" {
		name = fallbackName
	}
	return name + Ext
}

// Resolve returns a path in dir for name that does not collide with an
// existing file. On collision a numeric suffix " (N)" is appended
// before the extension, starting at 2, always derived from the base
// stem so suffixes never compound.
func Resolve(dir, name string) string {
	path := filepath.Join(dir, name)
	if !exists(path) {
		return path
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for n := 2; ; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, n, ext))
		if !exists(candidate) {
			return candidate
		}
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
