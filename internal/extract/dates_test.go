package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDate_CanonicalForms(t *testing.T) {
	// Every supported explicit format of the same date lands on the
	// same canonical string.
	equivalents := []string{
		"03/05/2024",
		"3/5/2024",
		"03-05-2024",
		"2024-03-05",
		"03/05/24",
		"Mar 5, 2024",
		"March 5, 2024",
	}
	for _, in := range equivalents {
		assert.Equal(t, "03-05-2024", NormalizeDate(in), "input %q", in)
	}
}

func TestNormalizeDate_SubstringFallback(t *testing.T) {
	cases := map[string]string{
		"filed on 2024-03-05 by counsel": "03-05-2024",
		"continued to 3/5/2024 at 9am":   "03-05-2024",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeDate(in), "input %q", in)
	}
}

func TestNormalizeDate_PassesThroughUnknown(t *testing.T) {
	assert.Equal(t, "next Tuesday", NormalizeDate("next Tuesday"))
	assert.Equal(t, "", NormalizeDate(""))
	assert.Equal(t, "", NormalizeDate("   "))
}

func TestExtractRelevantDates_LabeledFindings(t *testing.T) {
	text := "The respondent's hearing set for March 5, 2024 before the court.\n" +
		"A filing deadline is set for 3/10/2024."
	assert.Equal(t, "HEARING 03-05-2024 ; DEADLINE 03-10-2024", ExtractRelevantDates(text))
}

func TestExtractRelevantDates_PatternListOrder(t *testing.T) {
	// The deadline appears first in the text but HEARING patterns run
	// first, so the hearing finding leads.
	text := "Deadline set for 1/15/2025. Individual hearing on February 1, 2025."
	assert.Equal(t, "HEARING 02-01-2025 ; DEADLINE 01-15-2025", ExtractRelevantDates(text))
}

func TestExtractRelevantDates_Deduplicates(t *testing.T) {
	// "hearing set for" and "individual hearing on" both resolve to the
	// same label+date pair; it appears once.
	text := "Hearing set for 3/5/2024. The individual hearing on 3/5/2024 stands."
	assert.Equal(t, "HEARING 03-05-2024", ExtractRelevantDates(text))
}

func TestExtractRelevantDates_DuePhrasings(t *testing.T) {
	text := "Applications for relief are due by April 1, 2024.\n" +
		"Evidence due on 4/15/2024."
	assert.Equal(t, "DUE 04-01-2024 ; DUE 04-15-2024", ExtractRelevantDates(text))
}

func TestExtractRelevantDates_NoMatches(t *testing.T) {
	assert.Equal(t, "", ExtractRelevantDates(""))
	assert.Equal(t, "", ExtractRelevantDates("nothing date-like in here"))
}

func TestClassifyTitle_PrefersUppercaseWithKeyword(t *testing.T) {
	text := "Case No. 123\nMOTION TO CONTINUE PROCEEDINGS\nfiled by respondent"
	assert.Equal(t, "MOTION TO CONTINUE PROCEEDINGS", ClassifyTitle(text))
}

func TestClassifyTitle_TieKeepsEarliest(t *testing.T) {
	// Two fully uppercase keyword lines score identically; the earlier
	// one is retained.
	text := "NOTICE OF HEARING\nORDER OF THE COURT"
	assert.Equal(t, "NOTICE OF HEARING", ClassifyTitle(text))
}

func TestClassifyTitle_SkipsShortAndNonAlpha(t *testing.T) {
	text := "IJ 2024\n12345678901\nrespondent's brief in opposition"
	assert.Equal(t, "respondent's brief in opposition", ClassifyTitle(text))
}

func TestClassifyTitle_Empty(t *testing.T) {
	assert.Equal(t, "", ClassifyTitle(""))
	assert.Equal(t, "", ClassifyTitle("a\nb\nc"))
}
