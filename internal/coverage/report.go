// Package coverage produces the cheatsheet coverage report.
//
// The report is currently a placeholder that echoes corpus structure; the
// topic extraction and comparison logic against the cheatsheet contents is
// not implemented yet.
package coverage

import (
	"fmt"
	"strings"

	"github.com/coursekit/coverage-agent/internal/models"
)

// Report returns a Markdown coverage report for the corpus.
func Report(corpus *models.CourseCorpus) string {
	lines := []string{
		"# Cheatsheet Coverage Report",
		"",
		"This is a stub report. Topic extraction and coverage analysis against",
		"the cheatsheet contents are not implemented yet.",
		"",
		"## Sources",
		"",
		fmt.Sprintf("- Lecture notes files: %d", len(corpus.LectureNotes)),
		fmt.Sprintf("- Past papers files: %d", len(corpus.PastPapers)),
		fmt.Sprintf("- Assignment question files: %d", len(corpus.Assignments)),
		"",
	}
	return strings.Join(lines, "\n")
}
