package coverage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coursekit/coverage-agent/internal/models"
)

func TestReportEchoesSourceCounts(t *testing.T) {
	corpus := &models.CourseCorpus{
		Cheatsheet:   "# Cheatsheet",
		LectureNotes: []string{"a", "b", "c"},
		PastPapers:   []string{"p"},
		Assignments:  nil,
	}

	report := Report(corpus)

	assert.True(t, strings.HasPrefix(report, "# Cheatsheet Coverage Report"))
	assert.Contains(t, report, "- Lecture notes files: 3")
	assert.Contains(t, report, "- Past papers files: 1")
	assert.Contains(t, report, "- Assignment question files: 0")
}
