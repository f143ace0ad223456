package config

import (
	"log"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

var (
	courseOnce   sync.Once
	courseConfig *CourseConfig
)

// CourseConfig controls where course material is read from and which
// categories run OCR on their PDFs.
type CourseConfig struct {
	BaseDir    string
	ReportsDir string
	OCRBackend string

	LectureNotesUseOCR bool
	PastPapersUseOCR   bool
	AssignmentUseOCR   bool
	CheatsheetUseOCR   bool
}

func GetCourseConfig() *CourseConfig {
	courseOnce.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found, falling back to environment variables")
		}

		courseConfig = &CourseConfig{
			BaseDir:    envDefault("COURSES_BASE_DIR", "./course"),
			ReportsDir: envDefault("REPORTS_DIR", "./reports"),
			OCRBackend: envDefault("OCR_BACKEND", "openai"),

			LectureNotesUseOCR: EnvFlag("LECTURE_NOTES_USE_OCR", false),
			PastPapersUseOCR:   EnvFlag("PAST_PAPERS_USE_OCR", false),
			AssignmentUseOCR:   EnvFlag("ASSIGNMENT_USE_OCR", false),
			CheatsheetUseOCR:   EnvFlag("CHEATSHEET_USE_OCR", false),
		}
	})
	return courseConfig
}

// EnvFlag interprets an environment variable as a boolean. Accepted truthy
// values are 1, true, yes and y (case-insensitive); anything else is false.
// An unset variable yields the default.
func EnvFlag(name string, def bool) bool {
	value, ok := os.LookupEnv(name)
	if !ok {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "y":
		return true
	default:
		return false
	}
}

func envDefault(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}
