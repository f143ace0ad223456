// Package main is the entry point for the coverage-agent CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/coursekit/coverage-agent/config"
	"github.com/coursekit/coverage-agent/internal/convert"
	"github.com/coursekit/coverage-agent/internal/corpus"
	"github.com/coursekit/coverage-agent/internal/coverage"
	"github.com/coursekit/coverage-agent/internal/ocr"
	"github.com/coursekit/coverage-agent/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "coverage-agent COURSE_CODE",
	Short: "Check cheatsheet coverage for a course",
	Long: `coverage-agent converts the material of a course (lecture notes, past
papers, assignment questions and the cheatsheet) to Markdown and writes a
coverage report to REPORTS_DIR.

Courses live under COURSES_BASE_DIR, one directory per course code.
Per-folder OCR behaviour for PDFs is controlled via environment variables
(LECTURE_NOTES_USE_OCR, PAST_PAPERS_USE_OCR, ASSIGNMENT_USE_OCR,
CHEATSHEET_USE_OCR); the default is embedded text-layer extraction. The OCR
backend is selected with OCR_BACKEND: openai (default), tesseract or
textract.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         run,
}

func run(cmd *cobra.Command, args []string) error {
	courseCode := args[0]

	log, err := logger.NewLogger(
		logger.WithLevel("info"),
		logger.WithEncoding("json"),
		logger.WithOutputPaths([]string{"stdout", "logs/app.log"}),
	)
	if err != nil {
		return err
	}
	defer log.Sync()
	log = log.With(logger.String("run_id", uuid.NewString()))

	cfg := config.GetCourseConfig()

	courseDir := filepath.Join(cfg.BaseDir, courseCode)
	if _, err := os.Stat(courseDir); err != nil {
		return fmt.Errorf("course directory not found: %s", courseDir)
	}

	flags := corpus.CategoryFlags{
		LectureNotes: cfg.LectureNotesUseOCR,
		PastPapers:   cfg.PastPapersUseOCR,
		Assignments:  cfg.AssignmentUseOCR,
		Cheatsheet:   cfg.CheatsheetUseOCR,
	}

	ocrNeeded := flags.LectureNotes || flags.PastPapers || flags.Assignments || flags.Cheatsheet
	ocrFunc, err := buildOCRFunc(cmd.Context(), cfg.OCRBackend, ocrNeeded)
	if err != nil {
		return err
	}

	log.Info("processing course",
		logger.String("course", courseCode),
		logger.String("dir", courseDir),
	)
	log.Info("OCR settings",
		logger.String("backend", cfg.OCRBackend),
		logger.Bool("lecture_notes", flags.LectureNotes),
		logger.Bool("past_papers", flags.PastPapers),
		logger.Bool("assignment", flags.Assignments),
		logger.Bool("cheatsheet", flags.Cheatsheet),
	)

	conv := convert.NewConverter(log)
	asm := corpus.NewAssembler(conv, ocrFunc, convert.NonBlank(), log)

	crs, err := asm.Build(cmd.Context(), courseDir, flags)
	if err != nil {
		return err
	}

	report := coverage.Report(crs)

	if err := os.MkdirAll(cfg.ReportsDir, 0o755); err != nil {
		return err
	}
	outPath := filepath.Join(cfg.ReportsDir, courseCode+"_coverage_report.md")
	if err := os.WriteFile(outPath, []byte(report), 0o644); err != nil {
		return err
	}

	log.Info("coverage report written", logger.String("path", outPath))
	return nil
}

// buildOCRFunc constructs the configured OCR backend. When no category has
// OCR enabled the backend is not touched at all, so a missing API key never
// blocks a text-only run.
func buildOCRFunc(ctx context.Context, backend string, needed bool) (convert.OCRFunc, error) {
	if !needed {
		return nil, nil
	}
	switch backend {
	case "openai":
		client, err := ocr.NewLLMClient(config.GetOpenAIConfig())
		if err != nil {
			return nil, err
		}
		return client.Func(), nil
	case "tesseract":
		return ocr.TesseractFunc(), nil
	case "textract":
		client, err := ocr.NewTextractClient(ctx, config.GetTextractConfig())
		if err != nil {
			return nil, err
		}
		return client.Func(), nil
	default:
		return nil, fmt.Errorf("unknown OCR backend %q", backend)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
