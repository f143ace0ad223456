// Package corpus assembles a course's converted Markdown material into a
// CourseCorpus for coverage analysis.
package corpus

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/coursekit/coverage-agent/internal/convert"
	"github.com/coursekit/coverage-agent/internal/models"
	"github.com/coursekit/coverage-agent/pkg/logger"
)

// Course directory layout.
const (
	lectureNotesDir = "lecture_notes"
	pastPapersDir   = "past_papers"
	assignmentDir   = "assignment"
	questionDir     = "question"
	cheatsheetStem  = "cheatsheet"
)

// CategoryFlags selects, per material category, whether PDF conversion runs
// OCR instead of text-layer extraction.
type CategoryFlags struct {
	LectureNotes bool
	PastPapers   bool
	Assignments  bool
	Cheatsheet   bool
}

// Assembler walks a course directory and converts eligible files.
type Assembler struct {
	conv *convert.Converter
	ocr  convert.OCRFunc
	gate convert.QualityGate
	log  logger.Logger
}

func NewAssembler(conv *convert.Converter, ocr convert.OCRFunc, gate convert.QualityGate, log logger.Logger) *Assembler {
	return &Assembler{
		conv: conv,
		ocr:  ocr,
		gate: gate,
		log:  log,
	}
}

// Build converts the course material under courseDir and returns the corpus.
// Per-file conversion failures inside the three category directories are
// logged and skipped; a cheatsheet failure is fatal because no corpus can be
// built without it.
func (a *Assembler) Build(ctx context.Context, courseDir string, flags CategoryFlags) (*models.CourseCorpus, error) {
	cheatsheet, err := a.loadCheatsheet(ctx, courseDir, flags.Cheatsheet)
	if err != nil {
		return nil, err
	}

	return &models.CourseCorpus{
		Cheatsheet:   cheatsheet,
		LectureNotes: a.gatherMarkdown(ctx, filepath.Join(courseDir, lectureNotesDir), flags.LectureNotes),
		PastPapers:   a.gatherMarkdown(ctx, filepath.Join(courseDir, pastPapersDir), flags.PastPapers),
		Assignments:  a.gatherMarkdown(ctx, filepath.Join(courseDir, assignmentDir, questionDir), flags.Assignments),
	}, nil
}

// gatherMarkdown converts every supported file under dir, in lexical walk
// order, and returns one Markdown string per file. A missing directory
// yields an empty slice; a failing file is logged and skipped.
func (a *Assembler) gatherMarkdown(ctx context.Context, dir string, useOCR bool) []string {
	texts := make([]string, 0)
	if _, err := os.Stat(dir); err != nil {
		return texts
	}

	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			a.log.Warn("skipping unreadable entry", logger.String("path", path), logger.Error(err))
			return nil
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		switch ext {
		case ".md", ".txt", ".pdf":
		default:
			return nil
		}

		opts := []convert.Option{convert.WithQualityGate(a.gate)}
		if useOCR && ext == ".pdf" {
			opts = append(opts, convert.WithOCR(true), convert.WithOCRFunc(a.ocr))
		}

		mdPath, err := a.conv.Convert(ctx, path, opts...)
		if err != nil {
			a.log.Warn("skipping file due to conversion error",
				logger.String("path", path),
				logger.Error(err),
			)
			return nil
		}

		text, err := convert.ReadMarkdown(mdPath)
		if err != nil {
			a.log.Warn("skipping file: can't read markdown artifact",
				logger.String("path", mdPath),
				logger.Error(err),
			)
			return nil
		}
		texts = append(texts, text)
		return nil
	})

	return texts
}

// loadCheatsheet returns the cheatsheet as Markdown text. A cheatsheet.md
// source wins outright and any PDF next to it is ignored. With only a
// cheatsheet.pdf, extraction always re-runs from the PDF so each run sees a
// fresh view of its content.
func (a *Assembler) loadCheatsheet(ctx context.Context, courseDir string, useOCR bool) (string, error) {
	mdPath := filepath.Join(courseDir, cheatsheetStem+".md")
	pdfPath := filepath.Join(courseDir, cheatsheetStem+".pdf")

	if _, err := os.Stat(mdPath); err == nil {
		return convert.ReadMarkdown(mdPath)
	}

	if _, err := os.Stat(pdfPath); err == nil {
		opts := []convert.Option{
			convert.WithQualityGate(a.gate),
			convert.ForceRefresh(),
		}
		if useOCR {
			opts = append(opts, convert.WithOCR(true), convert.WithOCRFunc(a.ocr))
		}
		converted, err := a.conv.Convert(ctx, pdfPath, opts...)
		if err != nil {
			return "", fmt.Errorf("failed to convert cheatsheet PDF: %w", err)
		}
		return convert.ReadMarkdown(converted)
	}

	return "", fmt.Errorf("no cheatsheet.md or cheatsheet.pdf found in %s", courseDir)
}
