// Package autograde runs one grading pass over a submission directory:
// discovery, status, evaluation, and report output.
package autograde

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/npillmayer/schuko/tracing"

	"github.com/mind-engage/cssgrader/internal/config"
	"github.com/mind-engage/cssgrader/internal/gradebook"
	"github.com/mind-engage/cssgrader/internal/grading"
	"github.com/mind-engage/cssgrader/internal/report"
	"github.com/mind-engage/cssgrader/internal/storage"
	css "github.com/mind-engage/cssgrader/internal/stylesheet"
	"github.com/mind-engage/cssgrader/internal/submission"
)

func tracer() tracing.Trace {
	return tracing.Select("cssgrader.autograde")
}

const (
	ScoreFile    = "score.csv"
	FeedbackFile = "feedback.md"
)

// Runner holds the collaborators of a grading run. Zero-valued optional
// fields fall back to the defaults derived from Config.
type Runner struct {
	Config    config.Config
	History   submission.History    // default: git in Config.Dir
	Artifacts storage.ArtifactStore // default: filesystem store at the output dir
	Mirror    storage.ArtifactStore // optional copy keyed by student and run
	Gradebook gradebook.Store       // nil disables history recording
	Console   io.Writer             // tree summary, nil for none
	Now       func() time.Time
}

// OutputDir resolves the configured output directory against the
// submission root.
func OutputDir(cfg config.Config) string {
	if filepath.IsAbs(cfg.OutDir) {
		return cfg.OutDir
	}
	return filepath.Join(cfg.Dir, cfg.OutDir)
}

// Run grades the submission and writes score.csv and feedback.md. Only
// failures to set up grading or to write the outputs are returned;
// evaluation itself never fails.
func (r *Runner) Run(ctx context.Context) (report.Report, error) {
	cfg := r.Config
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	g := grading.NewGrader()
	if cfg.RubricFile != "" {
		rub, err := grading.LoadRubric(cfg.RubricFile)
		if err != nil {
			return report.Report{}, err
		}
		g = grading.NewGrader(rub.Options()...)
	}

	artifacts := r.Artifacts
	if artifacts == nil {
		fs, err := storage.NewFSStore(OutputDir(cfg))
		if err != nil {
			return report.Report{}, fmt.Errorf("create output dir: %w", err)
		}
		artifacts = fs
	}

	loc := submission.Locator{Root: cfg.Dir, HTMLFile: cfg.HTMLFile}
	if !filepath.IsAbs(cfg.OutDir) {
		loc.Skip = []string{cfg.OutDir}
	}
	sheet, err := loc.Discover()
	found := err == nil
	if err != nil && !errors.Is(err, submission.ErrNoStylesheet) {
		return report.Report{}, err
	}
	blank := found && css.IsBlank(sheet.Source)

	var submitted *time.Time
	if found && !blank {
		h := r.History
		if h == nil {
			h = submission.NewGitHistory(cfg.Dir)
		}
		submitted = submission.SubmissionTime(ctx, h, cfg.HistoryWindow, submission.AutomationMarkers)
	}
	status := submission.ResolveStatus(found, blank, submitted, cfg.Due)

	var rules []css.Rule
	if status != grading.Missing {
		rules = css.Parse(sheet.Source)
	}
	rep := report.Report{
		RunID:         uuid.NewString(),
		Student:       cfg.Student,
		Stylesheet:    sheet.Path,
		DiscoveryNote: sheet.Note,
		Submitted:     submitted,
		Due:           cfg.Due,
		GradedAt:      now().UTC(),
		Result:        g.Grade(rules, status),
	}
	if status != grading.Missing {
		rep.Diagnostics = css.Diagnose(sheet.Source, rules, sheet.Markup)
	}
	tracer().Infof("%s: %s %d/%d", rep.Student, status, rep.Result.Earned, rep.Result.Total)

	if err := Write(artifacts, "", rep); err != nil {
		return rep, err
	}
	if r.Mirror != nil {
		if err := Write(r.Mirror, path.Join(rep.Student, rep.RunID), rep); err != nil {
			tracer().Errorf("mirror: %v", err)
		}
	}
	if err := stepSummary(cfg.StepSummary, rep); err != nil {
		tracer().Errorf("step summary: %v", err)
	}
	if r.Gradebook != nil {
		if err := r.Gradebook.Record(ctx, rep); err != nil {
			tracer().Errorf("gradebook: %v", err)
		}
	}
	if r.Console != nil {
		fmt.Fprintln(r.Console, report.Tree(rep))
	}
	return rep, nil
}

// stepSummary appends the feedback Markdown to the CI job summary at path.
func stepSummary(path string, rep report.Report) error {
	if path == "" {
		return nil
	}
	md, err := report.Feedback(rep)
	if err != nil {
		return err
	}
	return report.AppendStepSummary(path, md)
}

// Write stores score.csv and feedback.md under prefix.
func Write(store storage.ArtifactStore, prefix string, rep report.Report) error {
	var rec bytes.Buffer
	if err := report.WriteRecord(&rec, rep.Record()); err != nil {
		return fmt.Errorf("encode score record: %w", err)
	}
	if _, err := store.Put(path.Join(prefix, ScoreFile), &rec); err != nil {
		return fmt.Errorf("write %s: %w", ScoreFile, err)
	}
	var fb bytes.Buffer
	if err := report.WriteFeedback(&fb, rep); err != nil {
		return fmt.Errorf("render feedback: %w", err)
	}
	if _, err := store.Put(path.Join(prefix, FeedbackFile), &fb); err != nil {
		return fmt.Errorf("write %s: %w", FeedbackFile, err)
	}
	return nil
}
