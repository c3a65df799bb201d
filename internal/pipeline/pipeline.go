// Package pipeline runs one EDTR package through every stage: extraction,
// closed-topic removal, document repair, agenda rewriting and the final
// write. Stages run one after the other; the first failure ends the run.
package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/dgallion1/edtrpub/internal/agenda"
	"github.com/dgallion1/edtrpub/internal/archive"
	"github.com/dgallion1/edtrpub/internal/config"
	"github.com/dgallion1/edtrpub/internal/markup"
	"github.com/dgallion1/edtrpub/internal/naming"
	"github.com/dgallion1/edtrpub/internal/session"
)

// Runner processes EDTR packages.
type Runner struct {
	cfg config.Config
	log *slog.Logger

	removeClosed func(dir, suffix string) ([]string, error)
}

func NewRunner(cfg config.Config, log *slog.Logger) *Runner {
	return &Runner{cfg: cfg, log: log, removeClosed: session.RemoveClosedTopics}
}

// Run processes the package at archivePath. The returned report is never
// nil; on failure it records the stage that aborted and the error is a
// *StageError.
func (r *Runner) Run(ctx context.Context, archivePath string) (*Report, error) {
	rep := &Report{Archive: archivePath, StartedAt: time.Now()}
	log := r.log.With("archive", filepath.Base(archivePath))

	// Stage 1: Validate
	rep.enter(StageValidate)
	if err := archive.Check(archivePath); err != nil {
		return rep, rep.fail(err)
	}

	// Stage 2: Extract next to the archive
	if err := ctx.Err(); err != nil {
		return rep, rep.fail(err)
	}
	rep.enter(StageExtract)
	log.Info("extracting archive")
	n, err := archive.Extract(archivePath, filepath.Dir(archivePath))
	if err != nil {
		log.Error("extraction failed", "error", err)
		return rep, rep.fail(err)
	}
	rep.FilesExtracted = n
	rep.SessionDir = naming.DeriveSessionDir(archivePath)
	log = log.With("session_dir", rep.SessionDir)
	log.Info("archive extracted", "files", n)

	// Stage 3: Remove closed-session topics
	if err := ctx.Err(); err != nil {
		return rep, rep.fail(err)
	}
	rep.enter(StageFilter)
	removed, err := r.removeClosed(rep.SessionDir, r.cfg.ClosedDirSuffix)
	rep.ClosedTopics = removed
	if err != nil {
		log.Error("closed topic removal failed", "removed", len(removed), "error", err)
		return rep, rep.fail(err)
	}
	log.Info("closed topics removed", "count", len(removed))

	// Stage 4: Find the agenda document
	rep.enter(StageDiscover)
	doc, err := session.FindDocument(rep.SessionDir)
	if err != nil {
		return rep, rep.fail(err)
	}
	rep.Document = doc
	log = log.With("document", filepath.Base(doc))

	// Stage 5: Repair and parse
	if err := ctx.Err(); err != nil {
		return rep, rep.fail(err)
	}
	rep.enter(StageLoad)
	tree, err := markup.Load(doc, markup.LoadOptions{
		HeadLines:    r.cfg.HeadLines,
		TailLines:    r.cfg.TailLines,
		VendorPrefix: r.cfg.VendorPrefix,
	})
	if err != nil {
		log.Error("document load failed", "error", err)
		return rep, rep.fail(err)
	}

	// Stage 6: Rewrite agenda items
	rep.enter(StageProcess)
	proc := agenda.NewProcessor(filepath.Dir(doc), r.cfg.ClosedMarker, log)
	summary, err := proc.Process(tree)
	if err != nil {
		log.Error("agenda processing failed", "error", err)
		return rep, rep.fail(err)
	}
	rep.Agenda = summary
	log.Info("agenda processed",
		"items", summary.Items,
		"closed", summary.Closed,
		"linked", summary.Linked,
		"skipped", summary.Skipped,
		"links", summary.Links,
	)

	// Stage 7: Write the document back
	rep.enter(StageWrite)
	if err := markup.WriteFile(doc, tree); err != nil {
		log.Error("document write failed", "error", err)
		return rep, rep.fail(err)
	}

	// Stage 8: Drop the print rendition
	rep.enter(StageCleanup)
	rep.RenditionRemoved, err = session.RemoveRendition(doc, r.cfg.RenditionExt)
	if err != nil {
		log.Error("rendition removal failed", "error", err)
		return rep, rep.fail(err)
	}

	rep.enter(StageDone)
	rep.Duration = time.Since(rep.StartedAt)
	log.Info("package processed", "duration_ms", rep.Duration.Milliseconds())
	return rep, nil
}
