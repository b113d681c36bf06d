// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert drives the export-to-Markdown pipeline: it loads the
// export, sequences and renders each conversation, and writes one file per
// conversation under the configured overwrite and dry-run policy.
package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/convomd/internal/export"
	"github.com/pdiddy/convomd/internal/render"
	"github.com/pdiddy/convomd/internal/sanitize"
	"github.com/pdiddy/convomd/internal/sequence"
	"github.com/pdiddy/convomd/pkg/types"
)

// BatchResult holds the outcome of a conversion run.
type BatchResult struct {
	Written    int
	Skipped    int
	WouldWrite int
	Failed     int
}

// Total returns the total number of conversations processed.
func (r BatchResult) Total() int {
	return r.Written + r.Skipped + r.WouldWrite + r.Failed
}

// HasFailures reports whether any conversation failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ConvertConversation renders one conversation and applies the overwrite and
// dry-run policy, reporting the action taken on w. The output directory must
// already exist unless cfg.DryRun is set.
func ConvertConversation(conv types.Conversation, cfg types.ConvertConfig, w io.Writer) types.ConvertStatus {
	name := sanitize.Filename(conv.Title, conv.ID)
	outPath := filepath.Join(cfg.OutputDir, name)

	if !cfg.Overwrite {
		if _, err := os.Stat(outPath); err == nil {
			fmt.Fprintf(w, "skipped: %s (already exists)\n", name)
			return types.ConvertSkipped
		}
	}

	if cfg.DryRun {
		fmt.Fprintf(w, "would-write: %s\n", name)
		return types.ConvertWouldWrite
	}

	turns := sequence.Linearize(conv.Messages)
	doc := render.Document(conv, turns, render.Options{Frontmatter: cfg.Frontmatter})

	if err := os.WriteFile(outPath, []byte(doc), 0o644); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
		return types.ConvertFailed
	}

	fmt.Fprintf(w, "written: %s\n", name)
	return types.ConvertWritten
}

// ConvertExport runs the whole pipeline over the export at path. Malformed
// conversations and per-file write errors are reported and counted, not
// fatal; only an unreadable or unparseable export aborts the run. Under
// dry-run the filesystem is never touched.
func ConvertExport(path string, cfg types.ConvertConfig, w io.Writer) (BatchResult, error) {
	convs, perrs, err := export.Load(path)
	if err != nil {
		return BatchResult{}, err
	}

	var result BatchResult
	for _, perr := range perrs {
		fmt.Fprintf(w, "failed:  %v\n", perr)
		result.Failed++
	}

	if !cfg.DryRun {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return result, fmt.Errorf("creating output directory %s: %w", cfg.OutputDir, err)
		}
	}

	for _, conv := range convs {
		switch ConvertConversation(conv, cfg, w) {
		case types.ConvertWritten:
			result.Written++
		case types.ConvertSkipped:
			result.Skipped++
		case types.ConvertWouldWrite:
			result.WouldWrite++
		case types.ConvertFailed:
			result.Failed++
		}
	}

	fmt.Fprintf(w, "\nConversion summary: %d written, %d skipped, %d would-write, %d failed (total: %d)\n",
		result.Written, result.Skipped, result.WouldWrite, result.Failed, result.Total())
	return result, nil
}
