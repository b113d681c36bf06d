// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package filter writes a reduced export containing only the conversations
// selected by identifier or by title pattern. Selected conversations keep
// their exact JSON text from the input, so the output never drifts from the
// original serialization.
package filter

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/pdiddy/convomd/internal/export"
	"github.com/pdiddy/convomd/pkg/types"
)

// Result holds counts from a filter run.
type Result struct {
	Matched int
	Total   int
}

// Run reads the export at cfg.InputPath, keeps the conversations the
// configured rule selects, and writes them to cfg.OutputPath. Zero matches
// is an error unless cfg.AllowEmpty, in which case an empty array is
// written and a warning reported on w.
func Run(cfg types.FilterConfig, w io.Writer) (Result, error) {
	items, err := export.ReadArray(cfg.InputPath)
	if err != nil {
		return Result{}, err
	}

	match, err := matcher(cfg, w)
	if err != nil {
		return Result{}, err
	}

	var selected []string
	for _, item := range items {
		if match(item) {
			selected = append(selected, item.Raw)
		}
	}

	res := Result{Matched: len(selected), Total: len(items)}
	if len(selected) == 0 {
		if !cfg.AllowEmpty {
			return res, fmt.Errorf("no conversation matched the filter")
		}
		fmt.Fprintln(w, "warning: no conversation matched; writing empty array")
	}

	if err := os.WriteFile(cfg.OutputPath, []byte(assemble(selected)), 0o644); err != nil {
		return res, fmt.Errorf("writing %s: %w", cfg.OutputPath, err)
	}

	fmt.Fprintf(w, "filtered %d of %d conversations into %s\n", res.Matched, res.Total, cfg.OutputPath)
	return res, nil
}

// matcher builds the selection predicate from the config. UUID matching is
// exact-string; arguments that do not parse as UUIDs still match literally
// but get a warning, since they usually indicate a copy-paste mistake.
func matcher(cfg types.FilterConfig, w io.Writer) (func(gjson.Result) bool, error) {
	switch {
	case len(cfg.UUIDs) > 0:
		set := make(map[string]struct{}, len(cfg.UUIDs))
		for _, u := range cfg.UUIDs {
			if _, err := uuid.Parse(u); err != nil {
				fmt.Fprintf(w, "warning: %q does not look like a UUID; matching it literally\n", u)
			}
			set[u] = struct{}{}
		}
		return func(item gjson.Result) bool {
			_, ok := set[export.ID(item)]
			return ok
		}, nil

	case cfg.NamePattern != "":
		pat := cfg.NamePattern
		if !cfg.CaseSensitive {
			pat = "(?i)" + pat
		}
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, fmt.Errorf("invalid name pattern %q: %w", cfg.NamePattern, err)
		}
		return func(item gjson.Result) bool {
			return re.MatchString(export.Title(item))
		}, nil
	}

	return nil, fmt.Errorf("either a UUID list or a name pattern is required")
}

// assemble joins the raw conversation elements into a two-space indented
// array without re-encoding them.
func assemble(elems []string) string {
	if len(elems) == 0 {
		return "[]\n"
	}
	var b strings.Builder
	b.WriteString("[\n")
	for i, e := range elems {
		b.WriteString("  ")
		b.WriteString(e)
		if i < len(elems)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("]\n")
	return b.String()
}
