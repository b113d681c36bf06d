// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ConvertConfig holds settings for the conversion stage. The export file
// path is passed separately; everything here is policy for one run.
type ConvertConfig struct {
	// OutputDir is the directory that receives one Markdown file per
	// conversation (default "markdown_conversations").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Overwrite replaces existing output files instead of skipping them.
	Overwrite bool `json:"overwrite" yaml:"overwrite"`

	// DryRun reports what would be written without touching the
	// filesystem.
	DryRun bool `json:"dry_run" yaml:"dry_run"`

	// Frontmatter prepends a YAML metadata block to each document.
	Frontmatter bool `json:"frontmatter" yaml:"frontmatter"`
}

// FilterConfig holds settings for the filter stage. Exactly one of UUIDs or
// NamePattern selects conversations.
type FilterConfig struct {
	// InputPath and OutputPath are the export files to read and write.
	InputPath  string `json:"input_path" yaml:"input_path"`
	OutputPath string `json:"output_path" yaml:"output_path"`

	// UUIDs selects conversations by exact identifier match.
	UUIDs []string `json:"uuids,omitempty" yaml:"uuids,omitempty"`

	// NamePattern selects conversations whose title matches this regex.
	NamePattern string `json:"name_pattern,omitempty" yaml:"name_pattern,omitempty"`

	// CaseSensitive disables the default case-insensitive title match.
	CaseSensitive bool `json:"case_sensitive" yaml:"case_sensitive"`

	// AllowEmpty writes an empty array instead of failing when nothing
	// matches.
	AllowEmpty bool `json:"allow_empty" yaml:"allow_empty"`
}

// IndexConfig holds settings for the transcript index.
type IndexConfig struct {
	// DBPath is the SQLite database file (default "conversations.db").
	DBPath string `json:"db_path" yaml:"db_path"`

	// MaxResults is the default maximum number of search results
	// (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
