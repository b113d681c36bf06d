// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns an ordered turn sequence into a Markdown document.
// Rendering is a pure function of its inputs, so re-running a conversion
// produces byte-identical output.
package render

import (
	"fmt"
	"regexp"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/convomd/pkg/types"
)

// Options controls the optional parts of a rendered document.
type Options struct {
	// Frontmatter prepends a YAML metadata block.
	Frontmatter bool
}

// frontmatter is the metadata block written when Options.Frontmatter is set.
type frontmatter struct {
	ConversationID string `yaml:"conversation_id"`
	Title          string `yaml:"title"`
	CreatedAt      string `yaml:"created_at,omitempty"`
	UpdatedAt      string `yaml:"updated_at,omitempty"`
	Turns          int    `yaml:"turns"`
}

// sublistPattern matches a bold numbered heading followed directly by a dash
// item. Some exports emit these without the blank line Markdown needs to
// open a sub-list.
var sublistPattern = regexp.MustCompile(`\n\*\*(\d+)\. "([^"]+)"\*\*\n- `)

// Document renders one conversation's ordered turns as Markdown: a title
// heading, then one bold speaker label per turn followed by its text and a
// horizontal rule. Empty turns keep their label so the turn count stays
// visible. Unrecognized roles render under their literal label.
func Document(conv types.Conversation, turns []types.Message, opts Options) string {
	var b strings.Builder

	if opts.Frontmatter {
		meta, err := yaml.Marshal(frontmatter{
			ConversationID: conv.ID,
			Title:          conv.Title,
			CreatedAt:      conv.CreatedAt,
			UpdatedAt:      conv.UpdatedAt,
			Turns:          len(turns),
		})
		if err == nil {
			b.WriteString("---\n")
			b.Write(meta)
			b.WriteString("---\n\n")
		}
	}

	fmt.Fprintf(&b, "# %s\n\n", conv.Title)

	for _, turn := range turns {
		fmt.Fprintf(&b, "**%s:**\n\n", turn.Role.Label())
		text := FixSublists(strings.TrimSpace(turn.Text))
		if text != "" {
			b.WriteString(text)
			b.WriteString("\n\n")
		}
		b.WriteString("---\n\n")
	}

	return b.String()
}

// FixSublists inserts the blank line Markdown requires between a bold
// numbered heading and its first sub-item. Content is otherwise passed
// through verbatim; code fences and inline markup are untouched.
func FixSublists(text string) string {
	return sublistPattern.ReplaceAllString(text, "\n**$1. \"$2\"**\n\n- ")
}
