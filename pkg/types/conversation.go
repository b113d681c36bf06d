// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared record and configuration types for the
// conversation export pipeline.
package types

import "time"

// Role identifies the speaker of a message. The set is open: two well-known
// values cover the standard two-party exports, and anything else the export
// contains passes through unchanged.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ParseRole maps export-specific sender names onto a Role. The Claude export
// calls the user side "human"; other exports use "user" directly. Unknown
// senders are kept as-is rather than dropped.
func ParseRole(sender string) Role {
	switch sender {
	case "human", "user":
		return RoleUser
	case "assistant":
		return RoleAssistant
	default:
		return Role(sender)
	}
}

// Label returns the speaker heading used in rendered Markdown.
func (r Role) Label() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	case "":
		return "Unknown"
	default:
		return string(r)
	}
}

// Message is one turn of a conversation. Messages reference their parent by
// identifier only; the tree structure, when present, is reconstructed from
// these back-references at sequencing time.
type Message struct {
	// ID is the message identifier within its conversation.
	ID string

	// ParentID names the preceding message. Empty means root.
	ParentID string

	// Role is the speaker of this turn.
	Role Role

	// Text is the concatenated plain-text content. Non-text fragments
	// (attachments, tool output) are dropped at parse time.
	Text string

	// CreatedAt is the message timestamp, used only to pick the live leaf
	// when the export encodes edit history. Zero when the export carries
	// no usable timestamp.
	CreatedAt time.Time
}

// Conversation is one chat session from an export document. Records are read
// once at load time and never mutated.
type Conversation struct {
	// ID is the conversation identifier, unique within one export.
	ID string

	// Title is the display name. Never empty: exports without a name get
	// the "Untitled" placeholder, since the title drives the filename.
	Title string

	// CreatedAt and UpdatedAt are pass-through timestamp strings in
	// whatever form the export used. Empty when absent.
	CreatedAt string
	UpdatedAt string

	// Messages holds the turns in input order. The collection may be a
	// flat transcript or a forest encoded via ParentID.
	Messages []Message

	// Raw is the conversation's exact JSON text from the export, kept so
	// filtering can emit it without re-serialization drift.
	Raw string
}

// ConvertStatus is the per-conversation outcome of a conversion run.
type ConvertStatus string

const (
	// ConvertWritten means the Markdown file was created or overwritten.
	ConvertWritten ConvertStatus = "written"

	// ConvertSkipped means the target file already existed and overwrite
	// mode was off.
	ConvertSkipped ConvertStatus = "skipped-exists"

	// ConvertWouldWrite is the dry-run counterpart of ConvertWritten.
	ConvertWouldWrite ConvertStatus = "would-write"

	// ConvertFailed means the conversation was malformed or its file
	// could not be written.
	ConvertFailed ConvertStatus = "failed"
)
