// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export loads conversation export documents and turns them into
// Conversation records. Field names vary across export versions, so every
// lookup is defensive: missing optional fields default, and only a missing
// identifier makes a conversation malformed.
package export

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/pdiddy/convomd/pkg/types"
)

// ParseError reports one malformed conversation object inside an otherwise
// valid export. Callers recover from it, report it, and continue.
type ParseError struct {
	// Index is the conversation's position in the top-level array.
	Index int

	// ID is the conversation identifier, when one could be read.
	ID string

	// Reason describes what was wrong.
	Reason string
}

func (e *ParseError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("conversation %s (index %d): %s", e.ID, e.Index, e.Reason)
	}
	return fmt.Sprintf("conversation at index %d: %s", e.Index, e.Reason)
}

// ReadArray loads the export file and returns its top-level conversation
// objects as raw JSON results. The file must hold a JSON array; anything
// else is a fatal parse error.
func ReadArray(path string) ([]gjson.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading export %s: %w", path, err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("parsing export %s: not valid JSON", path)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		return nil, fmt.Errorf("parsing export %s: top-level value is not an array", path)
	}
	return doc.Array(), nil
}

// Load reads the export file and parses every conversation it can. Malformed
// conversations come back as ParseErrors alongside the good records; only an
// unreadable or unparseable file is an error.
func Load(path string) ([]types.Conversation, []*ParseError, error) {
	items, err := ReadArray(path)
	if err != nil {
		return nil, nil, err
	}

	convs := make([]types.Conversation, 0, len(items))
	var perrs []*ParseError
	for i, item := range items {
		conv, perr := parseConversation(i, item)
		if perr != nil {
			perrs = append(perrs, perr)
			continue
		}
		convs = append(convs, conv)
	}
	return convs, perrs, nil
}

// ID returns the conversation identifier from a raw export object, trying
// the known field names in order. Empty when none is present.
func ID(obj gjson.Result) string {
	return firstString(obj, "uuid", "id", "conversation_id")
}

// Title returns the conversation display name from a raw export object.
// Empty when the export carries none.
func Title(obj gjson.Result) string {
	return firstString(obj, "name", "title")
}

func parseConversation(index int, obj gjson.Result) (types.Conversation, *ParseError) {
	if !obj.IsObject() {
		return types.Conversation{}, &ParseError{Index: index, Reason: "not a JSON object"}
	}

	id := ID(obj)
	if id == "" {
		return types.Conversation{}, &ParseError{Index: index, Reason: "no identifier field (uuid, id, or conversation_id)"}
	}

	title := Title(obj)
	if title == "" {
		title = "Untitled"
	}

	conv := types.Conversation{
		ID:        id,
		Title:     title,
		CreatedAt: firstValue(obj, "created_at", "create_time"),
		UpdatedAt: firstValue(obj, "updated_at", "update_time"),
		Raw:       obj.Raw,
	}

	switch {
	case obj.Get("chat_messages").IsArray():
		conv.Messages = parseMessageArray(obj.Get("chat_messages"))
	case obj.Get("messages").IsArray():
		conv.Messages = parseMessageArray(obj.Get("messages"))
	case obj.Get("mapping").IsObject():
		conv.Messages = parseMapping(obj.Get("mapping"))
	}

	return conv, nil
}

// parseMessageArray handles the flat transcript shape: an array of message
// objects, optionally carrying parent back-references.
func parseMessageArray(arr gjson.Result) []types.Message {
	var msgs []types.Message
	arr.ForEach(func(_, m gjson.Result) bool {
		msgs = append(msgs, types.Message{
			ID:        firstString(m, "uuid", "id"),
			ParentID:  firstString(m, "parent_uuid", "parent_message_uuid", "parent"),
			Role:      types.ParseRole(firstString(m, "sender", "role")),
			Text:      messageText(m),
			CreatedAt: parseTime(m.Get("created_at"), m.Get("create_time")),
		})
		return true
	})
	return msgs
}

// parseMapping handles the tree shape: an object keyed by node id, each node
// holding {message, parent, children}. Nodes without a message payload (the
// synthetic roots some exports emit) are dropped; their children then have
// no resolvable parent and become roots themselves.
func parseMapping(mapping gjson.Result) []types.Message {
	var msgs []types.Message
	mapping.ForEach(func(key, node gjson.Result) bool {
		msg := node.Get("message")
		if !msg.IsObject() {
			return true
		}
		id := firstString(node, "id")
		if id == "" {
			id = key.Str
		}
		msgs = append(msgs, types.Message{
			ID:        id,
			ParentID:  firstString(node, "parent"),
			Role:      types.ParseRole(firstString(msg, "author.role", "sender", "role")),
			Text:      messageText(msg),
			CreatedAt: parseTime(msg.Get("created_at"), msg.Get("create_time")),
		})
		return true
	})
	return msgs
}

// messageText extracts the plain-text content of a message. A bare "text"
// string wins; otherwise text fragments are collected from a "content"
// array or "content.parts", and everything non-text is dropped. A message
// whose content resolves to nothing stays an empty turn.
func messageText(m gjson.Result) string {
	if t := m.Get("text"); t.Type == gjson.String {
		return t.Str
	}

	var parts []string
	if content := m.Get("content"); content.IsArray() {
		content.ForEach(func(_, frag gjson.Result) bool {
			if frag.Type == gjson.String {
				parts = append(parts, frag.Str)
				return true
			}
			fragType := frag.Get("type").Str
			if fragType == "" || fragType == "text" {
				if t := frag.Get("text"); t.Type == gjson.String {
					parts = append(parts, t.Str)
				}
			}
			return true
		})
	} else if p := m.Get("content.parts"); p.IsArray() {
		p.ForEach(func(_, part gjson.Result) bool {
			if part.Type == gjson.String {
				parts = append(parts, part.Str)
			}
			return true
		})
	}

	return strings.Join(parts, "\n\n")
}

// firstString returns the first of the named fields that holds a non-empty
// JSON string.
func firstString(obj gjson.Result, keys ...string) string {
	for _, k := range keys {
		if v := obj.Get(k); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return ""
}

// firstValue is firstString for pass-through fields where the export may use
// a string or a number (unix timestamps).
func firstValue(obj gjson.Result, keys ...string) string {
	for _, k := range keys {
		if v := obj.Get(k); v.Type == gjson.String || v.Type == gjson.Number {
			return v.String()
		}
	}
	return ""
}

// parseTime reads a message timestamp from the first usable candidate:
// RFC 3339 strings or unix-seconds numbers. Anything else yields the zero
// time, which the sequencer treats as "no timestamp".
func parseTime(vals ...gjson.Result) time.Time {
	for _, v := range vals {
		switch v.Type {
		case gjson.String:
			if t, err := time.Parse(time.RFC3339, v.Str); err == nil {
				return t
			}
		case gjson.Number:
			sec := int64(v.Num)
			nsec := int64((v.Num - float64(sec)) * 1e9)
			return time.Unix(sec, nsec).UTC()
		}
	}
	return time.Time{}
}
