// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/convomd/pkg/types"
)

func TestDocument_TwoTurnConversation(t *testing.T) {
	conv := types.Conversation{ID: "c1", Title: "Demo"}
	turns := []types.Message{
		{ID: "m1", Role: types.RoleUser, Text: "Hi"},
		{ID: "m2", Role: types.RoleAssistant, Text: "Hello!"},
	}

	doc := Document(conv, turns, Options{})

	assert.True(t, strings.HasPrefix(doc, "# Demo\n\n"))

	youIdx := strings.Index(doc, "**You:**\n\nHi")
	asstIdx := strings.Index(doc, "**Assistant:**\n\nHello!")
	require.NotEqual(t, -1, youIdx)
	require.NotEqual(t, -1, asstIdx)
	assert.Less(t, youIdx, asstIdx, "user turn should come before the assistant turn")
}

func TestDocument_OneSectionPerTurn(t *testing.T) {
	conv := types.Conversation{ID: "c1", Title: "Counted"}
	var turns []types.Message
	for i := 0; i < 7; i++ {
		role := types.RoleUser
		if i%2 == 1 {
			role = types.RoleAssistant
		}
		turns = append(turns, types.Message{Role: role, Text: "turn"})
	}

	doc := Document(conv, turns, Options{})

	total := strings.Count(doc, "**You:**") + strings.Count(doc, "**Assistant:**")
	assert.Equal(t, 7, total)
	assert.Equal(t, 7, strings.Count(doc, "\n---\n"))
}

func TestDocument_EmptyTurnKeepsLabel(t *testing.T) {
	conv := types.Conversation{ID: "c1", Title: "Sparse"}
	turns := []types.Message{
		{Role: types.RoleUser, Text: ""},
		{Role: types.RoleAssistant, Text: "still here"},
	}

	doc := Document(conv, turns, Options{})

	assert.Contains(t, doc, "**You:**\n\n---\n")
	assert.Contains(t, doc, "**Assistant:**\n\nstill here")
}

func TestDocument_UnknownRoleRenderedLiterally(t *testing.T) {
	conv := types.Conversation{ID: "c1", Title: "Roles"}
	turns := []types.Message{
		{Role: types.Role("system"), Text: "be brief"},
		{Role: types.Role(""), Text: "who said this"},
	}

	doc := Document(conv, turns, Options{})

	assert.Contains(t, doc, "**system:**\n\nbe brief")
	assert.Contains(t, doc, "**Unknown:**\n\nwho said this")
}

func TestDocument_EmptyConversationIsTitleOnly(t *testing.T) {
	conv := types.Conversation{ID: "c1", Title: "Nothing Here"}

	doc := Document(conv, nil, Options{})

	assert.Equal(t, "# Nothing Here\n\n", doc)
}

func TestDocument_ContentPassedThroughVerbatim(t *testing.T) {
	conv := types.Conversation{ID: "c1", Title: "Code"}
	body := "Look:\n\n```go\nfunc main() {}\n```\n\nand *emphasis* stays."
	turns := []types.Message{{Role: types.RoleAssistant, Text: body}}

	doc := Document(conv, turns, Options{})

	assert.Contains(t, doc, body)
}

func TestDocument_Deterministic(t *testing.T) {
	conv := types.Conversation{ID: "c1", Title: "Same", CreatedAt: "2024-01-01T00:00:00Z"}
	turns := []types.Message{
		{Role: types.RoleUser, Text: "a"},
		{Role: types.RoleAssistant, Text: "b"},
	}

	first := Document(conv, turns, Options{Frontmatter: true})
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Document(conv, turns, Options{Frontmatter: true}))
	}
}

func TestDocument_Frontmatter(t *testing.T) {
	conv := types.Conversation{
		ID:        "c1",
		Title:     "Meta",
		CreatedAt: "2024-03-01T10:00:00Z",
		UpdatedAt: "2024-03-02T10:00:00Z",
	}
	turns := []types.Message{{Role: types.RoleUser, Text: "Hi"}}

	doc := Document(conv, turns, Options{Frontmatter: true})

	require.True(t, strings.HasPrefix(doc, "---\n"))
	header := doc[:strings.Index(doc, "# Meta")]
	assert.Contains(t, header, "conversation_id: c1")
	assert.Contains(t, header, "title: Meta")
	assert.Contains(t, header, "created_at:")
	assert.Contains(t, header, "turns: 1")
	assert.Contains(t, doc, "# Meta\n\n**You:**")
}

func TestFixSublists(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "inserts blank line before first sub-item",
			in:   "intro\n**1. \"First\"**\n- item",
			want: "intro\n**1. \"First\"**\n\n- item",
		},
		{
			name: "fixes every occurrence",
			in:   "a\n**1. \"X\"**\n- one\n**2. \"Y\"**\n- two",
			want: "a\n**1. \"X\"**\n\n- one\n**2. \"Y\"**\n\n- two",
		},
		{
			name: "leaves already-correct lists alone",
			in:   "a\n**1. \"X\"**\n\n- one",
			want: "a\n**1. \"X\"**\n\n- one",
		},
		{
			name: "ignores unnumbered bold lines",
			in:   "a\n**note \"X\"**\n- one",
			want: "a\n**note \"X\"**\n- one",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FixSublists(tt.in))
		})
	}
}
