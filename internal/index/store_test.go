// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/convomd/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	cfg := types.IndexConfig{DBPath: filepath.Join(t.TempDir(), "test.db")}
	store, err := NewStore(cfg)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleConversations() []types.Conversation {
	return []types.Conversation{
		{
			ID:        "c1",
			Title:     "Gardening",
			UpdatedAt: "2024-03-01T10:00:00Z",
			Messages: []types.Message{
				{ID: "m1", Role: types.RoleUser, Text: "How do I prune tomatoes?"},
				{ID: "m2", Role: types.RoleAssistant, Text: "Pinch off the suckers between stem and branch."},
			},
		},
		{
			ID:        "c2",
			Title:     "Cooking",
			UpdatedAt: "2024-03-02T10:00:00Z",
			Messages: []types.Message{
				{ID: "m1", Role: types.RoleUser, Text: "Best way to roast garlic?"},
			},
		},
	}
}

func TestIngestAndSearch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var log bytes.Buffer
	summary, err := store.Ingest(ctx, sampleConversations(), &log)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if summary.Indexed != 2 || summary.Failed != 0 {
		t.Errorf("summary = %+v, want 2 indexed", summary)
	}

	results, err := store.Search(ctx, QueryOptions{Query: "tomatoes"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	r := results[0]
	if r.ConversationID != "c1" {
		t.Errorf("conversation = %q, want c1", r.ConversationID)
	}
	if r.Title != "Gardening" {
		t.Errorf("title = %q, want Gardening", r.Title)
	}
	if r.Role != "user" {
		t.Errorf("role = %q, want user", r.Role)
	}
	if !strings.Contains(r.Snippet, "tomatoes") {
		t.Errorf("snippet %q should contain the match", r.Snippet)
	}
}

func TestIngest_SkipsUnchanged(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	convs := sampleConversations()

	var log bytes.Buffer
	if _, err := store.Ingest(ctx, convs, &log); err != nil {
		t.Fatal(err)
	}

	log.Reset()
	summary, err := store.Ingest(ctx, convs, &log)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Skipped != 2 || summary.Indexed != 0 {
		t.Errorf("re-ingest summary = %+v, want 2 skipped", summary)
	}
	if !strings.Contains(log.String(), "skipped c1") {
		t.Errorf("log should report skips, got:\n%s", log.String())
	}
}

func TestIngest_UpdatesChangedConversation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	convs := sampleConversations()

	var log bytes.Buffer
	if _, err := store.Ingest(ctx, convs, &log); err != nil {
		t.Fatal(err)
	}

	// New turn and a newer updated-at stamp.
	convs[0].UpdatedAt = "2024-03-05T10:00:00Z"
	convs[0].Messages = append(convs[0].Messages, types.Message{
		ID: "m3", Role: types.RoleUser, Text: "What about basil seedlings?",
	})

	log.Reset()
	summary, err := store.Ingest(ctx, convs, &log)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Updated != 1 || summary.Skipped != 1 {
		t.Errorf("summary = %+v, want 1 updated and 1 skipped", summary)
	}

	results, err := store.Search(ctx, QueryOptions{Query: "basil"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("got %d results for new turn, want 1", len(results))
	}

	// Old turns were replaced, not duplicated.
	results, err = store.Search(ctx, QueryOptions{Query: "tomatoes"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("got %d results after update, want 1", len(results))
	}
}

func TestSearch_Filters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var log bytes.Buffer
	if _, err := store.Ingest(ctx, sampleConversations(), &log); err != nil {
		t.Fatal(err)
	}

	// Restricting to the wrong conversation finds nothing.
	results, err := store.Search(ctx, QueryOptions{Query: "tomatoes", ConversationID: "c2"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}

	if _, err := store.Search(ctx, QueryOptions{}); err == nil {
		t.Error("empty query should be an error")
	}
}

func TestNewStore_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reopen.db")
	cfg := types.IndexConfig{DBPath: dbPath}

	store, err := NewStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	var log bytes.Buffer
	if _, err := store.Ingest(context.Background(), sampleConversations(), &log); err != nil {
		t.Fatal(err)
	}
	store.Close()

	// Schema creation is idempotent; data survives reopen.
	store, err = NewStore(cfg)
	if err != nil {
		t.Fatalf("reopening store: %v", err)
	}
	defer store.Close()

	results, err := store.Search(context.Background(), QueryOptions{Query: "garlic"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("got %d results after reopen, want 1", len(results))
	}
}
