package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/scenegallery/scenegallery/internal/collection"
	"github.com/scenegallery/scenegallery/internal/domain"
	"github.com/scenegallery/scenegallery/internal/logger"
	"github.com/scenegallery/scenegallery/internal/query"
	"github.com/scenegallery/scenegallery/internal/remote"
	"github.com/scenegallery/scenegallery/internal/trash"
)

// fakeRemoteStore emulates the spreadsheet endpoint: reads dispatch on
// the action query parameter, writes arrive as action-tagged JSON and
// are answered with an opaque body.
type fakeRemoteStore struct {
	mu       sync.Mutex
	commands []string
}

func (f *fakeRemoteStore) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			body, _ := io.ReadAll(r.Body)
			var payload map[string]any
			_ = json.Unmarshal(body, &payload)
			action, _ := payload["action"].(string)
			f.mu.Lock()
			f.commands = append(f.commands, action)
			f.mu.Unlock()
			fmt.Fprint(w, "<html>ok</html>")
			return
		}

		switch r.URL.Query().Get("action") {
		case "":
			fmt.Fprint(w, `[
				{"id":"v1","title":"ネコのCM","category":"CM","date":"2024-03-01","videoUrl":"https://vimeo.com/111"},
				{"id":"v2","title":"犬のMV","category":"MV","date":"2024-05-01","videoUrl":"https://youtube.com/watch?v=222"},
				{"title":"無題","category":"CM","date":"2024-01-01","videoUrl":"https://example.com/a.mp4"}
			]`)
		case "getCategories":
			fmt.Fprint(w, `["CM","MV","WEB CM"]`)
		case "getBookmarkCategories":
			fmt.Fprint(w, `["お気に入り"]`)
		case "getBookmarks":
			fmt.Fprint(w, `{"お気に入り":[{"id":"v2","title":"犬のMV","category":"MV","originalCategory":"MV"}]}`)
		default:
			fmt.Fprint(w, `{"error":"unknown action"}`)
		}
	})
}

func (f *fakeRemoteStore) dispatched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.commands))
	copy(out, f.commands)
	return out
}

func newGallery(t *testing.T) (*collection.Store, *fakeRemoteStore) {
	t.Helper()
	fake := &fakeRemoteStore{}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	log := logger.New("error", false)
	channel := remote.New(remote.Options{BaseURL: srv.URL}, log)
	store := collection.New(collection.Options{
		Remote: channel,
		Ledger: trash.NewLedger(nil, log),
		Logger: log,
	})
	return store, fake
}

func TestGalleryStartupFlow(t *testing.T) {
	store, _ := newGallery(t)
	ctx := context.Background()

	if err := store.Hydrate(ctx, true); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	store.LoadCategories(ctx)
	if err := store.LoadBookmarks(ctx); err != nil {
		t.Fatalf("load bookmarks: %v", err)
	}

	status, _ := store.Status()
	if status != collection.StatusReady {
		t.Fatalf("status = %q, want ready", status)
	}

	videos := store.Videos()
	if len(videos) != 3 {
		t.Fatalf("got %d videos, want 3", len(videos))
	}
	for _, v := range videos {
		if v.ID == "" {
			t.Errorf("video %q has no id after hydration", v.Title)
		}
	}

	if got := store.Categories(); len(got) != 3 {
		t.Errorf("got %d categories, want 3", len(got))
	}
	if !store.IsBookmarked("v2") {
		t.Error("v2 should be bookmarked after loading bookmarks")
	}
}

func TestGallerySearchOverHydratedState(t *testing.T) {
	store, _ := newGallery(t)
	ctx := context.Background()

	if err := store.Hydrate(ctx, true); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if err := store.LoadBookmarks(ctx); err != nil {
		t.Fatalf("load bookmarks: %v", err)
	}

	engine := query.NewEngine(nil)

	got := engine.Apply(store.Videos(), store.IsBookmarked, query.Filter{
		Category: "CM",
		Search:   "ねこ", // hiragana query against a katakana title
	})
	if len(got) != 1 || got[0].ID != "v1" {
		t.Fatalf("search ねこ in CM = %v, want just v1", ids(got))
	}

	got = engine.Apply(store.Videos(), store.IsBookmarked, query.Filter{
		Category: query.FilterBookmarks,
	})
	if len(got) != 1 || got[0].ID != "v2" {
		t.Fatalf("bookmarks filter = %v, want just v2", ids(got))
	}
}

func TestGalleryDeleteAndRestoreRoundTrip(t *testing.T) {
	store, fake := newGallery(t)
	ctx := context.Background()

	if err := store.Hydrate(ctx, true); err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	if err := store.DeleteVideo(ctx, "v1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := store.Video("v1"); ok {
		t.Fatal("v1 still in the active set after delete")
	}
	if got := store.Trash(); len(got) != 1 || got[0].Video.ID != "v1" {
		t.Fatalf("trash = %d entries, want v1 alone", len(got))
	}

	restored, err := store.RestoreFromTrash(ctx, 0)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.ID != "v1" || restored.Title != "ネコのCM" {
		t.Fatalf("restored %q/%q, want v1 with its original title", restored.ID, restored.Title)
	}
	if _, ok := store.Video("v1"); !ok {
		t.Fatal("v1 missing from the active set after restore")
	}
	if len(store.Trash()) != 0 {
		t.Fatal("trash should be empty after restore")
	}

	want := []string{"deleteVideo", "saveVideo"}
	got := fake.dispatched()
	if len(got) != len(want) {
		t.Fatalf("dispatched %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("dispatched %v, want %v", got, want)
		}
	}
}

func TestGalleryBookmarkChangeDispatches(t *testing.T) {
	store, fake := newGallery(t)
	ctx := context.Background()

	if err := store.Hydrate(ctx, true); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if err := store.LoadBookmarks(ctx); err != nil {
		t.Fatalf("load bookmarks: %v", err)
	}

	if err := store.ApplyBookmarkChange(ctx, "v1", []string{"お気に入り"}); err != nil {
		t.Fatalf("bookmark change: %v", err)
	}
	if !store.IsBookmarked("v1") {
		t.Fatal("v1 should be bookmarked")
	}

	got := fake.dispatched()
	if len(got) != 1 || got[0] != "addBookmark" {
		t.Fatalf("dispatched %v, want one addBookmark", got)
	}
}

func ids(videos []domain.Video) []string {
	out := make([]string, 0, len(videos))
	for _, v := range videos {
		out = append(out, v.ID)
	}
	return out
}
