package collection

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/scenegallery/scenegallery/internal/domain"
	"github.com/scenegallery/scenegallery/internal/remote"
	"github.com/scenegallery/scenegallery/internal/trash"
)

type fakeRemote struct {
	mu sync.Mutex

	videos    []domain.Video
	videosErr error
	fetchFn   func(ctx context.Context) ([]domain.Video, error)

	categories       []string
	categoriesErr    error
	bookmarkCats     []string
	bookmarkCatsErr  error
	bookmarksPayload map[string][]remote.BookmarkedVideo
	bookmarksErr     error

	commands    []string
	commandFail bool
}

func (f *fakeRemote) record(cmd string) remote.Result {
	f.mu.Lock()
	f.commands = append(f.commands, cmd)
	fail := f.commandFail
	f.mu.Unlock()
	if fail {
		return remote.Result{Success: false, Error: "dispatch failed"}
	}
	return remote.Result{Success: true}
}

func (f *fakeRemote) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.commands))
	copy(out, f.commands)
	return out
}

func (f *fakeRemote) FetchVideos(ctx context.Context) ([]domain.Video, error) {
	f.mu.Lock()
	fn, videos, err := f.fetchFn, f.videos, f.videosErr
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return videos, err
}

func (f *fakeRemote) FetchCategories(context.Context) ([]string, error) {
	return f.categories, f.categoriesErr
}

func (f *fakeRemote) FetchBookmarkCategories(context.Context) ([]string, error) {
	return f.bookmarkCats, f.bookmarkCatsErr
}

func (f *fakeRemote) FetchBookmarks(context.Context) (map[string][]remote.BookmarkedVideo, error) {
	return f.bookmarksPayload, f.bookmarksErr
}

func (f *fakeRemote) SaveVideo(_ context.Context, v domain.Video) remote.Result {
	return f.record("saveVideo:" + v.ID)
}

func (f *fakeRemote) UpdateVideo(_ context.Context, id, oldCategory, newCategory, _, _ string) remote.Result {
	return f.record(fmt.Sprintf("updateVideo:%s:%s:%s", id, oldCategory, newCategory))
}

func (f *fakeRemote) DeleteVideo(_ context.Context, id, category string) remote.Result {
	return f.record("deleteVideo:" + id + ":" + category)
}

func (f *fakeRemote) AddCategory(_ context.Context, name string) remote.Result {
	return f.record("addCategory:" + name)
}

func (f *fakeRemote) AddBookmark(_ context.Context, category string, v domain.Video) remote.Result {
	return f.record("addBookmark:" + category + ":" + v.ID)
}

func (f *fakeRemote) RemoveBookmark(_ context.Context, category, videoID string) remote.Result {
	return f.record("removeBookmark:" + category + ":" + videoID)
}

func (f *fakeRemote) AddBookmarkCategory(_ context.Context, name string) remote.Result {
	return f.record("addBookmarkCategory:" + name)
}

func (f *fakeRemote) RenameBookmarkCategory(_ context.Context, oldName, newName string) remote.Result {
	return f.record("renameBookmarkCategory:" + oldName + ":" + newName)
}

func (f *fakeRemote) DeleteBookmarkCategory(_ context.Context, name string) remote.Result {
	return f.record("deleteBookmarkCategory:" + name)
}

func (f *fakeRemote) UploadAndSave(_ context.Context, req remote.UploadRequest) remote.Result {
	return f.record("uploadAndSave:" + req.FileName)
}

type fakeCache struct {
	mu sync.Mutex

	videos    []domain.Video
	videosAge time.Duration
	videosOK  bool

	categories   []string
	categoriesOK bool

	bookmarkCats   []string
	bookmarkCatsOK bool

	savedVideos [][]domain.Video
	trashItems  []domain.TrashItem
}

func (f *fakeCache) SaveVideos(_ context.Context, videos []domain.Video) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.savedVideos = append(f.savedVideos, videos)
	return nil
}

func (f *fakeCache) LoadVideos(context.Context) ([]domain.Video, time.Duration, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.videosOK {
		return nil, 0, false, nil
	}
	return f.videos, f.videosAge, true, nil
}

func (f *fakeCache) SaveCategories(_ context.Context, categories []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.categories = categories
	f.categoriesOK = true
	return nil
}

func (f *fakeCache) LoadCategories(context.Context) ([]string, time.Duration, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.categories, 0, f.categoriesOK, nil
}

func (f *fakeCache) SaveBookmarks(context.Context, map[string]domain.BookmarkEntry) error {
	return nil
}

func (f *fakeCache) LoadBookmarks(context.Context) (map[string]domain.BookmarkEntry, time.Duration, bool, error) {
	return nil, 0, false, nil
}

func (f *fakeCache) SaveBookmarkCategories(_ context.Context, categories []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookmarkCats = categories
	f.bookmarkCatsOK = true
	return nil
}

func (f *fakeCache) LoadBookmarkCategories(context.Context) ([]string, time.Duration, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bookmarkCats, 0, f.bookmarkCatsOK, nil
}

func sample(id, title, category string) domain.Video {
	return domain.Video{
		ID:       id,
		Title:    title,
		Category: category,
		Date:     "2024/01/01",
		Source:   domain.SourceYouTube,
		VideoURL: "https://youtu.be/" + id,
	}
}

func newTestStore(r *fakeRemote, c Cache) *Store {
	opts := Options{Remote: r, Ledger: trash.NewLedger(nil, nil)}
	if c != nil {
		opts.Cache = c
	}
	return New(opts)
}

func TestHydrateFetchesAndStampsIDs(t *testing.T) {
	r := &fakeRemote{videos: []domain.Video{
		sample("v1", "one", "MV"),
		{Title: "legacy", VideoURL: "https://example.com/x", Category: "CM"},
	}}
	s := newTestStore(r, nil)

	if err := s.Hydrate(context.Background(), true); err != nil {
		t.Fatalf("Hydrate() error: %v", err)
	}

	videos := s.Videos()
	if len(videos) != 2 {
		t.Fatalf("Videos() = %d, want 2", len(videos))
	}
	if videos[1].ID == "" {
		t.Error("video without an id must get one at ingestion")
	}
	if status, _ := s.Status(); status != StatusReady {
		t.Errorf("status = %q, want ready", status)
	}
}

func TestHydrateFreshCacheSkipsForegroundFetch(t *testing.T) {
	fetched := make(chan struct{}, 1)
	r := &fakeRemote{}
	r.fetchFn = func(context.Context) ([]domain.Video, error) {
		fetched <- struct{}{}
		return []domain.Video{sample("v1", "one", "MV")}, nil
	}
	c := &fakeCache{videos: []domain.Video{sample("v1", "one", "MV")}, videosAge: time.Minute, videosOK: true}
	s := newTestStore(r, c)

	if err := s.Hydrate(context.Background(), false); err != nil {
		t.Fatalf("Hydrate() error: %v", err)
	}
	if len(s.Videos()) != 1 {
		t.Fatal("cached snapshot not adopted")
	}

	// The remote is still consulted, but in the background.
	select {
	case <-fetched:
	case <-time.After(time.Second):
		t.Error("fresh-cache hydration must still reconcile in the background")
	}
}

func TestHydrateStaleCacheGoesOffline(t *testing.T) {
	r := &fakeRemote{videosErr: errors.New("script unreachable")}
	c := &fakeCache{videos: []domain.Video{sample("v1", "one", "MV")}, videosAge: time.Hour, videosOK: true}
	s := newTestStore(r, c)

	if err := s.Hydrate(context.Background(), true); err != nil {
		t.Fatalf("stale cache must rescue hydration, got %v", err)
	}
	status, msg := s.Status()
	if status != StatusOffline {
		t.Errorf("status = %q, want offline", status)
	}
	if msg == "" {
		t.Error("offline status must carry a message")
	}
	if len(s.Videos()) != 1 {
		t.Error("cached snapshot not served")
	}
}

func TestHydrateNoCacheHardError(t *testing.T) {
	r := &fakeRemote{videosErr: errors.New("script unreachable")}
	s := newTestStore(r, &fakeCache{})

	if err := s.Hydrate(context.Background(), true); err == nil {
		t.Fatal("hydration with no fallback must error")
	}
	if status, _ := s.Status(); status != StatusError {
		t.Errorf("status = %q, want error", status)
	}
}

func TestHydrateStaleResultDiscarded(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	r := &fakeRemote{}
	first := true
	r.fetchFn = func(context.Context) ([]domain.Video, error) {
		r.mu.Lock()
		mine := first
		first = false
		r.mu.Unlock()
		if mine {
			close(started)
			<-release
			return []domain.Video{sample("old", "stale result", "MV")}, nil
		}
		return []domain.Video{sample("new", "fresh result", "MV")}, nil
	}
	s := newTestStore(r, nil)

	done := make(chan struct{})
	go func() {
		_ = s.Hydrate(context.Background(), true)
		close(done)
	}()
	<-started

	if err := s.Hydrate(context.Background(), true); err != nil {
		t.Fatalf("second Hydrate() error: %v", err)
	}
	close(release)
	<-done

	videos := s.Videos()
	if len(videos) != 1 || videos[0].ID != "new" {
		t.Errorf("stale hydration overwrote newer result: %+v", videos)
	}
}

func TestReconcileReplacesOnlyOnChange(t *testing.T) {
	r := &fakeRemote{videos: []domain.Video{sample("v1", "one", "MV")}}
	c := &fakeCache{}
	s := newTestStore(r, c)
	if err := s.Hydrate(context.Background(), true); err != nil {
		t.Fatal(err)
	}

	writesBefore := len(c.savedVideos)
	if err := s.Reconcile(context.Background()); err != nil {
		t.Fatalf("Reconcile() error: %v", err)
	}
	if len(c.savedVideos) != writesBefore {
		t.Error("identical reconcile result must not rewrite the cache")
	}

	r.mu.Lock()
	r.videos = []domain.Video{sample("v1", "renamed upstream", "MV")}
	r.mu.Unlock()
	if err := s.Reconcile(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := s.Videos()[0].Title; got != "renamed upstream" {
		t.Errorf("title = %q after divergent reconcile", got)
	}
	if len(c.savedVideos) != writesBefore+1 {
		t.Error("divergent reconcile must re-persist the cache")
	}
}

func TestDeleteVideoTrashesEvenWhenDispatchFails(t *testing.T) {
	r := &fakeRemote{videos: []domain.Video{sample("v1", "one", "MV")}, commandFail: true}
	s := newTestStore(r, nil)
	if err := s.Hydrate(context.Background(), true); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteVideo(context.Background(), "v1"); err != nil {
		t.Fatalf("DeleteVideo() error: %v", err)
	}
	if len(s.Videos()) != 0 {
		t.Error("video still in active set")
	}
	if items := s.Trash(); len(items) != 1 || items[0].Video.ID != "v1" {
		t.Errorf("trash = %+v, want the deleted video", items)
	}
}

func TestTrashRoundTripPreservesVideo(t *testing.T) {
	original := sample("v1", "タイトル", "MV")
	original.Description = "説明"
	original.Thumbnail = "https://img.youtube.com/vi/v1/maxresdefault.jpg"
	r := &fakeRemote{videos: []domain.Video{original}}
	s := newTestStore(r, nil)
	if err := s.Hydrate(context.Background(), true); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteVideo(context.Background(), "v1"); err != nil {
		t.Fatal(err)
	}
	restored, err := s.RestoreFromTrash(context.Background(), 0)
	if err != nil {
		t.Fatalf("RestoreFromTrash() error: %v", err)
	}
	if restored != original {
		t.Errorf("restored = %+v, want the exact original snapshot", restored)
	}
	if len(s.Videos()) != 1 {
		t.Error("restored video not re-admitted")
	}
	if len(s.Trash()) != 0 {
		t.Error("ledger entry not consumed by restore")
	}
}

func TestRestoreAll(t *testing.T) {
	r := &fakeRemote{videos: []domain.Video{sample("v1", "one", "MV"), sample("v2", "two", "CM")}}
	s := newTestStore(r, nil)
	if err := s.Hydrate(context.Background(), true); err != nil {
		t.Fatal(err)
	}
	_ = s.DeleteVideo(context.Background(), "v1")
	_ = s.DeleteVideo(context.Background(), "v2")

	if n := s.RestoreAll(context.Background()); n != 2 {
		t.Fatalf("RestoreAll() = %d, want 2", n)
	}
	if len(s.Videos()) != 2 {
		t.Errorf("Videos() = %d after restore-all, want 2", len(s.Videos()))
	}
}

func TestApplyBookmarkChangeDispatchesDiffOnly(t *testing.T) {
	r := &fakeRemote{videos: []domain.Video{sample("v1", "one", "MV")}}
	s := newTestStore(r, nil)
	if err := s.Hydrate(context.Background(), true); err != nil {
		t.Fatal(err)
	}
	_ = s.AddBookmarkCategory(context.Background(), "A")
	_ = s.AddBookmarkCategory(context.Background(), "B")
	_ = s.AddBookmarkCategory(context.Background(), "C")

	if err := s.ApplyBookmarkChange(context.Background(), "v1", []string{"A", "B"}); err != nil {
		t.Fatal(err)
	}

	r.mu.Lock()
	r.commands = nil
	r.mu.Unlock()

	if err := s.ApplyBookmarkChange(context.Background(), "v1", []string{"B", "C"}); err != nil {
		t.Fatal(err)
	}

	cmds := r.recorded()
	want := []string{"addBookmark:C:v1", "removeBookmark:A:v1"}
	if len(cmds) != len(want) {
		t.Fatalf("commands = %v, want %v", cmds, want)
	}
	for i := range want {
		if cmds[i] != want[i] {
			t.Errorf("command[%d] = %q, want %q (adds before removes)", i, cmds[i], want[i])
		}
	}
}

func TestApplyBookmarkChangeIdempotent(t *testing.T) {
	r := &fakeRemote{videos: []domain.Video{sample("v1", "one", "MV")}}
	s := newTestStore(r, nil)
	if err := s.Hydrate(context.Background(), true); err != nil {
		t.Fatal(err)
	}
	_ = s.AddBookmarkCategory(context.Background(), "A")
	if err := s.ApplyBookmarkChange(context.Background(), "v1", []string{"A"}); err != nil {
		t.Fatal(err)
	}

	r.mu.Lock()
	r.commands = nil
	r.mu.Unlock()

	if err := s.ApplyBookmarkChange(context.Background(), "v1", []string{"A"}); err != nil {
		t.Fatal(err)
	}
	if cmds := r.recorded(); len(cmds) != 0 {
		t.Errorf("identical desired set dispatched %v, want nothing", cmds)
	}
}

func TestApplyBookmarkChangeEmptySetDeletesEntry(t *testing.T) {
	r := &fakeRemote{videos: []domain.Video{sample("v1", "one", "MV")}}
	s := newTestStore(r, nil)
	if err := s.Hydrate(context.Background(), true); err != nil {
		t.Fatal(err)
	}
	_ = s.AddBookmarkCategory(context.Background(), "A")
	_ = s.ApplyBookmarkChange(context.Background(), "v1", []string{"A"})

	if !s.IsBookmarked("v1") {
		t.Fatal("bookmark not applied")
	}
	if err := s.ApplyBookmarkChange(context.Background(), "v1", nil); err != nil {
		t.Fatal(err)
	}
	if s.IsBookmarked("v1") {
		t.Error("empty desired set must delete the entry")
	}
	if _, ok := s.BookmarkEntry("v1"); ok {
		t.Error("entry must be gone, not empty")
	}
}

func TestBookmarkLocalUpdateSurvivesFailedDispatch(t *testing.T) {
	r := &fakeRemote{videos: []domain.Video{sample("v1", "one", "MV")}, commandFail: true}
	s := newTestStore(r, nil)
	if err := s.Hydrate(context.Background(), true); err != nil {
		t.Fatal(err)
	}

	if err := s.ApplyBookmarkChange(context.Background(), "v1", []string{"A"}); err != nil {
		t.Fatal(err)
	}
	if !s.IsBookmarked("v1") {
		t.Error("bookmark must stick locally even when the dispatch fails")
	}
}

func TestDeleteBookmarkCategoryCascades(t *testing.T) {
	r := &fakeRemote{videos: []domain.Video{sample("v1", "one", "MV"), sample("v2", "two", "CM")}}
	s := newTestStore(r, nil)
	if err := s.Hydrate(context.Background(), true); err != nil {
		t.Fatal(err)
	}
	_ = s.AddBookmarkCategory(context.Background(), "A")
	_ = s.AddBookmarkCategory(context.Background(), "B")
	_ = s.ApplyBookmarkChange(context.Background(), "v1", []string{"A"})
	_ = s.ApplyBookmarkChange(context.Background(), "v2", []string{"A", "B"})

	if err := s.DeleteBookmarkCategory(context.Background(), "A"); err != nil {
		t.Fatal(err)
	}

	if s.IsBookmarked("v1") {
		t.Error("entry whose only category was deleted must be dropped")
	}
	entry, ok := s.BookmarkEntry("v2")
	if !ok || len(entry.Categories) != 1 || entry.Categories[0] != "B" {
		t.Errorf("entry = %+v, want only B", entry)
	}
	if contains(s.BookmarkCategories(), "A") {
		t.Error("category A still listed")
	}
}

func TestRenameBookmarkCategoryCascades(t *testing.T) {
	r := &fakeRemote{videos: []domain.Video{sample("v1", "one", "MV")}}
	s := newTestStore(r, nil)
	if err := s.Hydrate(context.Background(), true); err != nil {
		t.Fatal(err)
	}
	_ = s.AddBookmarkCategory(context.Background(), "old")
	_ = s.ApplyBookmarkChange(context.Background(), "v1", []string{"old"})

	if err := s.RenameBookmarkCategory(context.Background(), "old", "new"); err != nil {
		t.Fatal(err)
	}
	entry, _ := s.BookmarkEntry("v1")
	if !entry.HasCategory("new") || entry.HasCategory("old") {
		t.Errorf("entry categories = %v after rename", entry.Categories)
	}
	if !contains(s.BookmarkCategories(), "new") {
		t.Error("renamed category missing from list")
	}
}

func TestBookmarkManyUsesFirstCategoryAndSkipsBookmarked(t *testing.T) {
	r := &fakeRemote{videos: []domain.Video{sample("v1", "one", "MV"), sample("v2", "two", "CM")}}
	s := newTestStore(r, nil)
	if err := s.Hydrate(context.Background(), true); err != nil {
		t.Fatal(err)
	}
	_ = s.AddBookmarkCategory(context.Background(), "first")
	_ = s.AddBookmarkCategory(context.Background(), "second")
	_ = s.ApplyBookmarkChange(context.Background(), "v1", []string{"second"})

	if n := s.BookmarkMany(context.Background(), []string{"v1", "v2"}); n != 1 {
		t.Fatalf("BookmarkMany() = %d, want 1", n)
	}
	entry, _ := s.BookmarkEntry("v2")
	if !entry.HasCategory("first") {
		t.Errorf("v2 categories = %v, want first", entry.Categories)
	}
}

func TestBookmarkManyCreatesDefaultCategory(t *testing.T) {
	r := &fakeRemote{videos: []domain.Video{sample("v1", "one", "MV")}}
	s := newTestStore(r, nil)
	if err := s.Hydrate(context.Background(), true); err != nil {
		t.Fatal(err)
	}

	if n := s.BookmarkMany(context.Background(), []string{"v1"}); n != 1 {
		t.Fatalf("BookmarkMany() = %d, want 1", n)
	}
	entry, _ := s.BookmarkEntry("v1")
	if !entry.HasCategory(DefaultBookmarkCategory) {
		t.Errorf("v1 categories = %v, want %s", entry.Categories, DefaultBookmarkCategory)
	}
}

func TestLoadCategoriesFallsBackToDefaults(t *testing.T) {
	r := &fakeRemote{categoriesErr: errors.New("unreachable")}
	s := newTestStore(r, &fakeCache{})

	got := s.LoadCategories(context.Background())
	if len(got) != 3 || got[0] != "CM" || got[1] != "WEB CM" || got[2] != "MV" {
		t.Errorf("LoadCategories() = %v, want the built-in defaults", got)
	}
}

func TestLoadBookmarksBuildsIndex(t *testing.T) {
	r := &fakeRemote{
		videos:       []domain.Video{sample("v1", "one", "MV")},
		bookmarkCats: []string{"A"},
		bookmarksPayload: map[string][]remote.BookmarkedVideo{
			"A": {{Video: sample("v1", "one", "MV"), OriginalCategory: "MV"}},
			"B": {{Video: sample("v1", "one", "MV"), OriginalCategory: "MV"}},
		},
	}
	s := newTestStore(r, nil)

	if err := s.LoadBookmarks(context.Background()); err != nil {
		t.Fatalf("LoadBookmarks() error: %v", err)
	}
	entry, ok := s.BookmarkEntry("v1")
	if !ok {
		t.Fatal("entry missing")
	}
	if len(entry.Categories) != 2 {
		t.Errorf("categories = %v, want membership in both", entry.Categories)
	}
	if entry.OriginalCategory != "MV" {
		t.Errorf("originalCategory = %q", entry.OriginalCategory)
	}
	// Category B was only discoverable through the bookmark map.
	if !contains(s.BookmarkCategories(), "B") {
		t.Error("categories found in the bookmark map must join the list")
	}
}

func TestSaveVideoValidatesBeforeDispatch(t *testing.T) {
	r := &fakeRemote{}
	s := newTestStore(r, nil)

	_, err := s.SaveVideo(context.Background(), domain.Video{Title: "no category or url"})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("SaveVideo() = %v, want ValidationError", err)
	}
	if cmds := r.recorded(); len(cmds) != 0 {
		t.Errorf("invalid draft dispatched %v", cmds)
	}
}

func TestSaveVideoDerivesPlatformFields(t *testing.T) {
	r := &fakeRemote{}
	s := newTestStore(r, nil)

	saved, err := s.SaveVideo(context.Background(), domain.Video{
		Title:       "spot",
		Description: "desc",
		Category:    "MV",
		VideoURL:    "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
	})
	if err != nil {
		t.Fatalf("SaveVideo() error: %v", err)
	}
	if saved.Source != domain.SourceYouTube {
		t.Errorf("source = %q, want youtube", saved.Source)
	}
	if saved.Thumbnail == "" {
		t.Error("thumbnail not derived")
	}
	if saved.ID == "" {
		t.Error("id not stamped")
	}
	if len(s.Videos()) != 1 {
		t.Error("optimistic local append missing")
	}
	if cmds := r.recorded(); len(cmds) != 1 || !strings.HasPrefix(cmds[0], "saveVideo:") {
		t.Errorf("commands = %v", cmds)
	}
}

func TestUpdateVideoAppliesLocally(t *testing.T) {
	r := &fakeRemote{videos: []domain.Video{sample("v1", "one", "MV")}}
	s := newTestStore(r, nil)
	if err := s.Hydrate(context.Background(), true); err != nil {
		t.Fatal(err)
	}

	updated, err := s.UpdateVideo(context.Background(), "v1", "renamed", "new desc", "CM")
	if err != nil {
		t.Fatalf("UpdateVideo() error: %v", err)
	}
	if updated.Title != "renamed" || updated.Category != "CM" {
		t.Errorf("updated = %+v", updated)
	}
	cmds := r.recorded()
	if len(cmds) != 1 || cmds[0] != "updateVideo:v1:MV:CM" {
		t.Errorf("commands = %v, want old and new category in the dispatch", cmds)
	}
}
