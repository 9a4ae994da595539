package domain

import "testing"

func TestDiffCategories(t *testing.T) {
	entry := &BookmarkEntry{Categories: []string{"お気に入り", "MV"}}

	added, removed := DiffCategories(entry, []string{"MV", "参考"})

	if len(added) != 1 || added[0] != "参考" {
		t.Errorf("added = %v, want [参考]", added)
	}
	if len(removed) != 1 || removed[0] != "お気に入り" {
		t.Errorf("removed = %v, want [お気に入り]", removed)
	}
}

func TestDiffCategoriesIdempotent(t *testing.T) {
	entry := &BookmarkEntry{Categories: []string{"お気に入り"}}

	added, removed := DiffCategories(entry, []string{"お気に入り"})

	if len(added) != 0 || len(removed) != 0 {
		t.Errorf("same desired set should produce empty diff, got added=%v removed=%v", added, removed)
	}
}

func TestDiffCategoriesNilEntry(t *testing.T) {
	added, removed := DiffCategories(nil, []string{"お気に入り"})

	if len(added) != 1 || added[0] != "お気に入り" {
		t.Errorf("added = %v, want [お気に入り]", added)
	}
	if len(removed) != 0 {
		t.Errorf("removed = %v, want empty", removed)
	}
}

func TestDiffCategoriesDedupesDesired(t *testing.T) {
	added, _ := DiffCategories(nil, []string{"a", "a", "b"})
	if len(added) != 2 {
		t.Errorf("duplicate desired categories should collapse, added = %v", added)
	}
}

func TestRemoveCategoryReportsEmpty(t *testing.T) {
	entry := &BookmarkEntry{Categories: []string{"お気に入り"}}

	empty := entry.RemoveCategory("お気に入り")

	if !empty {
		t.Error("removing the last category should report the entry empty")
	}
	if len(entry.Categories) != 0 {
		t.Errorf("categories = %v, want empty", entry.Categories)
	}
}

func TestAddCategoryNoDuplicates(t *testing.T) {
	entry := &BookmarkEntry{Categories: []string{"お気に入り"}}
	entry.AddCategory("お気に入り")
	if len(entry.Categories) != 1 {
		t.Errorf("duplicate add should be ignored, categories = %v", entry.Categories)
	}
}

func TestRenameCategory(t *testing.T) {
	entry := &BookmarkEntry{Categories: []string{"古い名前", "MV"}}
	entry.RenameCategory("古い名前", "新しい名前")
	if entry.Categories[0] != "新しい名前" {
		t.Errorf("rename did not apply, categories = %v", entry.Categories)
	}
}
