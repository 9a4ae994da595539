package domain

// BookmarkEntry records which bookmark categories a video belongs to.
//
// Entries are keyed by video ID in the collection store's bookmark index.
// The video snapshot is denormalized so the bookmarks view survives even
// when the source video disappears from the active set.
//
// Invariant: Categories is never empty. An entry whose last category is
// removed must be deleted from the index, not kept around empty.
type BookmarkEntry struct {
	// OriginalCategory is the owning video's gallery category at the
	// time the bookmark was made.
	OriginalCategory string `json:"originalCategory"`

	// Categories is the ordered set of bookmark-category names this
	// video belongs to. Duplicates are forbidden.
	Categories []string `json:"categories"`

	// Snapshot is a cached copy of the video's display fields.
	Snapshot Video `json:"snapshot"`
}

// HasCategory reports whether the entry contains the given bookmark category.
func (e *BookmarkEntry) HasCategory(name string) bool {
	for _, c := range e.Categories {
		if c == name {
			return true
		}
	}
	return false
}

// AddCategory appends a bookmark category, preserving order and ignoring
// duplicates.
func (e *BookmarkEntry) AddCategory(name string) {
	if e.HasCategory(name) {
		return
	}
	e.Categories = append(e.Categories, name)
}

// RemoveCategory removes a bookmark category. It returns true when the
// entry is left empty and must be deleted by the caller.
func (e *BookmarkEntry) RemoveCategory(name string) bool {
	kept := e.Categories[:0]
	for _, c := range e.Categories {
		if c != name {
			kept = append(kept, c)
		}
	}
	e.Categories = kept
	return len(e.Categories) == 0
}

// RenameCategory rewrites every occurrence of oldName to newName.
func (e *BookmarkEntry) RenameCategory(oldName, newName string) {
	for i, c := range e.Categories {
		if c == oldName {
			e.Categories[i] = newName
		}
	}
}

// DiffCategories computes the symmetric difference between the entry's
// current categories and a desired set: categories to add remotely and
// categories to remove. A nil entry is treated as empty.
func DiffCategories(current *BookmarkEntry, desired []string) (added, removed []string) {
	have := map[string]bool{}
	if current != nil {
		for _, c := range current.Categories {
			have[c] = true
		}
	}
	want := map[string]bool{}
	for _, c := range desired {
		if !want[c] {
			want[c] = true
			if !have[c] {
				added = append(added, c)
			}
		}
	}
	if current != nil {
		for _, c := range current.Categories {
			if !want[c] {
				removed = append(removed, c)
			}
		}
	}
	return added, removed
}
