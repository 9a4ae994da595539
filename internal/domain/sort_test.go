package domain

import "testing"

func TestNormalizeDate(t *testing.T) {
	if got := NormalizeDate("2024.01.05"); got != "2024/01/05" {
		t.Errorf("NormalizeDate() = %q, want %q", got, "2024/01/05")
	}
}

func TestSortVideosDateSeparatorEquality(t *testing.T) {
	// "2024.01.05" and "2024/01/05" compare equal after separator
	// normalization; stable sort keeps their input order.
	videos := []Video{
		{ID: "a", Date: "2024.01.05"},
		{ID: "b", Date: "2024/01/05"},
	}

	SortVideos(videos, OrderDateDesc)

	if videos[0].ID != "a" || videos[1].ID != "b" {
		t.Errorf("equal dates should keep input order, got %s,%s", videos[0].ID, videos[1].ID)
	}
}

func TestSortVideosDateDesc(t *testing.T) {
	videos := []Video{
		{ID: "old", Date: "2023/05/01"},
		{ID: "new", Date: "2024/12/31"},
		{ID: "mid", Date: "2024.01.05"},
	}

	SortVideos(videos, OrderDateDesc)

	want := []string{"new", "mid", "old"}
	for i, id := range want {
		if videos[i].ID != id {
			t.Errorf("position %d = %s, want %s", i, videos[i].ID, id)
		}
	}
}

func TestSortVideosDateAsc(t *testing.T) {
	videos := []Video{
		{ID: "new", Date: "2024/12/31"},
		{ID: "old", Date: "2023/05/01"},
	}

	SortVideos(videos, OrderDateAsc)

	if videos[0].ID != "old" {
		t.Errorf("ascending sort first = %s, want old", videos[0].ID)
	}
}

func TestSortVideosSourcePriority(t *testing.T) {
	videos := []Video{
		{ID: "u", Source: SourceUnknown},
		{ID: "d", Source: SourceDropbox},
		{ID: "y", Source: SourceYouTube},
		{ID: "e", Source: SourceExternal},
		{ID: "v", Source: SourceVimeo},
	}

	SortVideos(videos, OrderSource)

	want := []string{"y", "v", "d", "e", "u"}
	for i, id := range want {
		if videos[i].ID != id {
			t.Errorf("position %d = %s, want %s", i, videos[i].ID, id)
		}
	}
}

func TestSortVideosSourceDateTiebreak(t *testing.T) {
	videos := []Video{
		{ID: "older", Source: SourceYouTube, Date: "2023/01/01"},
		{ID: "newer", Source: SourceYouTube, Date: "2024/01/01"},
	}

	SortVideos(videos, OrderSource)

	if videos[0].ID != "newer" {
		t.Errorf("same source should tiebreak date-descending, first = %s", videos[0].ID)
	}
}

func TestSortVideosTitle(t *testing.T) {
	videos := []Video{
		{ID: "b", Title: "banana"},
		{ID: "a", Title: "apple"},
	}

	SortVideos(videos, OrderTitle)

	if videos[0].ID != "a" {
		t.Errorf("title sort first = %s, want a", videos[0].ID)
	}
}

func TestParseOrder(t *testing.T) {
	tests := []struct {
		in   string
		want Order
	}{
		{in: "date_asc", want: OrderDateAsc},
		{in: "title", want: OrderTitle},
		{in: "source", want: OrderSource},
		{in: "", want: OrderDateDesc},
		{in: "bogus", want: OrderDateDesc},
	}
	for _, tt := range tests {
		if got := ParseOrder(tt.in); got != tt.want {
			t.Errorf("ParseOrder(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
