package domain

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Order selects how a derived view is sorted.
type Order string

const (
	OrderDateDesc Order = "date_desc"
	OrderDateAsc  Order = "date_asc"
	OrderTitle    Order = "title"
	OrderSource   Order = "source"
)

// ParseOrder maps a request parameter to an Order, defaulting to
// newest-first.
func ParseOrder(s string) Order {
	switch Order(s) {
	case OrderDateAsc, OrderTitle, OrderSource:
		return Order(s)
	default:
		return OrderDateDesc
	}
}

// sourcePriority is the fixed ordering for the source sort.
var sourcePriority = map[Source]int{
	SourceYouTube:  0,
	SourceVimeo:    1,
	SourceDropbox:  2,
	SourceExternal: 3,
	SourceUnknown:  4,
}

func priorityOf(s Source) int {
	if p, ok := sourcePriority[s]; ok {
		return p
	}
	return sourcePriority[SourceUnknown]
}

// NormalizeDate rewrites '.'-separated dates to '/'-separated so that
// "2024.01.05" and "2024/01/05" compare equal. Comparison stays purely
// string-based: dates are free-form and not calendar-aware, so two
// differently formatted but equal dates may still compare unequal. That
// is an accepted limitation, not a defect.
func NormalizeDate(d string) string {
	return strings.ReplaceAll(d, ".", "/")
}

// SortVideos sorts in place according to order. Sorting is stable, so
// equal keys keep their relative positions.
func SortVideos(videos []Video, order Order) {
	switch order {
	case OrderDateAsc:
		sort.SliceStable(videos, func(i, j int) bool {
			return NormalizeDate(videos[i].Date) < NormalizeDate(videos[j].Date)
		})
	case OrderTitle:
		c := collate.New(language.Japanese)
		sort.SliceStable(videos, func(i, j int) bool {
			return c.CompareString(videos[i].Title, videos[j].Title) < 0
		})
	case OrderSource:
		sort.SliceStable(videos, func(i, j int) bool {
			pi, pj := priorityOf(videos[i].Source), priorityOf(videos[j].Source)
			if pi != pj {
				return pi < pj
			}
			return NormalizeDate(videos[i].Date) > NormalizeDate(videos[j].Date)
		})
	default: // OrderDateDesc
		sort.SliceStable(videos, func(i, j int) bool {
			return NormalizeDate(videos[i].Date) > NormalizeDate(videos[j].Date)
		})
	}
}
