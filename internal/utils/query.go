package utils

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/amaumene/listahan/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// minSearchLength is the shortest text that narrows a listing; shorter
// non-empty text leaves the listing as is
const minSearchLength = 3

// StatusAll matches every status
const StatusAll = "all"

// Query narrows a record listing
type Query struct {
	Type   models.MediaType // "" matches every type
	Status string           // "" or "all" matches every status
	Text   string           // case- and accent-insensitive title match
}

// Project turns raw records into view models
func Project(raws []models.RawRecord) []models.ViewModel {
	vms := make([]models.ViewModel, 0, len(raws))
	for _, raw := range raws {
		vms = append(vms, ToViewModel(raw))
	}
	return vms
}

// Filter returns the view models matching q, in their original order
func Filter(vms []models.ViewModel, q Query) []models.ViewModel {
	text := strings.TrimSpace(q.Text)
	if utf8.RuneCountInString(text) < minSearchLength {
		text = ""
	}
	needle := foldText(text)

	out := make([]models.ViewModel, 0, len(vms))
	for _, vm := range vms {
		if q.Type != "" && vm.Type != q.Type {
			continue
		}
		if q.Status != "" && q.Status != StatusAll && string(vm.Status) != q.Status {
			continue
		}
		if needle != "" && !strings.Contains(foldText(vm.Title), needle) {
			continue
		}
		out = append(out, vm)
	}
	return out
}

// Count returns how many view models have the given type and status. An
// empty status counts every record of the type.
func Count(vms []models.ViewModel, mediaType models.MediaType, status models.Status) int {
	n := 0
	for _, vm := range vms {
		if vm.Type != mediaType {
			continue
		}
		if status != "" && vm.Status != status {
			continue
		}
		n++
	}
	return n
}

// TypeCounts holds the counters shown for one media type
type TypeCounts struct {
	All      int                   `json:"all"`
	ByStatus map[models.Status]int `json:"by_status"`
}

// Counts computes per-type totals and per-status counts for every
// supported media type
func Counts(vms []models.ViewModel) map[models.MediaType]TypeCounts {
	counts := make(map[models.MediaType]TypeCounts, len(models.MediaTypes))
	for _, t := range models.MediaTypes {
		tc := TypeCounts{
			All:      Count(vms, t, ""),
			ByStatus: make(map[models.Status]int, len(models.Statuses)),
		}
		for _, s := range models.Statuses {
			tc.ByStatus[s] = Count(vms, t, s)
		}
		counts[t] = tc
	}
	return counts
}

// SortKey selects a listing order
type SortKey string

const (
	SortNone    SortKey = ""
	SortTitle   SortKey = "title"
	SortRating  SortKey = "rating"
	SortUpdated SortKey = "updated"
)

// Sort returns a sorted copy of vms:
// title ascending (folded), rating descending, or most recently updated
// first. Ties keep their original order.
func Sort(vms []models.ViewModel, key SortKey) []models.ViewModel {
	sorted := make([]models.ViewModel, len(vms))
	copy(sorted, vms)

	switch key {
	case SortTitle:
		sort.SliceStable(sorted, func(i, j int) bool {
			return foldText(sorted[i].Title) < foldText(sorted[j].Title)
		})
	case SortRating:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Rating > sorted[j].Rating
		})
	case SortUpdated:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].UpdatedAt().After(sorted[j].UpdatedAt())
		})
	}

	return sorted
}

// foldText lowercases s and strips combining marks so "Animé" matches "anime"
func foldText(s string) string {
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(stripped)
}
