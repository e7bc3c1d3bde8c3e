package models

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// TimestampLayout matches the ISO form the spreadsheet already holds
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// RawRecord is a record exactly as the remote store returns it. Any field may
// be missing or hold an unexpected type.
type RawRecord map[string]any

// Record is a normalized record ready to be written to the remote store
type Record struct {
	ID           string
	Type         MediaType
	Title        string
	Status       Status
	Progress     int
	Rating       float64
	ImageURL     string
	YoutubeURL   string
	StreamingURL string
	Notes        string
	LastUpdated  time.Time
}

// FormValues encodes every mutable field for a form POST. The id is never
// included; callers add it for update and delete. An empty type is left out
// so the remote keeps the one it holds.
func (r Record) FormValues() url.Values {
	values := url.Values{}
	if r.Type != "" {
		values.Set(FieldType, string(r.Type))
	}
	values.Set(FieldTitle, r.Title)
	values.Set(FieldStatus, string(r.Status))
	values.Set(FieldProgress, strconv.Itoa(r.Progress))
	values.Set(FieldRating, strconv.FormatFloat(r.Rating, 'f', -1, 64))
	values.Set(FieldImageURL, r.ImageURL)
	values.Set(FieldYoutubeURL, r.YoutubeURL)
	values.Set(FieldNotes, r.Notes)
	values.Set(FieldStreamingURL, r.StreamingURL)
	values.Set(FieldLastUpdated, r.LastUpdated.UTC().Format(TimestampLayout))
	return values
}

// ViewModel is a fully-defaulted, display-safe projection of a record
type ViewModel struct {
	ID           string    `json:"id"`
	Type         MediaType `json:"type"`
	Title        string    `json:"title"`
	Status       Status    `json:"status"`
	Progress     int       `json:"episodes"`
	Rating       float64   `json:"rating"`
	ImageURL     string    `json:"imageUrl"`
	YoutubeURL   string    `json:"youtubeUrl"`
	StreamingURL string    `json:"streamingUrl"`
	Notes        string    `json:"notes"`
	LastUpdated  string    `json:"lastUpdated"`
}

// Raw turns the view model back into the stored shape
func (vm ViewModel) Raw() RawRecord {
	return RawRecord{
		FieldID:           vm.ID,
		FieldType:         string(vm.Type),
		FieldTitle:        vm.Title,
		FieldStatus:       string(vm.Status),
		FieldProgress:     vm.Progress,
		FieldRating:       vm.Rating,
		FieldImageURL:     vm.ImageURL,
		FieldYoutubeURL:   vm.YoutubeURL,
		FieldStreamingURL: vm.StreamingURL,
		FieldNotes:        vm.Notes,
		FieldLastUpdated:  vm.LastUpdated,
	}
}

// StatusLabel returns the per-type display text for the status
func (vm ViewModel) StatusLabel() string {
	return LabelsFor(vm.Type).StatusLabel(vm.Status)
}

// RatingText formats the rating with one decimal, e.g. "7.5"
func (vm ViewModel) RatingText() string {
	return fmt.Sprintf("%.1f", vm.Rating)
}

// ProgressText formats progress with the per-type unit, e.g. "12 eps"
func (vm ViewModel) ProgressText() string {
	return fmt.Sprintf("%d %s", vm.Progress, LabelsFor(vm.Type).ProgressUnit)
}

// UpdatedAt parses LastUpdated. The zero time is returned when it is empty
// or not a timestamp.
func (vm ViewModel) UpdatedAt() time.Time {
	if vm.LastUpdated == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, vm.LastUpdated); err == nil {
		return t
	}
	return time.Time{}
}
