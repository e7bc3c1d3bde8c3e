package models

// MediaType represents the kind of tracked media
type MediaType string

const (
	MediaTypeAnime  MediaType = "anime"
	MediaTypeManga  MediaType = "manga"
	MediaTypeManhwa MediaType = "manhwa"
)

// MediaTypes lists every supported media type in display order
var MediaTypes = []MediaType{MediaTypeAnime, MediaTypeManga, MediaTypeManhwa}

// Valid reports whether t is a supported media type
func (t MediaType) Valid() bool {
	switch t {
	case MediaTypeAnime, MediaTypeManga, MediaTypeManhwa:
		return true
	}
	return false
}

// Status represents where the user is with a record
type Status string

const (
	StatusWatching Status = "watching" // also "reading" for manga and manhwa
	StatusComplete Status = "complete"
	StatusPlan     Status = "plan"
	StatusDropped  Status = "dropped"
)

// Statuses lists every status in display order
var Statuses = []Status{StatusWatching, StatusDropped, StatusPlan, StatusComplete}

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	switch s {
	case StatusWatching, StatusComplete, StatusPlan, StatusDropped:
		return true
	}
	return false
}

// Wire field names used by the remote store
const (
	FieldID           = "id"
	FieldType         = "type"
	FieldTitle        = "title"
	FieldStatus       = "status"
	FieldProgress     = "episodes"
	FieldRating       = "rating"
	FieldImageURL     = "imageUrl"
	FieldYoutubeURL   = "youtubeUrl"
	FieldStreamingURL = "streamingUrl"
	FieldNotes        = "notes"
	FieldLastUpdated  = "lastUpdated"
)
