package models

// Labels holds the display strings that differ between media types
type Labels struct {
	Noun         string // "Anime"
	ProgressUnit string // "eps" or "ch"
	Status       map[Status]string
}

var labelTable = map[MediaType]Labels{
	MediaTypeAnime: {
		Noun:         "Anime",
		ProgressUnit: "eps",
		Status: map[Status]string{
			StatusWatching: "Watching",
			StatusComplete: "Completed",
			StatusPlan:     "Plan to Watch",
			StatusDropped:  "Dropped",
		},
	},
	MediaTypeManga: {
		Noun:         "Manga",
		ProgressUnit: "ch",
		Status: map[Status]string{
			StatusWatching: "Reading",
			StatusComplete: "Completed",
			StatusPlan:     "Plan to Read",
			StatusDropped:  "Dropped",
		},
	},
	MediaTypeManhwa: {
		Noun:         "Manhwa",
		ProgressUnit: "ch",
		Status: map[Status]string{
			StatusWatching: "Reading",
			StatusComplete: "Completed",
			StatusPlan:     "Plan to Read",
			StatusDropped:  "Dropped",
		},
	},
}

// LabelsFor returns the display labels for a media type. Unknown types get
// the anime labels.
func LabelsFor(t MediaType) Labels {
	if l, ok := labelTable[t]; ok {
		return l
	}
	return labelTable[MediaTypeAnime]
}

// StatusLabel returns the display text for a status, or the raw status
// when it is not a known one
func (l Labels) StatusLabel(s Status) string {
	if label, ok := l.Status[s]; ok {
		return label
	}
	return string(s)
}
