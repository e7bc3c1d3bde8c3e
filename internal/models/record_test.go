package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordFormValues(t *testing.T) {
	rec := Record{
		ID:          "should-not-be-sent",
		Type:        MediaTypeManga,
		Title:       "Berserk",
		Status:      StatusWatching,
		Progress:    364,
		Rating:      9.5,
		Notes:       "peak",
		LastUpdated: time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
	}

	values := rec.FormValues()
	assert.Equal(t, "manga", values.Get(FieldType))
	assert.Equal(t, "Berserk", values.Get(FieldTitle))
	assert.Equal(t, "watching", values.Get(FieldStatus))
	assert.Equal(t, "364", values.Get(FieldProgress))
	assert.Equal(t, "9.5", values.Get(FieldRating))
	assert.Equal(t, "peak", values.Get(FieldNotes))
	assert.Equal(t, "2024-05-01T10:30:00.000Z", values.Get(FieldLastUpdated))
	assert.False(t, values.Has(FieldID))
	assert.True(t, values.Has(FieldImageURL))
}

func TestViewModelLabels(t *testing.T) {
	anime := ViewModel{Type: MediaTypeAnime, Status: StatusWatching, Progress: 12, Rating: 8}
	assert.Equal(t, "Watching", anime.StatusLabel())
	assert.Equal(t, "12 eps", anime.ProgressText())
	assert.Equal(t, "8.0", anime.RatingText())

	manhwa := ViewModel{Type: MediaTypeManhwa, Status: StatusPlan, Progress: 3}
	assert.Equal(t, "Plan to Read", manhwa.StatusLabel())
	assert.Equal(t, "3 ch", manhwa.ProgressText())

	odd := ViewModel{Type: MediaTypeManga, Status: Status("on-hold")}
	assert.Equal(t, "on-hold", odd.StatusLabel())
}

func TestViewModelUpdatedAt(t *testing.T) {
	vm := ViewModel{LastUpdated: "2024-05-01T10:30:00.000Z"}
	assert.Equal(t, time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC), vm.UpdatedAt().UTC())

	assert.True(t, ViewModel{LastUpdated: "yesterday"}.UpdatedAt().IsZero())
	assert.True(t, ViewModel{}.UpdatedAt().IsZero())
}
