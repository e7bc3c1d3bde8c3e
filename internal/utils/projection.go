package utils

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/amaumene/listahan/internal/models"
)

const (
	untitled  = "Untitled"
	maxRating = 10
)

var (
	intPrefix   = regexp.MustCompile(`^[+-]?\d+`)
	floatPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// ValidationError is a problem with form input, caught before any request
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ErrBlankTitle is returned when the title is empty after trimming
var ErrBlankTitle = &ValidationError{Field: models.FieldTitle, Message: "Please enter a title"}

// FormValues is raw form input; every value is text as typed
type FormValues struct {
	Title        string `json:"title"`
	Status       string `json:"status"`
	Progress     string `json:"episodes"`
	Rating       string `json:"rating"`
	ImageURL     string `json:"imageUrl"`
	YoutubeURL   string `json:"youtubeUrl"`
	StreamingURL string `json:"streamingUrl"`
	Notes        string `json:"notes"`
}

// FormValuesFrom prefills a form from an existing record, for editing
func FormValuesFrom(vm models.ViewModel) FormValues {
	return FormValues{
		Title:        vm.Title,
		Status:       string(vm.Status),
		Progress:     strconv.Itoa(vm.Progress),
		Rating:       strconv.FormatFloat(vm.Rating, 'f', -1, 64),
		ImageURL:     vm.ImageURL,
		YoutubeURL:   vm.YoutubeURL,
		StreamingURL: vm.StreamingURL,
		Notes:        vm.Notes,
	}
}

// ToViewModel projects a stored record into a fully-defaulted view model.
// It never fails: anything malformed falls back to its default.
func ToViewModel(raw models.RawRecord) models.ViewModel {
	vm := models.ViewModel{
		ID:           textValue(raw[models.FieldID]),
		Type:         models.MediaType(strings.TrimSpace(textValue(raw[models.FieldType]))),
		Title:        textValue(raw[models.FieldTitle]),
		Status:       models.Status(strings.TrimSpace(textValue(raw[models.FieldStatus]))),
		Rating:       clampRating(numberValue(raw[models.FieldRating])),
		ImageURL:     textValue(raw[models.FieldImageURL]),
		YoutubeURL:   textValue(raw[models.FieldYoutubeURL]),
		StreamingURL: textValue(raw[models.FieldStreamingURL]),
		Notes:        NormalizeNotes(raw[models.FieldNotes]),
		LastUpdated:  textValue(raw[models.FieldLastUpdated]),
	}

	progress, ok := raw[models.FieldProgress]
	if !ok {
		progress = raw["progress"]
	}
	vm.Progress = int(math.Trunc(math.Min(numberValue(progress), math.MaxInt32)))

	if strings.TrimSpace(vm.Title) == "" {
		vm.Title = untitled
	}
	if vm.Status == "" {
		vm.Status = models.StatusPlan
	}

	return vm
}

// ToStoragePayload validates and normalizes form input into a record of
// type mediaType. A blank title is the only input that is rejected.
func ToStoragePayload(mediaType models.MediaType, form FormValues, now time.Time) (models.Record, error) {
	title := strings.TrimSpace(form.Title)
	if title == "" {
		return models.Record{}, ErrBlankTitle
	}

	return models.Record{
		Type:         mediaType,
		Title:        title,
		Status:       parseStatus(form.Status),
		Progress:     parseProgress(form.Progress),
		Rating:       parseRating(form.Rating),
		ImageURL:     strings.TrimSpace(form.ImageURL),
		YoutubeURL:   CleanYoutubeURL(strings.TrimSpace(form.YoutubeURL)),
		StreamingURL: strings.TrimSpace(form.StreamingURL),
		Notes:        form.Notes,
		LastUpdated:  now,
	}, nil
}

// NormalizeNotes collapses notes of any stored shape into one string.
// Lists are joined with a space, objects are JSON-encoded.
func NormalizeNotes(notes any) string {
	switch v := notes.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		return strings.Join(v, " ")
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = textValue(item)
		}
		return strings.Join(parts, " ")
	case map[string]any, models.RawRecord:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	default:
		if falsy(v) {
			return ""
		}
		return textValue(v)
	}
}

// falsy reports scalars that stand for "no notes": false, zero and NaN
func falsy(v any) bool {
	switch x := v.(type) {
	case bool:
		return !x
	case float64:
		return x == 0 || math.IsNaN(x)
	case float32:
		return x == 0 || math.IsNaN(float64(x))
	case int:
		return x == 0
	case int64:
		return x == 0
	case json.Number:
		f, err := x.Float64()
		return err == nil && f == 0
	}
	return false
}

func parseStatus(s string) models.Status {
	status := models.Status(strings.ToLower(strings.TrimSpace(s)))
	if status == "reading" {
		return models.StatusWatching
	}
	if !status.Valid() {
		return models.StatusPlan
	}
	return status
}

// parseProgress reads the leading integer of s; "12 eps" is 12
func parseProgress(s string) int {
	m := intPrefix.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	n, err := strconv.ParseInt(m, 10, 64)
	switch {
	case n < 0:
		return 0
	case err != nil, n > math.MaxInt32:
		return math.MaxInt32
	}
	return int(n)
}

// parseRating reads the leading decimal number of s; "7.5/10" is 7.5
func parseRating(s string) float64 {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(strings.TrimPrefix(s, "+"), "Infinity") {
		return maxRating
	}
	m := floatPrefix.FindString(s)
	if m == "" {
		return 0
	}
	// out of range parses to ±Inf, which clamps
	f, _ := strconv.ParseFloat(m, 64)
	return clampRating(f)
}

func clampRating(f float64) float64 {
	switch {
	case math.IsNaN(f), f < 0:
		return 0
	case f > maxRating:
		return maxRating
	}
	return f
}

// textValue renders a scalar the way it would read in a form field
func textValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	case map[string]any, []any:
		data, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(data)
	default:
		return fmt.Sprint(x)
	}
}

// numberValue reads a non-negative number, or 0 when v is not one
func numberValue(v any) float64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}
