package utils

import "regexp"

var youtubeIDRegex = regexp.MustCompile(`^.*(youtu\.be/|v/|u/\w/|embed/|watch\?v=|&v=)([^#&?]*).*`)

// YoutubeID extracts the 11-character video id from a YouTube URL.
// Returns "" when none is found.
func YoutubeID(url string) string {
	if url == "" {
		return ""
	}
	match := youtubeIDRegex.FindStringSubmatch(url)
	if len(match) < 3 || len(match[2]) != 11 {
		return ""
	}
	return match[2]
}

// CleanYoutubeURL rewrites any recognizable YouTube link to its canonical
// watch form. Other URLs are returned unchanged.
func CleanYoutubeURL(url string) string {
	id := YoutubeID(url)
	if id == "" {
		return url
	}
	return "https://www.youtube.com/watch?v=" + id
}

// YoutubeThumbnail returns the medium-quality thumbnail for a video link,
// or "" when the link has no video id
func YoutubeThumbnail(url string) string {
	id := YoutubeID(url)
	if id == "" {
		return ""
	}
	return "https://img.youtube.com/vi/" + id + "/mqdefault.jpg"
}
