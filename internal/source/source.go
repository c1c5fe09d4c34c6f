package source

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/kkdai/youtube/v2"
)

// how a video URL is played
type Kind string

const (
	// played through the hosting platform's embed widget
	KindPlatform Kind = "platform"
	// raw media file played through a generic media element
	KindDirect Kind = "direct"
)

var ErrUnresolvedVideoID = errors.New("no video id in platform url")

// UnresolvedVideoIDError is returned for a platform URL whose shape is not
// recognized. Callers should degrade rendering rather than fail.
type UnresolvedVideoIDError struct {
	URL string
}

func (e *UnresolvedVideoIDError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnresolvedVideoID, e.URL)
}

func (e *UnresolvedVideoIDError) Unwrap() error {
	return ErrUnresolvedVideoID
}

// resolved video source
type Source struct {
	URL     string `json:"url"`
	Kind    Kind   `json:"kind"`
	VideoID string `json:"video_id,omitempty"`
}

// domains that identify the platform, matched as substrings
var platformHosts = []string{"youtube.com", "youtu.be"}

// Accepted platform shapes, scheme and www optional:
//
//	youtube.com/watch?v=ID  (v may follow other params)
//	youtu.be/ID
//	youtube.com/embed/ID, /v/ID, /e/ID, /shorts/ID
//	youtube.com/<seg>/<seg>/ID
var videoIDPattern = regexp.MustCompile(
	`(?:https?://)?(?:www\.|m\.)?(?:youtube\.com/(?:[^/\n\s]+/\S+/|(?:v|e(?:mbed)?|shorts)/|\S*?[?&]v=)|youtu\.be/)([a-zA-Z0-9_-]{11})`,
)

// Classify reports whether url belongs to the video platform.
func Classify(url string) Kind {
	for _, host := range platformHosts {
		if strings.Contains(url, host) {
			return KindPlatform
		}
	}
	return KindDirect
}

// ExtractID pulls the 11 character video id out of a platform URL.
func ExtractID(url string) (string, bool) {
	m := videoIDPattern.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}
	id, err := youtube.ExtractVideoID(m[1])
	if err != nil || id != m[1] {
		return "", false
	}
	return id, true
}

// Resolve classifies url and, for platform URLs, extracts the id. The
// returned Source is usable even when err is an *UnresolvedVideoIDError.
func Resolve(url string) (Source, error) {
	url = strings.TrimSpace(url)
	src := Source{URL: url, Kind: Classify(url)}
	if src.Kind == KindDirect {
		return src, nil
	}

	id, ok := ExtractID(url)
	if !ok {
		return src, &UnresolvedVideoIDError{URL: url}
	}
	src.VideoID = id
	return src, nil
}

// EmbedURL is the URL the embed widget loads, empty when unresolved.
func (s Source) EmbedURL() string {
	if s.Kind != KindPlatform || s.VideoID == "" {
		return ""
	}
	return "https://www.youtube.com/embed/" + s.VideoID
}
