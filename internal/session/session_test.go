package session

import (
	"errors"
	"testing"
	"time"

	"github.com/mgpai22/capline/internal/caption"
	"github.com/mgpai22/capline/internal/source"
	"github.com/mgpai22/capline/internal/timecode"
)

func newController(t *testing.T, opts Options) *Controller {
	t.Helper()
	c := NewController(nil, nil, opts)
	t.Cleanup(c.Close)
	return c
}

func TestAddCaptionAndTick(t *testing.T) {
	c := newController(t, Options{})

	entry, err := c.OnAddCaptionRequested("Hello", "00:00:01", "00:00:04")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if entry.StartTime != 1 || entry.EndTime != 4 {
		t.Errorf("unexpected entry %+v", entry)
	}

	if got := c.OnTick(2); got != "Hello" {
		t.Errorf("expected 'Hello' at 2s, got %q", got)
	}
	if got := c.OnTick(5); got != "" {
		t.Errorf("expected no caption at 5s, got %q", got)
	}
	if c.State().Position != 5 {
		t.Errorf("expected position 5, got %v", c.State().Position)
	}
}

func TestAddCaptionEmptyFields(t *testing.T) {
	tests := []struct {
		name             string
		text, start, end string
	}{
		{"empty text", "", "00:00:01", "00:00:02"},
		{"empty start", "hi", "", "00:00:02"},
		{"empty end", "hi", "00:00:01", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newController(t, Options{})
			_, err := c.OnAddCaptionRequested(tt.text, tt.start, tt.end)
			if !errors.Is(err, ErrEmptyField) {
				t.Errorf("expected ErrEmptyField, got %v", err)
			}
			if n := c.State().Captions.Len(); n != 0 {
				t.Errorf("expected no entries, got %d", n)
			}
		})
	}
}

func TestAddCaptionMalformedTime(t *testing.T) {
	c := newController(t, Options{})
	_, err := c.OnAddCaptionRequested("hi", "1:2", "00:00:05")

	var mte *timecode.MalformedTimeError
	if !errors.As(err, &mte) {
		t.Fatalf("expected *MalformedTimeError, got %v", err)
	}
	if c.State().Captions.Len() != 0 {
		t.Error("malformed time must not insert")
	}

	_, err = c.OnAddCaptionRequested("hi", "00:00:01", "soon")
	if !errors.Is(err, timecode.ErrMalformedTime) {
		t.Errorf("expected ErrMalformedTime for end, got %v", err)
	}

	_, err = c.OnAddCaptionRequested("wrapped", "5124095576030432:00:00", "5124095576030432:00:10")
	if !errors.Is(err, timecode.ErrMalformedTime) {
		t.Errorf("expected ErrMalformedTime for out of range start, got %v", err)
	}
	if c.State().Captions.Len() != 0 {
		t.Error("out of range time must not insert")
	}
}

func TestAddCaptionInvertedRange(t *testing.T) {
	c := newController(t, Options{})
	_, err := c.OnAddCaptionRequested("hi", "00:00:10", "00:00:05")
	if !errors.Is(err, caption.ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
	if c.State().Captions.Len() != 0 {
		t.Error("inverted range must not insert")
	}
}

func TestPlaybackDrivesCaption(t *testing.T) {
	c := newController(t, Options{})
	if err := c.LoadVideo("https://example.com/video.mp4"); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	media := c.Media()
	if media == nil {
		t.Fatal("expected media to be mounted")
	}

	c.OnAddCaptionRequested("first", "00:00:00", "00:00:02")
	c.OnAddCaptionRequested("second", "00:00:03", "00:00:05")

	media.Play()
	media.Advance(time.Second)
	if got := c.State().Caption; got != "first" {
		t.Errorf("expected 'first' at 1s, got %q", got)
	}

	media.Advance(3 * time.Second)
	if got := c.State().Caption; got != "second" {
		t.Errorf("expected 'second' at 4s, got %q", got)
	}

	media.Seek(2.5)
	if got := c.State().Caption; got != "" {
		t.Errorf("expected no caption at 2.5s, got %q", got)
	}
}

func TestInsertRebindsSingleSubscription(t *testing.T) {
	c := newController(t, Options{})
	c.LoadVideo("https://example.com/video.mp4")
	media := c.Media()

	for i := 0; i < 5; i++ {
		if _, err := c.OnAddCaptionRequested("line", "00:00:00", "00:00:01"); err != nil {
			t.Fatal(err)
		}
		if n := media.Subscribers(); n != 1 {
			t.Fatalf("after insert %d: expected 1 subscription, got %d", i+1, n)
		}
	}

	// caption added after subscribing is visible to the next tick
	c.OnAddCaptionRequested("late", "00:00:10", "00:00:12")
	media.Seek(11)
	if got := c.State().Caption; got != "late" {
		t.Errorf("expected 'late', got %q", got)
	}
}

func TestPlaybackErrorKeepsCaption(t *testing.T) {
	c := newController(t, Options{})
	c.LoadVideo("https://example.com/broken.mp4")
	media := c.Media()

	c.OnAddCaptionRequested("visible", "00:00:00", "00:00:10")
	media.Seek(5)

	media.Fail(errors.New("404"))

	st := c.State()
	if st.Error == "" {
		t.Fatal("expected an error message")
	}
	if st.Caption != "visible" {
		t.Errorf("error must not change the displayed caption, got %q", st.Caption)
	}

	media.Seek(6)
	if c.State().Error != "" {
		t.Error("a successful position event should clear the error")
	}
}

func TestLoadVideoResetsSession(t *testing.T) {
	c := newController(t, Options{})
	c.LoadVideo("https://example.com/a.mp4")
	first := c.Media()
	c.OnAddCaptionRequested("kept", "00:00:00", "00:00:10")
	first.Seek(1)
	first.Fail(errors.New("boom"))

	if err := c.LoadVideo("https://youtu.be/dQw4w9WgXcQ"); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	st := c.State()
	if st.Error != "" || st.Caption != "" {
		t.Errorf("expected cleared error and overlay, got %+v", st)
	}
	if st.Source.Kind != source.KindPlatform || st.Source.VideoID != "dQw4w9WgXcQ" {
		t.Errorf("unexpected source %+v", st.Source)
	}
	if st.Captions.Len() != 1 {
		t.Errorf("captions should survive a video change by default, got %d", st.Captions.Len())
	}
	if first.Subscribers() != 0 {
		t.Error("old media should be unsubscribed")
	}
	if c.Media() == first || c.Media().Subscribers() != 1 {
		t.Error("new media should be mounted with one subscription")
	}
}

func TestLoadVideoClearPolicy(t *testing.T) {
	c := newController(t, Options{ClearOnVideoChange: true})
	c.OnAddCaptionRequested("gone", "00:00:00", "00:00:10")
	c.LoadVideo("https://example.com/b.mp4")

	if n := c.State().Captions.Len(); n != 0 {
		t.Errorf("expected captions cleared, got %d", n)
	}
}

func TestLoadVideoUnresolved(t *testing.T) {
	c := newController(t, Options{})
	err := c.LoadVideo("https://www.youtube.com/feed/trending")

	var ue *source.UnresolvedVideoIDError
	if !errors.As(err, &ue) {
		t.Fatalf("expected *UnresolvedVideoIDError, got %v", err)
	}
	if c.Media() != nil || c.Subscribed() {
		t.Error("unresolved video should not mount media")
	}
	if c.State().VideoURL == "" {
		t.Error("url should still be recorded")
	}

	if _, err := c.OnAddCaptionRequested("still works", "00:00:00", "00:00:01"); err != nil {
		t.Errorf("session should stay usable: %v", err)
	}
}

func TestApplyProbe(t *testing.T) {
	c := newController(t, Options{})
	c.LoadVideo("https://example.com/a.mp4")
	media := c.Media()

	c.ApplyProbe(media, &source.Info{Duration: 3 * time.Second}, nil)
	if media.Duration() != 3*time.Second {
		t.Errorf("expected duration 3s, got %v", media.Duration())
	}

	c.LoadVideo("https://example.com/b.mp4")
	c.ApplyProbe(media, nil, errors.New("stale"))
	if c.State().Error != "" {
		t.Error("stale probe result should be ignored")
	}

	c.ApplyProbe(c.Media(), nil, errors.New("ffprobe failed"))
	if c.State().Error == "" {
		t.Error("probe failure should surface as a playback error")
	}
}

func TestCloseReleasesSubscription(t *testing.T) {
	c := NewController(nil, nil, Options{})
	c.LoadVideo("https://example.com/a.mp4")
	media := c.Media()
	c.Close()

	if media.Subscribers() != 0 {
		t.Errorf("expected no subscribers after close, got %d", media.Subscribers())
	}
}
