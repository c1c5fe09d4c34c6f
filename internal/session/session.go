package session

import (
	"errors"
	"fmt"

	"github.com/mgpai22/capline/internal/caption"
	"github.com/mgpai22/capline/internal/logging"
	"github.com/mgpai22/capline/internal/playback"
	"github.com/mgpai22/capline/internal/source"
	"github.com/mgpai22/capline/internal/timecode"
)

// ErrEmptyField rejects an add-caption request with a blank field.
var ErrEmptyField = errors.New("caption text, start time and end time are required")

// Options tune session policy.
type Options struct {
	// drop the caption track whenever a new video URL is loaded
	ClearOnVideoChange bool
}

// State is the explicit session context: everything a surface renders.
type State struct {
	VideoURL string
	Source   source.Source
	Captions *caption.Store

	// caption currently shown over the video, "" for none
	Caption string
	// current playback error message, "" for none
	Error    string
	Position float64
}

// NewState returns an empty session with no video loaded.
func NewState() *State {
	return &State{Captions: caption.NewStore()}
}

// Controller maps playback ticks to the displayed caption and user
// requests to caption insertions.
//
// A Controller is not safe for concurrent use. Surfaces serialize calls
// through their own event loop.
type Controller struct {
	state  *State
	opts   Options
	logger *logging.Logger

	media *playback.Element
	clock *playback.Clock
}

func NewController(state *State, logger *logging.Logger, opts Options) *Controller {
	if state == nil {
		state = NewState()
	}
	if state.Captions == nil {
		state.Captions = caption.NewStore()
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Controller{
		state:  state,
		opts:   opts,
		logger: logger.Named("session"),
	}
}

// State returns a copy of the session state.
func (c *Controller) State() State {
	return *c.state
}

// Media returns the element for the loaded video, nil when none is mounted.
func (c *Controller) Media() *playback.Element {
	return c.media
}

// Subscribed reports whether the playback clock holds a subscription.
func (c *Controller) Subscribed() bool {
	return c.clock != nil && c.clock.Active()
}

// OnTick publishes the caption active at position and returns it.
func (c *Controller) OnTick(position float64) string {
	return c.tick(c.state.Captions.Snapshot(), position)
}

func (c *Controller) tick(track *caption.Track, position float64) string {
	c.state.Position = position
	text := ""
	if entry, ok := track.ActiveAt(position); ok {
		text = entry.Text
	}
	return c.publish(text)
}

func (c *Controller) publish(text string) string {
	if text != c.state.Caption {
		c.logger.Debugw("Caption changed",
			"position", timecode.Format(c.state.Position),
			"caption", text,
		)
	}
	c.state.Caption = text
	return text
}

// OnAddCaptionRequested parses the two times and inserts a new caption.
// Nothing is inserted when any field is empty, a time is malformed or the
// range is inverted.
func (c *Controller) OnAddCaptionRequested(text, startText, endText string) (caption.Entry, error) {
	if text == "" || startText == "" || endText == "" {
		return caption.Entry{}, ErrEmptyField
	}

	start, err := timecode.Parse(startText)
	if err != nil {
		return caption.Entry{}, fmt.Errorf("start time: %w", err)
	}
	end, err := timecode.Parse(endText)
	if err != nil {
		return caption.Entry{}, fmt.Errorf("end time: %w", err)
	}

	entry, err := c.state.Captions.Insert(caption.Entry{
		Text:      text,
		StartTime: start,
		EndTime:   end,
	})
	if err != nil {
		return caption.Entry{}, err
	}

	c.logger.Infow("Caption added",
		"index", entry.Index,
		"start", timecode.Format(entry.StartTime),
		"end", timecode.Format(entry.EndTime),
		"text", entry.Text,
	)

	// the caption set changed; resubscribe so the handler sees it
	c.rebind()
	return entry, nil
}

// LoadVideo switches the session to url. The previous media subscription
// is released, the error message and the overlay are cleared, and a fresh
// media element is mounted.
//
// A platform URL without a recognizable id returns an
// *source.UnresolvedVideoIDError; the URL is still recorded but no media
// is mounted.
func (c *Controller) LoadVideo(url string) error {
	c.unmount()

	src, err := source.Resolve(url)
	c.state.VideoURL = src.URL
	c.state.Source = src
	c.state.Error = ""
	c.state.Caption = ""
	c.state.Position = 0
	if c.opts.ClearOnVideoChange {
		c.state.Captions.Reset()
	}

	if src.URL == "" {
		return nil
	}
	if err != nil {
		c.logger.Warnw("Video id could not be resolved", "url", src.URL)
		return err
	}

	c.media = playback.NewElement()
	c.clock = playback.NewClock(src, c.media, c.logger)
	c.rebind()

	c.logger.Infow("Video loaded",
		"url", src.URL,
		"kind", src.Kind,
		"video_id", src.VideoID,
	)
	return nil
}

// ApplyProbe records the outcome of probing media. Results for an element
// that is no longer mounted are dropped.
func (c *Controller) ApplyProbe(media *playback.Element, info *source.Info, err error) {
	if media == nil || media != c.media {
		return
	}
	if err != nil {
		media.Fail(err)
		return
	}
	if info != nil && info.Duration > 0 {
		media.SetDuration(info.Duration)
		c.logger.Debugw("Media probed",
			"duration", info.Duration.String(),
			"title", info.Title,
		)
	}
}

// Close releases the media subscription.
func (c *Controller) Close() {
	c.unmount()
}

func (c *Controller) rebind() {
	if c.clock == nil {
		return
	}
	track := c.state.Captions.Snapshot()
	c.clock.Attach(
		func(position float64) {
			// a successful playback event clears a previous failure
			c.state.Error = ""
			c.tick(track, position)
		},
		func(err *playback.PlaybackError) {
			c.state.Error = err.Message
		},
	)
}

func (c *Controller) unmount() {
	if c.clock != nil {
		c.clock.Detach()
	}
	c.clock = nil
	c.media = nil
}
