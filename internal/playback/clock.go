package playback

import (
	"fmt"

	"github.com/mgpai22/capline/internal/logging"
	"github.com/mgpai22/capline/internal/source"
)

const playbackErrorMessage = "Video cannot be played. Please check the URL and CORS policy."

// PlaybackError is the single notification raised when media cannot play.
type PlaybackError struct {
	Message string
	Cause   error
}

func (e *PlaybackError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s (%v)", e.Message, e.Cause)
}

func (e *PlaybackError) Unwrap() error {
	return e.Cause
}

type (
	TickFunc  func(position float64)
	ErrorFunc func(err *PlaybackError)
)

// Clock observes one video source and forwards its position changes and
// failures. It holds at most one subscription on the media at a time.
type Clock struct {
	src    source.Source
	media  Media
	sub    Subscription
	logger *logging.Logger
}

func NewClock(src source.Source, media Media, logger *logging.Logger) *Clock {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Clock{
		src:    src,
		media:  media,
		logger: logger.Named("clock"),
	}
}

func (c *Clock) Source() source.Source {
	return c.src
}

// Attach replaces the current subscription with one calling onTick and
// onError. Calling it again tears the previous subscription down first.
func (c *Clock) Attach(onTick TickFunc, onError ErrorFunc) {
	c.Detach()
	c.sub = c.media.Subscribe(func(ev Event) {
		switch ev.Kind {
		case EventPosition:
			if onTick != nil {
				onTick(ev.Position)
			}
		case EventError:
			c.logger.Warnw("Playback failed",
				"url", c.src.URL,
				"kind", c.src.Kind,
				"error", ev.Err,
			)
			if onError != nil {
				onError(&PlaybackError{Message: playbackErrorMessage, Cause: ev.Err})
			}
		}
	})
	c.logger.Debugw("Subscribed to media", "url", c.src.URL)
}

// Detach releases the subscription, if any.
func (c *Clock) Detach() {
	if !c.sub.Valid() {
		return
	}
	c.media.Unsubscribe(c.sub)
	c.sub = Subscription{}
	c.logger.Debugw("Unsubscribed from media", "url", c.src.URL)
}

// Active reports whether the clock currently holds a subscription.
func (c *Clock) Active() bool {
	return c.sub.Valid()
}
