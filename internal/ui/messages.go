package ui

import (
	"time"

	"github.com/mgpai22/capline/internal/playback"
	"github.com/mgpai22/capline/internal/source"
)

// TickMsg drives the media element forward.
type TickMsg struct {
	At time.Time
}

// ProbeDoneMsg carries the result of probing the media mounted as Media.
type ProbeDoneMsg struct {
	Media *playback.Element
	Info  *source.Info
	Err   error
}
