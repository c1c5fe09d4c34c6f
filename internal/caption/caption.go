package caption

import (
	"errors"
	"fmt"
	"math"

	"github.com/mgpai22/capline/internal/timecode"
)

var (
	ErrEmptyText    = errors.New("caption text is empty")
	ErrInvalidRange = errors.New("caption time range is invalid")
)

// single timed caption line; times are seconds from the start of the video
type Entry struct {
	Index     int
	Text      string
	StartTime float64
	EndTime   float64
}

// reports whether position falls inside the entry, both ends inclusive
func (e Entry) Contains(position float64) bool {
	return position >= e.StartTime && position <= e.EndTime
}

// "HH:MM:SS - HH:MM:SS: text"
func (e Entry) String() string {
	return fmt.Sprintf("%s: %s", timecode.FormatRange(e.StartTime, e.EndTime), e.Text)
}

// checks the entry invariant: non-empty text and 0 <= start <= end
func (e Entry) Validate() error {
	if e.Text == "" {
		return ErrEmptyText
	}
	if math.IsNaN(e.StartTime) || math.IsNaN(e.EndTime) {
		return fmt.Errorf("%w: NaN bound", ErrInvalidRange)
	}
	if e.StartTime < 0 {
		return fmt.Errorf("%w: start %v is negative", ErrInvalidRange, e.StartTime)
	}
	if e.EndTime < e.StartTime {
		return fmt.Errorf(
			"%w: end %s is before start %s",
			ErrInvalidRange,
			timecode.Format(e.EndTime),
			timecode.Format(e.StartTime),
		)
	}
	return nil
}
