package timecode

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// MaxSeconds is the largest time Parse accepts. Every whole second up to it
// is exact as a float64.
const MaxSeconds = 1 << 53

// ErrMalformedTime is wrapped by every Parse failure.
var ErrMalformedTime = errors.New("malformed time")

// MalformedTimeError reports the input that could not be parsed.
type MalformedTimeError struct {
	Input  string
	Reason string
}

func (e *MalformedTimeError) Error() string {
	return fmt.Sprintf("malformed time %q: %s (expected hh:mm:ss)", e.Input, e.Reason)
}

func (e *MalformedTimeError) Unwrap() error {
	return ErrMalformedTime
}

// Parse converts an "H:M:S" string into seconds.
//
// Each component must be a non-negative integer written in plain digits;
// width is free and minutes or seconds above 59 carry arithmetically, so
// "00:75:00" is 4500.
func Parse(text string) (float64, error) {
	trimmed := strings.TrimSpace(text)
	parts := strings.Split(trimmed, ":")
	if len(parts) != 3 {
		return 0, &MalformedTimeError{
			Input:  text,
			Reason: fmt.Sprintf("expected 3 components, got %d", len(parts)),
		}
	}

	var values [3]int64
	for i, part := range parts {
		if part == "" || !isDigits(part) {
			return 0, &MalformedTimeError{
				Input:  text,
				Reason: fmt.Sprintf("component %d (%q) is not an integer", i+1, part),
			}
		}
		v, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return 0, &MalformedTimeError{
				Input:  text,
				Reason: fmt.Sprintf("component %d: %v", i+1, err),
			}
		}
		values[i] = v
	}

	hours, minutes, seconds := values[0], values[1], values[2]
	if hours > MaxSeconds/3600 || minutes > MaxSeconds/60 || seconds > MaxSeconds {
		return 0, &MalformedTimeError{Input: text, Reason: "out of range"}
	}
	total := hours*3600 + minutes*60 + seconds
	if total > MaxSeconds {
		return 0, &MalformedTimeError{Input: text, Reason: "out of range"}
	}
	return float64(total), nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(text string) float64 {
	s, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return s
}

// Format renders seconds as zero-padded HH:MM:SS, flooring every field.
// Hours are never truncated, so 100 hours is "100:00:00". NaN, infinite
// and negative inputs render as "00:00:00".
func Format(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		seconds = 0
	}
	seconds = math.Floor(seconds)
	if seconds >= 1<<62 {
		return formatBig(seconds)
	}

	total := int64(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60

	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}

// formatBig handles whole-second values past int64 range.
func formatBig(seconds float64) string {
	n, _ := new(big.Float).SetFloat64(seconds).Int(nil)
	hours, rem := new(big.Int).QuoRem(n, big.NewInt(3600), new(big.Int))
	r := rem.Int64()
	return fmt.Sprintf("%s:%02d:%02d", hours.String(), r/60, r%60)
}

// FormatRange renders "HH:MM:SS - HH:MM:SS".
func FormatRange(start, end float64) string {
	return Format(start) + " - " + Format(end)
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
