package source

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/kkdai/youtube/v2"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// media information gathered before playback starts
type Info struct {
	Title    string
	Author   string
	Duration time.Duration
	Width    int
	Height   int
	Codec    string
	HasAudio bool
}

// defines interface for probing a video source
type Prober interface {
	// fails when the source cannot be played at all
	Probe(ctx context.Context, src Source) (*Info, error)
}

// probes direct media with ffprobe
type FFprobe struct {
	Timeout time.Duration
}

// ffprobe -show_format -show_streams -of json
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		CodecName string `json:"codec_name"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
}

func (p *FFprobe) Probe(ctx context.Context, src Source) (*Info, error) {
	if src.Kind != KindDirect {
		return nil, fmt.Errorf("ffprobe cannot probe %s source", src.Kind)
	}

	timeout := p.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); timeout == 0 || remaining < timeout {
			timeout = remaining
		}
	}

	out, err := ffmpeg.ProbeWithTimeout(src.URL, timeout, ffmpeg.KwArgs{})
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	return parseProbeOutput(out)
}

func parseProbeOutput(out string) (*Info, error) {
	var probe ffprobeOutput
	if err := json.Unmarshal([]byte(out), &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	info := &Info{}
	if probe.Format.Duration != "" {
		seconds, err := strconv.ParseFloat(probe.Format.Duration, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse duration: %w", err)
		}
		info.Duration = time.Duration(seconds * float64(time.Second))
	}

	hasVideo := false
	for _, s := range probe.Streams {
		switch s.CodecType {
		case "video":
			if !hasVideo {
				hasVideo = true
				info.Codec = s.CodecName
				info.Width = s.Width
				info.Height = s.Height
			}
		case "audio":
			info.HasAudio = true
		}
	}
	if !hasVideo {
		return nil, fmt.Errorf("no video stream found")
	}

	return info, nil
}

// probes platform videos through the public player API
type YouTube struct {
	client youtube.Client
}

func NewYouTube() *YouTube {
	return &YouTube{client: youtube.Client{}}
}

func (p *YouTube) Probe(ctx context.Context, src Source) (*Info, error) {
	if src.Kind != KindPlatform {
		return nil, fmt.Errorf("youtube cannot probe %s source", src.Kind)
	}
	if src.VideoID == "" {
		return nil, &UnresolvedVideoIDError{URL: src.URL}
	}

	video, err := p.client.GetVideoContext(ctx, src.VideoID)
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}

	return &Info{
		Title:    video.Title,
		Author:   video.Author,
		Duration: video.Duration,
		HasAudio: true,
	}, nil
}

// dispatches to the prober matching the source kind
type KindProber struct {
	Direct   Prober
	Platform Prober
}

func NewProber(timeout time.Duration) *KindProber {
	return &KindProber{
		Direct:   &FFprobe{Timeout: timeout},
		Platform: NewYouTube(),
	}
}

func (p *KindProber) Probe(ctx context.Context, src Source) (*Info, error) {
	switch src.Kind {
	case KindDirect:
		return p.Direct.Probe(ctx, src)
	case KindPlatform:
		return p.Platform.Probe(ctx, src)
	default:
		return nil, fmt.Errorf("unknown source kind: %q", src.Kind)
	}
}
