package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/mgpai22/capline/internal/server"
	"github.com/mgpai22/capline/internal/session"
	"github.com/mgpai22/capline/internal/source"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a caption session over HTTP",
	Long: `Serve one caption session as a JSON API so a browser player can drive it.

The player reports its position to /api/playback/tick and media failures to
/api/playback/error; the response carries the caption to overlay.

Endpoints:
  GET  /health
  GET  /api/state
  GET  /api/classify?url=...
  PUT  /api/video             {"url": "..."}
  GET  /api/captions
  POST /api/captions          {"text": "...", "start": "hh:mm:ss", "end": "hh:mm:ss"}
  POST /api/playback/tick     {"position": 12.5}
  POST /api/playback/error    {"message": "..."}

Examples:
  capline serve
  capline serve --addr 127.0.0.1:9000 --probe`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().
		String("addr", ":8080", "Listen address (or set CAPLINE_ADDR)")
	serveCmd.Flags().
		Bool("probe", false, "Probe media when a video is loaded (or set CAPLINE_PROBE)")
	serveCmd.Flags().
		Duration("probe-timeout", 0, "Timeout for a single probe, 0 for the default (or set CAPLINE_PROBE_TIMEOUT)")
	serveCmd.Flags().
		Bool("clear-on-video-change", false, "Clear captions when a new video URL is loaded (or set CAPLINE_CLEAR_ON_VIDEO_CHANGE)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := stringFlagOrEnv(cmd, "addr", envAddr)
	probe := boolFlagOrEnv(cmd, "probe", envProbe)
	probeTimeout := durationFlagOrEnv(cmd, "probe-timeout", envProbeTimeout)
	clearOnChange := boolFlagOrEnv(cmd, "clear-on-video-change", envClearOnVideoChange)
	defer logger.Sync()

	opts := server.Options{
		Session:      session.Options{ClearOnVideoChange: clearOnChange},
		ProbeTimeout: probeTimeout,
		Version:      version,
	}
	if probe {
		opts.Prober = source.NewProber(probeTimeout)
	}

	logger.Infow("Configured caption server",
		"addr", addr,
		"probe", probe,
		"clear_on_video_change", clearOnChange,
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(logger, opts).Start(ctx, addr)
}
