package cli

import (
	"fmt"

	"github.com/mgpai22/capline/internal/logging"
	"github.com/mgpai22/capline/internal/session"
	"github.com/mgpai22/capline/internal/source"
	"github.com/mgpai22/capline/internal/ui"
	"github.com/spf13/cobra"

	tea "github.com/charmbracelet/bubbletea"
)

var playCmd = &cobra.Command{
	Use:   "play [video_url]",
	Short: "Open the interactive caption player",
	Long: `Open a terminal player for a caption session.

Enter a video URL, then add captions with hh:mm:ss start and end times.
The caption matching the playback position is shown over the video area.

Playback is simulated in the terminal: ctrl+p plays or pauses and
ctrl+left/right seeks. With --probe the media is checked first (ffprobe for
direct links, the YouTube player API for YouTube links) and a failure is
reported as a playback error.

Examples:
  capline play
  capline play https://example.com/video.mp4
  capline play https://youtu.be/dQw4w9WgXcQ --probe --log-file capline.log`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().
		Bool("probe", false, "Probe media before playback (or set CAPLINE_PROBE)")
	playCmd.Flags().
		Duration("probe-timeout", 0, "Timeout for a single probe, 0 for the default (or set CAPLINE_PROBE_TIMEOUT)")
	playCmd.Flags().
		Bool("clear-on-video-change", false, "Clear captions when a new video URL is loaded (or set CAPLINE_CLEAR_ON_VIDEO_CHANGE)")
	playCmd.Flags().
		String("log-file", "", "Write logs to this file while the player is open (or set CAPLINE_LOG_FILE)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	probe := boolFlagOrEnv(cmd, "probe", envProbe)
	probeTimeout := durationFlagOrEnv(cmd, "probe-timeout", envProbeTimeout)
	clearOnChange := boolFlagOrEnv(cmd, "clear-on-video-change", envClearOnVideoChange)
	logFile := stringFlagOrEnv(cmd, "log-file", envLogFile)

	// the screen belongs to the player; logs go to a file or nowhere
	playLogger := logging.Nop()
	if logFile != "" {
		l, err := logging.NewFileLogger(logFile, verbose)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer l.Sync()
		playLogger = l
	}

	ctrl := session.NewController(session.NewState(), playLogger, session.Options{
		ClearOnVideoChange: clearOnChange,
	})
	defer ctrl.Close()

	var prober source.Prober
	if probe {
		prober = source.NewProber(probeTimeout)
	}

	model := ui.New(ctrl, prober, playLogger).WithProbeTimeout(probeTimeout)
	if len(args) == 1 {
		model = model.WithURL(args[0])
	}

	playLogger.Infow("Starting caption player",
		"probe", probe,
		"probe_timeout", probeTimeout,
		"clear_on_video_change", clearOnChange,
	)

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("player failed: %w", err)
	}
	return nil
}
