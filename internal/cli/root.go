package cli

import (
	"github.com/joho/godotenv"
	"github.com/mgpai22/capline/internal/logging"
	"github.com/spf13/cobra"
)

// set at build time with -ldflags "-X .../internal/cli.version=..."
var version = "dev"

var (
	verbose bool
	logger  *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:          "capline",
	Short:        "Attach timed captions to a video and play them back",
	Version:      version,
	SilenceUsage: true,
	Long: `Capline lets you attach a timed caption track to a video (a direct
MP4 URL or a YouTube link) and shows the caption matching the current
playback position.

Captions are entered as text with hh:mm:ss start and end times.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env is optional
		_ = godotenv.Load()
		if !cmd.Flags().Changed("verbose") {
			verbose = envBool(envVerbose, verbose)
		}
		logger = logging.NewLogger(verbose)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}
