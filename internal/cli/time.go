package cli

import (
	"fmt"
	"strconv"

	"github.com/mgpai22/capline/internal/timecode"
	"github.com/spf13/cobra"
)

var timeCmd = &cobra.Command{
	Use:   "time",
	Short: "Convert between hh:mm:ss and seconds",
}

var timeParseCmd = &cobra.Command{
	Use:   "parse [hh:mm:ss]",
	Short: "Print the number of seconds in an hh:mm:ss time",
	Long: `Print the number of seconds in an hh:mm:ss time.

Components are not limited to 0-59: "00:75:00" is 4500 seconds.

Examples:
  capline time parse 01:02:03`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		secs, err := timecode.Parse(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(secs, 'f', -1, 64))
		return nil
	},
}

var timeFormatCmd = &cobra.Command{
	Use:   "format [seconds]",
	Short: "Print seconds as zero-padded HH:MM:SS",
	Long: `Print seconds as zero-padded HH:MM:SS, flooring fractions.

Examples:
  capline time format 3723
  capline time format 90.7`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		secs, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid seconds %q: %w", args[0], err)
		}
		if secs < 0 {
			return fmt.Errorf("seconds must not be negative: %v", secs)
		}
		fmt.Fprintln(cmd.OutOrStdout(), timecode.Format(secs))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(timeCmd)
	timeCmd.AddCommand(timeParseCmd)
	timeCmd.AddCommand(timeFormatCmd)
}
