package cli

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const (
	envAddr               = "CAPLINE_ADDR"
	envClearOnVideoChange = "CAPLINE_CLEAR_ON_VIDEO_CHANGE"
	envProbe              = "CAPLINE_PROBE"
	envProbeTimeout       = "CAPLINE_PROBE_TIMEOUT"
	envLogFile            = "CAPLINE_LOG_FILE"
	envVerbose            = "CAPLINE_VERBOSE"
)

// envBool reads a boolean environment variable, falling back to def when
// it is unset or unparsable.
func envBool(name string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envDuration(name string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// flag values win over the environment only when set explicitly

func stringFlagOrEnv(cmd *cobra.Command, flag, env string) string {
	v, _ := cmd.Flags().GetString(flag)
	if cmd.Flags().Changed(flag) {
		return v
	}
	if e := strings.TrimSpace(os.Getenv(env)); e != "" {
		return e
	}
	return v
}

func boolFlagOrEnv(cmd *cobra.Command, flag, env string) bool {
	v, _ := cmd.Flags().GetBool(flag)
	if cmd.Flags().Changed(flag) {
		return v
	}
	return envBool(env, v)
}

func durationFlagOrEnv(cmd *cobra.Command, flag, env string) time.Duration {
	v, _ := cmd.Flags().GetDuration(flag)
	if cmd.Flags().Changed(flag) {
		return v
	}
	return envDuration(env, v)
}
