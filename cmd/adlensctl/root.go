package main

import (
	"time"

	"github.com/fatih/color"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"
)

// settings are the environment defaults shared with the server.
type settings struct {
	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	ReportAPI     string        `envconfig:"REPORT_API_BASE_URL" default:"http://127.0.0.1:8000"`
	ReportTimeout time.Duration `envconfig:"REPORT_TIMEOUT" default:"10s"`
}

func loadSettings() settings {
	var s settings
	if err := envconfig.Process("", &s); err != nil {
		return settings{RedisAddr: "127.0.0.1:6379", ReportAPI: "http://127.0.0.1:8000", ReportTimeout: 10 * time.Second}
	}
	return s
}

// Global flag values.
var (
	redisAddr string
	reportAPI string
	timeout   time.Duration
	noColor   bool
)

// rootCmd is the base command for adlensctl.
var rootCmd = &cobra.Command{
	Use:   "adlensctl",
	Short: "Operate the adlens dashboard",
	Long: `adlensctl queues background jobs for the adlens dashboard and
checks the reporting API from the command line.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	env := loadSettings()
	rootCmd.PersistentFlags().StringVar(&redisAddr, "redis", env.RedisAddr, "redis address of the job queue")
	rootCmd.PersistentFlags().StringVar(&reportAPI, "api", env.ReportAPI, "base URL of the reporting API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", env.ReportTimeout, "deadline for each request")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(jobsCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(versionCmd)
}
