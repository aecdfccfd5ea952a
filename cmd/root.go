package cmd

import (
	"fmt"
	"github.com/ValentinKolb/dBlog/cmd/posts"
	"github.com/ValentinKolb/dBlog/cmd/slot"
	"github.com/ValentinKolb/dBlog/cmd/util"
	"github.com/VictoriaMetrics/metrics"
	"github.com/spf13/cobra"
	"io"
	"os"
)

const (
	Version = "1.0.0"
)

var (
	printMetrics bool

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "dblog",
		Short: "local blog data store",
		Long: fmt.Sprintf(`dBlog (v%s)

A small single-user blog kept as one JSON document in a local key-value
slot. The slot is seeded from a bootstrap document on first use.`, Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dBlog",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dBlog v%s\n", Version)
		},
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(posts.PostsCommands)
	RootCmd.AddCommand(slot.SlotCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	util.SetupSlotFlags(RootCmd)
	RootCmd.PersistentFlags().BoolVar(&printMetrics, "print-metrics", false, util.WrapString("Write the collected metrics in Prometheus text format to stderr after the command finished"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := execute(os.Stderr); err != nil {
		os.Exit(1)
	}
}

// execute runs the command tree and writes the metrics to metricsOut if requested
func execute(metricsOut io.Writer) error {
	err := RootCmd.Execute()
	if printMetrics {
		metrics.WritePrometheus(metricsOut, false)
	}
	return err
}
