package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// BaseUrl of the WDS REST API, set by main before execution.
var BaseUrl string

var rootCmd = &cobra.Command{
	Use:   "wds-cli",
	Short: "wds-cli inspects StatCan cubes and fetches tidy table data.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
