package cmd

import (
	"econdata-backend/lib/wds"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var previewTarget string
var previewDimension string

func init() {
	previewCmd.Flags().StringVar(&previewTarget, "target", "names", "what to preview: names, values or full")
	previewCmd.Flags().StringVar(&previewDimension, "dimension", "", "dimension name, required for --target values")
	rootCmd.AddCommand(previewCmd)
}

var previewCmd = &cobra.Command{
	Use:   "preview <pid>",
	Short: "Preview the dimensions and members of a cube.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) < 1 {
			fmt.Fprintln(os.Stderr, "incorrect number of arguments")
			os.Exit(1)
		}
		pid, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "pid must be numeric")
			os.Exit(1)
		}

		client := wds.NewClient(BaseUrl)
		preview, err := client.PreviewDimensions(
			cmd.Context(),
			pid,
			wds.PreviewTarget(previewTarget),
			previewDimension,
		)
		if err != nil {
			log.Fatal(err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)

		switch wds.PreviewTarget(previewTarget) {
		case wds.PreviewNames:
			t.AppendHeader(table.Row{"Dimension", "Position"})
			names := make([]string, 0, len(preview.Names))
			for name := range preview.Names {
				names = append(names, name)
			}
			sort.Slice(names, func(i, j int) bool {
				return preview.Names[names[i]] < preview.Names[names[j]]
			})
			for _, name := range names {
				t.AppendRow(table.Row{name, preview.Names[name]})
			}
		case wds.PreviewValues:
			t.AppendHeader(table.Row{"Member", "Id"})
			for _, member := range preview.Values {
				t.AppendRow(table.Row{member.Name, member.Id})
			}
		case wds.PreviewFull:
			t.AppendHeader(table.Row{"Dimension", "Position", "Member", "Id"})
			for _, dim := range preview.Full.Dimensions {
				for _, member := range dim.Members {
					t.AppendRow(table.Row{dim.Name, dim.Position, member.Name, member.Id})
				}
			}
		}

		t.Render()
	},
}
