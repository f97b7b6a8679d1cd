package cmd

import (
	"econdata-backend/lib/wds"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var tableSelects []string
var tableStart string
var tableEnd string

func init() {
	tableCmd.Flags().StringArrayVar(&tableSelects, "select", nil,
		`dimension selection, e.g. --select "Geography=Canada" or --select "Trade=Import|Export"`)
	tableCmd.Flags().StringVar(&tableStart, "start", "2000-01-01", "start of the reference period range (YYYY-MM-DD)")
	tableCmd.Flags().StringVar(&tableEnd, "end", "2025-12-31", "end of the reference period range (YYYY-MM-DD)")
	rootCmd.AddCommand(tableCmd)
}

// parseSelection turns a "Dimension=Member" argument into a Selection;
// multiple members are separated with '|'.
func parseSelection(arg string) (wds.Selection, error) {
	dimension, members, found := strings.Cut(arg, "=")
	if !found || dimension == "" || members == "" {
		return wds.Selection{}, fmt.Errorf(`selection %q is not of the form "Dimension=Member"`, arg)
	}
	return wds.Select(dimension, strings.Split(members, "|")...), nil
}

var tableCmd = &cobra.Command{
	Use:   "table <pid>",
	Short: "Fetch tidy table data for a set of dimension selections.",
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
		if len(tableSelects) == 0 {
			fmt.Fprintln(os.Stderr, "at least one --select is required")
			os.Exit(1)
		}

		var specs []wds.Selection
		for _, arg := range tableSelects {
			spec, err := parseSelection(arg)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			specs = append(specs, spec)
		}

		start, err := time.Parse("2006-01-02", tableStart)
		if err != nil {
			fmt.Fprintln(os.Stderr, "invalid --start:", err)
			os.Exit(1)
		}
		end, err := time.Parse("2006-01-02", tableEnd)
		if err != nil {
			fmt.Fprintln(os.Stderr, "invalid --end:", err)
			os.Exit(1)
		}

		client := wds.NewClient(BaseUrl)
		data, err := client.TableData(cmd.Context(), pid, specs, start, end)
		if err != nil {
			log.Fatal(err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)

		header := make(table.Row, len(data.Columns))
		for i, c := range data.Columns {
			header[i] = c
		}
		t.AppendHeader(header)

		for _, row := range data.Rows {
			out := make(table.Row, 0, len(data.Columns))
			for _, label := range row.Labels {
				out = append(out, label)
			}
			out = append(out, row.RefDate.Format("2006-01"))
			if row.Value != nil {
				out = append(out, *row.Value)
			} else {
				out = append(out, "")
			}
			t.AppendRow(out)
		}

		t.Render()

		for _, labels := range data.Dropped {
			fmt.Fprintf(os.Stderr, "no series found for (%s)\n", strings.Join(labels, ", "))
		}
	},
}
