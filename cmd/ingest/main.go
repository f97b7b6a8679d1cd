package main

import (
	"context"
	"econdata-backend/lib/configutil"
	configlibsql "econdata-backend/lib/configutil/libsql"
	"econdata-backend/lib/serviceutil"
	"econdata-backend/lib/telemetry"
	"econdata-backend/lib/valet"
	"econdata-backend/lib/wds"
	"econdata-backend/services/ingest"
	ingestdb "econdata-backend/services/ingest/db"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
)

type Config struct {
	Database     configlibsql.Struct `json:"database"`
	WdsBaseUrl   string              `json:"wds_base_url"`
	ValetBaseUrl string              `json:"valet_base_url"`
}

const dateFormat = "2006-01-02"

var flagMode string
var flagStart string
var flagEnd string
var flagVerbose bool

var rootCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Pull economic indicator series from StatCan and the Bank of Canada into the warehouse.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagMode != "create" && flagMode != "update" {
			return fmt.Errorf("expected mode 'create' or 'update' but received %q", flagMode)
		}
		start, err := time.Parse(dateFormat, flagStart)
		if err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
		end, err := time.Parse(dateFormat, flagEnd)
		if err != nil {
			return fmt.Errorf("invalid --end: %w", err)
		}

		ctx := cmd.Context()
		telemetry.InitSlog(flagVerbose)

		config, err := configutil.ReadConfig[Config]("config.json5")
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}

		t, err := telemetry.SetupFromEnv(ctx, "ingest")
		if err != nil {
			serviceutil.Fatal("failed to setup telemetry", err)
		}
		defer t.Shutdown(context.Background())
		telemetry.InstrumentPerfStats(ctx)

		schema := ""
		if flagMode == "create" {
			slog.InfoContext(ctx, "creating warehouse tables")
			schema = ingestdb.Schema
		}
		database, err := config.Database.OpenDB(schema)
		if err != nil {
			serviceutil.Fatal("failed to open database", err)
		}
		defer database.Close()

		wdsBase := config.WdsBaseUrl
		if wdsBase == "" {
			wdsBase = wds.DefaultBaseUrl
		}
		valetBase := config.ValetBaseUrl
		if valetBase == "" {
			valetBase = valet.DefaultBaseUrl
		}

		service := ingest.NewService(database, wds.NewClient(wdsBase), valet.NewClient(valetBase))
		err = service.LoadAll(ctx, start, end)
		if err != nil {
			serviceutil.Fatal("data ingestion failed", err)
		}

		slog.InfoContext(ctx, "data ingestion completed successfully")
		return nil
	},
}

func main() {
	rootCmd.Flags().StringVar(&flagMode, "mode", "update", "operation mode: 'create' applies the warehouse DDL first")
	rootCmd.Flags().StringVar(&flagStart, "start", "2000-01-01", "start of the reference period range (YYYY-MM-DD)")
	rootCmd.Flags().StringVar(&flagEnd, "end", "2025-12-31", "end of the reference period range (YYYY-MM-DD)")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	err := rootCmd.ExecuteContext(serviceutil.SignalContext())
	if err != nil {
		serviceutil.Fatal("ingest failed", err)
	}
}
