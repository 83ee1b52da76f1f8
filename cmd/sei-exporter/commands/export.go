package commands

import (
	"errors"
	"log/slog"
	"time"

	"sei-exporter/lib/scrapers/sei"
	"sei-exporter/lib/serviceutil"
	"sei-exporter/lib/telemetry"
	"sei-exporter/services/export"

	"github.com/cenkalti/backoff/v4"
	"github.com/spf13/cobra"
)

var exportOut *string

func init() {
	exportOut = exportCmd.Flags().String(
		"saida", "./saida/processos.csv",
		"The file (or directory) to write the export to.",
	)
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [--saida <path/to/processos.csv>]",
	Short: "Logs in, walks the Recebidos and Gerados listings and writes one csv file.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		env := loadEnv()
		telemetry.InitSlog(*verbose || env.Debug)

		if env.Unidade == "" {
			serviceutil.Fatal("missing configuration", errors.New("SEI_UNIDADE must be set"))
		}

		ctx := cmd.Context()
		client := createClient(ctx, cfg, env)
		service := export.NewService(client)

		var records []sei.ProcessRecord
		collect := func() error {
			collected, err := service.Run(ctx)
			if err != nil {
				// only transport trouble is worth another attempt, the
				// session itself is still valid
				var transportErr *sei.TransportError
				if errors.As(err, &transportErr) {
					slog.Warn("collection failed, retrying", "error", err)
					return err
				}
				return backoff.Permanent(err)
			}
			records = collected
			return nil
		}

		t1 := time.Now()
		err := backoff.Retry(collect, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), cfg.MaxRetries))
		if err != nil {
			serviceutil.Fatal("failed to collect processes", err)
		}
		t2 := time.Now()

		out, err := export.WriteCSV(records, *exportOut)
		if err != nil {
			serviceutil.Fatal("failed to write export", err)
		}

		slog.Info(
			"export complete",
			"unit", client.ActiveUnit(),
			"records", len(records),
			"output", out,
			"seconds", t2.Sub(t1).Seconds(),
		)
	},
}
