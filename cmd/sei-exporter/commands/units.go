package commands

import (
	"os"

	"sei-exporter/lib/serviceutil"
	"sei-exporter/lib/telemetry"
	"sei-exporter/lib/textutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(unitsCmd)
}

var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "Lists the units available to the configured user.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		env := loadEnv()
		telemetry.InitSlog(*verbose || env.Debug)

		ctx := cmd.Context()
		client := createClient(ctx, cfg, env)

		units, err := client.Units(ctx)
		if err != nil {
			serviceutil.Fatal("failed to list units", err)
		}

		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Unidade", "Ativa"})
		for _, unit := range units {
			active := ""
			if textutil.EqualNames(unit, client.ActiveUnit()) {
				active = "*"
			}
			t.AppendRow(table.Row{unit, active})
		}
		t.Render()
	},
}
