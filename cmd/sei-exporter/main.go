package main

import (
	"sei-exporter/cmd/sei-exporter/commands"
	"sei-exporter/lib/serviceutil"
	"sei-exporter/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()
	telemetry.SetupFromEnv(ctx, "sei-exporter")
	telemetry.InitSlog(false)
	telemetry.InstrumentPerfStats(ctx)
	commands.ExecuteContext(ctx)
}
