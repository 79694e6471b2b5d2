package main

import (
	"context"
	"topactors-backend/cmd/actors-cli/commands"
	libtelemetry "topactors-backend/lib/telemetry"
	"topactors-backend/lib/util/serviceutil"
)

func main() {
	ctx := serviceutil.SignalContext()
	libtelemetry.SetupFromEnv(ctx, "actors-cli")
	defer libtelemetry.Shutdown(context.Background())
	commands.ExecuteContext(ctx)
}
