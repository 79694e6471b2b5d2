package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"topactors-backend/lib/configutil"
)

// SetupFromEnv searches up the filesystem from the cwd to find a file called
// telemetry.json5, once found it will use it as the config to setup telemetry.
// If there is no such file telemetry export is left disabled.
func SetupFromEnv(ctx context.Context, serviceName string) error {
	cfg, err := configutil.ReadRecursively[config]("telemetry.json5")
	if errors.Is(err, os.ErrNotExist) {
		slog.DebugContext(ctx, "telemetry.json5 not found, telemetry export disabled")
		return nil
	}
	if err != nil {
		return err
	}
	return Setup(ctx, serviceName, cfg)
}
