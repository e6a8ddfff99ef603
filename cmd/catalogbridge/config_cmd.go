package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/jrmoreno/catalogbridge/internal/shared"
)

// ConfigInit writes the embedded default config to path, refusing to
// overwrite an existing file.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")

	if err := shared.CreateConfigFile(path); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	return r.writePlain("wrote default config to %s\n", path)
}
