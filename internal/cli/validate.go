package cli

import (
	"context"
	"sync"

	"github.com/spf13/cobra"

	"github.com/isochrone/isochrone/pkg/errors"
	"github.com/isochrone/isochrone/pkg/observability"
	"github.com/isochrone/isochrone/pkg/workspace"
)

// skipCollector records every element the tolerant loader drops, so the
// command can surface what the engine normally only logs.
type skipCollector struct {
	observability.NoopPersistenceHooks

	mu    sync.Mutex
	skips []string
}

func (c *skipCollector) OnElementSkipped(_ context.Context, _, kind, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.skips = append(c.skips, kind+": "+reason)
}

// newValidateCmd creates the "validate" command. It loads a workspace the
// same way the application would and reports every element that would be
// silently skipped, turning the engine's "opened but missing some items"
// behavior into something a user can act on.
func newValidateCmd(loadConfig configLoader) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate <path>",
		Short: "Check a workspace file for elements that would not load",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			collector := &skipCollector{}
			observability.SetPersistenceHooks(collector)
			defer observability.Reset()

			p := newProgress(logger)
			ws := workspace.New(cfg, logger)
			if err := ws.Load(args[0]); err != nil {
				printError("workspace failed to load: %v", err)
				return err
			}
			p.done("workspace loaded")

			d := ws.Data()
			printStats(d.NodeCount(), d.LinkCount(), len(d.Services()))

			if len(collector.skips) == 0 {
				printSuccess("every element loaded cleanly")
				return nil
			}
			for _, s := range collector.skips {
				printWarning("%s", s)
			}
			if strict {
				return errors.New(errors.ErrCodePartialFailure, "%d element(s) would be dropped", len(collector.skips))
			}
			printInfo("%d element(s) would be dropped; details above", len(collector.skips))
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "treat dropped elements as a failure")
	return cmd
}
