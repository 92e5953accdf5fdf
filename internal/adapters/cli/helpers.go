package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	goalgrpc "github.com/andrescamacho/goaltracker-go/internal/adapters/grpc"
	"github.com/andrescamacho/goaltracker-go/internal/application/common"
	"github.com/andrescamacho/goaltracker-go/internal/application/goals/commands"
	"github.com/andrescamacho/goaltracker-go/internal/domain/shared"
	"github.com/andrescamacho/goaltracker-go/internal/infrastructure/config"
	"github.com/andrescamacho/goaltracker-go/internal/infrastructure/logging"
	"github.com/andrescamacho/goaltracker-go/internal/infrastructure/tracker"
)

// daemonTimeout bounds every live call so a dead daemon fails fast
const daemonTimeout = 5 * time.Second

// commandContext returns a context carrying a stderr logger when --verbose is set
func commandContext() context.Context {
	ctx := context.Background()
	if verbose {
		ctx = common.WithLogger(ctx, logging.NewWriterLogger(os.Stderr, "text", "debug", shared.NewRealClock()))
	}
	return ctx
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// loadUserConfig never fails; a broken preferences file behaves like an empty one
func loadUserConfig() *config.UserConfig {
	handler, err := config.NewUserConfigHandler()
	if err != nil {
		return &config.UserConfig{}
	}
	userCfg, err := handler.Load()
	if err != nil {
		return &config.UserConfig{}
	}
	return userCfg
}

// resolveDaemonAddress picks the daemon address.
// Priority: --daemon flag > user config > config file
func resolveDaemonAddress() string {
	if daemonAddress != "" {
		return daemonAddress
	}
	if addr := loadUserConfig().DaemonAddress; addr != "" {
		return addr
	}
	return config.LoadConfigOrDefault(configPath).Daemon.Address
}

// resolvePreset picks the preset for local commands.
// Priority: argument > user config > configured default (empty)
func resolvePreset(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return loadUserConfig().DefaultPreset
}

// buildLocalTracker assembles an in-process tracker with the preset active and
// its deficit computed
func buildLocalTracker(ctx context.Context, presetID string) (*tracker.Tracker, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	tr, err := tracker.Build(ctx, cfg, tracker.Options{})
	if err != nil {
		return nil, err
	}

	if presetID != "" && presetID != tr.Goals.Active().ID() {
		if _, err := tr.Mediator.Send(ctx, &commands.SwitchGoalCommand{PresetID: presetID}); err != nil {
			return nil, err
		}
		return tr, nil
	}

	if _, err := tr.Mediator.Send(ctx, &commands.TickCommand{}); err != nil {
		return nil, err
	}
	return tr, nil
}

func dialDaemon() (*goalgrpc.GoalClient, error) {
	return goalgrpc.NewGoalClient(resolveDaemonAddress())
}

func daemonContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(commandContext(), daemonTimeout)
}

// useColor reports whether w is a terminal that should receive ANSI colors
func useColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func formatCount(n int) string {
	return humanize.Comma(int64(n))
}

func formatComputedAt(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}
