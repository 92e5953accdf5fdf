package cli

import (
	"fmt"
	"io"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/goaltracker-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage goal tracker configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (RGT_* prefix)
2. Config file (config.yaml)
3. Default values

User preferences (daemon address, default preset) are stored in
~/.goaltracker/config.json

Examples:
  goaltracker config show
  goaltracker config set-daemon unix:///tmp/goaltracker.sock
  goaltracker config set-preset ship-map
  goaltracker config clear`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetDaemonCommand())
	cmd.AddCommand(newConfigSetPresetCommand())
	cmd.AddCommand(newConfigClearCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Fprintf(out, "Warning: Failed to load config: %v\n", err)
				fmt.Fprintln(out, "Using default configuration.")
				cfg = config.DefaultConfig()
			}

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}

			userCfg, err := userConfigHandler.Load()
			if err != nil {
				fmt.Fprintf(out, "Warning: Failed to load user config: %v\n\n", err)
				userCfg = &config.UserConfig{}
			}

			renderConfig(out, cfg, userCfg, userConfigHandler.GetConfigPath())
			return nil
		},
	}
}

func renderConfig(out io.Writer, cfg *config.Config, userCfg *config.UserConfig, userPath string) {
	fmt.Fprintln(out, "Goal Tracker Configuration")
	fmt.Fprintln(out, "==========================")

	fmt.Fprintln(out, "User Preferences:")
	fmt.Fprintf(out, "  Config file:      %s\n", userPath)
	fmt.Fprintf(out, "  Daemon address:   %s\n", orNotSet(userCfg.DaemonAddress))
	fmt.Fprintf(out, "  Default preset:   %s\n", orNotSet(userCfg.DefaultPreset))

	fmt.Fprintln(out, "\nRegistry:")
	fmt.Fprintf(out, "  Path:             %s\n", cfg.Registry.Path)
	fmt.Fprintf(out, "  Watch:            %v (debounce %s)\n", cfg.Registry.Watch, cfg.Registry.Debounce)

	fmt.Fprintln(out, "\nTracker:")
	fmt.Fprintf(out, "  Instance:         %s\n", cfg.Tracker.Instance)
	fmt.Fprintf(out, "  Deep sum:         %v\n", cfg.Tracker.DeepSum)
	fmt.Fprintf(out, "  Tick interval:    %s\n", cfg.Tracker.TickInterval)
	fmt.Fprintf(out, "  World snapshot:   %s (watch %v)\n", cfg.Tracker.WorldPath, cfg.Tracker.WatchWorld)
	fmt.Fprintf(out, "  Trigger limit:    %.2f/s (burst: %d)\n", cfg.Tracker.TriggerRate, cfg.Tracker.TriggerBurst)

	fmt.Fprintln(out, "\nPresets:")
	fmt.Fprintf(out, "  Default:          %s\n", cfg.Presets.Default)
	fmt.Fprintf(out, "  Custom file:      %s\n", orNotSet(cfg.Presets.File))
	fmt.Fprintf(out, "  Reactor item:     %s\n", cfg.Presets.ReactorItem)
	fmt.Fprintf(out, "  Ship parts:       %d\n", len(cfg.Presets.ShipParts))

	fmt.Fprintln(out, "\nDatabase:")
	fmt.Fprintf(out, "  Type:             %s\n", cfg.Database.Type)
	switch {
	case cfg.Database.URL != "":
		fmt.Fprintf(out, "  URL:              %s\n", maskPassword(cfg.Database.URL))
	case cfg.Database.Type == "sqlite":
		fmt.Fprintf(out, "  Path:             %s\n", cfg.Database.Path)
	default:
		fmt.Fprintf(out, "  Host:             %s\n", cfg.Database.Host)
		fmt.Fprintf(out, "  Port:             %d\n", cfg.Database.Port)
		fmt.Fprintf(out, "  Database:         %s\n", cfg.Database.Name)
		fmt.Fprintf(out, "  User:             %s\n", cfg.Database.User)
	}
	fmt.Fprintf(out, "  Max Connections:  %d\n", cfg.Database.Pool.MaxOpen)

	fmt.Fprintln(out, "\nDaemon:")
	fmt.Fprintf(out, "  Address:          %s\n", cfg.Daemon.Address)
	fmt.Fprintf(out, "  HTTP address:     %s\n", orNotSet(cfg.Daemon.HTTPAddress))
	fmt.Fprintf(out, "  Shutdown timeout: %s\n", cfg.Daemon.ShutdownTimeout)

	fmt.Fprintln(out, "\nLogging:")
	fmt.Fprintf(out, "  Level:            %s\n", cfg.Logging.Level)
	fmt.Fprintf(out, "  Format:           %s\n", cfg.Logging.Format)
	fmt.Fprintf(out, "  Output:           %s\n", cfg.Logging.Output)

	fmt.Fprintln(out, "\nMetrics:")
	fmt.Fprintf(out, "  Enabled:          %v\n", cfg.Metrics.Enabled)
	fmt.Fprintf(out, "  Path:             %s\n", cfg.Metrics.Path)
}

func newConfigSetDaemonCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-daemon <address>",
		Short: "Set the default daemon address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := userConfigHandler.SetDaemonAddress(args[0]); err != nil {
				return fmt.Errorf("failed to set daemon address: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Daemon address set to %s\n", args[0])
			return nil
		},
	}
}

func newConfigSetPresetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-preset <preset>",
		Short: "Set the preset used by local commands",
		Long: `Set the preset used by 'deficit' and 'tree' when none is given.

The preset is checked against the configured presets before it is saved.

Example:
  goaltracker config set-preset ship-map`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext()
			tr, err := buildLocalTracker(ctx, "")
			if err != nil {
				return err
			}
			if _, ok := tr.Goals.Preset(args[0]); !ok {
				return fmt.Errorf("unknown preset %q: run 'goaltracker presets --all' to list them", args[0])
			}

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := userConfigHandler.SetDefaultPreset(args[0]); err != nil {
				return fmt.Errorf("failed to set default preset: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Default preset set to %s\n", args[0])
			return nil
		},
	}
}

func newConfigClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear user preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := userConfigHandler.Clear(); err != nil {
				return fmt.Errorf("failed to clear user config: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "✓ User preferences cleared")
			return nil
		},
	}
}

func orNotSet(value string) string {
	if value == "" {
		return "(not set)"
	}
	return value
}

// maskPassword hides the password of a connection URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, hasPassword := u.User.Password(); !hasPassword {
		return raw
	}
	u.User = url.UserPassword(u.User.Username(), "xxxxx")
	return u.String()
}
