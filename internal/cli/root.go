// Package cli implements the command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aidanlsb/lonelog/internal/config"
	"github.com/aidanlsb/lonelog/internal/logging"
	"github.com/aidanlsb/lonelog/internal/ui"
)

var (
	// Global flags
	workspaceName     string // Named workspace from config
	workspacePathFlag string // Explicit path
	configPath        string
	debugFlag         bool
	noCache           bool

	// Resolved values
	resolvedWorkspacePath string
	resolvedConfigPath    string
	cfg                   *config.Config
	workspaceCfg          *config.WorkspaceConfig
	logger                = zerolog.Nop()
)

// errReported marks an error that was already written as a JSON envelope.
var errReported = errors.New("error already reported")

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "lonelog",
	Short: "Lonelog - index and browse solo RPG play logs",
	Long: `Lonelog reads markdown play logs written in Lonelog notation and indexes
the NPCs, locations, threads, clocks, tracks, timers and events they mention.

Plain-text markdown files stay the source of truth; the index under
.lonelog/ is a cache that can be rebuilt at any time.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip workspace resolution for commands that don't need it
		switch cmd.Name() {
		case "init", "completion", "help", "version", "notation", "workspaces", "config":
			return nil
		}
		if cmd.Parent() != nil && (cmd.Parent().Name() == "completion" || cmd.Parent().Name() == "config") {
			return nil
		}

		var err error
		cfg, resolvedConfigPath, err = loadGlobalConfigWithPath()
		if err != nil {
			return reportError(ErrConfigInvalid, fmt.Errorf("failed to load config: %w", err), "Fix config.toml and try again")
		}
		ui.ConfigureTheme(cfg.UI.Accent)
		ui.ConfigureMarkdownCodeTheme(cfg.UI.CodeTheme)

		resolvedWorkspacePath, err = resolveWorkspacePath()
		if err != nil {
			return reportError(ErrWorkspaceNotFound, err, "Run 'lonelog init <path>' to create a workspace")
		}

		workspaceCfg, err = config.LoadWorkspaceConfig(resolvedWorkspacePath)
		if err != nil {
			return reportError(ErrConfigInvalid, err, "Fix "+config.WorkspaceFile+" and try again")
		}

		logger, err = newLogger()
		if err != nil {
			return reportError(ErrConfigInvalid, err, "Set log_level to debug, info, warn or error")
		}
		logger.Debug().Str("workspace", resolvedWorkspacePath).Str("config", resolvedConfigPath).Msg("resolved")
		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
	}
	return err
}

// normalizeFlagName accepts snake_case spellings of flags, so --no_cache
// and --workspace_path work like their dashed forms.
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

func init() {
	rootCmd.SetGlobalNormalizationFunc(normalizeFlagName)
	rootCmd.PersistentFlags().StringVarP(&workspaceName, "workspace", "w", "", "Named workspace from config")
	rootCmd.PersistentFlags().StringVar(&workspacePathFlag, "workspace-path", "", "Explicit path to workspace directory")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "Parse every document without reading or writing the index cache")
}

// resolveWorkspacePath picks the workspace: explicit path > named workspace >
// default workspace > current directory when it holds lonelog.yaml.
func resolveWorkspacePath() (string, error) {
	var path string
	switch {
	case workspacePathFlag != "":
		path = workspacePathFlag
	case workspaceName != "":
		p, err := cfg.GetWorkspacePath(workspaceName)
		if err != nil {
			return "", fmt.Errorf("workspace '%s' not found\n\nRun 'lonelog workspaces' to see configured workspaces", workspaceName)
		}
		path = p
	default:
		if p, err := cfg.GetWorkspacePath(""); err == nil {
			path = p
			break
		}
		wd, err := os.Getwd()
		if err == nil {
			if _, statErr := os.Stat(filepath.Join(wd, config.WorkspaceFile)); statErr == nil {
				path = wd
				break
			}
		}
		return "", fmt.Errorf(`no workspace specified

Either:
  1. Use --workspace <name> (from config)
  2. Use --workspace-path /path/to/logs
  3. Set default_workspace in ~/.config/lonelog/config.toml
  4. Run lonelog from a directory containing %s
  5. Run 'lonelog init /path/to/logs' to create one`, config.WorkspaceFile)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("workspace not found: %s", abs)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("workspace is not a directory: %s", abs)
	}
	return abs, nil
}

// newLogger builds the stderr logger. --debug and the workspace debug
// setting win over the configured log level.
func newLogger() (zerolog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Nop(), err
	}
	if debugFlag || (workspaceCfg != nil && workspaceCfg.Debug) {
		level = logging.LevelDebug
	}
	return logging.New(os.Stderr, logging.Options{Level: level, JSON: jsonOutput}), nil
}

// getWorkspacePath returns the resolved workspace path.
func getWorkspacePath() string {
	return resolvedWorkspacePath
}

// getConfig returns the loaded config.
func getConfig() *config.Config {
	if cfg == nil {
		return &config.Config{}
	}
	return cfg
}

// getWorkspaceConfig returns the loaded workspace settings.
func getWorkspaceConfig() *config.WorkspaceConfig {
	if workspaceCfg == nil {
		return config.DefaultWorkspaceConfig()
	}
	return workspaceCfg
}

func loadGlobalConfigWithPath() (*config.Config, string, error) {
	resolvedPath := config.ResolveConfigPath(configPath)

	var loadedCfg *config.Config
	var err error
	if strings.TrimSpace(configPath) != "" {
		loadedCfg, err = config.LoadFrom(configPath)
	} else {
		loadedCfg, err = config.Load()
	}
	if err != nil {
		return nil, "", err
	}
	if loadedCfg == nil {
		loadedCfg = &config.Config{}
	}

	return loadedCfg, resolvedPath, nil
}
