package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/lonelog/internal/config"
	"github.com/aidanlsb/lonelog/internal/ui"
)

// workspaceEntry is the JSON shape of one configured workspace.
type workspaceEntry struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Default bool   `json:"default"`
	Exists  bool   `json:"exists"`
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	path := config.ResolveConfigPath(configPath)
	c, err := config.LoadFrom(path)
	if err != nil {
		return handleError(ErrConfigInvalid, err, "Fix config.toml and try again")
	}
	_, statErr := os.Stat(path)
	exists := statErr == nil

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"config_path": path,
			"exists":      exists,
			"config":      c,
			"clock_style": c.UI.GetClockStyle(),
		}, nil)
		return nil
	}

	fmt.Printf("%s %s\n", ui.Muted.Render("config:"), ui.FilePath(path))
	if !exists {
		fmt.Println(ui.Hint("(not created yet; run 'lonelog config init')"))
	}
	fmt.Print(ui.NewFields(2).
		Add("default_workspace", c.DefaultWorkspace).
		Add("editor", c.Editor).
		Add("log_level", c.LogLevel).
		Add("ui.accent", c.UI.Accent).
		Add("ui.code_theme", c.UI.CodeTheme).
		Add("ui.clock_style", c.UI.GetClockStyle()).
		String())
	return nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the global config.toml settings",
	Long: `Shows the global lonelog config.toml settings.

The file lives at ~/.config/lonelog/config.toml unless --config is given.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a commented default config.toml if missing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.ResolveConfigPath(configPath)
		created, err := config.CreateDefault(path)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"config_path": path,
				"created":     created,
			}, nil)
			return nil
		}

		if created {
			fmt.Printf("Created config: %s\n", path)
		} else {
			fmt.Printf("Config already exists: %s\n", path)
		}
		return nil
	},
}

var workspacesCmd = &cobra.Command{
	Use:   "workspaces",
	Short: "List configured workspaces",
	Long: `Lists all workspaces configured in ~/.config/lonelog/config.toml.

Example config:
  default_workspace = "solo"

  [workspaces]
  solo = "~/rpg/logs"
  starforged = "~/rpg/starforged"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Load config directly (not using cfg since we skip PreRun)
		loaded, _, err := loadGlobalConfigWithPath()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "Fix config.toml and try again")
		}

		entries := make([]workspaceEntry, 0, len(loaded.Workspaces))
		for _, name := range loaded.ListWorkspaces() {
			path, _ := loaded.GetWorkspacePath(name)
			_, statErr := os.Stat(path)
			entries = append(entries, workspaceEntry{
				Name:    name,
				Path:    path,
				Default: name == loaded.DefaultWorkspace,
				Exists:  statErr == nil,
			})
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"workspaces": entries}, &Meta{Count: len(entries)})
			return nil
		}

		if len(entries) == 0 {
			fmt.Println("No workspaces configured.")
			fmt.Println()
			fmt.Println(ui.Hint("Run 'lonelog init <path> --name <name> --default' to register one."))
			return nil
		}

		for _, e := range entries {
			marker := "  "
			if e.Default {
				marker = "* "
			}
			path := e.Path
			if !e.Exists {
				path += " " + ui.Muted.Render("(missing)")
			}
			fmt.Printf("%s%-12s → %s\n", marker, e.Name, path)
		}
		if loaded.DefaultWorkspace != "" {
			fmt.Println()
			fmt.Println(ui.Hint("* = default workspace"))
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(workspacesCmd)
}
