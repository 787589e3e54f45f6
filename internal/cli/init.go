package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/lonelog/internal/config"
	"github.com/aidanlsb/lonelog/internal/slugs"
	"github.com/aidanlsb/lonelog/internal/store"
	"github.com/aidanlsb/lonelog/internal/ui"
)

var (
	initName       string
	initSetDefault bool
	initAuditLog   bool
)

// initResult is the JSON shape of `lonelog init`.
type initResult struct {
	Path          string `json:"path"`
	CreatedConfig bool   `json:"created_config"`
	Gitignore     string `json:"gitignore"`
	Registered    string `json:"registered,omitempty"`
	AuditLog      bool   `json:"audit_log"`
}

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Initialize a workspace of play logs",
	Long: `Prepares a directory of Lonelog play logs. The current directory is used when
no path is given.

Creates:
  - lonelog.yaml  (workspace settings)
  - .lonelog/     (index cache directory)
  - .gitignore    (ignores the cache)

With --name the workspace is also registered in the global config, and
--default makes it the default workspace.

Examples:
  lonelog init
  lonelog init ~/rpg/ironsworn --name ironsworn --default`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "."
		if len(args) == 1 {
			path = args[0]
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return handleError(ErrInvalidInput, err, "")
		}

		if err := os.MkdirAll(filepath.Join(abs, store.DirName), 0o755); err != nil {
			return handleError(ErrInternal, fmt.Errorf("failed to create workspace: %w", err), "")
		}

		gitignore, err := ensureGitignore(abs)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}

		created, err := config.CreateDefaultWorkspaceConfig(abs)
		if err != nil {
			return handleError(ErrConfigInvalid, fmt.Errorf("failed to create %s: %w", config.WorkspaceFile, err), "")
		}

		if initAuditLog {
			if err := enableAuditLog(abs); err != nil {
				return handleError(ErrConfigInvalid, err, "Fix "+config.WorkspaceFile+" and try again")
			}
		}

		result := initResult{Path: abs, CreatedConfig: created, Gitignore: gitignore, AuditLog: initAuditLog}

		if initName != "" || initSetDefault {
			name := initName
			if name == "" {
				name = slugs.ComponentSlug(filepath.Base(abs))
			}
			if err := registerWorkspace(name, abs, initSetDefault); err != nil {
				return handleError(ErrConfigInvalid, err, "Check the --config path")
			}
			result.Registered = name
		}

		if isJSONOutput() {
			outputSuccess(result, nil)
			return nil
		}

		fmt.Printf("Initializing workspace at: %s\n", abs)
		if created {
			fmt.Println(ui.Successf("Created %s (workspace settings)", config.WorkspaceFile))
		} else {
			fmt.Println(ui.Skipped(config.WorkspaceFile + " already exists (kept)"))
		}
		fmt.Println(ui.Successf("Ensured %s/ directory exists", store.DirName))
		switch gitignore {
		case "created":
			fmt.Println(ui.Success("Created .gitignore"))
		case "updated":
			fmt.Println(ui.Success("Updated .gitignore (added lonelog entries)"))
		default:
			fmt.Println(ui.Skipped(".gitignore already has lonelog entries"))
		}
		if initAuditLog {
			fmt.Println(ui.Success("Enabled audit_log in " + config.WorkspaceFile))
		}
		if result.Registered != "" {
			fmt.Println(ui.Successf("Registered workspace '%s' in %s", result.Registered, config.ResolveConfigPath(configPath)))
		}

		if created {
			fmt.Println("\nWorkspace initialized! Add markdown play logs with a title in their frontmatter.")
		} else {
			fmt.Println("\nExisting workspace detected. Configuration preserved.")
		}
		return nil
	},
}

// ensureGitignore adds the cache directory to .gitignore. It returns
// "created", "updated" or "unchanged".
func ensureGitignore(root string) (string, error) {
	path := filepath.Join(root, ".gitignore")
	entry := store.DirName + "/"

	existing := ""
	if data, err := os.ReadFile(path); err == nil {
		existing = string(data)
	}
	if strings.Contains(existing, entry) {
		return "unchanged", nil
	}

	status := "created"
	content := "# lonelog index cache (rebuilt with 'lonelog reindex')\n" + entry + "\n"
	if existing != "" {
		status = "updated"
		content = strings.TrimRight(existing, "\n") + "\n\n" + content
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write .gitignore: %w", err)
	}
	return status, nil
}

// enableAuditLog turns on audit_log in root's lonelog.yaml.
func enableAuditLog(root string) error {
	wc, err := config.LoadWorkspaceConfig(root)
	if err != nil {
		return err
	}
	if wc.AuditLog {
		return nil
	}
	wc.AuditLog = true
	return config.SaveWorkspaceConfig(root, wc)
}

// registerWorkspace records name -> path in the global config.
func registerWorkspace(name, path string, makeDefault bool) error {
	cfgPath := config.ResolveConfigPath(configPath)
	c, err := config.LoadFrom(cfgPath)
	if err != nil {
		return err
	}
	c.AddWorkspace(name, path)
	if makeDefault {
		c.DefaultWorkspace = name
	}
	return config.SaveTo(cfgPath, c)
}

func init() {
	initCmd.Flags().StringVar(&initName, "name", "", "Register the workspace in the global config under this name")
	initCmd.Flags().BoolVar(&initSetDefault, "default", false, "Make this the default workspace")
	initCmd.Flags().BoolVar(&initAuditLog, "audit-log", false, "Enable the index audit log in lonelog.yaml")
	rootCmd.AddCommand(initCmd)
}
