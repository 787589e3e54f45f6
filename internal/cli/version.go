package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/lonelog/internal/buildinfo"
	"github.com/aidanlsb/lonelog/internal/ui"
)

const defaultModulePath = "github.com/aidanlsb/lonelog"

type versionInfo struct {
	Version   string `json:"version"`
	Module    string `json:"module"`
	Revision  string `json:"revision,omitempty"`
	BuiltAt   string `json:"built_at,omitempty"`
	Dirty     bool   `json:"dirty"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

var readBuildInfo = debug.ReadBuildInfo

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show lonelog version and build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := currentVersionInfo()

		if isJSONOutput() {
			outputSuccess(info, nil)
			return nil
		}
		if versionShort {
			fmt.Println(info.Version)
			return nil
		}

		fmt.Printf("lonelog %s\n", ui.Bold.Render(info.Version))
		rev := info.Revision
		if rev != "" && info.Dirty {
			rev += " (dirty)"
		}
		fmt.Print(ui.NewFields(2).
			Add("module", info.Module).
			Add("revision", rev).
			Add("built", info.BuiltAt).
			Add("go", info.GoVersion).
			Add("platform", info.Platform).
			String())
		return nil
	},
}

func currentVersionInfo() versionInfo {
	info := versionInfo{
		Version:   "devel",
		Module:    defaultModulePath,
		GoVersion: runtime.Version(),
	}
	goos, goarch := runtime.GOOS, runtime.GOARCH

	if bi, ok := readBuildInfo(); ok && bi != nil {
		if bi.Main.Path != "" {
			info.Module = bi.Main.Path
		}
		info.Version = normalizeVersion(bi.Main.Version)
		if bi.GoVersion != "" {
			info.GoVersion = bi.GoVersion
		}
		settings := make(map[string]string, len(bi.Settings))
		for _, s := range bi.Settings {
			settings[s.Key] = s.Value
		}
		if v := settings["GOOS"]; v != "" {
			goos = v
		}
		if v := settings["GOARCH"]; v != "" {
			goarch = v
		}
		info.Revision = settings["vcs.revision"]
		info.BuiltAt = settings["vcs.time"]
		info.Dirty = strings.EqualFold(settings["vcs.modified"], "true")
	}
	info.Platform = goos + "/" + goarch

	// Release builds stamp buildinfo through ldflags.
	if info.Version == "devel" && buildinfo.Version != "" {
		info.Version = normalizeVersion(buildinfo.Version)
	}
	if info.Revision == "" {
		info.Revision = buildinfo.Commit
	}
	if info.BuiltAt == "" {
		info.BuiltAt = buildinfo.Date
	}
	return info
}

func normalizeVersion(version string) string {
	if version == "" || version == "(devel)" {
		return "devel"
	}
	return version
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print only the version")
	rootCmd.AddCommand(versionCmd)
}
