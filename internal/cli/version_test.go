package cli

import (
	"encoding/json"
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func stubBuildInfo(t *testing.T, bi *debug.BuildInfo) {
	t.Helper()
	prev := readBuildInfo
	t.Cleanup(func() { readBuildInfo = prev })
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return bi, bi != nil
	}
}

func TestCurrentVersionInfo(t *testing.T) {
	tests := []struct {
		name string
		bi   *debug.BuildInfo
		want versionInfo
	}{
		{
			name: "release build",
			bi: &debug.BuildInfo{
				GoVersion: "go1.23.4",
				Main:      debug.Module{Path: "github.com/aidanlsb/lonelog", Version: "v0.4.1"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "abc123"},
					{Key: "vcs.time", Value: "2026-09-30T08:00:00Z"},
					{Key: "vcs.modified", Value: "true"},
					{Key: "GOOS", Value: "windows"},
					{Key: "GOARCH", Value: "amd64"},
				},
			},
			want: versionInfo{
				Version:   "v0.4.1",
				Module:    "github.com/aidanlsb/lonelog",
				Revision:  "abc123",
				BuiltAt:   "2026-09-30T08:00:00Z",
				Dirty:     true,
				GoVersion: "go1.23.4",
				Platform:  "windows/amd64",
			},
		},
		{
			name: "no build info",
			bi:   nil,
			want: versionInfo{
				Version:   "devel",
				Module:    defaultModulePath,
				GoVersion: runtime.Version(),
				Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubBuildInfo(t, tt.bi)
			got := currentVersionInfo()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("currentVersionInfo() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestVersionCommandJSONOutput(t *testing.T) {
	prevJSON := jsonOutput
	t.Cleanup(func() { jsonOutput = prevJSON })
	jsonOutput = true

	stubBuildInfo(t, &debug.BuildInfo{
		GoVersion: "go1.23.4",
		Main:      debug.Module{Path: "github.com/aidanlsb/lonelog", Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "deadbeef"},
			{Key: "GOOS", Value: "darwin"},
			{Key: "GOARCH", Value: "arm64"},
		},
	})

	out := captureStdout(t, func() {
		if err := versionCmd.RunE(versionCmd, nil); err != nil {
			t.Fatalf("versionCmd.RunE: %v", err)
		}
	})

	var resp struct {
		OK   bool        `json:"ok"`
		Data versionInfo `json:"data"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("expected JSON output, got parse error: %v; out=%s", err, out)
	}
	if !resp.OK {
		t.Fatalf("expected ok=true; out=%s", out)
	}
	if resp.Data.Version != "devel" || resp.Data.Revision != "deadbeef" || resp.Data.Platform != "darwin/arm64" {
		t.Fatalf("unexpected data: %+v", resp.Data)
	}
}
