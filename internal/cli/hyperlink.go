package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/aidanlsb/lonelog/internal/model"
)

var noLinks bool

// linksEnabled caches the hyperlink decision for the run.
var linksEnabled *bool

// shouldEmitHyperlinks reports whether OSC 8 hyperlinks go to stdout. They
// are only written to terminals in text mode.
func shouldEmitHyperlinks() bool {
	if linksEnabled != nil {
		return *linksEnabled
	}
	enabled := !jsonOutput && !noLinks && isatty.IsTerminal(os.Stdout.Fd())
	linksEnabled = &enabled
	return enabled
}

// editorURL builds a URL that opens absPath at line in editor. Editors
// without a URL scheme get a plain file:// link.
func editorURL(editor, absPath string, line int) string {
	if line < 1 {
		line = 1
	}
	path := filepath.ToSlash(absPath)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	e := strings.ToLower(editor)

	switch {
	case strings.Contains(e, "cursor"):
		return fmt.Sprintf("cursor://file%s:%d:1", path, line)
	case strings.Contains(e, "code") || strings.Contains(e, "codium"):
		return fmt.Sprintf("vscode://file%s:%d:1", path, line)
	case strings.Contains(e, "subl"):
		return fmt.Sprintf("subl://open?url=file://%s&line=%d", path, line)
	case strings.Contains(e, "zed"):
		return fmt.Sprintf("zed://file%s:%d", path, line)
	case containsAny(e, "idea", "goland", "pycharm", "webstorm"):
		return fmt.Sprintf("idea://open?file=%s&line=%d", path, line)
	default:
		return "file://" + path
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// hyperlink wraps text in an OSC 8 escape pointing at url.
func hyperlink(url, text string) string {
	return "\x1b]8;;" + url + "\x07" + text + "\x1b]8;;\x07"
}

// linkLocation makes label a clickable link to loc when the terminal
// supports it.
func linkLocation(loc model.Location, label string) string {
	if loc.File == "" || !shouldEmitHyperlinks() {
		return label
	}
	root := getWorkspacePath()
	if root == "" {
		return label
	}
	abs := filepath.Join(root, filepath.FromSlash(loc.File))
	return hyperlink(editorURL(getConfig().GetEditor(), abs, loc.Line), label)
}

// seenCell is the "last seen" table cell, linked to the latest mention.
func seenCell(first model.Location, mentions []model.Location) string {
	loc := first
	if len(mentions) > 0 {
		loc = mentions[len(mentions)-1]
	}
	return linkLocation(loc, lastSeenLabel(first, mentions))
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noLinks, "no-links", false, "Disable terminal hyperlinks in table output")
}
