package workspace

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// lineFlagEditors accept "+N file" to jump to a line.
var lineFlagEditors = []string{"vi", "vim", "nvim", "nano", "emacs", "micro", "kak", "hx"}

// gotoEditors accept "-g file:N".
var gotoEditors = []string{"code", "code-insiders", "cursor", "codium"}

// EditorArgs returns the argument list that opens path at line with editor.
// line <= 0 opens the file without a position.
func EditorArgs(editor, path string, line int) []string {
	fields := strings.Fields(editor)
	if len(fields) == 0 {
		return nil
	}
	if line <= 0 {
		return append(fields, path)
	}

	base := filepath.Base(fields[0])
	for _, e := range lineFlagEditors {
		if base == e {
			return append(fields, "+"+strconv.Itoa(line), path)
		}
	}
	for _, e := range gotoEditors {
		if base == e {
			return append(fields, "-g", path+":"+strconv.Itoa(line))
		}
	}
	return append(fields, path)
}

// OpenInEditor starts editor on path without waiting for it to exit.
func OpenInEditor(editor, path string, line int) error {
	args := EditorArgs(editor, path, line)
	if len(args) == 0 {
		return fmt.Errorf("no editor configured")
	}
	cmd := exec.Command(args[0], args[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start editor %q: %w", args[0], err)
	}
	return nil
}
