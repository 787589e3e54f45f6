package docs

import "embed"

// FS contains the Markdown docs bundled with the lonelog binary.
//
//go:embed notation.md
var FS embed.FS

// NotationFile is the notation quick reference inside FS.
const NotationFile = "notation.md"
