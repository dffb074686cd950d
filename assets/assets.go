// Package assets embeds the browser shell sources.
package assets

import "embed"

// FS holds the shell templates, styles and scripts.
//
//go:embed index.html.tpl style.css script.js sw.js.tpl
var FS embed.FS
