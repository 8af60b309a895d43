// Package content embeds the default three-floor building.
package content

import "embed"

// Files holds the built-in .lua content files.
//
//go:embed *.lua
var Files embed.FS
