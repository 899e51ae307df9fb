// Package data embeds the Shmoopland content pack so binaries run without a
// content directory.
package data

import (
	"embed"
	"io/fs"
)

//go:embed game/*.json
var files embed.FS

// Game returns the embedded Shmoopland pack rooted at its files.
func Game() fs.FS {
	sub, err := fs.Sub(files, "game")
	if err != nil {
		panic(err)
	}
	return sub
}
