// Package web holds the embedded map frontend served at / and /static/.
package web

import "embed"

// Content holds the embedded frontend files.
//
//go:embed index.html static
var Content embed.FS
