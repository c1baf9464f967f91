package kilobite

import "embed"

// EmbeddedAssets contains the stylesheet shipped with the engine, served
// under /assets/ and copied into every static build.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
