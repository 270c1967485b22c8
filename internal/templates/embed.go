package templates

import "embed"

// Files holds the server-rendered page templates. Every page is parsed
// together with base.html.
//
//go:embed *.html
var Files embed.FS
