// Package templates holds the embedded HTML templates.
package templates

import "embed"

//go:embed *.html
var FS embed.FS
