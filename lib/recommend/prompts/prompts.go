// Package prompts holds the text templates sent to the generative service.
package prompts

import "embed"

//go:embed *.txt
var FS embed.FS
