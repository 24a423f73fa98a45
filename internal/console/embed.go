// ABOUTME: Embeds HTML templates into the binary using go:embed

package console

import "embed"

//go:embed templates/*.html
var templateFS embed.FS
