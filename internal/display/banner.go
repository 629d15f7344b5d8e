package display

import (
	"fmt"
	"io"

	"github.com/backmassage/muxbatch/internal/term"
)

// PrintBanner writes the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, term.Magenta)
	fmt.Fprint(w, ` __  __            ____        _       _
|  \/  |_   ___  _| __ )  __ _| |_ ___| |__
| |\/| | | | \ \/ /  _ \ / _`+"`"+` | __/ __| '_ \
| |  | | |_| |>  <| |_) | (_| | || (__| | | |
|_|  |_|\__,_/_/\_\____/ \__,_|\__\___|_| |_|
`)
	fmt.Fprintln(w, term.NC)
}
