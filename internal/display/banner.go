package display

import (
	"fmt"
	"io"

	"github.com/backmassage/imgconvert/internal/term"
)

// PrintBanner writes the ASCII art banner to w, in magenta when colors are
// enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, term.Magenta)
	fmt.Fprint(w, `                                 _
  ___ ___  _ ____   _____ _ __| |_
 / __/ _ \| '_ \ \ / / _ \ '__| __|
| (_| (_) | | | \ V /  __/ |  | |_
 \___\___/|_| |_|\_/ \___|_|   \__|
`)
	if term.Enabled() {
		fmt.Fprint(w, term.NC)
	}
	fmt.Fprintln(w)
}
