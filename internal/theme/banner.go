package theme

import (
	"fmt"
	"io"
	"os"
)

// Banner returns the CLI banner.
func Banner() string {
	const green = "\033[32m"
	const yellow = "\033[33m"
	const reset = "\033[0m"

	art := "" +
		"   ⌂ ⌂ ⌂   " + green + "VECINDARIO" + reset + "   ⌂ ⌂ ⌂\n" +
		yellow + "   ────────────────────────────────\n" + reset +
		"   neighborhood recommendations for your profile\n"
	return art
}

// PrintBanner writes the banner to stderr so stdout stays machine-readable.
func PrintBanner() {
	FprintBanner(os.Stderr)
}

// FprintBanner writes the banner to w.
func FprintBanner(w io.Writer) {
	fmt.Fprint(w, Banner())
}
