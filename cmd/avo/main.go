// avo is a preprocessor that transforms .avo files containing Go with
// embedded HTML templates into pure .go files.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const version = "0.1.0"

var errorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("9"))

func main() {
	os.Exit(run())
}

func run() int {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		printError(os.Stderr, err)
		return 1
	}
	return 0
}

// printError writes one styled line per error; joined errors are listed
// separately.
func printError(w io.Writer, err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Fprintf(w, "%s %s\n", errorStyle.Render("error:"), line)
	}
}
