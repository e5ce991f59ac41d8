package partition

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)

// WriteReport prints one tab-separated row per letter in rank order,
// followed by the skipped count.
func WriteReport(w io.Writer, t Tally, color bool) error {
	header := "Letter\tWords"
	if color {
		header = headerStyle.Render("Letter") + "\t" + headerStyle.Render("Words")
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	for i, letter := range t.Letters {
		if _, err := fmt.Fprintf(w, "%c\t%d\n", letter, t.Counts[i]); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "skipped\t%d\n", t.Skipped)
	return err
}
