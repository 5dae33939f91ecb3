package session

import (
	"fmt"
	"io"
	"strings"

	"ChecksumUtility/internal/digest"
)

// PrintUsage writes the command help shown before every prompt.
func PrintUsage(w io.Writer) {
	var b strings.Builder
	b.WriteString("hash <hashAlgorithm> <inputPath>\n")
	b.WriteString("verify <reportPath>\n\n")
	b.WriteString("Algorithms:\n")
	for _, a := range digest.Algorithms() {
		b.WriteString(a.Name)
		b.WriteByte('\n')
	}
	b.WriteString("\ninputPath can be either a folder or a file.\n")
	b.WriteString("Wrap paths containing spaces in double quotes.\n")
	_, _ = fmt.Fprintln(w, b.String())
}
