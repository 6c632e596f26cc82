package engine

import (
	"fmt"
	"io"
	"strings"
)

// textArtifact is a line based text result that defaults to console output.
type textArtifact struct {
	lines []string
}

func (a *textArtifact) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, a.String())
	if err != nil {
		return int64(n), fmt.Errorf("writing text: %w", err)
	}
	return int64(n), nil
}

func (a *textArtifact) DefaultPath(string) string {
	return ""
}

func (a *textArtifact) String() string {
	if len(a.lines) == 0 {
		return ""
	}
	return strings.Join(a.lines, "\n") + "\n"
}
