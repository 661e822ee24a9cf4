package buffer

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Tail reads r to the end, keeping only the last maxLines lines in a ring
// buffer. It returns the retained content joined with newlines and the total
// number of lines seen. Job logs can run to hundreds of megabytes, so the
// whole stream is never held in memory.
func Tail(r io.Reader, maxLines int) (string, int, error) {
	lines := make([]string, maxLines)
	totalLines := 0
	writeIndex := 0

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		lines[writeIndex] = scanner.Text()
		totalLines++
		writeIndex = (writeIndex + 1) % maxLines
	}
	if err := scanner.Err(); err != nil {
		return "", 0, fmt.Errorf("failed to read log content: %w", err)
	}

	kept := totalLines
	if kept > maxLines {
		kept = maxLines
	}
	start := 0
	if totalLines > maxLines {
		start = writeIndex
	}

	result := make([]string, 0, kept)
	for i := 0; i < kept; i++ {
		result = append(result, lines[(start+i)%maxLines])
	}
	return strings.Join(result, "\n"), totalLines, nil
}
