package ingest

import (
	"bufio"
	"fmt"
	"os"
)

// ReadLines loads a converted document as its raw line sequence. Trimming
// and blank-line removal happen later during normalization.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document %q: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read document %q: %w", path, err)
	}
	return lines, nil
}
