package util

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Count returns the number of non blank lines of a key file, the number
// of keys ReadKeys will return for it if every line parses.
func Count(r io.Reader) (int, error) {
	var n int
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if len(bytes.TrimSpace(scanner.Bytes())) > 0 {
			n++
		}
	}

	return n, scanner.Err()
}

// ReadKeys reads one decimal key per line into a slice with room for
// hint keys. Blank lines are skipped, anything else that does not parse
// as an unsigned 64-bit integer is reported along with its line number.
func ReadKeys(r io.Reader, hint int) ([]uint64, error) {
	var keys = make([]uint64, 0, hint)
	var line int
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line++
		s := strings.TrimSpace(scanner.Text())
		if s == "" {
			continue
		}
		k, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		keys = append(keys, k)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return keys, nil
}

// WriteKeys writes the keys produced by next, one per line, until
// next reports false.
func WriteKeys(w io.Writer, next func() (uint64, bool)) (int, error) {
	var n int
	bw := bufio.NewWriter(w)
	var buf []byte
	for {
		k, ok := next()
		if !ok {
			break
		}
		buf = strconv.AppendUint(buf[:0], k, 10)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return n, err
		}
		n++
	}

	return n, bw.Flush()
}
