package tap

import (
	"bufio"
	"io"
	"iter"
	"strings"
)

// Lines splits content into lines, keeping each line terminator.
func Lines(content []byte) iter.Seq[string] {
	return func(yield func(string) bool) {
		s := string(content)
		for s != "" {
			i := strings.IndexByte(s, '\n')
			if i < 0 {
				yield(s)
				return
			}
			if !yield(s[:i+1]) {
				return
			}
			s = s[i+1:]
		}
	}
}

// ReaderLines reads r line by line, keeping each line terminator. A read
// error ends the sequence; the caller can inspect it through errp when non-nil.
func ReaderLines(r io.Reader, errp *error) iter.Seq[string] {
	return func(yield func(string) bool) {
		br := bufio.NewReader(r)
		for {
			l, err := br.ReadString('\n')
			if l != "" && !yield(l) {
				return
			}
			if err != nil {
				if err != io.EOF && errp != nil {
					*errp = err
				}
				return
			}
		}
	}
}
