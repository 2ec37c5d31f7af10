package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Source identifies where a Dictionary's words came from.
type Source string

const (
	SourceCache    Source = "cache"
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

// MinWordLength is the shortest entry a Dictionary keeps.
const MinWordLength = 2

// Dictionary is an immutable set of uppercase words.
type Dictionary struct {
	words  map[string]struct{}
	source Source
}

// New builds a Dictionary from words. Entries are normalized the same way as
// a word list file; invalid entries are skipped.
func New(source Source, words ...string) *Dictionary {
	d := &Dictionary{words: make(map[string]struct{}, len(words)), source: source}
	for _, w := range words {
		if word, ok := normalizeWord(w); ok {
			d.words[word] = struct{}{}
		}
	}
	return d
}

// Contains reports whether word is in the dictionary. The lookup is case
// insensitive.
func (d *Dictionary) Contains(word string) bool {
	if d == nil {
		return false
	}
	_, ok := d.words[strings.ToUpper(word)]
	return ok
}

// Len returns the number of words.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.words)
}

// Source reports which link of the load chain produced the words.
func (d *Dictionary) Source() Source {
	if d == nil {
		return ""
	}
	return d.source
}

// Words returns the words in sorted order.
func (d *Dictionary) Words() []string {
	if d == nil {
		return nil
	}
	out := make([]string, 0, len(d.words))
	for w := range d.words {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// WriteTo writes the words one per line in sorted order, the cache file format.
func (d *Dictionary) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for _, word := range d.Words() {
		written, err := bw.WriteString(word + "\n")
		n += int64(written)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

// Parse reads a newline-delimited word list.
func Parse(r io.Reader, source Source) (*Dictionary, error) {
	d := &Dictionary{words: make(map[string]struct{}), source: source}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if word, ok := normalizeWord(scanner.Text()); ok {
			d.words[word] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}
	if len(d.words) == 0 {
		return nil, ErrEmptyWordList
	}
	return d, nil
}

// normalizeWord uppercases an entry and accepts it only if it is at least
// MinWordLength letters A-Z.
func normalizeWord(s string) (string, bool) {
	s = strings.ToUpper(strings.TrimSpace(norm.NFKC.String(s)))
	if len(s) < MinWordLength {
		return "", false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return "", false
		}
	}
	return s, true
}
