// Package tokenize turns page and query text into the lowercase,
// stop-word-filtered term stream the BM25 store indexes on.
package tokenize

import (
	"bufio"
	"bytes"
	_ "embed"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

//go:embed stop_words.txt
var stopWordsData string
var stopWords = initStopWords()

func initStopWords() map[string]struct{} {
	lines := strings.Split(stopWordsData, "\n")
	words := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		w := strings.TrimSpace(line)
		if w != "" {
			words[w] = struct{}{}
		}
	}
	return words
}

func isAlphaNumericRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

// splitWord is a bufio.SplitFunc that scans for alphanumeric runs, lowercased.
func splitWord(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for start < len(data) {
		r, size := utf8.DecodeRune(data[start:])
		if isAlphaNumericRune(r) {
			break
		}
		start += size
	}

	end := start
	for end < len(data) {
		r, size := utf8.DecodeRune(data[end:])
		if !isAlphaNumericRune(r) {
			return end + size, bytes.ToLower(data[start:end]), nil
		}
		end += size
	}

	if atEOF && start < len(data) {
		return end, bytes.ToLower(data[start:end]), nil
	}
	if atEOF {
		return end, nil, nil
	}
	return start, nil, nil
}

// Words splits s into lowercase alphanumeric terms, dropping stop words and
// bare integers.
func Words(s string) []string {
	scanner := bufio.NewScanner(strings.NewReader(s))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(splitWord)

	words := make([]string, 0, 256)
	for scanner.Scan() {
		w := scanner.Text()
		if w == "" {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		if isIntegerWord(w) {
			continue
		}
		words = append(words, w)
	}
	return words
}

// Frequencies counts occurrences of each surviving term in s.
func Frequencies(s string) map[string]int {
	freqs := make(map[string]int)
	for _, w := range Words(s) {
		freqs[w]++
	}
	return freqs
}

func isIntegerWord(w string) bool {
	_, err := strconv.Atoi(w)
	return err == nil
}
