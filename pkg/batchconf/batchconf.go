// Package batchconf renders and reads curl "-K" config documents that describe
// a parallel batch download of files served by fileshare.
package batchconf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Entry is one file to download.
type Entry struct {
	URL    string
	Output string
}

// Document is a parsed batch config.
type Document struct {
	Parallel int
	Entries  []Entry
}

var escaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`,`, `\,`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// Escape makes s safe inside a double-quoted config value. Every input
// character is consumed once, so already escaped text is escaped again rather
// than passed through.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Unescape reverses Escape. Unknown escape sequences are kept verbatim.
func Unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}

		i++
		switch s[i] {
		case '\\', '"', ',':
			b.WriteByte(s[i])
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// FileURL builds the download URL of a root-relative path.
func FileURL(baseURL, rel string) string {
	return strings.TrimRight(baseURL, "/") + "/files/" + encodePath(rel)
}

// Render writes the config for files to w.
func Render(w io.Writer, baseURL string, files []string, parallel int) error {
	if parallel < 1 {
		parallel = 1
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "continue-at = \"-\"\n")
	fmt.Fprintf(bw, "parallel\n")
	fmt.Fprintf(bw, "parallel-max = %d\n", parallel)
	fmt.Fprintf(bw, "create-dirs\n")

	for _, f := range files {
		fmt.Fprintf(bw, "\nurl = \"%s\"\n", Escape(FileURL(baseURL, f)))
		fmt.Fprintf(bw, "output = \"%s\"\n", Escape(f))
	}

	return bw.Flush()
}

// Parse reads a config produced by Render. Options other than url, output and
// parallel-max are ignored.
func Parse(r io.Reader) (Document, error) {
	var doc Document

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		key, value, _ := strings.Cut(text, "=")
		key = strings.TrimSpace(key)
		value, err := unquote(strings.TrimSpace(value))
		if err != nil {
			return Document{}, fmt.Errorf("line %d: %w", line, err)
		}

		switch key {
		case "url":
			doc.Entries = append(doc.Entries, Entry{URL: value})
		case "output":
			if len(doc.Entries) == 0 {
				return Document{}, fmt.Errorf("line %d: output before url", line)
			}
			doc.Entries[len(doc.Entries)-1].Output = value
		case "parallel-max":
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				return Document{}, fmt.Errorf("line %d: invalid parallel-max %q", line, value)
			}
			doc.Parallel = n
		}
	}
	if err := sc.Err(); err != nil {
		return Document{}, err
	}

	return doc, nil
}

func unquote(v string) (string, error) {
	if !strings.HasPrefix(v, `"`) {
		return v, nil
	}
	for i := 1; i < len(v); i++ {
		switch v[i] {
		case '\\':
			i++
		case '"':
			return Unescape(v[1:i]), nil
		}
	}
	return "", fmt.Errorf("unterminated value %s", v)
}

// encodePath percent-encodes only the bytes that would break an HTTP request
// line or split the URL (space, controls, '%', '?', '#'). Everything else,
// quotes and commas included, is left for Escape to handle.
func encodePath(p string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(p))
	for i := 0; i < len(p); i++ {
		c := p[i]
		if c <= ' ' || c == 0x7f || c == '%' || c == '?' || c == '#' {
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0x0f])
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
