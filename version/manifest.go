package version

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strings"
)

// Manifest lines are at most 72 bytes including the line break; a value that
// does not fit continues on the next line, which starts with a single space.
const manifestLineWidth = 70

var manifestEntry = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9_-]*):(?: (.*))?$`)

// Manifest is a parsed jar manifest. Main holds the attributes before the first
// blank line; Sections holds the per-entry sections keyed by their Name.
type Manifest struct {
	Main     map[string]string
	Sections map[string]map[string]string
}

// ManifestError reports the first line of a manifest that could not be parsed.
type ManifestError struct {
	Line   int
	Reason string
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("manifest line %d: %s", e.Line, e.Reason)
}

type manifestState int

const (
	expectingEntry manifestState = iota
	expectingSectionName
)

type manifestParser struct {
	state   manifestState
	mf      *Manifest
	current map[string]string

	lastKey     string
	lastLineLen int
}

// ParseManifest parses a jar manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	p := &manifestParser{
		state: expectingEntry,
		mf: &Manifest{
			Main:     map[string]string{},
			Sections: map[string]map[string]string{},
		},
	}
	p.current = p.mf.Main

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	sc.Split(scanManifestLines)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		if err := p.feed(lineNo, sc.Text()); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return p.mf, nil
}

func (p *manifestParser) feed(lineNo int, line string) error {
	defer func() { p.lastLineLen = len(line) }()

	if line == "" {
		p.state = expectingSectionName
		p.lastKey = ""
		return nil
	}

	if strings.HasPrefix(line, " ") {
		if p.lastKey == "" || p.lastLineLen < manifestLineWidth {
			return &ManifestError{Line: lineNo, Reason: "unexpected continuation line"}
		}
		p.current[p.lastKey] += line[1:]
		return nil
	}

	m := manifestEntry.FindStringSubmatch(line)
	if m == nil {
		return &ManifestError{Line: lineNo, Reason: fmt.Sprintf("malformed entry %q", line)}
	}
	key, value := m[1], m[2]

	if p.state == expectingSectionName {
		p.current = map[string]string{}
		if strings.EqualFold(key, "Name") {
			p.mf.Sections[value] = p.current
		}
		p.state = expectingEntry
	}

	p.current[key] = value
	p.lastKey = key
	return nil
}

// scanManifestLines splits on CRLF, LF or a lone CR.
func scanManifestLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		// need one more byte to tell CR from CRLF
		return 0, nil, nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
