package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document opened a YAML frontmatter block but
// never closed it.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Split separates YAML frontmatter (`---` delimited) from the Markdown body.
//
// If the document does not start with a frontmatter delimiter, had is false and body is
// the full input. Both LF and CRLF documents are supported.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, err error) {
	nl := detectNewline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return []byte{}, content[start+len(open):], true, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		// a closing delimiter on the very last line has no trailing newline
		if bytes.HasSuffix(content, []byte(nl+"---")) {
			end := len(content) - len(nl+"---")
			return content[start : end+len(nl)], []byte{}, true, nil
		}
		return nil, nil, false, ErrMissingClosingDelimiter
	}
	return content[start : start+idx+len(nl)], content[start+idx+len(closeSeq):], true, nil
}

// ParseYAML parses raw YAML frontmatter (without delimiters) into a map.
func ParseYAML(frontmatter []byte) (map[string]any, error) {
	fields := map[string]any{}
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return fields, nil
	}
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// Matter is the decoded frontmatter of a page.
type Matter struct {
	// Fields holds every key, for page data output.
	Fields map[string]any
	Title  string
	Lang   string
}

// Parse splits content and decodes its frontmatter. Documents without frontmatter yield
// an empty Matter and the full content as body.
func Parse(content []byte) (Matter, []byte, error) {
	raw, body, had, err := Split(content)
	if err != nil {
		return Matter{}, nil, err
	}
	m := Matter{Fields: map[string]any{}}
	if !had {
		return m, body, nil
	}
	fields, err := ParseYAML(raw)
	if err != nil {
		return Matter{}, nil, err
	}
	m.Fields = fields
	if s, ok := fields["title"].(string); ok {
		m.Title = s
	}
	if s, ok := fields["lang"].(string); ok {
		m.Lang = s
	}
	return m, body, nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
