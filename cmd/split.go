package cmd

import "strings"

// splitter cuts SQL text into statements at semicolons outside of quotes
// and comments. Text after the last semicolon is kept as pending input.
type splitter struct {
	buf     strings.Builder
	quote   byte // the open quote character, or 0
	comment bool // inside a -- comment
}

// feed adds text and returns the statements it completed.
func (s *splitter) feed(text string) []string {
	var out []string
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case s.comment:
			if c == '\n' {
				s.comment = false
			}
		case s.quote != 0:
			if c == s.quote {
				s.quote = 0
			}
		case c == '\'' || c == '"':
			s.quote = c
		case c == '-' && i+1 < len(text) && text[i+1] == '-':
			s.comment = true
		case c == ';':
			if stmt := strings.TrimSpace(s.buf.String()); stmt != "" {
				out = append(out, stmt)
			}
			s.buf.Reset()
			continue
		}
		s.buf.WriteByte(c)
	}
	return out
}

// pending returns the text of the unfinished statement.
func (s *splitter) pending() string {
	return strings.TrimSpace(s.buf.String())
}

// splitStatements splits a complete script. A final statement without a
// semicolon is included.
func splitStatements(script string) []string {
	var s splitter
	stmts := s.feed(script)
	if p := s.pending(); p != "" {
		stmts = append(stmts, p)
	}
	return stmts
}
