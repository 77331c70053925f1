package duckdb

import (
	"regexp"
	"strconv"
	"strings"

	embedded "github.com/semihalev/go-duckdb-embedded"
)

var (
	executeCall = regexp.MustCompile(`(?i)^EXECUTE\s+embedded_(\d+)\b`)
	returning   = regexp.MustCompile(`(?i)\bRETURNING\b`)
)

// stripLeading drops whitespace, comments and opening parentheses in front
// of the first keyword.
func stripLeading(query string) string {
	s := query
	for {
		s = strings.TrimLeft(s, " \t\r\n(")
		switch {
		case strings.HasPrefix(s, "--"):
			if i := strings.IndexByte(s, '\n'); i >= 0 {
				s = s[i+1:]
				continue
			}
			return ""
		case strings.HasPrefix(s, "/*"):
			if i := strings.Index(s, "*/"); i >= 0 {
				s = s[i+2:]
				continue
			}
			return ""
		}
		return s
	}
}

func firstKeyword(query string) string {
	s := stripLeading(query)
	end := strings.IndexFunc(s, func(r rune) bool {
		return !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
	})
	if end >= 0 {
		s = s[:end]
	}
	return strings.ToUpper(s)
}

// classify guesses what a statement produces from its leading keyword.
func classify(query string) embedded.ResultKind {
	switch firstKeyword(query) {
	case "SELECT", "WITH", "VALUES", "FROM", "TABLE", "SHOW", "DESCRIBE", "SUMMARIZE", "EXPLAIN", "PRAGMA", "CALL":
		return embedded.KindTable
	case "INSERT", "UPDATE", "DELETE", "MERGE", "COPY":
		if returning.MatchString(query) {
			return embedded.KindTable
		}
		return embedded.KindUpdate
	}
	return embedded.KindSchema
}

// preparedCall returns the statement id of an EXECUTE of a statement
// prepared by a session.
func preparedCall(query string) (int, bool) {
	m := executeCall.FindStringSubmatch(stripLeading(query))
	if m == nil {
		return 0, false
	}
	id, err := strconv.Atoi(m[1])
	return id, err == nil
}
