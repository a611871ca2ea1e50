package ocrd

import (
	"fmt"
	"strings"
)

// SplitWords splits a line of shell-quoted tokens into its words. Single
// quotes are literal, double quotes honor backslash escapes, and unquoted
// backslashes escape the next character. This is the subset of shell quoting
// the external tool uses when printing input-file records and parameter
// assignments.
func SplitWords(line string) ([]string, error) {
	var words []string
	var cur strings.Builder
	inWord := false
	i := 0
	for i < len(line) {
		c := line[i]
		switch {
		case c == ' ' || c == '\t':
			if inWord {
				words = append(words, cur.String())
				cur.Reset()
				inWord = false
			}
			i++
		case c == '\'':
			inWord = true
			end := strings.IndexByte(line[i+1:], '\'')
			if end < 0 {
				return nil, fmt.Errorf("unterminated single quote in %q", line)
			}
			cur.WriteString(line[i+1 : i+1+end])
			i += end + 2
		case c == '"':
			inWord = true
			i++
			for {
				if i >= len(line) {
					return nil, fmt.Errorf("unterminated double quote in %q", line)
				}
				if line[i] == '"' {
					i++
					break
				}
				if line[i] == '\\' && i+1 < len(line) {
					i++
				}
				cur.WriteByte(line[i])
				i++
			}
		case c == '\\':
			inWord = true
			if i+1 >= len(line) {
				return nil, fmt.Errorf("trailing backslash in %q", line)
			}
			cur.WriteByte(line[i+1])
			i += 2
		default:
			inWord = true
			cur.WriteByte(c)
			i++
		}
	}
	if inWord {
		words = append(words, cur.String())
	}
	return words, nil
}

// ParseAssignments decodes the shell-evaluable parameter form: one
// `key=value` assignment per line, with the value shell-quoted. The
// resulting mapping is the same one the JSON form encodes.
func ParseAssignments(script string) (map[string]string, error) {
	params := make(map[string]string)
	for _, line := range strings.Split(script, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			return nil, fmt.Errorf("malformed parameter assignment %q", line)
		}
		key := line[:eq]
		words, err := SplitWords(line[eq+1:])
		if err != nil {
			return nil, err
		}
		value := ""
		if len(words) > 0 {
			value = strings.Join(words, " ")
		}
		params[key] = value
	}
	return params, nil
}

// KeyValueRecord decodes one flattened key/value input-file record into a
// lenient string map: unknown keys are kept, a trailing odd token is
// dropped.
func KeyValueRecord(line string) (map[string]string, error) {
	words, err := SplitWords(line)
	if err != nil {
		return nil, err
	}
	record := make(map[string]string, len(words)/2)
	for i := 0; i+1 < len(words); i += 2 {
		record[words[i]] = words[i+1]
	}
	return record, nil
}
