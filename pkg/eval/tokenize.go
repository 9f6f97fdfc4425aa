package eval

import (
	"strings"
	"unicode"
)

// Tokenize splits a command into its name and arguments. Words are separated
// by whitespace; text between a pair of single or double quotes belongs to
// one word, and the quotes are removed. An unclosed quote extends to the end
// of the line.
func Tokenize(line string) (string, []string) {
	words := splitWords(line)
	if len(words) == 0 {
		return "", nil
	}
	return words[0], words[1:]
}

func splitWords(line string) []string {
	var (
		words []string
		sb    strings.Builder
		quote rune
		// Whether the current word has started; a pair of empty quotes starts a
		// word.
		inWord bool
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				sb.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inWord = true
		case unicode.IsSpace(r):
			if inWord {
				words = append(words, sb.String())
				sb.Reset()
				inWord = false
			}
		default:
			sb.WriteRune(r)
			inWord = true
		}
	}
	if inWord {
		words = append(words, sb.String())
	}
	return words
}

// joinOperand treats all arguments as a single file name, so that names with
// spaces work with or without quotes.
func joinOperand(args []string) string {
	return strings.Join(args, " ")
}

// Unquote strips one pair of surrounding quotes, or a single unclosed leading
// quote.
func Unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	if len(s) >= 1 && (s[0] == '"' || s[0] == '\'') {
		return s[1:]
	}
	return s
}
