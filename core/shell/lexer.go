package shell

import (
	"errors"
	"strings"
	"unicode"

	"github.com/anmitsu/go-shlex"
)

// IncompleteError is returned by Tokenize when the line ends inside a quote or
// directly after an escape, the caller may read another line and retry.
type IncompleteError struct {
	InQuote  bool
	InEscape bool
}

func (e *IncompleteError) Error() string {
	if e.InEscape {
		return "unexpected end of input after escape"
	}
	return "unterminated quoted string"
}

// Tokenize splits line into words and operators. Unquoted operator characters
// end the current word, a '#' at the start of a word begins a comment that
// runs to the end of the line.
func Tokenize(line string) ([]Token, error) {
	var (
		tokens  []Token
		segment strings.Builder
		quote   rune
		escaped bool
	)

	flush := func() error {
		if segment.Len() == 0 {
			return nil
		}
		words, err := shlex.Split(segment.String(), true)
		segment.Reset()
		switch {
		case errors.Is(err, shlex.ErrNoClosing):
			return &IncompleteError{InQuote: true}
		case errors.Is(err, shlex.ErrNoEscaped):
			return &IncompleteError{InEscape: true}
		case err != nil:
			return err
		}
		for _, w := range words {
			tokens = append(tokens, Word(w))
		}
		return nil
	}

	runes := []rune(line)
	wordStart := true
scanning:
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch {
		case escaped:
			escaped = false
			segment.WriteRune(r)
			continue
		case r == '\\' && quote != '\'':
			escaped = true
			wordStart = false
			segment.WriteRune(r)
			continue
		case quote != 0:
			if r == quote {
				quote = 0
			}
			segment.WriteRune(r)
			continue
		case r == '\'' || r == '"':
			quote = r
			wordStart = false
			segment.WriteRune(r)
			continue
		case r == '#' && wordStart:
			break scanning
		}

		kind, width := operatorAt(runes, i)
		if kind == TokenNone {
			if r == '&' {
				return nil, &SyntaxError{Msg: "background execution is not supported"}
			}
			wordStart = unicode.IsSpace(r)
			segment.WriteRune(r)
			continue
		}

		if err := flush(); err != nil {
			return nil, err
		}
		tokens = append(tokens, Op(kind))
		wordStart = true
		i += width - 1
	}

	switch {
	case quote != 0:
		return nil, &IncompleteError{InQuote: true}
	case escaped:
		return nil, &IncompleteError{InEscape: true}
	}

	if err := flush(); err != nil {
		return nil, err
	}
	return tokens, nil
}

// operatorAt reports the operator starting at runes[i] and its width in
// runes, TokenNone if there isn't one.
func operatorAt(runes []rune, i int) (Kind, int) {
	next := rune(0)
	if i+1 < len(runes) {
		next = runes[i+1]
	}

	switch runes[i] {
	case ';':
		return TokenSequence, 1
	case '&':
		if next == '&' {
			return TokenConjunction, 2
		}
	case '|':
		if next == '|' {
			return TokenDisjunction, 2
		}
		return TokenPipe, 1
	case '<':
		return TokenInputRedirection, 1
	case '>':
		if next == '>' {
			return TokenAppendRedirection, 2
		}
		return TokenOutputRedirection, 1
	case '(':
		return TokenOpenScope, 1
	case ')':
		return TokenCloseScope, 1
	}
	return TokenNone, 0
}
