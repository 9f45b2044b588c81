package shell

import (
	"fmt"
	"strconv"
)

// Kind classifies a Token.
type Kind int

const (
	TokenNone Kind = iota
	TokenWord
	TokenSequence
	TokenConjunction
	TokenDisjunction
	TokenPipe
	TokenInputRedirection
	TokenOutputRedirection
	TokenAppendRedirection
	TokenOpenScope
	TokenCloseScope
)

var kindText = map[Kind]string{
	TokenNone:              "none",
	TokenWord:              "word",
	TokenSequence:          ";",
	TokenConjunction:       "&&",
	TokenDisjunction:       "||",
	TokenPipe:              "|",
	TokenInputRedirection:  "<",
	TokenOutputRedirection: ">",
	TokenAppendRedirection: ">>",
	TokenOpenScope:         "(",
	TokenCloseScope:        ")",
}

// String returns the operator text of k.
func (k Kind) String() string {
	if s, ok := kindText[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Token is one lexical unit of a command line. Text is only set for words
// and holds the word with quotes and escapes already resolved.
type Token struct {
	Kind Kind
	Text string
}

// Word creates a word token.
func Word(text string) Token {
	return Token{Kind: TokenWord, Text: text}
}

// Op creates an operator token.
func Op(kind Kind) Token {
	return Token{Kind: kind}
}

func (t Token) String() string {
	if t.Kind == TokenWord {
		return strconv.Quote(t.Text)
	}
	return t.Kind.String()
}
