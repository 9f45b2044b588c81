// Package shell turns command lines into command trees and runs them.
//
// Grammar follows the POSIX shell command language for lists, pipelines,
// redirections and grouping:
// https://pubs.opengroup.org/onlinepubs/9699919799/utilities/V3_chap02.html
package shell

import (
	"fmt"

	"github.com/josephlewis42/rshell/commands"
	"github.com/josephlewis42/rshell/core/vos"
)

// SyntaxError is returned when a command line is malformed.
type SyntaxError struct {
	Msg string
}

func (e *SyntaxError) Error() string {
	return "syntax error: " + e.Msg
}

func syntaxErrorf(format string, args ...interface{}) error {
	return &SyntaxError{Msg: fmt.Sprintf(format, args...)}
}

// slot is a position in the tree that holds at most one command. Slots look
// up their parent's field on every call, so they stay valid when the parent
// grows.
type slot struct {
	get func() Command
	set func(Command)
}

func (s slot) empty() bool {
	return s.get() == nil
}

func sequenceSlot(seq *Sequential, idx int) slot {
	return slot{
		get: func() Command { return seq.Commands[idx] },
		set: func(c Command) { seq.Commands[idx] = c },
	}
}

// scopeFrame is an open sequence: a parenthesized group, or the top level
// once it has been promoted to a Sequential.
type scopeFrame struct {
	seq       *Sequential
	restore   slot
	synthetic bool
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithBuiltins replaces the table used to recognize builtin commands.
func WithBuiltins(resolver vos.ProcessResolver) ParserOption {
	return func(p *Parser) {
		p.builtins = resolver
	}
}

// Parser builds a command tree from tokens, one token at a time, without
// lookahead.
type Parser struct {
	tokens   []Token
	builtins vos.ProcessResolver

	root     Command
	current  slot
	scopes   []scopeFrame
	promoted bool
}

// NewParser creates a parser over tokens.
func NewParser(tokens []Token, opts ...ParserOption) *Parser {
	p := &Parser{
		tokens:   tokens,
		builtins: commands.LookupBuiltin,
	}
	p.current = p.rootSlot()

	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse is shorthand for NewParser(tokens).Apply().
func Parse(tokens []Token, opts ...ParserOption) (Command, error) {
	return NewParser(tokens, opts...).Apply()
}

// ParseLine tokenizes and parses line.
func ParseLine(line string, opts ...ParserOption) (Command, error) {
	tokens, err := Tokenize(line)
	if err != nil {
		return nil, err
	}
	return Parse(tokens, opts...)
}

func (p *Parser) rootSlot() slot {
	return slot{
		get: func() Command { return p.root },
		set: func(c Command) { p.root = c },
	}
}

// Apply consumes the tokens and returns the finished tree. A line with no
// tokens produces a nil command and no error.
func (p *Parser) Apply() (Command, error) {
	for _, tok := range p.tokens {
		if err := p.accept(tok); err != nil {
			return nil, err
		}
	}

	for _, frame := range p.scopes {
		if !frame.synthetic {
			return nil, syntaxErrorf("unbalanced opening parenthesis")
		}
	}

	if p.root == nil && !p.promoted {
		return nil, nil
	}

	root, err := p.finish(p.root)
	if err != nil {
		return nil, err
	}
	return root, nil
}

func (p *Parser) accept(tok Token) error {
	switch tok.Kind {
	case TokenWord:
		return p.word(tok.Text)
	case TokenSequence:
		p.sequence()
		return nil
	case TokenConjunction:
		return p.connective("conjunction", func(primary Command) (Command, slot) {
			n := &Conjunctive{Primary: primary}
			return n, slot{
				get: func() Command { return n.Secondary },
				set: func(c Command) { n.Secondary = c },
			}
		})
	case TokenDisjunction:
		return p.connective("disjunction", func(primary Command) (Command, slot) {
			n := &Disjunctive{Primary: primary}
			return n, slot{
				get: func() Command { return n.Secondary },
				set: func(c Command) { n.Secondary = c },
			}
		})
	case TokenPipe:
		return p.connective("pipe", func(primary Command) (Command, slot) {
			n := &Pipe{Primary: primary}
			return n, slot{
				get: func() Command { return n.Secondary },
				set: func(c Command) { n.Secondary = c },
			}
		})
	case TokenInputRedirection:
		return p.redirection("input", func(primary Command) Command {
			return &InputRedirection{Primary: primary}
		})
	case TokenOutputRedirection:
		return p.redirection("output", func(primary Command) Command {
			return &OutputRedirection{Primary: primary}
		})
	case TokenAppendRedirection:
		return p.redirection("append", func(primary Command) Command {
			return &AppendRedirection{Primary: primary}
		})
	case TokenOpenScope:
		return p.openScope()
	case TokenCloseScope:
		return p.closeScope()
	case TokenNone:
		return nil
	default:
		return syntaxErrorf("unexpected token %s", tok.Kind)
	}
}

func (p *Parser) word(text string) error {
	if p.current.empty() {
		p.current.set(p.classify(text))
	}

	switch n := p.current.get().(type) {
	case *Executable:
		if n.Program == "" {
			n.Program = text
		} else {
			n.Arguments = append(n.Arguments, text)
		}
	case *Builtin:
		if n.Name == "" {
			n.Name = text
		} else {
			n.Arguments = append(n.Arguments, text)
		}
	case *InputRedirection:
		return setPath(&n.Path, text)
	case *OutputRedirection:
		return setPath(&n.Path, text)
	case *AppendRedirection:
		return setPath(&n.Path, text)
	default:
		return syntaxErrorf("unexpected word encountered")
	}
	return nil
}

// classify starts the node a leading word selects.
func (p *Parser) classify(text string) Command {
	if p.builtins != nil {
		if fn := p.builtins(text); fn != nil {
			return &Builtin{Func: fn}
		}
	}
	return &Executable{}
}

func setPath(path *string, text string) error {
	if *path != "" {
		return syntaxErrorf("too many words after redirection")
	}
	*path = text
	return nil
}

func (p *Parser) sequence() {
	if len(p.scopes) == 0 {
		seq := &Sequential{}
		if p.root != nil {
			seq.Commands = append(seq.Commands, p.root)
		}
		p.root = seq
		p.promoted = true
		p.scopes = append(p.scopes, scopeFrame{
			seq:       seq,
			restore:   p.rootSlot(),
			synthetic: true,
		})
	}

	seq := p.scopes[len(p.scopes)-1].seq
	seq.Commands = append(seq.Commands, nil)
	p.current = sequenceSlot(seq, len(seq.Commands)-1)
}

// connective wraps the current command as the primary of a binary node and
// moves on to its secondary.
func (p *Parser) connective(name string, wrap func(primary Command) (Command, slot)) error {
	if p.current.empty() {
		return syntaxErrorf("%s must follow command", name)
	}

	node, secondary := wrap(p.current.get())
	p.current.set(node)
	p.current = secondary
	return nil
}

// redirection wraps the current command, the next word fills in the path.
func (p *Parser) redirection(name string, wrap func(primary Command) Command) error {
	if p.current.empty() {
		return syntaxErrorf("%s redirection must follow command", name)
	}

	p.current.set(wrap(p.current.get()))
	return nil
}

func (p *Parser) openScope() error {
	if !p.current.empty() {
		return syntaxErrorf("scope must not follow command")
	}

	seq := &Sequential{Commands: []Command{nil}}
	p.scopes = append(p.scopes, scopeFrame{seq: seq, restore: p.current})
	p.current.set(seq)
	p.current = sequenceSlot(seq, 0)
	return nil
}

func (p *Parser) closeScope() error {
	if len(p.scopes) == 0 || p.scopes[len(p.scopes)-1].synthetic {
		return syntaxErrorf("unbalanced closing parenthesis")
	}

	top := p.scopes[len(p.scopes)-1]
	p.scopes = p.scopes[:len(p.scopes)-1]
	p.current = top.restore
	return nil
}

// finish drops empty sequence slots and checks every node is complete.
func (p *Parser) finish(cmd Command) (Command, error) {
	var err error
	switch n := cmd.(type) {
	case *Executable, *Builtin:
		return n, nil

	case *Sequential:
		kept := n.Commands[:0]
		for _, child := range n.Commands {
			if child == nil {
				continue
			}
			if child, err = p.finish(child); err != nil {
				return nil, err
			}
			kept = append(kept, child)
		}
		n.Commands = kept

		if len(n.Commands) == 0 {
			if p.promoted && cmd == p.root {
				return nil, syntaxErrorf("empty command")
			}
			return nil, syntaxErrorf("empty command group")
		}
		return n, nil

	case *Conjunctive:
		return n, p.finishBinary("conjunction", &n.Primary, &n.Secondary)
	case *Disjunctive:
		return n, p.finishBinary("disjunction", &n.Primary, &n.Secondary)
	case *Pipe:
		return n, p.finishBinary("pipe", &n.Primary, &n.Secondary)

	case *InputRedirection:
		return n, p.finishRedirection("input", &n.Primary, n.Path)
	case *OutputRedirection:
		return n, p.finishRedirection("output", &n.Primary, n.Path)
	case *AppendRedirection:
		return n, p.finishRedirection("append", &n.Primary, n.Path)

	default:
		return nil, syntaxErrorf("unknown command %T", cmd)
	}
}

func (p *Parser) finishBinary(name string, primary, secondary *Command) (err error) {
	if *secondary == nil {
		return syntaxErrorf("%s must be followed by command", name)
	}
	if *primary, err = p.finish(*primary); err != nil {
		return err
	}
	*secondary, err = p.finish(*secondary)
	return err
}

func (p *Parser) finishRedirection(name string, primary *Command, path string) (err error) {
	if path == "" {
		return syntaxErrorf("%s redirection requires a path", name)
	}
	*primary, err = p.finish(*primary)
	return err
}
