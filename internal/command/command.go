// Package command turns one line of interactive input into a Command.
package command

import (
	"errors"
	"os"
	"strings"

	"ChecksumUtility/internal/digest"
)

// ErrInvalidCommand is matched by every parse failure.
var ErrInvalidCommand = errors.New("Invalid Command")

// ParseError carries the internal reason a line was rejected. The message
// shown to the user never includes it.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string        { return ErrInvalidCommand.Error() }
func (e *ParseError) Is(target error) bool { return target == ErrInvalidCommand }

type Verb int

const (
	VerbHash Verb = iota + 1
	VerbVerify
)

func (v Verb) String() string {
	switch v {
	case VerbHash:
		return "hash"
	case VerbVerify:
		return "verify"
	default:
		return "unknown"
	}
}

type Command struct {
	Verb         Verb
	Algorithm    digest.Algorithm
	AlgorithmArg string
	InputPath    string
	IsDirectory  bool
}

// Parse validates line against the grammar
//
//	hash <algorithm> <inputPath>
//	verify <reportPath>
//
// and checks that the path exists.
func Parse(line string) (Command, error) {
	args := Tokenize(line)
	if len(args) == 0 {
		return Command{}, &ParseError{Reason: "empty line"}
	}

	switch strings.ToLower(args[0]) {
	case "hash":
		return parseHash(args)
	case "verify":
		return parseVerify(args)
	default:
		return Command{}, &ParseError{Reason: "unknown keyword " + args[0]}
	}
}

func parseHash(args []string) (Command, error) {
	if len(args) != 3 {
		return Command{}, &ParseError{Reason: "hash takes an algorithm and a path"}
	}

	alg, err := digest.Lookup(args[1])
	if err != nil {
		return Command{}, &ParseError{Reason: err.Error()}
	}

	info, err := os.Stat(args[2])
	if err != nil {
		return Command{}, &ParseError{Reason: err.Error()}
	}

	return Command{
		Verb:         VerbHash,
		Algorithm:    alg,
		AlgorithmArg: args[1],
		InputPath:    args[2],
		IsDirectory:  info.IsDir(),
	}, nil
}

func parseVerify(args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, &ParseError{Reason: "verify takes a report path"}
	}

	info, err := os.Stat(args[1])
	if err != nil {
		return Command{}, &ParseError{Reason: err.Error()}
	}
	if !info.Mode().IsRegular() {
		return Command{}, &ParseError{Reason: "report is not a regular file"}
	}

	return Command{Verb: VerbVerify, InputPath: args[1]}, nil
}

// Tokenize splits line on double quotes. Text outside quotes is split on
// whitespace, text inside quotes is kept as a single trimmed token. Empty
// tokens are dropped.
func Tokenize(line string) []string {
	var args []string
	for i, seg := range strings.Split(line, `"`) {
		if i%2 != 0 {
			if tok := strings.TrimSpace(seg); tok != "" {
				args = append(args, tok)
			}
			continue
		}
		args = append(args, strings.Fields(seg)...)
	}
	return args
}
