package transform

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Operation is a single named image processing step, e.g. resize:300,300.
type Operation struct {
	Name string   `cbor:"1,keyasint"`
	Args []string `cbor:"2,keyasint,omitempty"`
}

// Chain is an ordered list of operations. Operations are applied in order,
// so two chains holding the same operations in a different order are
// different chains.
type Chain []Operation

func NewOperation(name string, args ...string) Operation {
	return Operation{Name: name, Args: args}
}

func (op Operation) String() string {
	if len(op.Args) == 0 {
		return op.Name
	}

	return op.Name + ":" + strings.Join(op.Args, ",")
}

// Arg returns i-th argument or an empty string when it was not given.
func (op Operation) Arg(i int) string {
	if i < 0 || i >= len(op.Args) {
		return ""
	}

	return op.Args[i]
}

func (op Operation) Int(i int) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(op.Arg(i)))
	if err != nil {
		return 0, fmt.Errorf("%w: %s argument %d: %q", ErrMalformedArgument, op.Name, i, op.Arg(i))
	}

	return value, nil
}

func (op Operation) Float(i int) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(op.Arg(i)), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s argument %d: %q", ErrMalformedArgument, op.Name, i, op.Arg(i))
	}

	return value, nil
}

// String returns the canonical text form, operations joined with "|".
func (c Chain) String() string {
	parts := make([]string, len(c))
	for i, op := range c {
		parts[i] = op.String()
	}

	return strings.Join(parts, "|")
}

func (c Chain) Equal(other Chain) bool {
	if len(c) != len(other) {
		return false
	}

	for i := range c {
		if c[i].Name != other[i].Name || len(c[i].Args) != len(other[i].Args) {
			return false
		}

		for j := range c[i].Args {
			if c[i].Args[j] != other[i].Args[j] {
				return false
			}
		}
	}

	return true
}

// ParseChain parses the text form of a chain. Operations are separated by
// "|". Inside a segment comma separated tokens are read left to right: a
// token containing ":" starts a new operation, any other token is an
// argument of the current operation. A segment starting with a token without
// ":" begins with an operation that has no arguments.
func ParseChain(raw string) (Chain, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrEmptyChain
	}

	chain := Chain{}
	for _, segment := range strings.Split(raw, "|") {
		ops, err := parseSegment(segment)
		if err != nil {
			return nil, err
		}

		chain = append(chain, ops...)
	}

	return chain, nil
}

func MustParseChain(raw string) Chain {
	chain, err := ParseChain(raw)
	if err != nil {
		panic("transform: " + err.Error())
	}

	return chain
}

func parseSegment(segment string) ([]Operation, error) {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return nil, fmt.Errorf("%w: empty operation", ErrMalformedChain)
	}

	var ops []Operation
	for i, token := range strings.Split(segment, ",") {
		token = strings.TrimSpace(token)

		name, firstArg, hasArgs := strings.Cut(token, ":")
		if hasArgs || i == 0 {
			if name == "" {
				return nil, fmt.Errorf("%w: missing operation name in %q", ErrMalformedChain, segment)
			}

			op := Operation{Name: name}
			if hasArgs {
				op.Args = []string{firstArg}
			}

			ops = append(ops, op)
			continue
		}

		current := &ops[len(ops)-1]
		current.Args = append(current.Args, token)
	}

	return ops, nil
}

var (
	ErrEmptyChain        = errors.New("transform chain is empty")
	ErrMalformedChain    = errors.New("malformed transform chain")
	ErrMalformedArgument = errors.New("malformed operation argument")
)
