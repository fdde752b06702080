package transform

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ResponsiveRule is a transform chain applied on top of the base chain when
// the client device matches the rule key.
type ResponsiveRule struct {
	Key   string
	Chain Chain
}

// Device holds client screen dimensions reported by the device detection
// token. The zero Device is unknown and matches no rule.
type Device struct {
	Width  int
	Height int
}

func (d Device) Known() bool {
	return d.Width > 0 || d.Height > 0
}

// ParseDevice reads a device detection token. Accepted forms are "WxH",
// "W,H" and "width=W,height=H". Anything else yields the zero Device.
func ParseDevice(token string) Device {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return Device{}
	}

	sep := ","
	if strings.Contains(token, "x") && !strings.Contains(token, "=") {
		sep = "x"
	}

	parts := strings.Split(token, sep)
	if len(parts) != 2 {
		return Device{}
	}

	width, errW := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(parts[0]), "width="))
	height, errH := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(parts[1]), "height="))
	if errW != nil || errH != nil || width < 0 || height < 0 {
		return Device{}
	}

	return Device{Width: width, Height: height}
}

// Breakpoints maps breakpoint names to condition expressions,
// e.g. "small" -> "max-width=480".
type Breakpoints map[string]string

// ParseBreakpoints reads "name=expr;name=expr" where expr is a list of
// conditions joined with "+".
func ParseBreakpoints(raw string) (Breakpoints, error) {
	breakpoints := Breakpoints{}
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		name, expr, found := strings.Cut(entry, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("%w: %q", ErrMalformedBreakpoint, entry)
		}

		if _, err := parseConditions(expr); err != nil {
			return nil, err
		}

		breakpoints[strings.TrimSpace(name)] = strings.TrimSpace(expr)
	}

	return breakpoints, nil
}

// Matches reports whether the device satisfies the rule identified by key.
// The key is either a breakpoint name or an inline condition expression.
func (b Breakpoints) Matches(key string, device Device) (bool, error) {
	expr, named := b[key]
	if !named {
		expr = key
	}

	conditions, err := parseConditions(expr)
	if err != nil {
		if !named {
			return false, fmt.Errorf("%w: %q", ErrUnknownBreakpoint, key)
		}
		return false, err
	}

	if !device.Known() {
		return false, nil
	}

	for _, cond := range conditions {
		if !cond.matches(device) {
			return false, nil
		}
	}

	return true, nil
}

// ParseResponsive splits a responsive transform value of the form
// "<base chain>;<key>:<chain>;<key>:<chain>" into the base chain and rules.
// The base chain may be empty.
func ParseResponsive(value string) (Chain, []ResponsiveRule, error) {
	segments := strings.Split(value, ";")

	var base Chain
	if strings.TrimSpace(segments[0]) != "" {
		var err error
		if base, err = ParseChain(segments[0]); err != nil {
			return nil, nil, err
		}
	}

	rules := make([]ResponsiveRule, 0, len(segments)-1)
	for _, segment := range segments[1:] {
		key, rawChain, found := strings.Cut(segment, ":")
		if !found || strings.TrimSpace(key) == "" {
			return nil, nil, fmt.Errorf("%w: responsive rule %q", ErrMalformedChain, segment)
		}

		chain, err := ParseChain(rawChain)
		if err != nil {
			return nil, nil, err
		}

		rules = append(rules, ResponsiveRule{Key: strings.TrimSpace(key), Chain: chain})
	}

	return base, rules, nil
}

// ResolveResponsive computes the effective chain for a device: the base
// chain followed by the chains of every matching rule, in rule order.
func ResolveResponsive(device Device, value string, breakpoints Breakpoints) (Chain, error) {
	base, rules, err := ParseResponsive(value)
	if err != nil {
		return nil, err
	}

	effective := append(Chain{}, base...)
	for _, rule := range rules {
		matches, err := breakpoints.Matches(rule.Key, device)
		if err != nil {
			return nil, err
		}

		if matches {
			effective = append(effective, rule.Chain...)
		}
	}

	return effective, nil
}

type condition struct {
	dimension string
	min       bool
	value     int
}

func (c condition) matches(device Device) bool {
	actual := device.Width
	if c.dimension == "height" {
		actual = device.Height
	}

	if c.min {
		return actual >= c.value
	}

	return actual <= c.value
}

func parseConditions(expr string) ([]condition, error) {
	fields := strings.FieldsFunc(expr, func(r rune) bool { return r == '+' || r == ',' })
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrMalformedBreakpoint, expr)
	}

	conditions := make([]condition, 0, len(fields))
	for _, field := range fields {
		name, rawValue, found := strings.Cut(strings.TrimSpace(field), "=")
		if !found {
			return nil, fmt.Errorf("%w: %q", ErrMalformedBreakpoint, field)
		}

		value, err := strconv.Atoi(rawValue)
		if err != nil || value < 0 {
			return nil, fmt.Errorf("%w: %q", ErrMalformedBreakpoint, field)
		}

		var cond condition
		switch name {
		case "min-width":
			cond = condition{"width", true, value}
		case "max-width":
			cond = condition{"width", false, value}
		case "min-height":
			cond = condition{"height", true, value}
		case "max-height":
			cond = condition{"height", false, value}
		default:
			return nil, fmt.Errorf("%w: %q", ErrMalformedBreakpoint, field)
		}

		conditions = append(conditions, cond)
	}

	return conditions, nil
}

var (
	ErrMalformedBreakpoint = errors.New("malformed breakpoint")
	ErrUnknownBreakpoint   = errors.New("unknown breakpoint")
)
