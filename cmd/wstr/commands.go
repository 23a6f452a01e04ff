package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wippyai/wstring"
	"github.com/wippyai/wstring/width"
)

// apply runs one interactive command against p. reset is handled by the
// caller since it replaces the string.
func apply(p wstring.Pinned, input string) (string, error) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(input), " ")
	switch cmd {
	case "push":
		if err := p.PushText(arg); err != nil {
			return "", err
		}
		return fmt.Sprintf("pushed %d units", len([]rune(arg))), nil

	case "unit":
		v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(arg), "0x"), 16, 32)
		if err != nil {
			return "", fmt.Errorf("unit: %w", err)
		}
		if err := p.PushUnits([]width.Unit{width.Unit(v)}); err != nil {
			return "", err
		}
		return fmt.Sprintf("pushed unit %04X", v), nil

	case "reserve":
		n, err := strconv.ParseUint(arg, 10, 0)
		if err != nil {
			return "", fmt.Errorf("reserve: %w", err)
		}
		if err := p.Reserve(uint(n)); err != nil {
			return "", err
		}
		return fmt.Sprintf("reserved %d more units", n), nil

	case "clear":
		p.Clear()
		return "cleared", nil

	case "eq":
		return fmt.Sprintf("equal to %q: %v", arg, p.Ref().EqualString(arg)), nil

	case "":
		return "", nil

	default:
		return "", fmt.Errorf("unknown command %q", cmd)
	}
}
