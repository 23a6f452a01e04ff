package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wippyai/wstring"
	"github.com/wippyai/wstring/config"
)

const maxShownUnits = 16

// report is a snapshot of one foreign string.
type report struct {
	text     string
	length   int
	capacity uint
	hasCap   bool
	ptr      wstring.Ptr
	data     wstring.Ptr
	units    string
	hash     uint64
	invalid  error
}

type line struct {
	label string
	value string
}

func inspect(env *config.Env, s *wstring.String) report {
	r := report{
		text:   s.Text(),
		length: s.Len(),
		ptr:    s.Ptr(),
		data:   s.Data(),
		units:  formatUnits(s),
		hash:   s.Hash(),
	}
	r.capacity, r.hasCap = env.Capacity(s.Ptr())
	_, r.invalid = s.TextStrict()
	return r
}

func formatUnits(s *wstring.String) string {
	units := s.Units()
	parts := make([]string, 0, min(len(units), maxShownUnits)+1)
	for i, u := range units {
		if i == maxShownUnits {
			parts = append(parts, fmt.Sprintf("… (+%d)", len(units)-maxShownUnits))
			break
		}
		parts = append(parts, fmt.Sprintf("%04X", u))
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func (r report) lines() []line {
	capacity := "n/a"
	if r.hasCap {
		capacity = strconv.FormatUint(uint64(r.capacity), 10)
	}
	valid := "yes"
	if r.invalid != nil {
		valid = r.invalid.Error()
	}
	return []line{
		{"text", strconv.Quote(r.text)},
		{"length", strconv.Itoa(r.length)},
		{"capacity", capacity},
		{"object", fmt.Sprintf("%#x", uintptr(r.ptr))},
		{"data", fmt.Sprintf("%#x", uintptr(r.data))},
		{"units", r.units},
		{"hash", fmt.Sprintf("%016x", r.hash)},
		{"valid", valid},
	}
}
