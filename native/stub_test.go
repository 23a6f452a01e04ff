//go:build !cgo || windows

package native

import (
	"errors"
	"testing"

	wserrors "github.com/wippyai/wstring/errors"
)

func TestNew_Unsupported(t *testing.T) {
	r, err := New()
	if r != nil {
		t.Fatal("stub returned a runtime")
	}
	if !errors.Is(err, &wserrors.Error{Phase: wserrors.PhaseLoad, Kind: wserrors.KindUnsupported}) {
		t.Fatalf("expected unsupported, got %v", err)
	}
}
