//go:build cgo && !windows

package native

import (
	"errors"
	"runtime"
	"slices"
	"testing"

	"github.com/wippyai/wstring"
	wserrors "github.com/wippyai/wstring/errors"
	"github.com/wippyai/wstring/width"
)

func newRuntime(t *testing.T, opts ...Option) *Runtime {
	t.Helper()
	r, err := New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestWcharMatchesBuildTarget(t *testing.T) {
	if n := wcharSize(); n != width.UnitSize {
		t.Fatalf("wchar_t is %d bytes", n)
	}
	if wcharSigned() != width.Signed {
		t.Fatalf("wchar_t signed = %v, width.Signed = %v", wcharSigned(), width.Signed)
	}
	if def := width.Resolve(runtime.GOOS, runtime.GOARCH); def.Signed != wcharSigned() {
		t.Fatalf("resolve table disagrees with the C++ compiler: %+v", def)
	}
}

func TestLet_RoundTrip(t *testing.T) {
	tests := []string{"", "abc", "a longer string that leaves any small buffer", "😀\x00z"}
	r := newRuntime(t)
	for _, text := range tests {
		err := wstring.LetString(r, text, func(p wstring.Pinned) error {
			s := p.Ref()
			if s.Text() != text || s.Len() != len([]rune(text)) {
				t.Errorf("got %q (len %d), want %q", s.Text(), s.Len(), text)
			}
			return nil
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	if s := r.Stats(); s.Live != 0 || s.Frames != 0 {
		t.Fatalf("leftover state %+v", s)
	}
}

func TestMutation(t *testing.T) {
	r := newRuntime(t)
	err := wstring.LetString(r, "ab", func(p wstring.Pinned) error {
		if err := p.Reserve(100); err != nil {
			return err
		}
		if c := r.Capacity(p.Ref().Ptr()); c < 102 {
			t.Errorf("capacity %d after Reserve(100)", c)
		}
		data := p.Ref().Data()
		if err := p.PushText("cdef"); err != nil {
			return err
		}
		if p.Ref().Data() != data {
			t.Error("push within reserved capacity moved the buffer")
		}
		if p.Ref().Text() != "abcdef" {
			t.Errorf("Text() = %q", p.Ref().Text())
		}
		p.Clear()
		if !p.Ref().IsEmpty() {
			t.Error("not empty after Clear")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestReserve_TooLarge(t *testing.T) {
	r := newRuntime(t)
	err := wstring.LetString(r, "x", func(p wstring.Pinned) error {
		err := p.Reserve(^uint(0) >> 1)
		if !errors.Is(err, &wserrors.Error{Phase: wserrors.PhaseMutate, Kind: wserrors.KindAllocation}) {
			t.Errorf("expected allocation error, got %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestOwned(t *testing.T) {
	r := newRuntime(t)
	a, err := wstring.CreateString(r, "same")
	if err != nil {
		t.Fatal(err)
	}
	b, err := wstring.CreateString(r, "same")
	if err != nil {
		t.Fatal(err)
	}
	if !a.Ref().Equal(b.Ref()) || a.Ref().Hash() != b.Ref().Hash() {
		t.Error("equal heap strings differ")
	}
	_ = a.Close()
	_ = b.Close()
	_ = b.Close()
	if s := r.Stats(); s.HeapLive != 0 || s.Live != 0 {
		t.Fatalf("leftover state %+v", s)
	}
}

func TestStack_Limits(t *testing.T) {
	r := newRuntime(t, WithMaxFrames(1))
	err := wstring.LetString(r, "outer", func(wstring.Pinned) error {
		return wstring.LetString(r, "inner", func(wstring.Pinned) error { return nil })
	})
	if !errors.Is(err, &wserrors.Error{Phase: wserrors.PhaseAlloc, Kind: wserrors.KindStackOverflow}) {
		t.Fatalf("expected stack overflow, got %v", err)
	}

	r = newRuntime(t)
	c1, _ := r.StackAlloc(r.CellLayout())
	c2, _ := r.StackAlloc(r.CellLayout())
	func() {
		defer func() {
			if _, ok := recover().(*wserrors.Error); !ok {
				t.Fatal("out-of-order free did not panic")
			}
		}()
		r.StackFree(c1)
	}()
	r.StackFree(c2)
	r.StackFree(c1)
}

func TestView_Empty(t *testing.T) {
	r := newRuntime(t)
	if v := r.View(0, 0); v != nil {
		t.Fatalf("View(0, 0) = %v", v)
	}
	units := []width.Unit{'q'}
	p, err := r.New(units)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Delete(p)
	if !slices.Equal(r.View(r.Data(p), r.Length(p)), units) {
		t.Fatal("view does not match")
	}
}

func TestDeleted_Panics(t *testing.T) {
	r := newRuntime(t)
	p, err := r.New([]width.Unit{'g', 'o', 'n', 'e'})
	if err != nil {
		t.Fatal(err)
	}
	r.Delete(p)

	tests := []struct {
		name  string
		phase wserrors.Phase
		fn    func()
	}{
		{"data", wserrors.PhaseRead, func() { r.Data(p) }},
		{"length", wserrors.PhaseRead, func() { r.Length(p) }},
		{"capacity", wserrors.PhaseRead, func() { r.Capacity(p) }},
		{"clear", wserrors.PhaseMutate, func() { r.Clear(p) }},
		{"reserve", wserrors.PhaseMutate, func() { _ = r.ReserveTotal(p, 64) }},
		{"push", wserrors.PhaseMutate, func() { _ = r.Push(p, []width.Unit{'x'}) }},
		{"push empty", wserrors.PhaseMutate, func() { _ = r.Push(p, nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				err, ok := recover().(*wserrors.Error)
				if !ok {
					t.Fatal("use after delete did not panic")
				}
				if err.Kind != wserrors.KindLifecycle || err.Phase != tt.phase {
					t.Fatalf("unexpected panic %v", err)
				}
			}()
			tt.fn()
		})
	}
}
