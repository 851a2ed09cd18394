package rterr

import "testing"

func TestErrorMessageSubstitution(t *testing.T) {
	e := New(CodeArgType, "expected %1, got %2", "integer!", "word!").WithNear("near: foo")
	msg := e.Error()
	if msg == "" {
		t.Fatal("empty message")
	}
	if want := "type error: expected integer!, got word! (near: near: foo) [arg-type]"; msg != want {
		t.Fatalf("message = %q, want %q", msg, want)
	}
	if CategoryOf(CodeArgType) != CategoryType {
		t.Fatalf("category = %v, want type", CategoryOf(CodeArgType))
	}
}

func TestCatchRecoversRaisedError(t *testing.T) {
	var stack Stack
	trap := stack.Push(Mark{}, false)
	defer stack.Pop(trap)

	got := Catch(false, func() {
		Raise(New(CodeOutOfRange, "value out of range"))
	})
	if got == nil {
		t.Fatal("expected a caught error")
	}
	if got.Code != CodeOutOfRange {
		t.Fatalf("code = %v, want CodeOutOfRange", got.Code)
	}
}

func TestCatchLetsHaltEscapeOrdinaryTrap(t *testing.T) {
	func() {
		defer func() {
			r := recover()
			if r == nil {
				t.Fatal("expected HALT to re-panic through an ordinary trap")
			}
		}()
		_ = Catch(false, func() {
			Raise(Halt)
		})
	}()
}

func TestCatchStopsHaltAtUnhaltableTrap(t *testing.T) {
	got := Catch(true, func() {
		Raise(Halt)
	})
	if got == nil || !IsHalt(got) {
		t.Fatal("expected HALT to be caught by an unhaltable trap")
	}
}

func TestPopOutOfOrderPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-order pop")
		}
	}()
	var stack Stack
	a := stack.Push(Mark{}, false)
	_ = stack.Push(Mark{}, false)
	stack.Pop(a)
}
