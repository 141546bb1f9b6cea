package mux

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorClassification(t *testing.T) {
	cause := errors.New("broken pipe")

	lost := Lost("list-panes", cause)
	if !IsLost(lost) {
		t.Fatalf("expected lost classification")
	}
	if IsRefused(lost) {
		t.Fatalf("lost must not read as refused")
	}
	if !errors.Is(lost, cause) {
		t.Fatalf("expected cause in chain")
	}

	refused := Refused("dial", cause)
	if !IsRefused(refused) || IsLost(refused) {
		t.Fatalf("unexpected classification for refused")
	}

	generic := Generic("kill-pane", cause)
	if IsLost(generic) || IsRefused(generic) {
		t.Fatalf("generic must carry no connection tag")
	}
}

func TestErrorClassificationSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("refresh topology: %w", Lost("list-panes", errors.New("eof")))
	if !IsLost(err) {
		t.Fatalf("expected classification through fmt.Errorf wrapping")
	}
}

func TestErrorMessageIncludesOp(t *testing.T) {
	err := Lost("list-panes", errors.New("eof"))
	if got := err.Error(); got != "mux list-panes: eof" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestSentinelsSurviveClassification(t *testing.T) {
	err := Generic("kill-pane", ErrForceRequired)
	if !errors.Is(err, ErrForceRequired) {
		t.Fatalf("expected ErrForceRequired in chain")
	}
	err = Generic("has-session", fmt.Errorf("lookup %q: %w", "%1", ErrSessionNotFound))
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound in chain")
	}
}

func TestErrorKindStrings(t *testing.T) {
	cases := map[ErrorKind]string{
		KindGeneric: "generic",
		KindRefused: "refused",
		KindLost:    "lost",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Fatalf("String(%d) = %q, want %q", kind, got, want)
		}
	}
}

func TestNilChecksOnPlainErrors(t *testing.T) {
	if IsLost(nil) || IsRefused(nil) {
		t.Fatalf("nil carries no classification")
	}
	plain := errors.New("plain")
	if IsLost(plain) || IsRefused(plain) {
		t.Fatalf("untagged errors carry no classification")
	}
}
