package handlers

import (
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/slotswap/internal/model"
)

func TestCommandArgs(t *testing.T) {
	cases := map[string]string{
		"/propose 1 2":         "1 2",
		"/propose":             "",
		"  /toggle   7  ":      "7",
		"/newslot A; b; c":     "A; b; c",
		"/propose@slotbot 3 4": "3 4",
	}
	for in, want := range cases {
		if got := commandArgs(in); got != want {
			t.Fatalf("commandArgs(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs("12 #34", 2, "/propose a b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ids[0] != 12 || ids[1] != 34 {
		t.Fatalf("unexpected ids: %v", ids)
	}

	for _, bad := range []string{"", "1", "1 2 3", "1 x", "0 2", "-1 2"} {
		_, err := parseIDs(bad, 2, "/propose a b")
		if !errors.Is(err, errUsage) {
			t.Fatalf("expected usage error for %q, got %v", bad, err)
		}
	}
}

func TestParseNewSlot(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)

	args, err := parseNewSlot("Планёрка; 05.11.2025 08:00; 05.11.2025 09:30", loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if args.Title != "Планёрка" {
		t.Fatalf("unexpected title: %q", args.Title)
	}
	want := time.Date(2025, 11, 5, 5, 0, 0, 0, time.UTC)
	if !args.Start.Equal(want) {
		t.Fatalf("unexpected start: %v", args.Start)
	}
	if args.End.Sub(args.Start) != 90*time.Minute {
		t.Fatalf("unexpected duration: %v", args.End.Sub(args.Start))
	}
}

func TestParseNewSlot_Invalid(t *testing.T) {
	for _, bad := range []string{"", "only title", "A; 05.11.2025; 05.11.2025 09:00", "A; 05.11.2025 08:00; later"} {
		if _, err := parseNewSlot(bad, time.UTC); !errors.Is(err, errUsage) {
			t.Fatalf("expected usage error for %q, got %v", bad, err)
		}
	}
}

func TestErrorMessage_DistinguishesDomainErrors(t *testing.T) {
	seen := map[string]error{}
	for _, err := range []error{
		model.ErrValidation,
		model.ErrNotFound,
		model.ErrForbidden,
		model.ErrSelfSwap,
		model.ErrSlotNotSwappable,
		model.ErrSlotLocked,
		model.ErrAlreadyResolved,
		model.ErrConflict,
	} {
		msg := ErrorMessage(err)
		if prev, ok := seen[msg]; ok {
			t.Fatalf("%v and %v share message %q", prev, err, msg)
		}
		seen[msg] = err
	}
}
