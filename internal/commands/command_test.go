package commands

import (
	"errors"
	"testing"
	"time"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/add pay rent tomorrow", TypeAdd},
		{"done pay rent", TypeDone},
		{"delete pay rent", TypeDelete},
		{"birthday Alice 1990-03-15", TypeBirthday},
		{"greet Alice", TypeGreet},
		{"clear archive", TypeClear},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseAddWithReminderToken(t *testing.T) {
	cmd, err := Parse("/add call dentist at:2026-09-15T14:30")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Add.Title != "call dentist" {
		t.Fatalf("title = %q", cmd.Add.Title)
	}
	if cmd.Add.ReminderAt == nil {
		t.Fatal("expected a reminder time")
	}
	want := time.Date(2026, 9, 15, 14, 30, 0, 0, time.Local)
	if !cmd.Add.ReminderAt.Equal(want) {
		t.Fatalf("reminder = %v, want %v", cmd.Add.ReminderAt, want)
	}
}

func TestParseBirthdayArgs(t *testing.T) {
	cmd, err := Parse("birthday Jan van Dam 1975-12-01 phone:+3161234")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if cmd.Birthday.Name != "Jan van Dam" {
		t.Fatalf("name = %q", cmd.Birthday.Name)
	}
	want := time.Date(1975, 12, 1, 0, 0, 0, 0, time.Local)
	if !cmd.Birthday.BirthDate.Equal(want) {
		t.Fatalf("birth date = %v, want %v", cmd.Birthday.BirthDate, want)
	}
	if cmd.Birthday.Phone != "+3161234" {
		t.Fatalf("phone = %q", cmd.Birthday.Phone)
	}
}

func TestParseInvalidArguments(t *testing.T) {
	cases := []string{
		"/add",
		"add at:2026-99-99T00:00",
		"done",
		"birthday Alice",
		"birthday 1990-03-15",
		"clear everything",
	}
	for _, in := range cases {
		_, err := Parse(in)
		var ce *CommandError
		if !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
			t.Fatalf("parse %q: expected invalid argument error, got %v", in, err)
		}
	}
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse("/unknown do x")
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/add write docs")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Add: func(a AddArgs) (Result, error) {
			called = true
			if a.Title != "write docs" {
				t.Fatalf("unexpected title: %q", a.Title)
			}
			return Result{Message: "ok"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "ok" {
		t.Fatalf("dispatch failed, called=%v res=%+v", called, res)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("greet Alice")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected missing handler error, got %v", err)
	}
}
