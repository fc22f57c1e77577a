package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"screen-annotator/src/drawing"
	"screen-annotator/src/host"
	"screen-annotator/src/singleinstance"
)

type fakeSender struct {
	err  error
	sent []string
}

func (f *fakeSender) Send(ctx context.Context, line string) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("expected a deadline")
	}
	f.sent = append(f.sent, line)
	return f.err
}

func TestRunSendsCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"No argument", []string{"annotatorctl", "undo"}, "undo"},
		{"Tool argument", []string{"annotatorctl", "set-tool", "Arrow"}, "set-tool arrow"},
		{"Drawing mode", []string{"annotatorctl", "drawing-mode-changed", "false"}, "drawing-mode-changed false"},
		{"Stroke size", []string{"annotatorctl", "set-stroke-size", "8"}, "set-stroke-size 8"},
		{"Spotlight size", []string{"annotatorctl", "set-spotlight-size", "250.5"}, "set-spotlight-size 250.5"},
		{"Color preset", []string{"annotatorctl", "set-color", "Green"}, "set-color " + mustColor(t, "green")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeSender{}
			var out bytes.Buffer
			if err := runWithArgs(tt.args, client, &out); err != nil {
				t.Fatalf("run failed: %v", err)
			}
			if len(client.sent) != 1 || client.sent[0] != tt.want {
				t.Fatalf("Expected %q, got %v", tt.want, client.sent)
			}
			if strings.TrimSpace(out.String()) != "OK" {
				t.Errorf("unexpected output %q", out.String())
			}
		})
	}
}

func mustColor(t *testing.T, token string) string {
	t.Helper()
	hex, ok := drawing.ResolveColor(token)
	if !ok {
		t.Fatalf("unknown color %q", token)
	}
	return hex
}

func TestRunRejectsBadCommands(t *testing.T) {
	tests := [][]string{
		{"annotatorctl"},
		{"annotatorctl", "paint"},
		{"annotatorctl", "set-tool", "brush"},
		{"annotatorctl", "undo", "now"},
		{"annotatorctl", "set-stroke-size", "0"},
		{"annotatorctl", "set-color", "#12"},
	}
	for _, args := range tests {
		client := &fakeSender{}
		if err := runWithArgs(args, client, &bytes.Buffer{}); err == nil {
			t.Errorf("%v: expected an error", args)
		}
		if len(client.sent) != 0 {
			t.Errorf("%v: nothing should be sent", args)
		}
	}
}

func TestJSONOutput(t *testing.T) {
	client := &fakeSender{err: singleinstance.ErrNoResident}
	var out bytes.Buffer
	err := runWithArgs([]string{"annotatorctl", "--json", "clear-canvas"}, client, &out)
	if !errors.Is(err, singleinstance.ErrNoResident) {
		t.Fatalf("Expected ErrNoResident, got %v", err)
	}
	var result CommandResult
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
	if result.Command != string(host.ClearCanvas) || result.Status != "error" || result.Error == "" {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestNormalizeLegacyArgs(t *testing.T) {
	got := normalizeLegacyArgs([]string{"annotatorctl", "-json", "-timeout=1s", "-v", "undo"})
	want := []string{"annotatorctl", "--json", "--timeout=1s", "-v", "undo"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("arg[%d]: got %q, want %q", i, got[i], want[i])
		}
	}
}
