package main

import (
	"context"
	"errors"
	"testing"

	"screen-annotator/src/host"
	"screen-annotator/src/singleinstance"
)

func TestNormalizeLegacyArgs(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		out  []string
	}{
		{
			name: "Normalizes long single dash flags",
			in:   []string{"screen-annotator", "-tool", "arrow", "-shortcuts-path", "/tmp/s.json"},
			out:  []string{"screen-annotator", "--tool", "arrow", "--shortcuts-path", "/tmp/s.json"},
		},
		{
			name: "Normalizes equals form",
			in:   []string{"screen-annotator", "-send=undo", "-verbose=true"},
			out:  []string{"screen-annotator", "--send=undo", "--verbose=true"},
		},
		{
			name: "Leaves other flags unchanged",
			in:   []string{"screen-annotator", "--tool", "pen", "-v", "-toolbox"},
			out:  []string{"screen-annotator", "--tool", "pen", "-v", "-toolbox"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeLegacyArgs(tt.in)
			if len(got) != len(tt.out) {
				t.Fatalf("Expected len=%d, got %d", len(tt.out), len(got))
			}
			for i := range got {
				if got[i] != tt.out[i] {
					t.Fatalf("Expected arg[%d]=%q, got %q", i, tt.out[i], got[i])
				}
			}
		})
	}
}

func TestNewRootCmdParsesFlags(t *testing.T) {
	opts := &mainOptions{}
	cmd := newRootCmd(opts)
	if err := cmd.ParseFlags([]string{"--tool", "arrow", "--shortcuts-path", "/tmp/s.json", "--send", "set-tool pen", "-v"}); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	if opts.tool != "arrow" || opts.shortcutsPath != "/tmp/s.json" {
		t.Fatalf("unexpected options %+v", opts)
	}
	if opts.send != "set-tool pen" || !opts.verbose {
		t.Fatalf("unexpected options %+v", opts)
	}
}

type fakeClient struct {
	err  error
	sent []string
}

func (f *fakeClient) Send(ctx context.Context, line string) error {
	f.sent = append(f.sent, line)
	return f.err
}

func TestHandleSend(t *testing.T) {
	client := &fakeClient{}
	if err := handleSend(context.Background(), "  SET-TOOL   Arrow ", client); err != nil {
		t.Fatalf("handleSend failed: %v", err)
	}
	if len(client.sent) != 1 || client.sent[0] != "set-tool arrow" {
		t.Fatalf("Expected canonical line, got %v", client.sent)
	}
}

func TestHandleSendSizeAndColor(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"set-stroke-size 12", "set-stroke-size 12"},
		{"SET-SPOTLIGHT-SIZE 300", "set-spotlight-size 300"},
		{"set-color Blue", "set-color #0000FF"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			client := &fakeClient{}
			if err := handleSend(context.Background(), tt.line, client); err != nil {
				t.Fatalf("handleSend failed: %v", err)
			}
			if len(client.sent) != 1 || client.sent[0] != tt.want {
				t.Fatalf("Expected %q, got %v", tt.want, client.sent)
			}
		})
	}
}

func TestHandleSendRejectsUnknownCommand(t *testing.T) {
	client := &fakeClient{}
	err := handleSend(context.Background(), "paint everything", client)
	if !errors.Is(err, host.ErrUnknownCommand) {
		t.Fatalf("Expected ErrUnknownCommand, got %v", err)
	}
	if len(client.sent) != 0 {
		t.Fatal("Did not expect anything to be sent")
	}
}

func TestHandleSendNoResident(t *testing.T) {
	client := &fakeClient{err: singleinstance.ErrNoResident}
	err := handleSend(context.Background(), "undo", client)
	if !errors.Is(err, singleinstance.ErrNoResident) {
		t.Fatalf("Expected ErrNoResident, got %v", err)
	}
}
