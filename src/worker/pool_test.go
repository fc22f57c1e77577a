package worker

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSubmitRunsJobAndReports(t *testing.T) {
	p := New(1)
	defer p.Close()

	done := make(chan error, 1)
	boom := errors.New("boom")
	ok := p.Submit(context.Background(), "save", func(context.Context) error { return boom }, func(name string, err error) {
		if name != "save" {
			t.Errorf("Expected name save, got %q", name)
		}
		done <- err
	})
	if !ok {
		t.Fatal("Expected job to be accepted")
	}
	select {
	case err := <-done:
		if !errors.Is(err, boom) {
			t.Errorf("Expected boom, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("job did not finish")
	}
}

func TestSubmitAppliesBackPressure(t *testing.T) {
	p := New(1)
	defer p.Close()

	release := make(chan struct{})
	block := func(context.Context) error { <-release; return nil }
	accepted := 0
	for i := 0; i < queueSlots+5; i++ {
		if p.Submit(context.Background(), "block", block, nil) {
			accepted++
		}
	}
	close(release)
	if accepted > queueSlots+1 {
		t.Errorf("Expected at most %d accepted jobs, got %d", queueSlots+1, accepted)
	}
}

func TestDeadlineCutsJobShort(t *testing.T) {
	p := New(1)
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	done := make(chan error, 1)
	p.Submit(ctx, "slow", func(context.Context) error {
		time.Sleep(time.Second)
		return nil
	}, func(_ string, err error) { done <- err })

	select {
	case err := <-done:
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Expected deadline exceeded, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("deadline not honoured")
	}
}

func TestSubmitAfterClose(t *testing.T) {
	p := New(1)
	p.Close()
	if p.Submit(context.Background(), "late", func(context.Context) error { return nil }, nil) {
		t.Error("Expected submit after close to be rejected")
	}
	p.Close()
}
