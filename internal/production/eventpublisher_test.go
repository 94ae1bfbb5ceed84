// Tests for ChannelPublisher delivery and Engine integration.
package production

import (
	"context"
	"testing"
	"time"

	"github.com/comalice/turingx/internal/core"
)

func TestChannelPublisher_Delivery(t *testing.T) {
	ch := make(chan core.StepEvent, 10)
	p := NewChannelPublisher(ch)

	evt := core.StepEvent{MachineID: "abc", RunID: "r1", Entry: core.HistoryEntry{Step: 1, State: "q1"}}
	if err := p.Publish(context.Background(), evt); err != nil {
		t.Errorf("Publish failed: %v", err)
	}

	select {
	case got := <-ch:
		if got.MachineID != "abc" || got.RunID != "r1" || got.Entry.State != "q1" {
			t.Errorf("got %+v, want machine abc run r1 state q1", got)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("No event delivered")
	}
}

func TestChannelPublisher_BackpressureDrop(t *testing.T) {
	ch := make(chan core.StepEvent, 1)
	p := NewChannelPublisher(ch)
	ch <- core.StepEvent{} // Fill buffer

	if err := p.Publish(context.Background(), core.StepEvent{MachineID: "drop"}); err != nil {
		t.Errorf("Publish on full channel failed: %v", err)
	}
	if got := <-ch; got.MachineID == "drop" {
		t.Error("dropped event was delivered")
	}
}

func TestChannelPublisher_CanceledContext(t *testing.T) {
	p := NewChannelPublisher(make(chan core.StepEvent))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// An unbuffered channel with no reader leaves only ctx.Done or default ready.
	err := p.Publish(ctx, core.StepEvent{})
	if err != nil && err != context.Canceled {
		t.Errorf("Publish() error = %v, want nil or context.Canceled", err)
	}
}

func TestChannelPublisher_Close(t *testing.T) {
	ch := make(chan core.StepEvent, 1)
	p := NewChannelPublisher(ch)
	if err := p.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if _, ok := <-ch; ok {
		t.Error("channel still open after Close")
	}
}

func TestChannelPublisher_Integration_EngineSteps(t *testing.T) {
	ch := make(chan core.StepEvent, 10)
	e := core.NewEngine(abcConfig(), tapes("aa", "bb", "cc"),
		core.WithRunID("run-7"),
		core.WithPublisher(NewChannelPublisher(ch)),
	)
	e.Execute()

	if len(ch) != 3 {
		t.Fatalf("published %d events, want 3", len(ch))
	}
	var last core.StepEvent
	for i := 1; i <= 3; i++ {
		last = <-ch
		if last.Entry.Step != i || last.RunID != "run-7" || last.MachineID != "abc" {
			t.Errorf("event %d = %+v", i, last)
		}
	}
	if last.Status != core.Accepted || last.Entry.State != "qa" {
		t.Errorf("last event status %v state %q, want accepted qa", last.Status, last.Entry.State)
	}
}
