package app

import (
	"testing"
	"time"

	"github.com/abdullathedruid/emux/internal/editor"
	"github.com/abdullathedruid/emux/internal/session"
)

// loopApp builds an App driven by a plain serialized executor, the same
// single-owner model the gocui loop provides. The returned run function
// executes fn on the loop and waits for it.
func loopApp(t *testing.T) (a *App, run func(fn func())) {
	t.Helper()

	loop := make(chan func(), 64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for fn := range loop {
			fn()
		}
	}()
	t.Cleanup(func() {
		close(loop)
		<-done
	})

	a = &App{
		cursors: make(map[session.Buffer]int),
		prompts: newModalPrompter(0),
		input:   newInputModal(0),
	}
	a.reg = session.New(func(text string) session.Buffer {
		return editor.New(text)
	})
	a.post = func(fn func()) { loop <- fn }

	run = func(fn func()) {
		step := make(chan struct{})
		loop <- func() {
			fn()
			close(step)
		}
		<-step
	}
	return a, run
}

// A flow goroutine owns the session state until it posts completion back
// to the loop; while it runs, the loop sees flowBusy and no second flow
// can start.
func TestRunFlowOwnsSessionUntilPosted(t *testing.T) {
	a, run := loopApp(t)

	entered := make(chan struct{})
	release := make(chan struct{})
	run(func() {
		a.runFlow(func() {
			close(entered)
			<-release
			a.reg.NewUntitled(a.reg.ActivePane())
		})
	})
	<-entered

	run(func() {
		if !a.flowBusy {
			t.Error("loop must see the session as busy while the flow runs")
		}
	})

	// A second flow during the first is dropped, not queued.
	secondRan := false
	run(func() {
		a.runFlow(func() { secondRan = true })
	})

	close(release)
	waitIdle(t, a, run)

	if secondRan {
		t.Error("a second flow must not start while one is pending")
	}
	if got := a.reg.SlotTotal(); got != 2 {
		t.Errorf("slot total = %d, want 2 (seed plus the flow's untitled)", got)
	}

	// The state handed back, a new flow starts normally.
	ran := make(chan struct{})
	run(func() {
		a.runFlow(func() { close(ran) })
	})
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("flow did not start after the previous one finished")
	}
}

func TestRunFlowBlockedByVisibleModal(t *testing.T) {
	a, run := loopApp(t)

	a.input.active = &inputRequest{title: "Find"}
	ran := false
	run(func() {
		a.runFlow(func() { ran = true })
	})
	waitIdle(t, a, run)
	if ran {
		t.Error("flows must not start while a modal is pending")
	}
}

// waitIdle spins loop round-trips until the flow flag clears.
func waitIdle(t *testing.T, a *App, run func(fn func())) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		idle := false
		run(func() { idle = !a.flowBusy })
		if idle {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("flow never handed the session state back")
		}
		time.Sleep(time.Millisecond)
	}
}
