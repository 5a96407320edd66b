package monitoring

import (
	"errors"
	"testing"
	"time"
)

type captured struct {
	errs    []error
	tags    []map[string]string
	panics  []any
	flushed bool
}

func (c *captured) CaptureException(err error, tags map[string]string) {
	c.errs = append(c.errs, err)
	c.tags = append(c.tags, tags)
}
func (c *captured) RecoverPanic(r any)  { c.panics = append(c.panics, r) }
func (c *captured) Flush(time.Duration) { c.flushed = true }

func TestInitAndCapture(t *testing.T) {
	prev := current
	defer func() { current = prev }()

	Init(nil)
	if _, ok := current.(NopMonitor); !ok {
		t.Fatalf("nil monitor should be ignored, got %T", current)
	}

	c := &captured{}
	Init(c)
	CaptureException(errors.New("boom"), map[string]string{"run_id": "r1"})
	Flush(time.Second)
	if len(c.errs) != 1 || c.tags[0]["run_id"] != "r1" {
		t.Fatalf("exception not forwarded: %+v", c)
	}
	if !c.flushed {
		t.Fatal("flush not forwarded")
	}
}

func TestRecoverReportsAndRepanics(t *testing.T) {
	prev := current
	defer func() { current = prev }()
	c := &captured{}
	Init(c)

	defer func() {
		r := recover()
		if r != "boom" {
			t.Fatalf("expected re-panic with boom, got %v", r)
		}
		if len(c.panics) != 1 || c.panics[0] != "boom" {
			t.Fatalf("panic not reported: %+v", c.panics)
		}
	}()
	func() {
		defer Recover()
		panic("boom")
	}()
}
