package scenario

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/delaneyj/deps/deps"
)

type EventKind string

const (
	EventRun         EventKind = "run"
	EventRerun       EventKind = "rerun"
	EventInvalidated EventKind = "invalidated"
	EventStop        EventKind = "stop"
	EventAfterFlush  EventKind = "after-flush"
	EventFlush       EventKind = "flush"
	EventChange      EventKind = "change"
	EventExpect      EventKind = "expect"
)

type Event struct {
	Seq    int
	Kind   EventKind
	Target string
	Detail string
}

// Trace is the ordered log of everything that happened while a scenario ran.
type Trace struct {
	Scenario string
	Events   []Event
	Stats    deps.Stats
	Failures []string
}

func (t *Trace) record(kind EventKind, target, detail string) {
	t.Events = append(t.Events, Event{
		Seq:    len(t.Events) + 1,
		Kind:   kind,
		Target: target,
		Detail: detail,
	})
}

// Count returns how many events of the given kind were recorded.
func (t *Trace) Count(kind EventKind) int {
	n := 0
	for _, e := range t.Events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Digest hashes the event log. Two runs of the same scenario produce the same
// digest, so it can be pinned to detect ordering regressions.
func (t *Trace) Digest() uint64 {
	h := xxhash.New()
	for _, e := range t.Events {
		h.WriteString(strconv.Itoa(e.Seq))
		h.WriteString("\x00")
		h.WriteString(string(e.Kind))
		h.WriteString("\x00")
		h.WriteString(e.Target)
		h.WriteString("\x00")
		h.WriteString(e.Detail)
		h.WriteString("\n")
	}
	return h.Sum64()
}

// DigestHex is Digest formatted as 16 hex digits.
func (t *Trace) DigestHex() string {
	return fmt.Sprintf("%016x", t.Digest())
}
