package marker

import (
	"net"
	"testing"
	"time"
)

func TestEveryEventHasACode(t *testing.T) {
	events := []Event{
		BaselineStart, BaselineEnd,
		ParagraphShown, ParagraphHidden,
		QuestionInputStart, QuestionInputEnd,
		FeedbackStart, FeedbackEnd,
		SurveyStart, SurveyEnd,
		EditStart, EditEnd, EditTextareaFocus,
	}
	seen := make(map[int]Event, len(events))
	for _, ev := range events {
		code, ok := Code(ev)
		if !ok {
			t.Errorf("event %q has no code", ev)
			continue
		}
		if prev, dup := seen[code]; dup {
			t.Errorf("events %q and %q share code %d", prev, ev, code)
		}
		seen[code] = ev
	}
	if len(Events()) != len(events) {
		t.Errorf("Events() lists %d events, want %d", len(Events()), len(events))
	}
}

func TestUnknownEventHasNoCode(t *testing.T) {
	if _, ok := Code(Event("coffee_break")); ok {
		t.Error("unknown event resolved to a code")
	}
}

func TestNilClientIsNoOp(t *testing.T) {
	var c *Client
	c.Send(BaselineStart)
	if err := c.Close(); err != nil {
		t.Errorf("nil close: %v", err)
	}
}

func TestSendDeliversCode(t *testing.T) {
	lc, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer lc.Close()

	c, err := Dial(lc.LocalAddr().String(), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()

	c.Send(FeedbackStart)

	lc.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 16)
	n, _, err := lc.ReadFromUDP(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := string(buf[:n]); got != "40" {
		t.Errorf("received %q, want %q", got, "40")
	}
}

func TestSendUnknownEventDoesNotPanic(t *testing.T) {
	lc, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer lc.Close()

	c, err := Dial(lc.LocalAddr().String(), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()

	c.Send(Event("not_a_marker"))
}
