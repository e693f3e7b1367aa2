// Package marker sends named experiment events as numeric trigger codes to
// an optional external signaling device over UDP. The channel is strictly
// fire-and-forget: failures are logged and never block the run.
package marker

import (
	"fmt"
	"net"
	"strconv"

	"go.uber.org/zap"
)

// Event names the recognized marker events.
type Event string

const (
	BaselineStart      Event = "baseline_start"
	BaselineEnd        Event = "baseline_end"
	ParagraphShown     Event = "paragraph_shown"
	ParagraphHidden    Event = "paragraph_hidden"
	QuestionInputStart Event = "question_input_start"
	QuestionInputEnd   Event = "question_input_end"
	FeedbackStart      Event = "feedback_start"
	FeedbackEnd        Event = "feedback_end"
	SurveyStart        Event = "survey_start"
	SurveyEnd          Event = "survey_end"
	EditStart          Event = "edit_start"
	EditEnd            Event = "edit_end"
	EditTextareaFocus  Event = "edit_textarea_focus"
)

// codes maps every recognized event to its fixed trigger code.
var codes = map[Event]int{
	BaselineStart:      10,
	BaselineEnd:        11,
	ParagraphShown:     20,
	ParagraphHidden:    21,
	QuestionInputStart: 30,
	QuestionInputEnd:   31,
	FeedbackStart:      40,
	FeedbackEnd:        41,
	SurveyStart:        50,
	SurveyEnd:          51,
	EditStart:          60,
	EditEnd:            61,
	EditTextareaFocus:  62,
}

// Code resolves an event to its trigger code.
func Code(ev Event) (int, bool) {
	c, ok := codes[ev]
	return c, ok
}

// Events lists every recognized marker event.
func Events() []Event {
	out := make([]Event, 0, len(codes))
	for ev := range codes {
		out = append(out, ev)
	}
	return out
}

// Client sends trigger codes to the device. The zero-value-like nil Client
// is a valid log-only no-op.
type Client struct {
	conn *net.UDPConn
	log  *zap.Logger
}

// Dial connects to the trigger device at addr (host:port). The connection is
// datagram-oriented, so this cannot detect an absent device; sends just
// vanish, which is the intended degradation.
func Dial(addr string, log *zap.Logger) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
	}
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("resolve marker address: %w", err)
	}
	conn, err := net.DialUDP("udp", nil, udpAddr)
	if err != nil {
		return nil, fmt.Errorf("dial marker device: %w", err)
	}
	return &Client{conn: conn, log: log}, nil
}

// Send dispatches one marker. Unknown events and transport failures are
// logged and swallowed; a nil client logs nothing and does nothing.
func (c *Client) Send(ev Event) {
	if c == nil {
		return
	}
	code, ok := codes[ev]
	if !ok {
		c.log.Warn("unknown marker event", zap.String("event", string(ev)))
		return
	}
	if _, err := c.conn.Write([]byte(strconv.Itoa(code))); err != nil {
		c.log.Warn("marker send failed",
			zap.String("event", string(ev)), zap.Int("code", code), zap.Error(err))
	}
}

// Close releases the connection. Safe on a nil client.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.conn.Close()
}
