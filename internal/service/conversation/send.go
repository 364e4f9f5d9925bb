package conversation

import "github.com/buynlarge/console/internal/model/chat"

// SendStatus tracks one submit through its two phases.
type SendStatus string

const (
	SendPending   SendStatus = "pending"
	SendDelivered SendStatus = "delivered"
	SendFailed    SendStatus = "failed"
)

// Send records a single submit: the optimistic user message is appended while
// pending, then the reply (or the apology) once the remote call resolves.
type Send struct {
	Seq     int           `json:"seq"`
	Request chat.Message  `json:"request"`
	Status  SendStatus    `json:"status"`
	Reply   *chat.Message `json:"reply,omitempty"`
	Err     string        `json:"error,omitempty"`
}

func newSend(seq int, request chat.Message) *Send {
	return &Send{Seq: seq, Request: request, Status: SendPending}
}

func (s *Send) deliver(reply chat.Message) {
	if s.Status != SendPending {
		return
	}
	s.Status = SendDelivered
	s.Reply = &reply
}

func (s *Send) fail(fallback chat.Message, err error) {
	if s.Status != SendPending {
		return
	}
	s.Status = SendFailed
	s.Reply = &fallback
	s.Err = err.Error()
}

func (s *Send) copy() *Send {
	c := *s
	if s.Reply != nil {
		r := *s.Reply
		c.Reply = &r
	}
	return &c
}
