package bridge

import "fmt"

// ResultCode is the status a browser surface reports when it finishes.
type ResultCode int

const (
	ResultCanceled ResultCode = iota
	ResultOK
)

func (c ResultCode) String() string {
	switch c {
	case ResultOK:
		return "ok"
	case ResultCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("unknown(%d)", int(c))
	}
}

// Message is what a surface delivers: a result code and an optional payload.
type Message struct {
	Code ResultCode
	Data map[string]string
}

// Channel is the one-shot result channel between a surface and the caller.
type Channel struct {
	p *Promise[Message]
}

// NewChannel returns a Channel and the Future its message arrives on.
func NewChannel() (*Channel, *Future[Message]) {
	p, f := NewPromise[Message]()
	return &Channel{p: p}, f
}

// Deliver sends the result. Only the first delivery counts; it reports
// whether this one did.
func (c *Channel) Deliver(code ResultCode, data map[string]string) bool {
	var copied map[string]string
	if data != nil {
		copied = make(map[string]string, len(data))
		for k, v := range data {
			copied[k] = v
		}
	}
	return c.p.Resolve(Message{Code: code, Data: copied})
}

// Teardown resolves the channel as cancelled if nothing was delivered.
func (c *Channel) Teardown() bool {
	return c.p.Resolve(Message{Code: ResultCanceled})
}

// Delivered reports whether the channel has been resolved.
func (c *Channel) Delivered() bool {
	_, ok := c.p.f.Peek()
	return ok
}
