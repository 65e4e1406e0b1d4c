package read

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// NewLimiter returns a limiter admitting bytesPerSec bytes per second with a
// one second burst, or nil when bytesPerSec <= 0.
func NewLimiter(bytesPerSec int64) *rate.Limiter {
	if bytesPerSec <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(bytesPerSec), int(bytesPerSec))
}

// pacedReader charges every read against a limiter shared by all workers.
type pacedReader struct {
	ctx context.Context
	r   io.Reader
	lim *rate.Limiter
}

func (p *pacedReader) Read(b []byte) (int, error) {
	// WaitN rejects requests larger than the burst
	if burst := p.lim.Burst(); len(b) > burst {
		b = b[:burst]
	}
	n, err := p.r.Read(b)
	if n > 0 {
		if werr := p.lim.WaitN(p.ctx, n); werr != nil {
			return n, p.waitErr(werr)
		}
	}
	return n, err
}

// waitErr reports limiter failures as context errors. WaitN refuses early,
// with its own error, a wait that would outlast the context deadline.
func (p *pacedReader) waitErr(err error) error {
	if cerr := p.ctx.Err(); cerr != nil {
		return cerr
	}
	if _, ok := p.ctx.Deadline(); ok {
		return context.DeadlineExceeded
	}
	return err
}
