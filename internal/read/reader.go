package read

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"

	"github.com/Borislavv/ip-dir-counter/internal/codec"
	"golang.org/x/time/rate"
)

// DefaultBufSize is the per-file read buffer when Options.BufSize is unset.
const DefaultBufSize = 64 << 10

// how many lines pass between context checks
const ctxCheckEvery = 4096

// Set receives tokens. *addrset.Set satisfies it.
type Set interface {
	Offer(key []byte) bool
}

// Stats describes one scanned file.
type Stats struct {
	Lines  int64 // lines seen, including empty ones
	Tokens int64 // non-empty tokens offered to the set
	New    int64 // tokens that were new to the set
	Bytes  int64 // bytes read from disk (compressed size for encoded files)
}

// Options tune a Scanner. The zero value is usable.
type Options struct {
	BufSize int
	// Limiter, when set, paces disk reads of every file this Scanner opens.
	Limiter *rate.Limiter
}

// Scanner feeds the leading token of every line of a file into a Set.
// A Scanner is safe for concurrent use; each call owns its own buffers.
type Scanner struct {
	set     Set
	bufSize int
	limiter *rate.Limiter
}

func NewScanner(set Set, opts Options) *Scanner {
	if opts.BufSize <= 0 {
		opts.BufSize = DefaultBufSize
	}
	return &Scanner{set: set, bufSize: opts.BufSize, limiter: opts.Limiter}
}

// ScanFile opens path, decodes it when its leading bytes carry a gzip, zstd
// or lz4 frame magic, and scans it. Failures are returned as *FileError;
// stats cover what was read before the failure. Context errors are returned
// as is.
func (s *Scanner) ScanFile(ctx context.Context, path string) (Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stats{}, fileErr(OpOpen, path, err)
	}
	defer f.Close()

	adviseSequential(f)

	counted := &countingReader{r: f}
	var src io.Reader = counted
	if s.limiter != nil {
		src = &pacedReader{ctx: ctx, r: counted, lim: s.limiter}
	}

	br := bufio.NewReaderSize(src, s.bufSize)
	head, err := br.Peek(magicLen)
	if err != nil && err != io.EOF {
		return Stats{Bytes: counted.n}, fileErr(OpRead, path, err)
	}

	var body io.Reader = br
	if enc := Sniff(head); enc != Plain {
		dec, err := newDecoder(enc, br)
		if err != nil {
			return Stats{Bytes: counted.n}, fileErr(OpDecode, path, err)
		}
		defer dec.Close()
		body = dec
	}

	st, err := s.Scan(ctx, body)
	st.Bytes = counted.n
	if err != nil {
		return st, fileErr(OpRead, path, err)
	}
	return st, nil
}

func fileErr(op Op, path string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &FileError{Op: op, Path: path, Err: err}
}

// Scan reads r line by line until EOF. Lines may be arbitrarily long: only the
// leading token is buffered, the remainder of an oversized line is skipped.
func (s *Scanner) Scan(ctx context.Context, r io.Reader) (Stats, error) {
	var (
		st  Stats
		br  = bufio.NewReaderSize(r, s.bufSize)
		acc tokenAcc
	)
	for {
		frag, err := br.ReadSlice('\n')

		switch {
		case len(frag) > 0 && !acc.open && err == nil:
			// fast path: a whole line sits in the buffer
			st.Lines++
			s.offer(&st, codec.LeadingToken(frag))
		case len(frag) > 0:
			acc.feed(frag)
			if err == nil {
				s.endLine(&st, &acc)
			}
		}

		switch {
		case err == nil, errors.Is(err, bufio.ErrBufferFull):
		case err == io.EOF:
			if acc.open {
				s.endLine(&st, &acc)
			}
			return st, nil
		default:
			return st, err
		}

		if st.Lines%ctxCheckEvery == 0 {
			if cerr := ctx.Err(); cerr != nil {
				return st, cerr
			}
		}
	}
}

func (s *Scanner) endLine(st *Stats, acc *tokenAcc) {
	st.Lines++
	s.offer(st, acc.buf)
	acc.reset()
}

func (s *Scanner) offer(st *Stats, tok []byte) {
	if len(tok) == 0 {
		return
	}
	st.Tokens++
	if s.set.Offer(tok) {
		st.New++
	}
}

type accState uint8

const (
	accLeading accState = iota // skipping whitespace before the token
	accToken                   // inside the token
	accDone                    // token complete, discarding the rest of the line
)

// tokenAcc assembles a leading token across ReadSlice fragments of one line.
type tokenAcc struct {
	open  bool
	state accState
	buf   []byte
}

func (a *tokenAcc) feed(frag []byte) {
	a.open = true
	if a.state == accLeading {
		frag = codec.SkipSpace(frag)
		if len(frag) == 0 {
			return
		}
		a.state = accToken
	}
	if a.state == accToken {
		if j := codec.TokenEnd(frag); j >= 0 {
			a.buf = append(a.buf, frag[:j]...)
			a.state = accDone
		} else {
			a.buf = append(a.buf, frag...)
		}
	}
}

func (a *tokenAcc) reset() {
	a.open = false
	a.state = accLeading
	a.buf = a.buf[:0]
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
