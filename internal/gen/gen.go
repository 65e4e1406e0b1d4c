// Package gen writes synthetic access-log directories with a known number of
// distinct source addresses.
package gen

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Borislavv/ip-dir-counter/internal/read"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

var ErrInvalidOptions = errors.New("gen: files, lines and distinct must be positive")

// Options describe the directory to generate.
type Options struct {
	Files    int
	Lines    int // lines per file
	Distinct int // size of the address pool lines are drawn from
	Seed     int64
	Encoding read.Encoding
	IPv6     bool
}

// Summary reports what was written. Distinct is the ground truth count of
// addresses that actually appear.
type Summary struct {
	Dir      string
	Files    []string
	Lines    int64
	Distinct int
}

var methods = [...]string{"GET", "POST", "HEAD", "PUT"}
var routes = [...]string{"/", "/index.html", "/api/v1/items", "/static/app.js", "/login"}

// Dir writes opts.Files files named access<k>.log[.ext] into dir.
func Dir(dir string, opts Options) (Summary, error) {
	if opts.Files <= 0 || opts.Lines <= 0 || opts.Distinct <= 0 {
		return Summary{}, ErrInvalidOptions
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Summary{}, err
	}

	r := rand.New(rand.NewSource(opts.Seed))
	used := make(map[int]struct{}, opts.Distinct)
	base := time.Date(2014, 2, 24, 22, 59, 11, 0, time.UTC)

	sum := Summary{Dir: dir, Files: make([]string, 0, opts.Files)}
	for k := 1; k <= opts.Files; k++ {
		path := filepath.Join(dir, "access"+strconv.Itoa(k)+".log"+opts.Encoding.Ext())
		err := WriteFile(path, opts.Encoding, func(w *bufio.Writer) error {
			for i := 0; i < opts.Lines; i++ {
				id := r.Intn(opts.Distinct)
				used[id] = struct{}{}
				ts := base.Add(time.Duration(sum.Lines+int64(i)) * time.Second)
				if _, err := fmt.Fprintf(w, "%s - - [%s] \"%s %s HTTP/1.1\" %d %d\n",
					Addr(id, opts.IPv6), ts.Format("02/Jan/2006:15:04:05 -0700"),
					methods[r.Intn(len(methods))], routes[r.Intn(len(routes))],
					200+100*r.Intn(3), r.Intn(1<<16)); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return Summary{}, fmt.Errorf("gen: write %s: %w", path, err)
		}
		sum.Files = append(sum.Files, path)
		sum.Lines += int64(opts.Lines)
	}
	sum.Distinct = len(used)
	return sum, nil
}

// Addr maps id to a unique address string.
func Addr(id int, ipv6 bool) string {
	if ipv6 {
		return "2001:db8::" + strconv.FormatUint(uint64(id), 16)
	}
	v := uint32(0x0A000000) + uint32(id)
	return strconv.Itoa(int(v>>24)) + "." + strconv.Itoa(int(v>>16&255)) + "." +
		strconv.Itoa(int(v>>8&255)) + "." + strconv.Itoa(int(v&255))
}

// WriteFile creates path, encodes it with enc and lets fill write the content.
func WriteFile(path string, enc read.Encoding, fill func(w *bufio.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	ew, err := newEncoder(f, enc)
	if err != nil {
		return err
	}
	w := bufio.NewWriterSize(ew, 1<<20)
	if err = fill(w); err == nil {
		err = w.Flush()
	}
	// close the encoder on every path
	if cerr := ew.Close(); err == nil {
		err = cerr
	}
	return err
}

// WriteLines writes lines verbatim; callers supply the terminators.
func WriteLines(path string, enc read.Encoding, lines ...string) error {
	return WriteFile(path, enc, func(w *bufio.Writer) error {
		for _, s := range lines {
			if _, err := w.WriteString(s); err != nil {
				return err
			}
		}
		return nil
	})
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func newEncoder(w io.Writer, enc read.Encoding) (io.WriteCloser, error) {
	switch enc {
	case read.Gzip:
		return gzip.NewWriter(w), nil
	case read.Zstd:
		zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}
		return zw, nil
	case read.LZ4:
		return lz4.NewWriter(w), nil
	default:
		return nopWriteCloser{w}, nil
	}
}
