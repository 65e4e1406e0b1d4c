// Package pool runs W scan workers over their file feeds and joins them.
package pool

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Borislavv/ip-dir-counter/internal/logger"
	"github.com/Borislavv/ip-dir-counter/internal/partition"
	"github.com/Borislavv/ip-dir-counter/internal/read"
	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"
)

// FileScanner scans one file. *read.Scanner satisfies it.
type FileScanner interface {
	ScanFile(ctx context.Context, path string) (read.Stats, error)
}

// Report aggregates what all workers did. It is complete once Run returns.
type Report struct {
	Scanned int   // files read to the end
	Failed  int   // files skipped after an open/decode/read error
	Lines   int64 // lines across all files, partial files included
	Tokens  int64
	Bytes   int64
	// Coverage holds the input index of every file a worker picked up.
	Coverage *roaring.Bitmap
	Elapsed  time.Duration
}

// Options control progress reporting.
type Options struct {
	Logger   *logger.Logger
	Progress bool
}

// Run starts one worker per feed and blocks until all of them have finished.
// Per-file errors are logged and counted; they never stop other workers.
// Run only returns an error when ctx is done.
func Run(ctx context.Context, feeds []partition.Feed, scanner FileScanner, opts Options) (Report, error) {
	if len(feeds) == 0 {
		return Report{}, partition.ErrInvalidWorkers
	}
	log := opts.Logger
	if log == nil {
		log = logger.NoopLogger()
	}

	var (
		mu    sync.Mutex
		total = Report{Coverage: roaring.New()}
		from  = time.Now()
	)

	g, gctx := errgroup.WithContext(ctx)
	for w, feed := range feeds {
		wlog := log.WithWorker(w)
		g.Go(func() error {
			local := Report{Coverage: roaring.New()}
			defer func() {
				mu.Lock()
				total.merge(&local)
				mu.Unlock()
			}()

			for {
				if err := gctx.Err(); err != nil {
					return err
				}
				i, path, ok := feed.Next()
				if !ok {
					return nil
				}
				local.Coverage.Add(uint32(i))

				st, err := scanner.ScanFile(gctx, path)
				local.Lines += st.Lines
				local.Tokens += st.Tokens
				local.Bytes += st.Bytes

				var fe *read.FileError
				switch {
				case err == nil:
					local.Scanned++
				case errors.As(err, &fe):
					local.Failed++
				default:
					return err
				}
				wlog.LogFile(gctx, i, path, st.Lines, opts.Progress, err)
			}
		})
	}

	err := g.Wait()
	total.Elapsed = time.Since(from)
	return total, err
}

func (r *Report) merge(o *Report) {
	r.Scanned += o.Scanned
	r.Failed += o.Failed
	r.Lines += o.Lines
	r.Tokens += o.Tokens
	r.Bytes += o.Bytes
	r.Coverage.Or(o.Coverage)
}

// Covered reports how many distinct input files were picked up.
func (r Report) Covered() int {
	if r.Coverage == nil {
		return 0
	}
	return int(r.Coverage.GetCardinality())
}
