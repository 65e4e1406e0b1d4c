// Package count wires discovery, the address set, the partitioner and the
// worker pool into one run.
package count

import (
	"context"
	"fmt"
	"time"

	"github.com/Borislavv/ip-dir-counter/internal/addrset"
	"github.com/Borislavv/ip-dir-counter/internal/config"
	"github.com/Borislavv/ip-dir-counter/internal/discover"
	"github.com/Borislavv/ip-dir-counter/internal/logger"
	"github.com/Borislavv/ip-dir-counter/internal/partition"
	"github.com/Borislavv/ip-dir-counter/internal/pool"
	"github.com/Borislavv/ip-dir-counter/internal/read"
	"github.com/google/uuid"
)

// Result is the outcome of a run.
type Result struct {
	RunID    string
	Distinct int64 // distinct leading tokens across all readable files
	Files    int
	Scanned  int
	Failed   int
	Lines    int64
	Bytes    int64
	Workers  int
	Shards   int
	Elapsed  time.Duration
}

// Run counts distinct source addresses in cfg.Dir using cfg.Workers workers.
// Configuration and directory errors are returned before any worker starts;
// per-file errors only lower the count.
func Run(ctx context.Context, cfg config.Config, log *logger.Logger) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	if log == nil {
		log = logger.NoopLogger()
	}
	from := time.Now()
	res := Result{RunID: uuid.NewString(), Workers: cfg.Workers, Shards: cfg.ShardCount()}
	log = log.WithRun(res.RunID)

	files, err := discover.Files(cfg.Dir)
	if err != nil {
		return res, err
	}
	res.Files = len(files)

	sched, err := partition.ParseSchedule(cfg.Schedule)
	if err != nil {
		return res, err
	}
	feeds, err := partition.Plan(sched, files, cfg.Workers)
	if err != nil {
		return res, err
	}

	set := addrset.New(res.Shards)
	res.Shards = set.Shards()
	scanner := read.NewScanner(set, read.Options{
		BufSize: cfg.BufKB << 10,
		Limiter: read.NewLimiter(cfg.RateBytesPerSec),
	})

	log.LogRunStart(ctx, cfg.Dir, res.Files, cfg.Workers, res.Shards, sched.String())

	rep, err := pool.Run(ctx, feeds, scanner, pool.Options{Logger: log, Progress: cfg.Progress})
	res.Scanned, res.Failed = rep.Scanned, rep.Failed
	res.Lines, res.Bytes = rep.Lines, rep.Bytes
	res.Elapsed = time.Since(from)
	if err != nil {
		log.LogRunDone(ctx, 0, res.Scanned, res.Failed, res.Lines, res.Elapsed, err)
		return res, err
	}
	if covered := rep.Covered(); covered != res.Files {
		return res, fmt.Errorf("scanned %d of %d files", covered, res.Files)
	}

	// every worker has joined; the set is quiescent
	res.Distinct = set.Cardinality()
	log.LogRunDone(ctx, res.Distinct, res.Scanned, res.Failed, res.Lines, res.Elapsed, nil)
	return res, nil
}
