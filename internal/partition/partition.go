// Package partition assigns input files to workers.
//
// Two schedules are offered. Contiguous splits the list into W ordered runs,
// the last absorbing the remainder. Cursor lets every worker pull the next
// unclaimed file from a shared atomic counter. Both cover every file exactly
// once and preserve input order within a worker.
package partition

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
)

var ErrInvalidWorkers = errors.New("worker count must be positive")

// Schedule selects how files are handed to workers.
type Schedule uint8

const (
	ScheduleContiguous Schedule = iota
	ScheduleCursor
)

func (s Schedule) String() string {
	if s == ScheduleCursor {
		return "cursor"
	}
	return "contiguous"
}

// ParseSchedule accepts "contiguous" (or "") and "cursor".
func ParseSchedule(v string) (Schedule, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "contiguous":
		return ScheduleContiguous, nil
	case "cursor":
		return ScheduleCursor, nil
	default:
		return 0, fmt.Errorf("unknown schedule %q", v)
	}
}

// Feed yields the files one worker must scan, in order.
// index is the file's position in the input list.
type Feed interface {
	Next() (index int, path string, ok bool)
}

// Assignment is the contiguous run of files given to one worker.
// Paths aliases the input list and must not be modified.
type Assignment struct {
	Worker int
	Start  int // input index of Paths[0]
	Paths  []string
}

// Contiguous splits paths into workers runs: with q = len(paths)/workers,
// worker w < workers-1 gets [w*q, (w+1)*q) and the last one gets the rest.
func Contiguous(paths []string, workers int) ([]Assignment, error) {
	if workers < 1 {
		return nil, ErrInvalidWorkers
	}
	n := len(paths)
	q := n / workers
	out := make([]Assignment, workers)
	for w := 0; w < workers; w++ {
		lo, hi := w*q, (w+1)*q
		if w == workers-1 {
			hi = n
		}
		out[w] = Assignment{Worker: w, Start: lo, Paths: paths[lo:hi:hi]}
	}
	return out, nil
}

// Feed returns an iterator over a. Each call starts from the beginning.
func (a Assignment) Feed() Feed {
	return &sliceFeed{a: a}
}

type sliceFeed struct {
	a Assignment
	i int
}

func (f *sliceFeed) Next() (int, string, bool) {
	if f.i >= len(f.a.Paths) {
		return 0, "", false
	}
	i := f.i
	f.i++
	return f.a.Start + i, f.a.Paths[i], true
}

// Cursor hands out files one at a time to any number of concurrent callers.
type Cursor struct {
	paths []string
	next  atomic.Int64
}

func NewCursor(paths []string) *Cursor {
	return &Cursor{paths: paths}
}

// Next claims the next unscanned file. Safe for concurrent use.
func (c *Cursor) Next() (int, string, bool) {
	i := int(c.next.Add(1) - 1)
	if i >= len(c.paths) {
		return 0, "", false
	}
	return i, c.paths[i], true
}

// Plan builds one Feed per worker for the chosen schedule.
func Plan(s Schedule, paths []string, workers int) ([]Feed, error) {
	if workers < 1 {
		return nil, ErrInvalidWorkers
	}
	feeds := make([]Feed, workers)
	switch s {
	case ScheduleCursor:
		c := NewCursor(paths)
		for w := range feeds {
			feeds[w] = c
		}
	default:
		as, err := Contiguous(paths, workers)
		if err != nil {
			return nil, err
		}
		for w, a := range as {
			feeds[w] = a.Feed()
		}
	}
	return feeds, nil
}
