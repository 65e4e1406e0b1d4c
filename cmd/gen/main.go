package main

import (
	"flag"
	"log"
	"strings"

	"github.com/Borislavv/ip-dir-counter/internal/gen"
	"github.com/Borislavv/ip-dir-counter/internal/read"
)

var (
	dir      = flag.String("dir", "access_logs", "output directory")
	files    = flag.Int("files", 10, "number of access<k>.log files")
	lines    = flag.Int("lines", 100000, "lines per file")
	distinct = flag.Int("distinct", 50000, "size of the address pool")
	seed     = flag.Int64("seed", 1, "random seed")
	encoding = flag.String("encoding", "plain", "plain|gzip|zstd|lz4")
	ipv6     = flag.Bool("ipv6", false, "emit IPv6 addresses")
)

func init() {
	flag.Parse()
}

func main() {
	enc, ok := map[string]read.Encoding{
		"plain": read.Plain,
		"gzip":  read.Gzip,
		"zstd":  read.Zstd,
		"lz4":   read.LZ4,
	}[strings.ToLower(*encoding)]
	if !ok {
		log.Fatalf("invalid encoding flag: %q", *encoding)
	}

	sum, err := gen.Dir(*dir, gen.Options{
		Files:    *files,
		Lines:    *lines,
		Distinct: *distinct,
		Seed:     *seed,
		Encoding: enc,
		IPv6:     *ipv6,
	})
	if err != nil {
		log.Fatalf("could not generate access logs: %v", err)
	}
	log.Printf("generated %d files in %s: %d lines, %d distinct addresses\n", len(sum.Files), sum.Dir, sum.Lines, sum.Distinct)
}
