// Package parserpool provides a pool of gnparser instances for parsing
// free-text scientific names. This is a pure package - parsing is
// computation, not I/O.
package parserpool

import (
	"runtime"

	"github.com/gnames/gnlib/ent/nomcode"
	"github.com/gnames/gnparser"
	"github.com/gnames/gnparser/ent/parsed"
)

// Pool provides gnparser instances for concurrent name parsing. The
// collection tracks plants only, so every parser uses the botanical
// nomenclatural code.
type Pool interface {
	// Parse parses a scientific name string. It retrieves a parser from
	// the pool, parses the name, and returns the parser to the pool.
	// Safe for concurrent use.
	Parse(nameString string) parsed.Parsed

	// Close shuts down the pool and releases resources. After calling
	// Close, the pool should not be used.
	Close()
}

type poolImpl struct {
	ch chan gnparser.GNparser
}

// NewPool creates a parser pool with the specified number of workers.
// If jobsNum is 0, it defaults to runtime.NumCPU().
func NewPool(jobsNum int) Pool {
	size := jobsNum
	if size == 0 {
		size = runtime.NumCPU()
	}

	// WithDetails populates the Words field used to pick name
	// components apart.
	cfg := gnparser.NewConfig(
		gnparser.OptCode(nomcode.Botanical),
		gnparser.OptWithDetails(true),
	)
	return &poolImpl{ch: gnparser.NewPool(cfg, size)}
}

func (p *poolImpl) Parse(nameString string) parsed.Parsed {
	parser := <-p.ch
	res := parser.ParseName(nameString)
	p.ch <- parser
	return res
}

func (p *poolImpl) Close() {
	if p.ch != nil {
		close(p.ch)
		for range p.ch {
		}
	}
}
