// Package numbering derives the next sequential purchase-order number from
// the ledger's identifier column.
package numbering

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"potool/internal/logger"
)

// Format selects the active document-number rule.
type Format string

const (
	// FormatSlash numbers look like "PO-69/001": a verbatim prefix, a
	// slash, and a zero-padded running integer.
	FormatSlash Format = "slash"

	// FormatTagged numbers look like "ซจ.001" or "ซจ.001/2569": a fixed
	// literal tag, a zero-padded running integer, and an optional year
	// suffix.
	FormatTagged Format = "tagged"
)

// Strategy selects which row seeds the increment.
type Strategy string

const (
	// StrategyLast increments the last written identifier.
	StrategyLast Strategy = "last"

	// StrategyMax increments the maximum parseable suffix across all
	// rows, tolerating edited or reordered ledgers.
	StrategyMax Strategy = "max"
)

// Options configures a numbering service. Zero values fall back to the
// slash format with its stock seed.
type Options struct {
	Format   Format
	Seed     string // returned whenever no usable identifier exists
	Tag      string // tagged format only
	Year     string // tagged format only; re-appended as "/<year>" when set
	Strategy Strategy
}

// Service assigns sequential document numbers.
type Service struct {
	opts Options
	log  zerolog.Logger
}

// New creates a numbering service. Missing options get format-appropriate
// defaults.
func New(opts Options) *Service {
	if opts.Format == "" {
		opts.Format = FormatSlash
	}
	if opts.Strategy == "" {
		opts.Strategy = StrategyLast
	}
	if opts.Tag == "" {
		opts.Tag = "ซจ."
	}
	if opts.Seed == "" {
		switch opts.Format {
		case FormatTagged:
			opts.Seed = opts.Tag + "001"
			if opts.Year != "" {
				opts.Seed += "/" + opts.Year
			}
		default:
			opts.Seed = "PO-69/001"
		}
	}

	log := logger.WithComponent("numbering")
	log.Debug().
		Str("format", string(opts.Format)).
		Str("strategy", string(opts.Strategy)).
		Str("seed", opts.Seed).
		Msg("Numbering service configured")

	return &Service{opts: opts, log: log}
}

// Seed returns the fixed fallback identifier.
func (s *Service) Seed() string {
	return s.opts.Seed
}

// Next derives the next document number from the ledger's identifier
// column, header excluded, in storage order. An empty column yields the
// seed. A final (or, under StrategyMax, fully) unparseable column also
// yields the seed, but that recovery is logged: a single malformed row
// resetting the sequence is an operator problem, not a normal path.
func (s *Service) Next(ids []string) string {
	if len(ids) == 0 {
		return s.opts.Seed
	}

	switch s.opts.Strategy {
	case StrategyMax:
		return s.nextFromMax(ids)
	default:
		return s.nextFromLast(ids)
	}
}

func (s *Service) nextFromLast(ids []string) string {
	last := ids[len(ids)-1]
	prefix, n, err := s.parse(last)
	if err != nil {
		s.log.Warn().
			Str("last_id", last).
			Str("seed", s.opts.Seed).
			Err(err).
			Msg("Last document number is unparseable, numbering reset to seed")
		return s.opts.Seed
	}
	return s.render(prefix, n+1)
}

func (s *Service) nextFromMax(ids []string) string {
	max := -1
	prefix := ""
	skipped := 0
	for _, id := range ids {
		p, n, err := s.parse(id)
		if err != nil {
			skipped++
			continue
		}
		if n > max {
			max = n
			prefix = p
		}
	}
	if skipped > 0 {
		s.log.Warn().
			Int("skipped", skipped).
			Int("total", len(ids)).
			Msg("Ledger contains unparseable document numbers")
	}
	if max < 0 {
		s.log.Warn().
			Str("seed", s.opts.Seed).
			Msg("No parseable document number in ledger, numbering reset to seed")
		return s.opts.Seed
	}
	return s.render(prefix, max+1)
}

// parse extracts the running integer from an identifier under the active
// format rule. For the slash rule the left segment is kept verbatim as the
// prefix; the tagged rule's prefix is the configured tag.
func (s *Service) parse(id string) (string, int, error) {
	id = strings.TrimSpace(id)

	switch s.opts.Format {
	case FormatTagged:
		rest, found := strings.CutPrefix(id, s.opts.Tag)
		if !found {
			return "", 0, fmt.Errorf("missing tag %q in %q", s.opts.Tag, id)
		}
		// A trailing /<year> is legacy data; strip it.
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			rest = rest[:i]
		}
		n, err := strconv.Atoi(rest)
		if err != nil {
			return "", 0, fmt.Errorf("non-numeric suffix in %q", id)
		}
		return s.opts.Tag, n, nil

	default:
		parts := strings.Split(id, "/")
		if len(parts) != 2 {
			return "", 0, fmt.Errorf("missing delimiter in %q", id)
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil {
			return "", 0, fmt.Errorf("non-numeric suffix in %q", id)
		}
		return parts[0], n, nil
	}
}

func (s *Service) render(prefix string, n int) string {
	switch s.opts.Format {
	case FormatTagged:
		out := s.opts.Tag + fmt.Sprintf("%03d", n)
		if s.opts.Year != "" {
			out += "/" + s.opts.Year
		}
		return out
	default:
		return fmt.Sprintf("%s/%03d", prefix, n)
	}
}
