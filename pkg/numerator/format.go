// Package numerator formats and parses document numbers.
//
// Numbers look like PREFIX-YYYY-MM-NNNN (monthly layout) or PREFIX-YYYY-NNNN
// (yearly layout). The sequence NNNN runs per owner, prefix and year in both
// layouts. A collision fallback may append one more "-digits" group, which is
// never read back as part of the sequence.
package numerator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultPadWidth is the minimum width of the sequence segment.
const DefaultPadWidth = 4

// Config holds the layout of one document number family.
type Config struct {
	// Prefix added to all numbers (e.g., "INV", "WB")
	Prefix string

	// Monthly inserts the two-digit month after the year.
	Monthly bool

	// PadWidth is the minimum sequence width (default 4)
	PadWidth int
}

// DefaultConfig returns the monthly layout with a 4-digit sequence.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:   prefix,
		Monthly:  true,
		PadWidth: DefaultPadWidth,
	}
}

// YearHead is the literal shared by every number of the prefix in period's year,
// e.g. "INV-2024-".
func (c Config) YearHead(period time.Time) string {
	return fmt.Sprintf("%s-%s-", c.Prefix, period.Format("2006"))
}

// Format renders the number for seq. A non-empty suffix is appended as an
// extra "-suffix" group.
func Format(cfg Config, period time.Time, seq int64, suffix string) string {
	padWidth := cfg.PadWidth
	if padWidth == 0 {
		padWidth = DefaultPadWidth
	}

	var b strings.Builder
	b.WriteString(cfg.YearHead(period))
	if cfg.Monthly {
		b.WriteString(period.Format("01"))
		b.WriteByte('-')
	}
	fmt.Fprintf(&b, "%0*d", padWidth, seq)
	if suffix != "" {
		b.WriteByte('-')
		b.WriteString(suffix)
	}
	return b.String()
}

var (
	monthlySeqRE = regexp.MustCompile(`^\d{2}-(\d+)(?:-\d+)?$`)
	yearlySeqRE  = regexp.MustCompile(`^(\d+)(?:-\d+)?$`)
)

// ParseSequence extracts the sequence of number when it belongs to the
// family of cfg in the given year. ok is false for foreign numbers.
func ParseSequence(cfg Config, year int, number string) (seq int64, ok bool) {
	head := fmt.Sprintf("%s-%04d-", cfg.Prefix, year)
	rest, found := strings.CutPrefix(number, head)
	if !found {
		return 0, false
	}

	re := yearlySeqRE
	if cfg.Monthly {
		re = monthlySeqRE
	}
	m := re.FindStringSubmatch(rest)
	if m == nil {
		return 0, false
	}
	seq, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return seq, true
}

// SequencePattern is the Postgres regular expression whose first group
// captures the sequence from the part of a number that follows YearHead.
func (c Config) SequencePattern() string {
	if c.Monthly {
		return `^\d{2}-(\d+)`
	}
	return `^(\d+)`
}

// Matches reports whether number is well formed for cfg, in any year.
func Matches(cfg Config, number string) bool {
	rest, found := strings.CutPrefix(number, cfg.Prefix+"-")
	if !found || len(rest) < 5 || rest[4] != '-' {
		return false
	}
	year, err := strconv.Atoi(rest[:4])
	if err != nil {
		return false
	}
	_, ok := ParseSequence(cfg, year, number)
	return ok
}
