// Package feed provides sources of progress percentages for progress dialogs.
package feed

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kpumuk/smalltalk/internal/logging"
	"github.com/kpumuk/smalltalk/internal/mathutil"
)

// ErrIncomplete is returned when a feed ends before reaching 100%.
var ErrIncomplete = errors.New("progress feed ended before completion")

// Feed delivers progress percentages until the work completes.
type Feed interface {
	// Run calls fn for every percentage received. It returns nil once 100 has
	// been delivered, ErrIncomplete when the source ends first, or the
	// context error when ctx ends.
	Run(ctx context.Context, fn func(percent int)) error
}

// ParsePercent parses "42" or "42%" and clamps the result to 0..100.
func ParsePercent(s string) (int, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	if s == "" {
		return 0, errors.New("empty percentage")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0, fmt.Errorf("parse percentage %q: %w", s, err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("parse percentage %q: not a finite number", s)
		}
		n = int(mathutil.Clamp(f, 0, 100))
	}
	return mathutil.Clamp(n, 0, 100), nil
}

// Reader reads one percentage per line.
type Reader struct {
	r io.Reader
}

var _ Feed = (*Reader)(nil)

// NewReader creates a feed reading lines from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Run implements Feed. Blank and unparsable lines are skipped.
func (f *Reader) Run(ctx context.Context, fn func(percent int)) error {
	scanner := bufio.NewScanner(f.r)
	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return err
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		percent, err := ParsePercent(text)
		if err != nil {
			logging.Warn("skipping progress line", zap.Int("line", line), zap.Error(err))
			continue
		}
		fn(percent)
		if percent == 100 {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read progress: %w", err)
	}
	return ErrIncomplete
}
