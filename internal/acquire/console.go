package acquire

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/banshee-data/signal.report/internal/signal"
)

// Console reads samples interactively, prompting for one value per line.
// Malformed input re-prompts instead of failing the acquisition.
type Console struct {
	in      io.Reader
	out     io.Writer
	samples int
	sig     *signal.Signal
}

// NewConsole creates a console acquirer reading samples values. A nil in or
// out falls back to stdin/stdout.
func NewConsole(in io.Reader, out io.Writer, samples int, sig *signal.Signal) *Console {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	if samples <= 0 {
		samples = 5
	}
	return &Console{in: in, out: out, samples: samples, sig: sig}
}

func (c *Console) Signal() *signal.Signal { return c.sig }

// Acquire prompts for samples until the budget is met or input runs out.
// When the signal carries no comment yet, a description is prompted for
// first so interactive captures are labelled in the archive.
func (c *Console) Acquire(ctx context.Context) error {
	fmt.Fprintf(c.out, "Reading %d samples from console\n", c.samples)
	scanner := bufio.NewScanner(c.in)

	if c.sig.Comment == "" {
		fmt.Fprint(c.out, "comment> ")
		if scanner.Scan() {
			c.sig.Comment = strings.TrimSpace(scanner.Text())
		}
	}

	for i := 0; i < c.samples; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		v, err := c.readValue(scanner, i)
		if err != nil {
			return err
		}
		if err := c.sig.Put(v); err != nil {
			return fmt.Errorf("failed to store sample %d: %w", i, err)
		}
	}

	c.sig.AcquiredAt = time.Now()
	return nil
}

func (c *Console) readValue(scanner *bufio.Scanner, i int) (float64, error) {
	for {
		fmt.Fprintf(c.out, "sample %d> ", i)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return 0, fmt.Errorf("failed to read input: %w", err)
			}
			return 0, fmt.Errorf("input closed after %d samples", i)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(scanner.Text()), 64)
		if err == nil {
			return v, nil
		}
		fmt.Fprintf(c.out, "invalid number %q, try again\n", scanner.Text())
	}
}
