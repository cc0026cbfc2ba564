package acquire

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/banshee-data/signal.report/internal/signal"
)

// File reads one sample value per line from a text file. Malformed lines are
// logged and skipped so a partially corrupt trace still loads.
type File struct {
	path string
	sig  *signal.Signal
}

// NewFile creates a file acquirer for the given path.
func NewFile(path string, sig *signal.Signal) *File {
	return &File{path: path, sig: sig}
}

func (f *File) Signal() *signal.Signal { return f.sig }

// Path returns the configured input file.
func (f *File) Path() string { return f.path }

// Acquire reads every parseable line of the file into the signal.
func (f *File) Acquire(ctx context.Context) error {
	file, err := os.Open(f.path)
	if err != nil {
		return fmt.Errorf("failed to open data file %s: %w", f.path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			log.Printf("skipping line %d of %s: invalid sample %q", lineNo, f.path, line)
			continue
		}
		if err := f.sig.Put(v); err != nil {
			return fmt.Errorf("failed to store sample from line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", f.path, err)
	}

	f.sig.AcquiredAt = time.Now()
	log.Printf("file acquisition complete: %d samples from %s", f.sig.Len(), f.path)
	return nil
}
