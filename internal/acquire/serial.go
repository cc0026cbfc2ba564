package acquire

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"go.bug.st/serial"

	"github.com/banshee-data/signal.report/internal/signal"
)

// Serial reads samples from a sensor on a serial port. The sensor emits one
// comma-separated line per reading: uptime,magnitude,value. The value field
// becomes the sample; the other fields are diagnostic.
type Serial struct {
	portName string
	baud     int
	samples  int
	sig      *signal.Signal

	// open is swappable so tests can inject a mock port.
	open func() (serial.Port, error)
}

// NewSerial creates a serial acquirer for portName at the given baud rate.
func NewSerial(portName string, baud int, samples int, sig *signal.Signal) *Serial {
	if baud <= 0 {
		baud = 115200
	}
	if samples <= 0 {
		samples = 10
	}
	s := &Serial{portName: portName, baud: baud, samples: samples, sig: sig}
	s.open = func() (serial.Port, error) {
		mode := &serial.Mode{
			BaudRate: s.baud,
			DataBits: 8,
			Parity:   serial.NoParity,
			StopBits: 1,
		}
		return serial.Open(s.portName, mode)
	}
	return s
}

func (s *Serial) Signal() *signal.Signal { return s.sig }

// Acquire reads lines from the port until the sample budget is met.
func (s *Serial) Acquire(ctx context.Context) error {
	port, err := s.open()
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", s.portName, err)
	}
	defer port.Close()

	scan := bufio.NewScanner(port)
	collected := 0
	for collected < s.samples {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !scan.Scan() {
			if err := scan.Err(); err != nil {
				return fmt.Errorf("failed to read from serial port: %w", err)
			}
			return fmt.Errorf("serial port closed after %d of %d samples", collected, s.samples)
		}
		v, err := parseReading(scan.Text())
		if err != nil {
			log.Printf("skipping serial line: %v", err)
			continue
		}
		if err := s.sig.Put(v); err != nil {
			return fmt.Errorf("failed to store sample %d: %w", collected, err)
		}
		collected++
	}

	s.sig.AcquiredAt = time.Now()
	log.Printf("serial acquisition complete: %d samples from %s", collected, s.portName)
	return nil
}

// parseReading extracts the sample value from an uptime,magnitude,value line.
func parseReading(line string) (float64, error) {
	segments := strings.Split(strings.TrimSpace(line), ",")
	if len(segments) != 3 {
		return 0, fmt.Errorf("invalid payload format: %q, expected 3 segments", line)
	}
	if _, err := strconv.ParseFloat(segments[0], 64); err != nil {
		return 0, fmt.Errorf("failed to parse uptime: %v", err)
	}
	if _, err := strconv.ParseFloat(segments[1], 64); err != nil {
		return 0, fmt.Errorf("failed to parse magnitude: %v", err)
	}
	v, err := strconv.ParseFloat(segments[2], 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse value: %v", err)
	}
	return v, nil
}
