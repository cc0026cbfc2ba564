// Package acquire provides strategies for reading signal samples from
// different sources: console input, data files, synthetic generators, serial
// ports and recorded pcap captures.
package acquire

import (
	"context"
	"fmt"

	"github.com/banshee-data/signal.report/internal/signal"
)

// Acquirer kind constants. These are the values accepted in config files.
const (
	KindConsole = "console"
	KindFile    = "file"
	KindSine    = "sine"
	KindSerial  = "serial"
	KindPcap    = "pcap"
)

// ValidKinds lists the accepted acquirer kinds.
var ValidKinds = []string{KindConsole, KindFile, KindSine, KindSerial, KindPcap}

// Acquirer fills an injected signal with samples from its source.
type Acquirer interface {
	// Acquire reads samples into the signal until the source is exhausted,
	// the sample budget is reached, or the context is cancelled.
	Acquire(ctx context.Context) error
	// Signal returns the signal being filled.
	Signal() *signal.Signal
}

// Config carries the per-strategy acquisition parameters. Only the fields
// relevant to the configured kind are used.
type Config struct {
	// Samples is the number of samples to read (console, sine, serial, pcap).
	Samples int
	// Path is the input file for file and pcap acquirers.
	Path string
	// Port and Baud configure the serial acquirer.
	Port string
	Baud int
	// UDPPort filters pcap datagrams; zero accepts any port.
	UDPPort int
	// Amplitude, Frequency, SampleRate and Noise configure the sine acquirer.
	Amplitude  float64
	Frequency  float64
	SampleRate float64
	Noise      float64
}

// New creates an acquirer of the given kind writing into sig.
func New(kind string, cfg Config, sig *signal.Signal) (Acquirer, error) {
	switch kind {
	case KindConsole:
		return NewConsole(nil, nil, cfg.Samples, sig), nil
	case KindFile:
		if cfg.Path == "" {
			return nil, fmt.Errorf("file acquirer requires a path")
		}
		return NewFile(cfg.Path, sig), nil
	case KindSine:
		return NewSine(cfg, sig), nil
	case KindSerial:
		if cfg.Port == "" {
			return nil, fmt.Errorf("serial acquirer requires a port")
		}
		return NewSerial(cfg.Port, cfg.Baud, cfg.Samples, sig), nil
	case KindPcap:
		if cfg.Path == "" {
			return nil, fmt.Errorf("pcap acquirer requires a capture path")
		}
		return NewPcapReplay(cfg.Path, cfg.UDPPort, cfg.Samples, sig), nil
	default:
		return nil, fmt.Errorf("unknown acquirer kind %q (valid: console, file, sine, serial, pcap)", kind)
	}
}
