package acquire

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"github.com/banshee-data/signal.report/internal/signal"
)

// PcapReplay reads samples from a capture of UDP datagrams recorded from a
// sensor. Each datagram payload carries ASCII sample values separated by
// commas or newlines. The pure-Go pcapgo reader is used so no libpcap is
// needed at build time.
type PcapReplay struct {
	path    string
	udpPort int
	samples int
	sig     *signal.Signal
}

// NewPcapReplay creates a replay acquirer for the capture at path. A non-zero
// udpPort keeps only datagrams addressed to that port. samples caps how many
// values are taken; zero or negative means the whole capture.
func NewPcapReplay(path string, udpPort, samples int, sig *signal.Signal) *PcapReplay {
	return &PcapReplay{path: path, udpPort: udpPort, samples: samples, sig: sig}
}

func (p *PcapReplay) Signal() *signal.Signal { return p.sig }

// Acquire replays the capture into the signal.
func (p *PcapReplay) Acquire(ctx context.Context) error {
	f, err := os.Open(p.path)
	if err != nil {
		return fmt.Errorf("failed to open capture %s: %w", p.path, err)
	}
	defer f.Close()

	r, err := pcapgo.NewReader(f)
	if err != nil {
		return fmt.Errorf("failed to read capture %s: %w", p.path, err)
	}

	source := gopacket.NewPacketSource(r, r.LinkType())
	packetCount := 0
	collected := 0
	start := time.Now()

	for packet := range source.Packets() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if packet == nil {
			break
		}
		packetCount++

		udpLayer := packet.Layer(layers.LayerTypeUDP)
		if udpLayer == nil {
			continue
		}
		udp, ok := udpLayer.(*layers.UDP)
		if !ok {
			continue
		}
		if p.udpPort != 0 && int(udp.DstPort) != p.udpPort {
			continue
		}
		if len(udp.Payload) == 0 {
			continue
		}

		for _, v := range parsePayload(udp.Payload) {
			if p.samples > 0 && collected >= p.samples {
				break
			}
			if err := p.sig.Put(v); err != nil {
				return fmt.Errorf("failed to store sample %d: %w", collected, err)
			}
			collected++
		}
		if p.samples > 0 && collected >= p.samples {
			break
		}
	}

	p.sig.AcquiredAt = time.Now()
	log.Printf("pcap replay complete: %d samples from %d packets in %v",
		collected, packetCount, time.Since(start))
	return nil
}

// parsePayload splits a datagram payload into sample values, skipping fields
// that do not parse as floats.
func parsePayload(payload []byte) []float64 {
	fields := strings.FieldsFunc(string(payload), func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r' || r == ' '
	})
	var out []float64
	for _, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}
