package acquire

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"github.com/banshee-data/signal.report/internal/signal"
)

// writeTestCapture writes a pcap file containing one UDP datagram per payload
// addressed to the given destination port.
func writeTestCapture(t *testing.T, path string, dstPort int, payloads []string) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create capture: %v", err)
	}
	defer f.Close()

	w := pcapgo.NewWriter(f)
	if err := w.WriteFileHeader(65536, layers.LinkTypeEthernet); err != nil {
		t.Fatalf("write file header: %v", err)
	}

	for i, payload := range payloads {
		eth := &layers.Ethernet{
			SrcMAC:       net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x01},
			DstMAC:       net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x02},
			EthernetType: layers.EthernetTypeIPv4,
		}
		ip := &layers.IPv4{
			Version:  4,
			IHL:      5,
			TTL:      64,
			Protocol: layers.IPProtocolUDP,
			SrcIP:    net.IPv4(192, 168, 1, 10),
			DstIP:    net.IPv4(192, 168, 1, 20),
		}
		udp := &layers.UDP{
			SrcPort: 4000,
			DstPort: layers.UDPPort(dstPort),
		}
		if err := udp.SetNetworkLayerForChecksum(ip); err != nil {
			t.Fatalf("checksum layer: %v", err)
		}

		buf := gopacket.NewSerializeBuffer()
		opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
		if err := gopacket.SerializeLayers(buf, opts, eth, ip, udp, gopacket.Payload([]byte(payload))); err != nil {
			t.Fatalf("serialize packet %d: %v", i, err)
		}

		ci := gopacket.CaptureInfo{
			Timestamp:     time.Unix(1700000000+int64(i), 0),
			CaptureLength: len(buf.Bytes()),
			Length:        len(buf.Bytes()),
		}
		if err := w.WritePacket(ci, buf.Bytes()); err != nil {
			t.Fatalf("write packet %d: %v", i, err)
		}
	}
}

func TestPcapReplayAcquire(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sensor.pcap")
	writeTestCapture(t, path, 2368, []string{
		"1.0,2.0\n",
		"3.5\n-4.25\n",
	})

	sig := signal.New(signal.NewSliceBuffer(16))
	p := NewPcapReplay(path, 2368, 0, sig)
	if err := p.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	if diff := cmp.Diff([]float64{1.0, 2.0, 3.5, -4.25}, sig.Values()); diff != "" {
		t.Errorf("samples mismatch (-want +got):\n%s", diff)
	}
}

func TestPcapReplayPortFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mixed.pcap")
	writeTestCapture(t, path, 9999, []string{"1.0\n"})

	sig := signal.New(signal.NewSliceBuffer(16))
	p := NewPcapReplay(path, 2368, 0, sig)
	if err := p.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if sig.Len() != 0 {
		t.Errorf("port filter leaked %d samples", sig.Len())
	}
}

func TestPcapReplaySampleBudget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sensor.pcap")
	writeTestCapture(t, path, 2368, []string{"1,2,3,4,5\n"})

	sig := signal.New(signal.NewSliceBuffer(16))
	p := NewPcapReplay(path, 0, 3, sig)
	if err := p.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if sig.Len() != 3 {
		t.Errorf("Len = %d, want 3 (sample budget)", sig.Len())
	}
}

func TestPcapReplayMissingFile(t *testing.T) {
	sig := signal.New(signal.NewSliceBuffer(4))
	p := NewPcapReplay(filepath.Join(t.TempDir(), "absent.pcap"), 0, 0, sig)
	if err := p.Acquire(context.Background()); err == nil {
		t.Fatal("expected error for missing capture")
	}
}

func TestParsePayload(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    []float64
	}{
		{"comma separated", "1.0,2.0,3.0", []float64{1, 2, 3}},
		{"newline separated", "1.5\n2.5\n", []float64{1.5, 2.5}},
		{"mixed junk", "a,1.0,b\n2.0", []float64{1, 2}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parsePayload([]byte(tt.payload))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("parsePayload mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
