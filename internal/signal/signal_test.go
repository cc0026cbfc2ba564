package signal

import (
	"strings"
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	s := New(nil)
	if s.ID == "" {
		t.Error("New should assign an ID")
	}
	if s.Kind() != KindSlice {
		t.Errorf("default buffer kind = %q, want %q", s.Kind(), KindSlice)
	}
	if !s.Empty() {
		t.Error("new signal should be empty")
	}
}

func TestSignalDelegation(t *testing.T) {
	s := New(NewRingBuffer(2))
	if err := s.Put(3.5); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
	v, err := s.Take()
	if err != nil || v != 3.5 {
		t.Errorf("Take = %v, %v, want 3.5, nil", v, err)
	}
}

func TestSignalString(t *testing.T) {
	s := New(NewSliceBuffer(2))
	s.ID = "abc"
	s.Comment = "bench run"
	s.AcquiredAt = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.Put(1)

	got := s.String()
	for _, want := range []string{"abc", "slice", "1 samples", "bench run", "2025-06-01T12:00:00Z"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, missing %q", got, want)
		}
	}
}
