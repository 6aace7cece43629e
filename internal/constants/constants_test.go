package constants

import (
	"strings"
	"testing"
)

func TestDefaultValues(t *testing.T) {
	if DefaultPort != "8080" {
		t.Errorf("Expected DefaultPort to be '8080', got '%s'", DefaultPort)
	}

	if DefaultDBPath != "mapcat.db" {
		t.Errorf("Expected DefaultDBPath to be 'mapcat.db', got '%s'", DefaultDBPath)
	}

	if DefaultWorkers < 1 {
		t.Errorf("Expected DefaultWorkers to be at least 1, got %d", DefaultWorkers)
	}

	if DefaultListLimit > MaxListLimit {
		t.Errorf("DefaultListLimit %d exceeds MaxListLimit %d", DefaultListLimit, MaxListLimit)
	}
}

func TestMapSuffixes(t *testing.T) {
	for _, suffix := range []string{SuffixMap, SuffixIvar, SuffixTime} {
		if !strings.HasPrefix(suffix, "_") {
			t.Errorf("Expected suffix %q to start with '_'", suffix)
		}
	}
}
