package instance

import (
	"os"
	"testing"
)

func TestIDPrefersExplicitWorkerID(t *testing.T) {
	t.Setenv("DETAILPRO_WORKER_ID", " publisher-2 ")
	if got := ID(); got != "publisher-2" {
		t.Fatalf("expected publisher-2, got %q", got)
	}
}

func TestIDFallsBackToHostname(t *testing.T) {
	t.Setenv("DETAILPRO_WORKER_ID", "")
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = fallbackID
	}
	if got := ID(); got != host {
		t.Fatalf("expected %q, got %q", host, got)
	}
}
