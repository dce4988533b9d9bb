package instance

import (
	"os"
	"strings"

	"github.com/detailpro/detailpro-backend/pkg/env"
)

const fallbackID = "worker-0"

// ID names this process in worker logs. DETAILPRO_WORKER_ID wins, then the
// hostname (the pod name under Kubernetes or Cloud Run).
func ID() string {
	if id := strings.TrimSpace(env.Get("DETAILPRO_WORKER_ID", "")); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return fallbackID
}
