package brands

import (
	"bufio"
	"os"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
)

// AuditLog is the append-only unresolved-brand log: one brand key per line,
// consumed by the offline enrichment tooling. Writes are deduplicated with
// an in-memory set seeded from the existing file, so recording a brand twice
// in one process is a no-op.
type AuditLog struct {
	path string
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewAuditLog opens (or creates) the log at path and seeds the dedup set
// from its current contents.
func NewAuditLog(path string) (*AuditLog, error) {
	l := &AuditLog{path: path, seen: make(map[string]struct{})}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0o644)
	if err != nil {
		return nil, eris.Wrapf(err, "brands: open audit log %s", path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if key := strings.TrimSpace(scanner.Text()); key != "" {
			l.seen[key] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrap(err, "brands: read audit log")
	}
	return l, nil
}

// Record appends a brand key to the log unless it was already recorded.
func (l *AuditLog) Record(brandKey string) error {
	brandKey = strings.TrimSpace(brandKey)
	if brandKey == "" {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.seen[brandKey]; ok {
		return nil
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return eris.Wrapf(err, "brands: append audit log %s", l.path)
	}
	defer f.Close()

	if _, err := f.WriteString(brandKey + "\n"); err != nil {
		return eris.Wrap(err, "brands: write audit log")
	}
	l.seen[brandKey] = struct{}{}
	return nil
}

// Seen reports whether a brand key has already been recorded.
func (l *AuditLog) Seen(brandKey string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.seen[strings.TrimSpace(brandKey)]
	return ok
}
