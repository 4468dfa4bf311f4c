package leads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/wolfman30/landing-leads/pkg/logging"
)

// FileRepository stores all leads as one JSON array on disk.
//
// The collection is loaded once at open and kept in memory. Every Save
// rewrites the whole file through a temp file and rename while holding mu,
// so concurrent requests cannot lose each other's writes.
type FileRepository struct {
	path   string
	logger *logging.Logger

	mu    sync.Mutex
	leads []Lead
	clock stamper
}

// OpenFileRepository loads path (a missing file means no leads yet).
// Contents that fail to decode or validate are moved aside and the store
// starts empty; the error is logged rather than returned.
func OpenFileRepository(path string, logger *logging.Logger) (*FileRepository, error) {
	if logger == nil {
		logger = logging.Default()
	}
	r := &FileRepository{
		path:   path,
		logger: logger,
		clock:  stamper{now: time.Now},
	}

	leads, err := readLeadsFile(path)
	switch {
	case err == nil:
	case errors.Is(err, ErrCorruptStore):
		quarantined, qerr := r.quarantine()
		if qerr != nil {
			return nil, fmt.Errorf("leads: quarantine %s: %w: %w", path, ErrStorage, qerr)
		}
		logger.Error("lead store contents invalid, starting empty",
			"error", err,
			"path", path,
			"moved_to", quarantined,
		)
		leads = nil
	default:
		return nil, err
	}

	r.leads = leads
	if n := len(leads); n > 0 {
		r.clock.last = leads[n-1].CreatedAt
	}
	logger.Info("lead store opened", "path", path, "count", len(leads))
	return r, nil
}

// Save appends a lead and rewrites the file. On a write failure the
// in-memory collection is left unchanged and the error is returned.
func (r *FileRepository) Save(ctx context.Context, in NewLead) (*Lead, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	prevLast := r.clock.last
	lead := newLead(in, r.clock.next())

	next := make([]Lead, len(r.leads), len(r.leads)+1)
	copy(next, r.leads)
	next = append(next, lead)

	if err := writeLeadsFile(r.path, next); err != nil {
		r.clock.last = prevLast
		return nil, err
	}
	r.leads = next
	return &lead, nil
}

// List returns a copy of every stored lead in insertion order.
func (r *FileRepository) List(ctx context.Context) ([]Lead, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Lead, len(r.leads))
	copy(out, r.leads)
	return out, nil
}

// Path returns the backing file.
func (r *FileRepository) Path() string {
	return r.path
}

func (r *FileRepository) quarantine() (string, error) {
	target := r.path + ".corrupt-" + strconv.FormatInt(time.Now().Unix(), 10)
	if err := os.Rename(r.path, target); err != nil {
		return "", err
	}
	return target, nil
}

func readLeadsFile(path string) ([]Lead, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("leads: read %s: %w: %w", path, ErrStorage, err)
	}

	var leads []Lead
	if err := json.Unmarshal(data, &leads); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptStore, err)
	}
	if err := checkRecords(leads); err != nil {
		return nil, err
	}
	return leads, nil
}

// checkRecords enforces the invariants a stored collection must satisfy.
func checkRecords(leads []Lead) error {
	seen := make(map[string]struct{}, len(leads))
	for i, lead := range leads {
		if lead.ID == "" {
			return fmt.Errorf("%w: record %d has no id", ErrCorruptStore, i)
		}
		if lead.CreatedAt.IsZero() {
			return fmt.Errorf("%w: record %s has no createdAt", ErrCorruptStore, lead.ID)
		}
		if _, dup := seen[lead.ID]; dup {
			return fmt.Errorf("%w: duplicate id %s", ErrCorruptStore, lead.ID)
		}
		seen[lead.ID] = struct{}{}
	}
	return nil
}

func writeLeadsFile(path string, leads []Lead) error {
	data, err := json.MarshalIndent(leads, "", "  ")
	if err != nil {
		return fmt.Errorf("leads: encode: %w: %w", ErrStorage, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("leads: create %s: %w: %w", dir, ErrStorage, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("leads: temp file: %w: %w", ErrStorage, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("leads: write: %w: %w", ErrStorage, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("leads: sync: %w: %w", ErrStorage, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("leads: close: %w: %w", ErrStorage, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("leads: replace %s: %w: %w", path, ErrStorage, err)
	}
	return nil
}

var _ Repository = (*FileRepository)(nil)
