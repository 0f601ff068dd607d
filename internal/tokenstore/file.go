package tokenstore

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/BurntSushi/toml"
)

// fileState is the on-disk TOML layout. Queue tokens are keyed by the
// decimal event id, which keeps the per-event namespaces disjoint.
type fileState struct {
	Auth  string            `toml:"auth,omitempty"`
	Queue map[string]string `toml:"queue,omitempty"`
}

// File is a Store backed by a TOML file, the persistence that survives
// between invocations. Mutations are written through immediately; write
// failures are logged, not returned, since the Store contract is
// synchronous and side-effect-free for callers.
type File struct {
	path   string
	logger *slog.Logger

	mu    sync.Mutex
	state fileState
}

// OpenFile loads (or initializes) the token file at path. A missing file
// is an empty store; a corrupt file is an error.
func OpenFile(path string, logger *slog.Logger) (*File, error) {
	if logger == nil {
		logger = slog.Default()
	}
	f := &File{path: path, logger: logger}
	if _, err := toml.DecodeFile(path, &f.state); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	}
	if f.state.Queue == nil {
		f.state.Queue = map[string]string{}
	}
	return f, nil
}

func (f *File) Auth() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.Auth
}

func (f *File) SetAuth(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Auth = token
	f.save()
}

func (f *File) ClearAuth() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Auth = ""
	f.save()
}

func (f *File) Queue(eventID int64) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.Queue[queueKey(eventID)]
}

func (f *File) SetQueue(eventID int64, token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Queue[queueKey(eventID)] = token
	f.save()
}

func (f *File) ClearQueue(eventID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.state.Queue, queueKey(eventID))
	f.save()
}

func (f *File) ClearAllQueue() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Queue = map[string]string{}
	f.save()
}

func queueKey(eventID int64) string {
	return strconv.FormatInt(eventID, 10)
}

// save writes the current state back to disk. Caller holds f.mu.
func (f *File) save() {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		f.logger.Warn("token store: creating state dir failed", "path", f.path, "error", err)
		return
	}
	file, err := os.OpenFile(f.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		f.logger.Warn("token store: opening file failed", "path", f.path, "error", err)
		return
	}
	defer file.Close()
	if err := toml.NewEncoder(file).Encode(f.state); err != nil {
		f.logger.Warn("token store: writing file failed", "path", f.path, "error", err)
	}
}
