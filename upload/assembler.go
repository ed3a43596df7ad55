// Package upload assembles sequentially numbered byte chunks into a single
// file and hands the finished file to the object storage gateway.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"
)

var (
	// ErrOutOfOrder means the chunk index is not the next expected one.
	// Duplicate and reordered chunks are rejected, not silently appended.
	ErrOutOfOrder = errors.New("chunk out of order")
	// ErrSizeMismatch means the assembled file does not match the size the
	// client declared up front.
	ErrSizeMismatch = errors.New("assembled size does not match declared size")
	// ErrUnknownUpload means no session exists for the given name.
	ErrUnknownUpload = errors.New("unknown upload")
)

// ObjectUploader is the storage gateway leg the assembler hands finished
// files to.
type ObjectUploader interface {
	Upload(ctx context.Context, localPath, folder, name string) (string, error)
}

// Sessions nobody has touched for this long are abandoned (a client that
// died mid-upload, or retried chunk zero under a fresh name) and get reaped.
const maxSessionIdle = time.Hour

// session tracks one named upload. Each session has its own lock, so two
// uploads for different names never contend, and two writers for the same
// name serialize instead of interleaving.
type session struct {
	mu       sync.Mutex
	next     int
	total    int
	received int64
	path     string
	touched  atomic.Int64
}

type Assembler struct {
	uploader ObjectUploader
	dir      string
	maxIdle  time.Duration

	mu       sync.Mutex
	sessions map[string]*session
}

func NewAssembler(uploader ObjectUploader, dir string) *Assembler {
	return &Assembler{
		uploader: uploader,
		dir:      dir,
		maxIdle:  maxSessionIdle,
		sessions: make(map[string]*session),
	}
}

func (a *Assembler) acquire(name string, total int) *session {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sweepLocked()
	s, ok := a.sessions[name]
	if !ok {
		s = &session{total: total, path: filepath.Join(a.dir, name)}
		s.touched.Store(time.Now().UnixNano())
		a.sessions[name] = s
	}
	return s
}

// sweepLocked drops idle sessions and removes their spool files. A session
// whose lock is held has a writer in flight and is left alone. Caller holds
// a.mu.
func (a *Assembler) sweepLocked() {
	cutoff := time.Now().Add(-a.maxIdle).UnixNano()
	for name, s := range a.sessions {
		if s.touched.Load() >= cutoff {
			continue
		}
		if !s.mu.TryLock() {
			continue
		}
		_ = os.Remove(s.path)
		s.mu.Unlock()
		delete(a.sessions, name)
	}
}

func (a *Assembler) drop(name string) {
	a.mu.Lock()
	delete(a.sessions, name)
	a.mu.Unlock()
}

// Append adds one chunk to the named upload. Chunks must arrive in order
// 0..totalChunks-1. On the final chunk the assembled file is checked against
// declaredSize, uploaded under folder, removed locally, and its URL returned
// with done=true. Before that, done=false.
func (a *Assembler) Append(ctx context.Context, name string, declaredSize int64, chunkIndex, totalChunks int, body io.Reader, folder string) (string, bool, error) {
	if name == "" || totalChunks <= 0 || chunkIndex < 0 || chunkIndex >= totalChunks {
		return "", false, fmt.Errorf("%w: index %d of %d", ErrOutOfOrder, chunkIndex, totalChunks)
	}

	s := a.acquire(name, totalChunks)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched.Store(time.Now().UnixNano())

	if chunkIndex != s.next {
		return "", false, fmt.Errorf("%w: got %d, want %d", ErrOutOfOrder, chunkIndex, s.next)
	}

	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return "", false, err
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return "", false, err
	}
	n, err := io.Copy(f, body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", false, err
	}
	s.received += n
	if chunkIndex < s.total-1 {
		s.next++
		return "", false, nil
	}

	// Final chunk: verify, ship, clean up. A size mismatch can never be
	// completed, so the partial file and session are discarded.
	if declaredSize > 0 && s.received != declaredSize {
		_ = os.Remove(s.path)
		a.drop(name)
		return "", false, fmt.Errorf("%w: have %d, declared %d", ErrSizeMismatch, s.received, declaredSize)
	}
	url, err := a.uploader.Upload(ctx, s.path, folder, name)
	if err != nil {
		// Back the final chunk out of the spool file so the client can
		// re-send it once storage recovers.
		s.received -= n
		_ = os.Truncate(s.path, s.received)
		return "", false, err
	}
	_ = os.Remove(s.path)
	a.drop(name)
	return url, true, nil
}

// Abort deletes the partial local file and forgets the session.
func (a *Assembler) Abort(name string) error {
	a.mu.Lock()
	s, ok := a.sessions[name]
	delete(a.sessions, name)
	a.mu.Unlock()
	if !ok {
		return ErrUnknownUpload
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
