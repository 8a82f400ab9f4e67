// Package database provides the flat-file document store used by every storefront component.
// Each collection is a single JSON file mapping guild IDs to that guild's partition.
package database

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/PancyStudios/PancyStoreGo/pkg/logger"
	"github.com/PancyStudios/PancyStoreGo/pkg/metrics"
	"github.com/goccy/go-json"
	"github.com/zeebo/blake3"
)

// Collection names a persisted collection. The name is also the file stem.
type Collection string

const (
	CollGuildConfig Collection = "guild_config"
	CollTickets     Collection = "tickets"
	CollVouches     Collection = "vouches"
	CollWarnings    Collection = "warnings"
	CollBlacklist   Collection = "blacklist"
	CollWallets     Collection = "wallets"
	CollStock       Collection = "stock"
)

// Collections lists every collection the store manages.
var Collections = []Collection{
	CollGuildConfig,
	CollTickets,
	CollVouches,
	CollWarnings,
	CollBlacklist,
	CollWallets,
	CollStock,
}

var (
	ErrStorageUnavailable     = errors.New("storage unavailable")
	ErrConcurrentModification = errors.New("concurrent modification")
	ErrUnknownCollection      = errors.New("unknown collection")
	ErrInvalidKey             = errors.New("invalid partition key")

	// ErrNoChange can be returned from a Mutate callback to finish
	// successfully without writing.
	ErrNoChange = errors.New("no change")
)

// Document is the full content of a collection: guild ID -> raw partition.
type Document map[string]json.RawMessage

// Version is a content stamp of a collection file. The zero value means the
// file did not exist.
type Version string

// snapshot is the cached parse of one collection file.
type snapshot struct {
	modTime time.Time
	size    int64
	version Version
	doc     Document
}

// Store is a per-guild partitioned document store over flat JSON files.
// Every load-modify-save cycle on a collection runs under that collection's mutex.
type Store struct {
	dir   string
	locks map[Collection]*sync.Mutex

	cacheMu sync.RWMutex
	cache   map[Collection]*snapshot
}

var (
	store     *Store
	storeOnce sync.Once
)

// Init initializes the global store instance
func Init(dir string) (*Store, error) {
	var err error
	storeOnce.Do(func() {
		store, err = NewStore(dir)
		if err == nil {
			err = store.EnsureInitialized()
		}
	})
	return store, err
}

// Get returns the global store instance
func Get() *Store {
	return store
}

// NewStore creates a store rooted at dir. Files are not touched until
// EnsureInitialized or the first write.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty data directory", ErrStorageUnavailable)
	}
	s := &Store{
		dir:   dir,
		locks: make(map[Collection]*sync.Mutex, len(Collections)),
		cache: make(map[Collection]*snapshot, len(Collections)),
	}
	for _, c := range Collections {
		s.locks[c] = &sync.Mutex{}
	}
	return s, nil
}

// Dir returns the data directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(c Collection) string {
	return filepath.Join(s.dir, string(c)+".json")
}

func (s *Store) lock(c Collection) (*sync.Mutex, error) {
	mu, ok := s.locks[c]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, c)
	}
	return mu, nil
}

// EnsureInitialized creates the data directory and every collection file
// that does not exist yet, each holding an empty map. Existing files are
// never truncated, so it is safe to call at any time.
func (s *Store) EnsureInitialized() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating %s: %w", ErrStorageUnavailable, s.dir, err)
	}

	created := 0
	for _, c := range Collections {
		ok, err := s.createIfAbsent(s.path(c), []byte("{}\n"))
		if err != nil {
			return fmt.Errorf("%w: initializing %s: %w", ErrStorageUnavailable, c, err)
		}
		if ok {
			created++
		}
	}

	if created > 0 {
		logger.System(fmt.Sprintf("Se crearon %d colecciones nuevas en %s", created, s.dir), "DB")
	}
	return nil
}

// createIfAbsent publishes data at path only if nothing is there yet. The
// content is written to a temp file first and hard-linked into place, so a
// reader never sees a half-written file.
func (s *Store) createIfAbsent(path string, data []byte) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	tmp, err := os.CreateTemp(s.dir, ".init-*.tmp")
	if err != nil {
		return false, err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return false, err
	}
	if err := tmp.Close(); err != nil {
		return false, err
	}

	if err := os.Link(tmpPath, path); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Load returns the whole content of a collection. A missing file reads as
// an empty map. Unreadable or corrupt files yield ErrStorageUnavailable.
func (s *Store) Load(c Collection) (Document, error) {
	doc, _, err := s.LoadVersioned(c)
	return doc, err
}

// LoadVersioned is Load plus the content stamp to pass to SaveIfVersion.
func (s *Store) LoadVersioned(c Collection) (Document, Version, error) {
	if _, err := s.lock(c); err != nil {
		return nil, "", err
	}
	snap, err := s.read(c)
	if err != nil {
		return nil, "", err
	}
	return snap.doc.clone(), snap.version, nil
}

// read returns the current snapshot, re-reading the file only when its
// size or modification time changed since the last read.
func (s *Store) read(c Collection) (*snapshot, error) {
	path := s.path(c)

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &snapshot{doc: Document{}}, nil
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, path, err)
	}

	s.cacheMu.RLock()
	cached := s.cache[c]
	s.cacheMu.RUnlock()
	if cached != nil && cached.size == info.Size() && cached.modTime.Equal(info.ModTime()) {
		metrics.StoreCacheHits.WithLabelValues(string(c)).Inc()
		return cached, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &snapshot{doc: Document{}}, nil
		}
		return nil, fmt.Errorf("%w: reading %s: %w", ErrStorageUnavailable, path, err)
	}

	doc, err := decodeDocument(data)
	if err != nil {
		logger.Error(fmt.Sprintf("Colección corrupta '%s': %v", c, err), "DB")
		return nil, fmt.Errorf("%w: decoding %s: %w", ErrStorageUnavailable, path, err)
	}

	snap := &snapshot{
		modTime: info.ModTime(),
		size:    info.Size(),
		version: versionOf(data),
		doc:     doc,
	}
	s.cacheMu.Lock()
	s.cache[c] = snap
	s.cacheMu.Unlock()
	return snap, nil
}

// Save atomically replaces the content of a collection.
func (s *Store) Save(c Collection, doc Document) error {
	mu, err := s.lock(c)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	return s.write(c, doc)
}

// SaveIfVersion saves doc only if the collection still carries version
// expected, otherwise it returns ErrConcurrentModification and the caller
// should retry its whole read-modify-write.
func (s *Store) SaveIfVersion(c Collection, doc Document, expected Version) error {
	mu, err := s.lock(c)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()

	current, err := s.currentVersion(c)
	if err != nil {
		return err
	}
	if current != expected {
		metrics.StoreWrites.WithLabelValues(string(c), "conflict").Inc()
		return fmt.Errorf("%w: %s changed since it was loaded", ErrConcurrentModification, c)
	}
	return s.write(c, doc)
}

// currentVersion hashes the file on disk, bypassing the snapshot cache so
// that writes from other processes are detected.
func (s *Store) currentVersion(c Collection) (Version, error) {
	data, err := os.ReadFile(s.path(c))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("%w: reading %s: %w", ErrStorageUnavailable, s.path(c), err)
	}
	return versionOf(data), nil
}

// Mutate runs a load-modify-save cycle on a collection while holding its
// lock. If fn returns an error nothing is written; ErrNoChange is not
// reported to the caller.
func (s *Store) Mutate(c Collection, fn func(doc Document) error) error {
	mu, err := s.lock(c)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()

	snap, err := s.read(c)
	if err != nil {
		return err
	}
	doc := snap.doc.clone()
	if err := fn(doc); err != nil {
		if errors.Is(err, ErrNoChange) {
			return nil
		}
		return err
	}
	return s.write(c, doc)
}

// GetPartition returns one guild's partition.
func (s *Store) GetPartition(c Collection, guildID string) (json.RawMessage, bool, error) {
	if guildID == "" {
		return nil, false, ErrInvalidKey
	}
	if _, err := s.lock(c); err != nil {
		return nil, false, err
	}
	snap, err := s.read(c)
	if err != nil {
		return nil, false, err
	}
	raw, ok := snap.doc[guildID]
	if !ok {
		return nil, false, nil
	}
	return append(json.RawMessage(nil), raw...), true, nil
}

// SetPartition replaces one guild's partition, leaving the others intact.
func (s *Store) SetPartition(c Collection, guildID string, partition json.RawMessage) error {
	if guildID == "" {
		return ErrInvalidKey
	}
	if !json.Valid(partition) {
		return fmt.Errorf("%w: partition for %s is not valid JSON", ErrInvalidKey, guildID)
	}
	return s.Mutate(c, func(doc Document) error {
		doc[guildID] = append(json.RawMessage(nil), partition...)
		return nil
	})
}

// MutatePartition is Mutate scoped to one guild. fn receives the current
// partition (nil when absent) and returns its replacement; a nil
// replacement removes the partition.
func (s *Store) MutatePartition(c Collection, guildID string, fn func(raw json.RawMessage, exists bool) (json.RawMessage, error)) error {
	if guildID == "" {
		return ErrInvalidKey
	}
	return s.Mutate(c, func(doc Document) error {
		raw, ok := doc[guildID]
		next, err := fn(raw, ok)
		if err != nil {
			return err
		}
		if next == nil {
			delete(doc, guildID)
			return nil
		}
		doc[guildID] = next
		return nil
	})
}

// write encodes doc and swaps it into place. The caller holds the lock.
func (s *Store) write(c Collection, doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		metrics.StoreWrites.WithLabelValues(string(c), "error").Inc()
		return fmt.Errorf("%w: encoding %s: %w", ErrStorageUnavailable, c, err)
	}
	data = append(data, '\n')

	path := s.path(c)
	if err := WriteFileAtomic(path, data); err != nil {
		metrics.StoreWrites.WithLabelValues(string(c), "error").Inc()
		logger.Error(fmt.Sprintf("Error guardando la colección '%s': %v", c, err), "DB")
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	metrics.StoreWrites.WithLabelValues(string(c), "ok").Inc()

	if info, err := os.Stat(path); err == nil {
		snap := &snapshot{
			modTime: info.ModTime(),
			size:    info.Size(),
			version: versionOf(data),
			doc:     doc.clone(),
		}
		s.cacheMu.Lock()
		s.cache[c] = snap
		s.cacheMu.Unlock()
	}
	return nil
}

// WriteFileAtomic writes data to a temp file next to path and renames it over
// path. Either the new content lands completely or the old one remains.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing %s: %w", tmpPath, err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("syncing %s: %w", tmpPath, err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming to %s: %w", path, err)
	}

	success = true
	return nil
}

// Status reports whether the data directory is usable, in the same shape
// the status command and API render.
func (s *Store) Status() (string, bool) {
	if s == nil {
		return "🔴 | Desconectado", false
	}
	info, err := os.Stat(s.dir)
	if err != nil || !info.IsDir() {
		return "🔴 | Desconectado", false
	}
	probe, err := os.CreateTemp(s.dir, ".probe-*")
	if err != nil {
		return "🟠 | Solo lectura", false
	}
	probe.Close()
	os.Remove(probe.Name())
	return "🟢 | En linea", true
}

// ClearCache drops every cached snapshot.
func (s *Store) ClearCache() {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.cache = make(map[Collection]*snapshot, len(Collections))
}

// PrimeCache reads every collection once so the first commands do not pay
// for parsing. Failures are logged, not returned.
func (s *Store) PrimeCache() {
	for _, c := range Collections {
		snap, err := s.read(c)
		if err != nil {
			logger.Warn(fmt.Sprintf("No se pudo precargar '%s': %v", c, err), "DB")
			continue
		}
		logger.Debug(fmt.Sprintf("Caché para '%s' preparada (%d servidores)", c, len(snap.doc)), "DB")
	}
}

func decodeDocument(data []byte) (Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Document{}, nil
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		// A literal null is as unusable as garbage.
		return nil, errors.New("collection root is null")
	}
	return doc, nil
}

func versionOf(data []byte) Version {
	sum := blake3.Sum256(data)
	return Version(hex.EncodeToString(sum[:]))
}

// clone copies the map. Raw partitions are shared; nothing mutates them in place.
func (d Document) clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
