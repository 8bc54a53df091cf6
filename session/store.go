package session

import (
	"fmt"
	"os"
	"sync"

	"github.com/peterbourgon/diskv/v3"
)

const (
	cacheSizeMax = 64 * 1024
	filePerm     = 0600
	pathPerm     = 0700
)

//go:generate mockgen --build_flags=--mod=mod -source=./store.go -destination=./test/mock_store.go -package test MockStore

// Store is a persistent key-value storage for session data.
// Get returns an empty string when the key is not set.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Clear() error
}

type diskStore struct {
	disk *diskv.Diskv
}

var _ Store = &diskStore{}

func NewDiskStore(dir string) (Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("session directory is required")
	}
	if err := os.MkdirAll(dir, pathPerm); err != nil {
		return nil, fmt.Errorf("unable to create session directory: %w", err)
	}

	return &diskStore{
		disk: diskv.New(diskv.Options{
			BasePath:     dir,
			CacheSizeMax: cacheSizeMax,
			FilePerm:     filePerm,
			PathPerm:     pathPerm,
		}),
	}, nil
}

func (d *diskStore) Get(key string) (string, error) {
	if !d.disk.Has(key) {
		return "", nil
	}
	value, err := d.disk.Read(key)
	if os.IsNotExist(err) {
		return "", nil
	} else if err != nil {
		return "", err
	}
	return string(value), nil
}

func (d *diskStore) Set(key, value string) error {
	return d.disk.Write(key, []byte(value))
}

func (d *diskStore) Clear() error {
	for _, key := range Keys {
		if !d.disk.Has(key) {
			continue
		}
		if err := d.disk.Erase(key); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

type memoryStore struct {
	mu     *sync.RWMutex
	values map[string]string
}

var _ Store = &memoryStore{}

func NewMemoryStore() Store {
	return &memoryStore{
		mu:     &sync.RWMutex{},
		values: make(map[string]string),
	}
}

func (m *memoryStore) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.values[key], nil
}

func (m *memoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	return nil
}

func (m *memoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values = make(map[string]string)
	return nil
}
