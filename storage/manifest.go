package storage

import (
	"errors"
	"io/fs"
	"os"
	"sync"

	"gopkg.in/yaml.v2"
)

// Entry describes one cached clip file.
type Entry struct {
	ID         string `yaml:"id"`
	Text       string `yaml:"text"`
	Path       string `yaml:"path"`
	SampleRate int    `yaml:"sample_rate"`
}

// Manifest is a YAML index of cached clips keyed by text hash. Every change
// is flushed to disk immediately.
type Manifest struct {
	entries  map[string]Entry
	filename string
	mutex    sync.RWMutex
}

// NewManifest opens the manifest at filename. A missing file is an empty
// manifest; it is created by the first Put.
func NewManifest(filename string) (*Manifest, error) {
	m := &Manifest{
		entries:  make(map[string]Entry),
		filename: filename,
	}

	err := m.load()
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Manifest) load() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	file, err := os.ReadFile(m.filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	err = yaml.Unmarshal(file, &m.entries)
	if err != nil {
		return err
	}
	if m.entries == nil {
		m.entries = make(map[string]Entry)
	}

	return nil
}

func (m *Manifest) Get(hash string) (Entry, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	entry, ok := m.entries[hash]
	return entry, ok
}

func (m *Manifest) Put(hash string, entry Entry) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.entries[hash] = entry
	return m.flush()
}

func (m *Manifest) Delete(hash string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, ok := m.entries[hash]; !ok {
		return nil
	}
	delete(m.entries, hash)
	return m.flush()
}

func (m *Manifest) Len() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return len(m.entries)
}

func (m *Manifest) flush() error {
	yamlData, err := yaml.Marshal(&m.entries)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(m.filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(yamlData)
	return err
}
