package document

import (
	"strings"
	"sync"

	"github.com/spf13/afero"
)

// NormalizeURI ensures consistent URI handling by removing the file:// prefix
// if present and converting to a clean path.
func NormalizeURI(uri string) string {
	uri = strings.TrimPrefix(uri, "file://")
	uri = strings.TrimPrefix(uri, "file:")
	return uri
}

// Manager handles document operations for the server. Lookups for URIs that
// were never opened fall back to reading the file from fs.
type Manager struct {
	store *sync.Map // map[string]*Document
	fs    afero.Fs
}

func NewManager(fsys afero.Fs) *Manager {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &Manager{
		store: &sync.Map{},
		fs:    fsys,
	}
}

// GetNoFallback returns the stored document without touching the filesystem.
func (m *Manager) GetNoFallback(uri string) (*Document, bool) {
	content, ok := m.store.Load(NormalizeURI(uri))
	if !ok {
		return nil, false
	}
	return content.(*Document), true
}

// Get returns the stored document, reading it from the filesystem if the
// client never opened it.
func (m *Manager) Get(uri string) (*Document, bool) {
	normalized := NormalizeURI(uri)
	content, ok := m.store.Load(normalized)
	if ok {
		return content.(*Document), true
	}

	data, err := afero.ReadFile(m.fs, normalized)
	if err != nil {
		return nil, false
	}
	doc := New(normalized, "", 0, string(data))
	m.store.Store(normalized, doc)
	return doc, true
}

func (m *Manager) Store(uri string, doc *Document) {
	m.store.Store(NormalizeURI(uri), doc)
}

func (m *Manager) Delete(uri string) {
	m.store.Delete(NormalizeURI(uri))
}
