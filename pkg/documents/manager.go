// Package documents owns the ordered set of open documents, the active
// selection, and keeps both in sync with a storage backend.
package documents

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pluqqy/tabpad/pkg/models"
	"github.com/pluqqy/tabpad/pkg/storage"
)

// Exporter writes a document's content somewhere outside the document set,
// e.g. a file on disk.
type Exporter interface {
	Export(name, content string) error
}

// Option configures a Manager
type Option func(*Manager)

// WithLogger sets the logger used for persistence diagnostics
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithFlushDelay coalesces content updates into one write after d.
// Structural mutations always write immediately.
func WithFlushDelay(d time.Duration) Option {
	return func(m *Manager) {
		m.flushDelay = d
	}
}

// WithIDGenerator replaces the UUID generator
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		m.newID = fn
	}
}

// WithPersistErrorHandler is called with every failed write. It runs outside
// the manager's lock.
func WithPersistErrorHandler(fn func(error)) Option {
	return func(m *Manager) {
		m.onPersistError = fn
	}
}

// Manager is the document set. All methods are safe for concurrent use and
// each mutation is applied atomically.
type Manager struct {
	mu       sync.Mutex
	docs     []models.Document
	index    map[string]int
	activeID string

	store          storage.Store
	logger         zerolog.Logger
	newID          func() string
	onPersistError func(error)

	flushDelay time.Duration
	flushTimer *time.Timer
	dirty      bool

	listeners    map[int]Listener
	nextListener int

	loadErr error
}

// NewManager loads the document set from store. Missing, unreadable or
// malformed data degrades to a single default document; the cause is
// available from LoadError.
func NewManager(ctx context.Context, store storage.Store, opts ...Option) *Manager {
	if store == nil {
		store = storage.NewMemoryStore(models.DefaultStorageKey)
	}

	m := &Manager{
		store:     store,
		logger:    zerolog.Nop(),
		newID:     uuid.NewString,
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.load(ctx)
	return m
}

func (m *Manager) load(ctx context.Context) {
	data, err := m.store.Load(ctx)
	switch {
	case err != nil:
		m.loadErr = fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
		m.logger.Warn().Err(err).Msg("failed to load document set, starting with a default document")
	case data == nil:
		m.logger.Debug().Msg("no saved document set, starting with a default document")
	default:
		docs, activeID, decodeErr := Decode(data)
		if decodeErr == nil {
			m.docs = docs
			m.activeID = activeID
			m.reindex()
			m.logger.Info().Int("documents", len(docs)).Msg("document set loaded")
			return
		}
		m.loadErr = decodeErr
		m.logger.Warn().Err(decodeErr).Msg("discarding malformed document set")
	}

	doc := m.newDocument(models.Template{Content: models.DefaultContent})
	m.docs = []models.Document{doc}
	m.activeID = doc.ID
	m.reindex()
}

// LoadError returns why the saved set could not be restored, or nil
func (m *Manager) LoadError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadErr
}

// Subscribe registers fn for change events and returns a function that
// removes it.
func (m *Manager) Subscribe(fn Listener) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextListener
	m.nextListener++
	m.listeners[id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

// Documents returns a copy of the set in tab order
func (m *Manager) Documents() []models.Document {
	m.mu.Lock()
	defer m.mu.Unlock()

	docs := make([]models.Document, len(m.docs))
	for i, doc := range m.docs {
		docs[i] = doc.Clone()
	}
	return docs
}

// Len returns the number of open documents
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs)
}

// Get returns a copy of the document with id
func (m *Manager) Get(id string) (models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, ok := m.index[id]
	if !ok {
		return models.Document{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return m.docs[i].Clone(), nil
}

// ActiveID returns the active document id, or empty when the set is empty
func (m *Manager) ActiveID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeID
}

// Active returns a copy of the active document
func (m *Manager) Active() (models.Document, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc := m.activeLocked()
	if doc == nil {
		return models.Document{}, false
	}
	return *doc, true
}

// IndexOf returns the tab position of id, or -1
func (m *Manager) IndexOf(id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i, ok := m.index[id]; ok {
		return i
	}
	return -1
}

// Find resolves a reference typed by a user: an exact id, an exact name,
// a 1-based tab number, or a unique id prefix.
func (m *Manager) Find(ref string) (models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Document{}, fmt.Errorf("%w: empty reference", ErrNotFound)
	}

	if i, ok := m.index[ref]; ok {
		return m.docs[i].Clone(), nil
	}

	var byName []int
	for i, doc := range m.docs {
		if doc.Name == ref {
			byName = append(byName, i)
		}
	}
	switch len(byName) {
	case 1:
		return m.docs[byName[0]].Clone(), nil
	case 0:
	default:
		return models.Document{}, fmt.Errorf("%w: %d documents are named %q, use the id instead", ErrAmbiguousReference, len(byName), ref)
	}

	if tab, err := strconv.Atoi(ref); err == nil && tab >= 1 && tab <= len(m.docs) {
		return m.docs[tab-1].Clone(), nil
	}

	var byPrefix []int
	for i, doc := range m.docs {
		if strings.HasPrefix(doc.ID, ref) {
			byPrefix = append(byPrefix, i)
		}
	}
	switch len(byPrefix) {
	case 1:
		return m.docs[byPrefix[0]].Clone(), nil
	case 0:
		return models.Document{}, fmt.Errorf("%w: %s", ErrNotFound, ref)
	default:
		return models.Document{}, fmt.Errorf("%w: id prefix %q", ErrAmbiguousReference, ref)
	}
}

// Create appends a document built from tmpl and makes it active
func (m *Manager) Create(ctx context.Context, tmpl models.Template) models.Document {
	var created models.Document
	m.apply(ctx, func() (ChangeEvent, bool) {
		created = m.appendLocked(tmpl)
		m.activeID = created.ID
		return ChangeEvent{Kind: EventCreated, DocumentID: created.ID}, true
	})
	return created
}

// Open adds a document read from an external source, inferring its language
// from the extension of name.
func (m *Manager) Open(ctx context.Context, name, text string) models.Document {
	var opened models.Document
	m.apply(ctx, func() (ChangeEvent, bool) {
		opened = m.appendLocked(models.Template{
			Name:     name,
			Language: models.LanguageForName(name),
			Content:  text,
		})
		m.activeID = opened.ID
		return ChangeEvent{Kind: EventOpened, DocumentID: opened.ID}, true
	})
	return opened
}

// Delete closes the document with id. When it was active the selection moves
// to the next tab, else the previous one, else nothing.
func (m *Manager) Delete(ctx context.Context, id string) bool {
	return m.apply(ctx, func() (ChangeEvent, bool) {
		i, ok := m.index[id]
		if !ok {
			return ChangeEvent{}, false
		}

		if m.activeID == id {
			switch {
			case i+1 < len(m.docs):
				m.activeID = m.docs[i+1].ID
			case i > 0:
				m.activeID = m.docs[i-1].ID
			default:
				m.activeID = ""
			}
		}

		m.docs = append(m.docs[:i], m.docs[i+1:]...)
		m.reindex()
		return ChangeEvent{Kind: EventClosed, DocumentID: id}, true
	})
}

// SetActive selects the document with id
func (m *Manager) SetActive(ctx context.Context, id string) bool {
	return m.apply(ctx, func() (ChangeEvent, bool) {
		if _, ok := m.index[id]; !ok {
			return ChangeEvent{}, false
		}
		m.activeID = id
		return ChangeEvent{Kind: EventActivated, DocumentID: id}, true
	})
}

// NextTab moves the selection one tab right, wrapping around
func (m *Manager) NextTab(ctx context.Context) bool {
	return m.cycle(ctx, 1)
}

// PrevTab moves the selection one tab left, wrapping around
func (m *Manager) PrevTab(ctx context.Context) bool {
	return m.cycle(ctx, -1)
}

func (m *Manager) cycle(ctx context.Context, step int) bool {
	return m.apply(ctx, func() (ChangeEvent, bool) {
		n := len(m.docs)
		if n == 0 {
			return ChangeEvent{}, false
		}
		next := 0
		if i, ok := m.index[m.activeID]; ok {
			next = ((i+step)%n + n) % n
		}
		m.activeID = m.docs[next].ID
		return ChangeEvent{Kind: EventActivated, DocumentID: m.activeID}, true
	})
}

// Rename replaces the name of the document with id. Names need not be unique.
func (m *Manager) Rename(ctx context.Context, id, name string) bool {
	return m.apply(ctx, func() (ChangeEvent, bool) {
		i, ok := m.index[id]
		if !ok {
			return ChangeEvent{}, false
		}
		m.docs[i].Name = name
		return ChangeEvent{Kind: EventRenamed, DocumentID: id}, true
	})
}

// Duplicate appends a copy of the document with id under a new id and a
// " copy" name. The active selection is left unchanged.
func (m *Manager) Duplicate(ctx context.Context, id string) (models.Document, bool) {
	var dup models.Document
	ok := m.apply(ctx, func() (ChangeEvent, bool) {
		i, ok := m.index[id]
		if !ok {
			return ChangeEvent{}, false
		}
		src := m.docs[i]
		dup = m.appendLocked(models.Template{
			Name:     DuplicateName(src.Name),
			Language: src.Language,
			Content:  src.Content,
		})
		return ChangeEvent{Kind: EventDuplicated, DocumentID: dup.ID}, true
	})
	return dup, ok
}

// UpdateContent replaces the content of the document with id. It runs on
// every keystroke of the editor widget.
func (m *Manager) UpdateContent(ctx context.Context, id, text string) bool {
	return m.apply(ctx, func() (ChangeEvent, bool) {
		i, ok := m.index[id]
		if !ok || m.docs[i].Content == text {
			return ChangeEvent{}, false
		}
		m.docs[i].Content = text
		return ChangeEvent{Kind: EventContentUpdated, DocumentID: id}, true
	})
}

// SetLanguage changes the language of the document with id. Tags outside the
// supported set are rejected with ErrInvalidLanguage and nothing changes.
func (m *Manager) SetLanguage(ctx context.Context, id string, language models.Language) error {
	if !language.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidLanguage, language)
	}
	m.apply(ctx, func() (ChangeEvent, bool) {
		i, ok := m.index[id]
		if !ok {
			return ChangeEvent{}, false
		}
		m.docs[i].Language = language
		return ChangeEvent{Kind: EventLanguageChanged, DocumentID: id}, true
	})
	return nil
}

// ReplaceAll replaces every literal occurrence of find in the document with
// id and returns how many were replaced. An empty find is a no-op.
func (m *Manager) ReplaceAll(ctx context.Context, id, find, replacement string) int {
	if find == "" {
		return 0
	}

	var count int
	m.apply(ctx, func() (ChangeEvent, bool) {
		i, ok := m.index[id]
		if !ok {
			return ChangeEvent{}, false
		}
		count = strings.Count(m.docs[i].Content, find)
		if count == 0 {
			return ChangeEvent{}, false
		}
		m.docs[i].Content = strings.ReplaceAll(m.docs[i].Content, find, replacement)
		return ChangeEvent{Kind: EventReplaced, DocumentID: id}, true
	})
	return count
}

// Save exports the document with id under its current name
func (m *Manager) Save(ctx context.Context, id string, exporter Exporter) error {
	doc, err := m.Get(id)
	if err != nil {
		return err
	}
	if err := exporter.Export(doc.Name, doc.Content); err != nil {
		return fmt.Errorf("failed to export %s: %w", doc.Name, err)
	}
	return nil
}

// SaveAs exports the document with id under name and renames it on success.
// An empty name keeps the current one.
func (m *Manager) SaveAs(ctx context.Context, id, name string, exporter Exporter) error {
	doc, err := m.Get(id)
	if err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		name = doc.Name
	}
	if err := exporter.Export(name, doc.Content); err != nil {
		return fmt.Errorf("failed to export %s: %w", name, err)
	}
	m.Rename(ctx, id, name)
	return nil
}

// Flush writes any pending coalesced update now
func (m *Manager) Flush(ctx context.Context) error {
	m.mu.Lock()
	m.stopTimerLocked()
	var err error
	if m.dirty {
		err = m.flushLocked(ctx)
	}
	m.mu.Unlock()

	m.reportPersistError(err)
	return err
}

// Close performs the final flush. The store itself is owned by the caller.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	m.stopTimerLocked()
	err := m.flushLocked(ctx)
	m.mu.Unlock()

	m.reportPersistError(err)
	return err
}

// apply runs fn under the lock. When fn reports a change the set is
// persisted and listeners are notified after the lock is released.
func (m *Manager) apply(ctx context.Context, fn func() (ChangeEvent, bool)) bool {
	m.mu.Lock()
	prevActive := m.activeID
	ev, changed := fn()
	if !changed {
		m.mu.Unlock()
		return false
	}

	ev.ActiveID = m.activeID
	ev.ActiveChanged = prevActive != m.activeID
	if doc := m.activeLocked(); doc != nil {
		ev.Active = doc
	}

	var err error
	if ev.Kind == EventContentUpdated && m.flushDelay > 0 {
		m.scheduleFlushLocked()
	} else {
		m.stopTimerLocked()
		err = m.flushLocked(ctx)
	}

	listeners := make([]Listener, 0, len(m.listeners))
	ids := make([]int, 0, len(m.listeners))
	for id := range m.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		listeners = append(listeners, m.listeners[id])
	}
	m.mu.Unlock()

	m.reportPersistError(err)
	for _, l := range listeners {
		l(ev)
	}
	return true
}

func (m *Manager) scheduleFlushLocked() {
	m.dirty = true
	if m.flushTimer != nil {
		return
	}
	m.flushTimer = time.AfterFunc(m.flushDelay, func() {
		m.mu.Lock()
		m.flushTimer = nil
		var err error
		if m.dirty {
			err = m.flushLocked(context.Background())
		}
		m.mu.Unlock()
		m.reportPersistError(err)
	})
}

func (m *Manager) stopTimerLocked() {
	if m.flushTimer != nil {
		m.flushTimer.Stop()
		m.flushTimer = nil
	}
}

// flushLocked writes the whole set once. A failure is not retried; the next
// mutation attempts another write.
func (m *Manager) flushLocked(ctx context.Context) error {
	m.dirty = false

	data, err := Encode(m.docs, m.activeID)
	if err != nil {
		return err
	}
	if err := m.store.Save(ctx, data); err != nil {
		m.logger.Warn().Err(err).Int("bytes", len(data)).Msg("failed to persist document set")
		return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}

	m.logger.Debug().Int("documents", len(m.docs)).Int("bytes", len(data)).Msg("document set persisted")
	return nil
}

func (m *Manager) reportPersistError(err error) {
	if err == nil || m.onPersistError == nil {
		return
	}
	if errors.Is(err, ErrPersistenceUnavailable) {
		m.onPersistError(err)
	}
}

func (m *Manager) newDocument(tmpl models.Template) models.Document {
	tmpl = tmpl.WithDefaults()
	if !tmpl.Language.Valid() {
		tmpl.Language = models.LanguageText
	}
	return models.Document{
		ID:       m.uniqueIDLocked(),
		Name:     tmpl.Name,
		Language: tmpl.Language,
		Content:  tmpl.Content,
		History:  []string{},
		Future:   []string{},
	}
}

// uniqueIDLocked guards against generators that repeat themselves
func (m *Manager) uniqueIDLocked() string {
	for {
		id := m.newID()
		if _, taken := m.index[id]; !taken && id != "" {
			return id
		}
	}
}

func (m *Manager) appendLocked(tmpl models.Template) models.Document {
	doc := m.newDocument(tmpl)
	m.docs = append(m.docs, doc)
	m.index[doc.ID] = len(m.docs) - 1
	return doc.Clone()
}

func (m *Manager) activeLocked() *models.Document {
	i, ok := m.index[m.activeID]
	if !ok {
		return nil
	}
	doc := m.docs[i].Clone()
	return &doc
}

func (m *Manager) reindex() {
	m.index = make(map[string]int, len(m.docs))
	for i, doc := range m.docs {
		m.index[doc.ID] = i
	}
}
