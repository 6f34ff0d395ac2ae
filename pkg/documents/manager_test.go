package documents

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pluqqy/tabpad/pkg/models"
	"github.com/pluqqy/tabpad/pkg/storage"
)

// sequentialIDs returns a generator producing doc-1, doc-2, ...
func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("doc-%d", n)
	}
}

func newTestManager(t *testing.T, opts ...Option) (*Manager, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore(models.DefaultStorageKey)
	opts = append([]Option{WithIDGenerator(sequentialIDs())}, opts...)
	return NewManager(context.Background(), store, opts...), store
}

// emptyManager returns a manager whose default document has been closed
func emptyManager(t *testing.T, opts ...Option) (*Manager, *storage.MemoryStore) {
	t.Helper()
	m, store := newTestManager(t, opts...)
	require.True(t, m.Delete(context.Background(), m.ActiveID()))
	require.Equal(t, 0, m.Len())
	return m, store
}

func names(docs []models.Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.Name
	}
	return out
}

func assertInvariants(t *testing.T, m *Manager) {
	t.Helper()
	docs := m.Documents()
	seen := make(map[string]bool)
	for _, d := range docs {
		assert.False(t, seen[d.ID], "duplicate id %s", d.ID)
		seen[d.ID] = true
	}
	active := m.ActiveID()
	if len(docs) == 0 {
		assert.Empty(t, active)
	} else if active != "" {
		assert.True(t, seen[active], "active id %s not in set", active)
	}
}

func TestNewManager_DefaultDocument(t *testing.T) {
	m, store := newTestManager(t)

	docs := m.Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, "untitled.txt", docs[0].Name)
	assert.Equal(t, models.LanguageText, docs[0].Language)
	assert.Equal(t, models.DefaultContent, docs[0].Content)
	assert.Equal(t, docs[0].ID, m.ActiveID())
	assert.NoError(t, m.LoadError())
	assert.Equal(t, 0, store.SaveCount(), "loading should not write")
}

func TestNewManager_RestoresSavedSet(t *testing.T) {
	store := storage.NewMemoryStore(models.DefaultStorageKey)
	data, err := Encode([]models.Document{
		{ID: "a", Name: "a.md", Language: models.LanguageMarkdown, Content: "# A"},
		{ID: "b", Name: "b.go", Language: models.LanguageGo, Content: "package b"},
	}, "b")
	require.NoError(t, err)
	store.Set(data)

	m := NewManager(context.Background(), store)
	assert.Equal(t, []string{"a.md", "b.go"}, names(m.Documents()))
	assert.Equal(t, "b", m.ActiveID())
	assert.NoError(t, m.LoadError())
}

func TestNewManager_Fallbacks(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(s *storage.MemoryStore)
		wantErr error
	}{
		{
			name:    "corrupt json",
			setup:   func(s *storage.MemoryStore) { s.Set([]byte("{not json")) },
			wantErr: ErrMalformedState,
		},
		{
			name:    "null",
			setup:   func(s *storage.MemoryStore) { s.Set([]byte("null")) },
			wantErr: ErrMalformedState,
		},
		{
			name:    "storage unavailable",
			setup:   func(s *storage.MemoryStore) { s.SetFailure(errors.New("denied")) },
			wantErr: ErrPersistenceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storage.NewMemoryStore(models.DefaultStorageKey)
			tt.setup(store)

			m := NewManager(context.Background(), store)
			docs := m.Documents()
			require.Len(t, docs, 1)
			assert.Equal(t, models.DefaultDocumentName, docs[0].Name)
			assert.Equal(t, docs[0].ID, m.ActiveID())
			assert.ErrorIs(t, m.LoadError(), tt.wantErr)
		})
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	m, store := emptyManager(t)
	saves := store.SaveCount()

	a := m.Create(ctx, models.Template{})
	assert.Equal(t, "untitled.txt", a.Name)
	assert.Equal(t, models.LanguageText, a.Language)
	assert.Equal(t, "", a.Content)
	assert.Equal(t, a.ID, m.ActiveID())

	b := m.Create(ctx, models.Template{Name: "untitled.txt", Language: models.LanguageGo, Content: "package main"})
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, b.ID, m.ActiveID())
	assert.Equal(t, []string{"untitled.txt", "untitled.txt"}, names(m.Documents()), "duplicate names are allowed")

	c := m.Create(ctx, models.Template{Language: "klingon"})
	assert.Equal(t, models.LanguageText, c.Language)

	assert.Equal(t, saves+3, store.SaveCount(), "every create persists")
	assertInvariants(t, m)
}

func TestOpen_InfersLanguage(t *testing.T) {
	ctx := context.Background()
	m, _ := emptyManager(t)

	tests := []struct {
		name string
		want models.Language
	}{
		{"notes.md", models.LanguageMarkdown},
		{"main.RS", models.LanguageRust},
		{"Makefile", models.LanguageText},
		{"data.unknown", models.LanguageText},
	}
	for _, tt := range tests {
		doc := m.Open(ctx, tt.name, "body")
		assert.Equal(t, tt.want, doc.Language, tt.name)
		assert.Equal(t, "body", doc.Content)
		assert.Equal(t, doc.ID, m.ActiveID())
	}
	assert.Equal(t, 4, m.Len())
}

func TestDelete_ActiveSelection(t *testing.T) {
	ctx := context.Background()

	t.Run("selects successor", func(t *testing.T) {
		m, _ := emptyManager(t)
		a := m.Create(ctx, models.Template{Name: "a"})
		b := m.Create(ctx, models.Template{Name: "b"})
		m.Create(ctx, models.Template{Name: "c"})
		m.SetActive(ctx, a.ID)

		assert.True(t, m.Delete(ctx, a.ID))
		assert.Equal(t, b.ID, m.ActiveID())
		assertInvariants(t, m)
	})

	t.Run("selects predecessor when last", func(t *testing.T) {
		m, _ := emptyManager(t)
		m.Create(ctx, models.Template{Name: "a"})
		b := m.Create(ctx, models.Template{Name: "b"})
		c := m.Create(ctx, models.Template{Name: "c"})

		assert.True(t, m.Delete(ctx, c.ID))
		assert.Equal(t, b.ID, m.ActiveID())
		assertInvariants(t, m)
	})

	t.Run("only document leaves nothing active", func(t *testing.T) {
		m, _ := emptyManager(t)
		a := m.Create(ctx, models.Template{Name: "a"})

		assert.True(t, m.Delete(ctx, a.ID))
		assert.Equal(t, "", m.ActiveID())
		assert.Equal(t, 0, m.Len())
		_, ok := m.Active()
		assert.False(t, ok)
	})

	t.Run("closing inactive keeps selection", func(t *testing.T) {
		m, _ := emptyManager(t)
		a := m.Create(ctx, models.Template{Name: "a"})
		b := m.Create(ctx, models.Template{Name: "b"})

		assert.True(t, m.Delete(ctx, a.ID))
		assert.Equal(t, b.ID, m.ActiveID())
		assert.Equal(t, []string{"b"}, names(m.Documents()))
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		m, store := emptyManager(t)
		m.Create(ctx, models.Template{Name: "a"})
		saves := store.SaveCount()

		assert.False(t, m.Delete(ctx, "missing"))
		assert.Equal(t, 1, m.Len())
		assert.Equal(t, saves, store.SaveCount())
	})
}

func TestCreateCloseSequences_KeepInvariants(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	// A deterministic interleaving of creates and closes at varying positions
	for round := 0; round < 50; round++ {
		switch round % 5 {
		case 0, 1, 3:
			m.Create(ctx, models.Template{Name: fmt.Sprintf("f%d", round)})
		case 2:
			docs := m.Documents()
			if len(docs) > 0 {
				m.Delete(ctx, docs[round%len(docs)].ID)
			}
		case 4:
			m.Delete(ctx, m.ActiveID())
		}
		assertInvariants(t, m)
	}
}

func TestSetActive(t *testing.T) {
	ctx := context.Background()
	m, store := emptyManager(t)
	a := m.Create(ctx, models.Template{Name: "a"})
	b := m.Create(ctx, models.Template{Name: "b"})

	assert.True(t, m.SetActive(ctx, a.ID))
	assert.Equal(t, a.ID, m.ActiveID())

	saves := store.SaveCount()
	assert.False(t, m.SetActive(ctx, "missing"))
	assert.Equal(t, a.ID, m.ActiveID())
	assert.Equal(t, saves, store.SaveCount())

	active, ok := m.Active()
	require.True(t, ok)
	assert.Equal(t, "a", active.Name)
	assert.NotEqual(t, b.ID, active.ID)
}

func TestNextPrevTab(t *testing.T) {
	ctx := context.Background()
	m, _ := emptyManager(t)

	assert.False(t, m.NextTab(ctx), "empty set cannot cycle")

	a := m.Create(ctx, models.Template{Name: "a"})
	b := m.Create(ctx, models.Template{Name: "b"})
	c := m.Create(ctx, models.Template{Name: "c"})

	m.NextTab(ctx)
	assert.Equal(t, a.ID, m.ActiveID(), "wraps from last to first")
	m.NextTab(ctx)
	assert.Equal(t, b.ID, m.ActiveID())
	m.PrevTab(ctx)
	m.PrevTab(ctx)
	assert.Equal(t, c.ID, m.ActiveID(), "wraps from first to last")
}

func TestRename(t *testing.T) {
	ctx := context.Background()
	m, _ := emptyManager(t)
	a := m.Create(ctx, models.Template{Name: "a.txt"})
	m.Create(ctx, models.Template{Name: "b.txt"})

	assert.True(t, m.Rename(ctx, a.ID, "b.txt"))
	doc, err := m.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "b.txt", doc.Name)
	assert.Equal(t, models.LanguageText, doc.Language, "rename does not re-infer the language")

	assert.False(t, m.Rename(ctx, "missing", "x"))
}

func TestDuplicate(t *testing.T) {
	ctx := context.Background()
	m, _ := emptyManager(t)
	a := m.Create(ctx, models.Template{Name: "a.txt", Content: "hello"})
	readme := m.Create(ctx, models.Template{Name: "README", Language: models.LanguageMarkdown, Content: "# r"})
	m.SetActive(ctx, a.ID)

	dup, ok := m.Duplicate(ctx, a.ID)
	require.True(t, ok)
	assert.Equal(t, "a copy.txt", dup.Name)
	assert.Equal(t, "hello", dup.Content)
	assert.NotEqual(t, a.ID, dup.ID)
	assert.Equal(t, a.ID, m.ActiveID(), "duplicate does not change the active document")

	dup2, ok := m.Duplicate(ctx, readme.ID)
	require.True(t, ok)
	assert.Equal(t, "README copy", dup2.Name)
	assert.Equal(t, models.LanguageMarkdown, dup2.Language)

	assert.Equal(t, []string{"a.txt", "README", "a copy.txt", "README copy"}, names(m.Documents()))

	_, ok = m.Duplicate(ctx, "missing")
	assert.False(t, ok)
	assertInvariants(t, m)
}

func TestUpdateContent(t *testing.T) {
	ctx := context.Background()
	m, store := emptyManager(t)
	a := m.Create(ctx, models.Template{})

	assert.True(t, m.UpdateContent(ctx, a.ID, "hello"))
	doc, _ := m.Get(a.ID)
	assert.Equal(t, "hello", doc.Content)

	saves := store.SaveCount()
	assert.False(t, m.UpdateContent(ctx, a.ID, "hello"), "identical content is not a change")
	assert.False(t, m.UpdateContent(ctx, "missing", "x"))
	assert.Equal(t, saves, store.SaveCount())
}

func TestSetLanguage(t *testing.T) {
	ctx := context.Background()
	m, _ := emptyManager(t)
	a := m.Create(ctx, models.Template{})

	require.NoError(t, m.SetLanguage(ctx, a.ID, models.LanguagePython))
	doc, _ := m.Get(a.ID)
	assert.Equal(t, models.LanguagePython, doc.Language)

	err := m.SetLanguage(ctx, a.ID, models.Language("not-a-real-language"))
	assert.ErrorIs(t, err, ErrInvalidLanguage)
	doc, _ = m.Get(a.ID)
	assert.Equal(t, models.LanguagePython, doc.Language, "rejected language leaves the document unchanged")

	assert.NoError(t, m.SetLanguage(ctx, "missing", models.LanguageGo), "unknown id is a silent no-op")
}

func TestReplaceAll(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		content     string
		find        string
		replacement string
		want        string
		wantCount   int
	}{
		{"simple", "foo bar foo", "foo", "baz", "baz bar baz", 2},
		{"literal not regex", "a.b.c", ".", "-", "a-b-c", 2},
		{"regex chars in find", "x+y and x+y", "x+y", "z", "z and z", 2},
		{"empty find is a no-op", "abc", "", "X", "abc", 0},
		{"no match", "abc", "z", "X", "abc", 0},
		{"delete occurrences", "a--b--c", "--", "", "abc", 2},
		{"replacement contains find", "aa", "a", "aa", "aaaa", 2},
		{"unicode", "héllo wörld", "ö", "o", "héllo world", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, store := emptyManager(t)
			doc := m.Create(ctx, models.Template{Content: tt.content})
			saves := store.SaveCount()

			count := m.ReplaceAll(ctx, doc.ID, tt.find, tt.replacement)
			assert.Equal(t, tt.wantCount, count)

			got, _ := m.Get(doc.ID)
			assert.Equal(t, tt.want, got.Content)
			if tt.wantCount == 0 {
				assert.Equal(t, saves, store.SaveCount())
			}
		})
	}

	m, _ := emptyManager(t)
	assert.Equal(t, 0, m.ReplaceAll(ctx, "missing", "a", "b"))
}

func TestFind(t *testing.T) {
	ctx := context.Background()
	m, _ := emptyManager(t, WithIDGenerator(func() func() string {
		ids := []string{"zzz-000", "abc-111", "abd-222", "xyz-333"}
		i := 0
		return func() string {
			id := ids[i%len(ids)]
			i++
			return id
		}
	}()))

	m.Create(ctx, models.Template{Name: "notes.md"})
	m.Create(ctx, models.Template{Name: "dup.txt"})
	m.Create(ctx, models.Template{Name: "dup.txt"})

	tests := []struct {
		ref     string
		wantID  string
		wantErr error
	}{
		{"abd-222", "abd-222", nil},
		{"notes.md", "abc-111", nil},
		{"xyz", "xyz-333", nil},
		{"1", "abc-111", nil},
		{"ab", "", ErrAmbiguousReference},
		{"dup.txt", "", ErrAmbiguousReference},
		{"nope", "", ErrNotFound},
		{"", "", ErrNotFound},
		{"9", "", ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			doc, err := m.Find(tt.ref)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, doc.ID)
		})
	}
}

type recordingExporter struct {
	name, content string
	err           error
}

func (e *recordingExporter) Export(name, content string) error {
	if e.err != nil {
		return e.err
	}
	e.name, e.content = name, content
	return nil
}

func TestSaveAndSaveAs(t *testing.T) {
	ctx := context.Background()
	m, _ := emptyManager(t)
	doc := m.Create(ctx, models.Template{Name: "a.txt", Content: "body"})

	exp := &recordingExporter{}
	require.NoError(t, m.Save(ctx, doc.ID, exp))
	assert.Equal(t, "a.txt", exp.name)
	assert.Equal(t, "body", exp.content)

	require.NoError(t, m.SaveAs(ctx, doc.ID, "b.md", exp))
	assert.Equal(t, "b.md", exp.name)
	got, _ := m.Get(doc.ID)
	assert.Equal(t, "b.md", got.Name)

	require.NoError(t, m.SaveAs(ctx, doc.ID, "  ", exp))
	assert.Equal(t, "b.md", exp.name, "blank name keeps the current one")

	failing := &recordingExporter{err: errors.New("disk full")}
	assert.Error(t, m.SaveAs(ctx, doc.ID, "c.md", failing))
	got, _ = m.Get(doc.ID)
	assert.Equal(t, "b.md", got.Name, "failed export does not rename")

	assert.ErrorIs(t, m.Save(ctx, "missing", exp), ErrNotFound)
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	m, _ := emptyManager(t)

	var events []ChangeEvent
	unsubscribe := m.Subscribe(func(ev ChangeEvent) {
		events = append(events, ev)
		// Listeners may call back into the manager
		_ = m.Len()
	})

	a := m.Create(ctx, models.Template{Name: "a"})
	b := m.Create(ctx, models.Template{Name: "b"})
	m.UpdateContent(ctx, a.ID, "inactive edit")
	m.UpdateContent(ctx, b.ID, "active edit")
	m.Delete(ctx, b.ID)
	m.Rename(ctx, "missing", "x")

	require.Len(t, events, 5)
	assert.Equal(t, EventCreated, events[0].Kind)
	assert.True(t, events[0].ActiveChanged)
	assert.True(t, events[0].RefreshEditor())

	assert.Equal(t, EventContentUpdated, events[2].Kind)
	assert.False(t, events[2].RefreshEditor(), "editing an inactive document does not refresh the editor")
	assert.True(t, events[3].RefreshEditor())

	assert.Equal(t, EventClosed, events[4].Kind)
	assert.Equal(t, a.ID, events[4].ActiveID)
	require.NotNil(t, events[4].Active)
	assert.Equal(t, "inactive edit", events[4].Active.Content)

	unsubscribe()
	m.Create(ctx, models.Template{})
	assert.Len(t, events, 5)
}

func TestPersistenceFailure_KeepsMemoryState(t *testing.T) {
	ctx := context.Background()

	var reported []error
	m, store := emptyManager(t, WithPersistErrorHandler(func(err error) {
		reported = append(reported, err)
	}))
	store.SetFailure(errors.New("quota exceeded"))

	doc := m.Create(ctx, models.Template{Name: "kept"})
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, doc.ID, m.ActiveID())
	require.Len(t, reported, 1)
	assert.ErrorIs(t, reported[0], ErrPersistenceUnavailable)

	// The next mutation tries again
	store.SetFailure(nil)
	m.Rename(ctx, doc.ID, "renamed")
	assert.Len(t, reported, 1)

	reloaded := NewManager(ctx, store)
	assert.Equal(t, []string{"renamed"}, names(reloaded.Documents()))
}

func TestFlushDelay_CoalescesContentWrites(t *testing.T) {
	ctx := context.Background()
	m, store := emptyManager(t, WithFlushDelay(time.Hour))
	doc := m.Create(ctx, models.Template{})
	saves := store.SaveCount()

	for i := 0; i < 10; i++ {
		m.UpdateContent(ctx, doc.ID, fmt.Sprintf("edit %d", i))
	}
	assert.Equal(t, saves, store.SaveCount(), "content edits are deferred")

	require.NoError(t, m.Flush(ctx))
	assert.Equal(t, saves+1, store.SaveCount())

	require.NoError(t, m.Flush(ctx))
	assert.Equal(t, saves+1, store.SaveCount(), "nothing pending")

	m.UpdateContent(ctx, doc.ID, "last edit")
	require.NoError(t, m.Close(ctx))

	reloaded := NewManager(ctx, store)
	got, err := reloaded.Get(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "last edit", got.Content)
}

func TestFlushDelay_TimerWrites(t *testing.T) {
	ctx := context.Background()
	m, store := emptyManager(t, WithFlushDelay(10*time.Millisecond))
	doc := m.Create(ctx, models.Template{})
	saves := store.SaveCount()

	m.UpdateContent(ctx, doc.ID, "typed")
	assert.Eventually(t, func() bool {
		return store.SaveCount() == saves+1
	}, time.Second, 5*time.Millisecond)
}

func TestScenario_EditRenameRetagRoundTrip(t *testing.T) {
	ctx := context.Background()
	m, store := emptyManager(t)

	a := m.Create(ctx, models.Template{Name: "untitled.txt", Language: models.LanguageText})
	m.UpdateContent(ctx, a.ID, "hello")
	m.Rename(ctx, a.ID, "hello.md")
	require.NoError(t, m.SetLanguage(ctx, a.ID, models.LanguageMarkdown))

	reloaded := NewManager(ctx, store)
	docs := reloaded.Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, a.ID, docs[0].ID)
	assert.Equal(t, "hello.md", docs[0].Name)
	assert.Equal(t, models.LanguageMarkdown, docs[0].Language)
	assert.Equal(t, "hello", docs[0].Content)
	assert.Equal(t, a.ID, reloaded.ActiveID())
}

func TestConcurrentMutations(t *testing.T) {
	ctx := context.Background()
	m := NewManager(ctx, storage.NewMemoryStore("k"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				doc := m.Create(ctx, models.Template{Name: fmt.Sprintf("%d-%d", i, j)})
				m.UpdateContent(ctx, doc.ID, "x")
				if j%3 == 0 {
					m.Delete(ctx, doc.ID)
				}
			}
		}(i)
	}
	wg.Wait()
	assertInvariants(t, m)
}
