// Package state holds the process-local, observable mirror of attachments,
// collections, selection, and search text. It is written exclusively by the
// attachment service and read by presentation; that single-writer discipline
// is what keeps the UI view and storage from diverging.
package state

import (
	"sync"

	"attachmi/internal/models"
)

// Store is the single mutable source of truth for one application session.
// The filtered view is memoized: recomputed lazily on read and invalidated
// whenever attachments or search text change, never stale across a
// synchronous read.
type Store struct {
	mu sync.Mutex

	attachments         []models.Attachment
	collections         []models.Collection
	selected            *models.Attachment
	selectedCollections []models.CollectionRef
	searchText          string
	initialized         bool

	filtered      []models.Attachment
	filteredValid bool

	subscribers map[int]func()
	nextSubID   int
}

// Snapshot is a consistent copy of the whole session state.
type Snapshot struct {
	Attachments         []models.Attachment    `json:"attachments"`
	FilteredAttachments []models.Attachment    `json:"filteredAttachments"`
	Collections         []models.Collection    `json:"collections"`
	SelectedAttachment  *models.Attachment     `json:"selectedAttachment,omitempty"`
	SelectedCollections []models.CollectionRef `json:"selectedCollections"`
	SearchText          string                 `json:"searchText"`
	IsInitialized       bool                   `json:"isInitialized"`
}

// New creates an empty, uninitialized session state.
func New() *Store {
	return &Store{subscribers: map[int]func(){}}
}

// Subscribe registers an observer called after every mutation. The returned
// function cancels the subscription.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// notify runs outside the lock so observers may read state re-entrantly.
func (s *Store) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Attachments returns a copy of the full attachment list.
func (s *Store) Attachments() []models.Attachment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyAttachments(s.attachments)
}

// FilteredAttachments returns the search-narrowed view, recomputing the
// memoized slice only when a dependency changed since the last read.
func (s *Store) FilteredAttachments() []models.Attachment {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshFilteredLocked()
	return copyAttachments(s.filtered)
}

// Collections returns a copy of the collections list.
func (s *Store) Collections() []models.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Collection, len(s.collections))
	copy(out, s.collections)
	return out
}

// SelectedAttachment returns a copy of the current selection, or nil.
func (s *Store) SelectedAttachment() *models.Attachment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return nil
	}
	selected := *s.selected
	return &selected
}

// SelectedCollections returns the membership of the current selection.
func (s *Store) SelectedCollections() []models.CollectionRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.CollectionRef, len(s.selectedCollections))
	copy(out, s.selectedCollections)
	return out
}

// SearchText returns the current search text.
func (s *Store) SearchText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchText
}

// IsInitialized reports whether the first load from storage has completed.
func (s *Store) IsInitialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// Snapshot returns a consistent copy of the whole session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	s.refreshFilteredLocked()
	snap := Snapshot{
		Attachments:         copyAttachments(s.attachments),
		FilteredAttachments: copyAttachments(s.filtered),
		Collections:         make([]models.Collection, len(s.collections)),
		SelectedCollections: make([]models.CollectionRef, len(s.selectedCollections)),
		SearchText:          s.searchText,
		IsInitialized:       s.initialized,
	}
	copy(snap.Collections, s.collections)
	copy(snap.SelectedCollections, s.selectedCollections)
	if s.selected != nil {
		selected := *s.selected
		snap.SelectedAttachment = &selected
	}
	s.mu.Unlock()
	return snap
}

// SetAttachments replaces the full attachment list.
func (s *Store) SetAttachments(attachments []models.Attachment) {
	s.mu.Lock()
	s.attachments = copyAttachments(attachments)
	s.filteredValid = false
	s.mu.Unlock()
	s.notify()
}

// AppendAttachment adds one attachment to the end of the list.
func (s *Store) AppendAttachment(a models.Attachment) {
	s.mu.Lock()
	s.attachments = append(s.attachments, a)
	s.filteredValid = false
	s.mu.Unlock()
	s.notify()
}

// ReplaceAttachment swaps the entry with the same id. The selection is
// refreshed too when it points at the replaced entry.
func (s *Store) ReplaceAttachment(a models.Attachment) {
	s.mu.Lock()
	for i := range s.attachments {
		if s.attachments[i].ID == a.ID {
			s.attachments[i] = a
			s.filteredValid = false
			break
		}
	}
	if s.selected != nil && s.selected.ID == a.ID {
		selected := a
		s.selected = &selected
	}
	s.mu.Unlock()
	s.notify()
}

// RemoveAttachment drops the entry with the given id. A selection still
// pointing at it is cleared; callers advance selection beforehand.
func (s *Store) RemoveAttachment(id int64) {
	s.mu.Lock()
	kept := s.attachments[:0]
	for _, a := range s.attachments {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	s.attachments = kept
	s.filteredValid = false
	if s.selected != nil && s.selected.ID == id {
		s.selected = nil
		s.selectedCollections = nil
	}
	s.mu.Unlock()
	s.notify()
}

// SetCollections replaces the collections list.
func (s *Store) SetCollections(collections []models.Collection) {
	s.mu.Lock()
	s.collections = make([]models.Collection, len(collections))
	copy(s.collections, collections)
	s.mu.Unlock()
	s.notify()
}

// SetSelected sets or clears the current selection.
func (s *Store) SetSelected(a *models.Attachment) {
	s.mu.Lock()
	if a == nil {
		s.selected = nil
		s.selectedCollections = nil
	} else {
		if s.selected == nil || s.selected.ID != a.ID {
			s.selectedCollections = nil
		}
		selected := *a
		s.selected = &selected
	}
	s.mu.Unlock()
	s.notify()
}

// SetSelectedCollections replaces the membership slice of the selection.
func (s *Store) SetSelectedCollections(refs []models.CollectionRef) {
	s.mu.Lock()
	s.selectedCollections = make([]models.CollectionRef, len(refs))
	copy(s.selectedCollections, refs)
	s.mu.Unlock()
	s.notify()
}

// SetSearchText replaces the search text, invalidating the filtered view.
func (s *Store) SetSearchText(text string) {
	s.mu.Lock()
	s.searchText = text
	s.filteredValid = false
	s.mu.Unlock()
	s.notify()
}

// SetInitialized flips the initial-load flag.
func (s *Store) SetInitialized(v bool) {
	s.mu.Lock()
	s.initialized = v
	s.mu.Unlock()
	s.notify()
}

// Reset returns the state to its pristine, uninitialized form.
func (s *Store) Reset() {
	s.mu.Lock()
	s.attachments = nil
	s.collections = nil
	s.selected = nil
	s.selectedCollections = nil
	s.searchText = ""
	s.initialized = false
	s.filtered = nil
	s.filteredValid = false
	s.mu.Unlock()
	s.notify()
}

func (s *Store) refreshFilteredLocked() {
	if s.filteredValid {
		return
	}
	s.filtered = Filter(s.attachments, s.searchText)
	s.filteredValid = true
}

func copyAttachments(in []models.Attachment) []models.Attachment {
	out := make([]models.Attachment, len(in))
	copy(out, in)
	return out
}
