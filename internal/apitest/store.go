package apitest

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/serroba/shorturl-console/internal/shortener"
)

// Visit is one recorded access of a short URL.
type Visit struct {
	Accepted  bool
	IP        string
	UserAgent string
	At        time.Time
}

type record struct {
	id        string
	code      string
	name      string
	longURL   string
	clicks    int64
	createdAt time.Time
	expiresAt *time.Time
	owner     string // visitor fingerprint, never exposed
	ownerID   string
	ownerName string
}

// memoryStore keeps every visitor's links newest first.
type memoryStore struct {
	mu      sync.Mutex
	byOwner map[string][]*record
	byCode  map[string]*record
	visits  map[string][]Visit
	users   map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		byOwner: make(map[string][]*record),
		byCode:  make(map[string]*record),
		visits:  make(map[string][]Visit),
		users:   make(map[string]string),
	}
}

// userID returns the public id assigned to a fingerprint, creating it on first use.
func (s *memoryStore) userID(fingerprint string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.users[fingerprint]
	if !ok {
		id = uuid.NewString()
		s.users[fingerprint] = id
	}

	return id
}

func (s *memoryStore) list(owner string) []record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]record, 0, len(s.byOwner[owner]))
	for _, r := range s.byOwner[owner] {
		out = append(out, *r)
	}

	return out
}

func (s *memoryStore) codeTaken(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.byCode[code]

	return ok
}

func (s *memoryStore) insert(r record) record {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := &r
	s.byOwner[r.owner] = slices.Insert(s.byOwner[r.owner], 0, stored)
	s.byCode[r.code] = stored

	return r
}

// update applies fn to the owner's record with the given code.
func (s *memoryStore) update(owner, code string, fn func(*record)) (record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.byCode[code]
	if !ok || r.owner != owner {
		return record{}, shortener.ErrNotFound
	}

	fn(r)

	return *r, nil
}

func (s *memoryStore) remove(owner, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.byCode[code]
	if !ok || r.owner != owner {
		return shortener.ErrNotFound
	}

	delete(s.byCode, code)
	delete(s.visits, r.id)
	s.byOwner[owner] = slices.DeleteFunc(s.byOwner[owner], func(x *record) bool { return x == r })

	return nil
}

func (s *memoryStore) findByID(owner, id string) (record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.byOwner[owner] {
		if r.id == id {
			return *r, true
		}
	}

	return record{}, false
}

// visit records an access by code. Accepted visits increment the click counter.
func (s *memoryStore) visit(code string, v Visit) (record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.byCode[code]
	if !ok {
		return record{}, shortener.ErrNotFound
	}

	if v.Accepted {
		r.clicks++
	}

	s.visits[r.id] = append(s.visits[r.id], v)

	return *r, nil
}

// visitPage returns visits newest first, sliced to the requested page.
func (s *memoryStore) visitPage(id string, page, limit int) ([]Visit, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.visits[id]
	total := len(all)

	newestFirst := make([]Visit, total)
	for i, v := range all {
		newestFirst[total-1-i] = v
	}

	start, end := shortener.PageBounds(total, page, limit)

	return newestFirst[start:end], total
}
