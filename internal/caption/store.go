package caption

// Track is an immutable, insertion-ordered view of caption entries.
//
// Lookups scan in insertion order, so when intervals overlap the entry
// inserted first wins.
type Track struct {
	entries []Entry
}

// Len returns the number of entries in the track.
func (t *Track) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entries returns a copy of the entries in insertion order.
func (t *Track) Entries() []Entry {
	if t == nil {
		return []Entry{}
	}
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// ActiveAt returns the first entry whose interval contains position.
func (t *Track) ActiveAt(position float64) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}
	for _, e := range t.entries {
		if e.Contains(position) {
			return e, true
		}
	}
	return Entry{}, false
}

// Lines renders the caption list, one "HH:MM:SS - HH:MM:SS: text" per entry.
func (t *Track) Lines() []string {
	if t == nil {
		return []string{}
	}
	lines := make([]string, len(t.entries))
	for i, e := range t.entries {
		lines[i] = e.String()
	}
	return lines
}

// Store is the session's append-only caption track.
//
// Every Insert produces a new Track reference from Snapshot; holders of an
// older snapshot keep seeing the entries that existed when they took it.
type Store struct {
	entries []Entry
	current *Track
}

func NewStore() *Store {
	s := &Store{}
	s.current = &Track{}
	return s
}

// Insert validates e, numbers it and appends it. Existing entries are
// never reordered.
func (s *Store) Insert(e Entry) (Entry, error) {
	if err := e.Validate(); err != nil {
		return Entry{}, err
	}
	e.Index = len(s.entries) + 1
	s.entries = append(s.entries, e)
	// older snapshots share the backing array but never see past their length
	s.current = &Track{entries: s.entries}
	return e, nil
}

// ActiveAt returns the first inserted entry containing position.
func (s *Store) ActiveAt(position float64) (Entry, bool) {
	return s.current.ActiveAt(position)
}

func (s *Store) Len() int {
	return len(s.entries)
}

func (s *Store) Entries() []Entry {
	return s.current.Entries()
}

// Snapshot returns the current track. The pointer changes on every
// successful Insert or Reset.
func (s *Store) Snapshot() *Track {
	return s.current
}

// Reset drops every entry.
func (s *Store) Reset() {
	s.entries = nil
	s.current = &Track{}
}
