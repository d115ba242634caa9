package client

import (
	"encoding/json"
	"errors"
	"slices"
	"sync"
	"time"
)

const favoritesKey = "artwork_favorites"

type Favorite struct {
	ArtworkID string    `json:"artworkId"`
	AddedAt   time.Time `json:"addedAt"`
}

// Favorites is a persisted, client-local set of artwork ids. Every change is
// written through; the last write wins.
type Favorites struct {
	st  Storage
	now func() time.Time

	mu    sync.Mutex
	items []Favorite
}

// LoadFavorites reads the stored set. Data that does not parse is removed
// and an empty set is returned.
func LoadFavorites(st Storage) (*Favorites, error) {
	if st == nil {
		st = NewMemoryStorage()
	}
	f := &Favorites{st: st, now: time.Now, items: []Favorite{}}
	b, err := st.Load(favoritesKey)
	switch {
	case errors.Is(err, ErrNoData):
		return f, nil
	case err != nil:
		return nil, err
	}
	var items []Favorite
	if json.Unmarshal(b, &items) != nil {
		return f, st.Remove(favoritesKey)
	}
	for _, it := range items {
		if it.ArtworkID != "" && f.index(it.ArtworkID) < 0 {
			f.items = append(f.items, it)
		}
	}
	return f, nil
}

func (f *Favorites) index(id string) int {
	return slices.IndexFunc(f.items, func(it Favorite) bool { return it.ArtworkID == id })
}

func (f *Favorites) persistLocked() error {
	b, err := json.Marshal(f.items)
	if err != nil {
		return err
	}
	return f.st.Save(favoritesKey, b)
}

// Add is a no-op when id is already a favorite.
func (f *Favorites) Add(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.index(id) >= 0 {
		return nil
	}
	f.items = append(f.items, Favorite{ArtworkID: id, AddedAt: f.now().UTC()})
	return f.persistLocked()
}

func (f *Favorites) Remove(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.index(id)
	if i < 0 {
		return nil
	}
	f.items = slices.Delete(f.items, i, i+1)
	return f.persistLocked()
}

// Toggle flips membership and reports whether id is now a favorite.
func (f *Favorites) Toggle(id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i := f.index(id); i >= 0 {
		f.items = slices.Delete(f.items, i, i+1)
		return false, f.persistLocked()
	}
	f.items = append(f.items, Favorite{ArtworkID: id, AddedAt: f.now().UTC()})
	return true, f.persistLocked()
}

func (f *Favorites) Has(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.index(id) >= 0
}

// List returns the favorites in the order they were added.
func (f *Favorites) List() []Favorite {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.items)
}

func (f *Favorites) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = []Favorite{}
	return f.st.Remove(favoritesKey)
}
