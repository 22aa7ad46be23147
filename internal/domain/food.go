package domain

import (
	"encoding/binary"
	"hash/fnv"
	"time"
)

// Food is a single listed item as last observed from the OpenFoods API.
// Values are never mutated by the client; a fresh list replaces them wholesale.
type Food struct {
	ID              int       `json:"id"`
	Name            string    `json:"name"`
	IsLiked         bool      `json:"isLiked"`
	PhotoURL        string    `json:"photoURL"`
	Description     string    `json:"description"`
	CountryOfOrigin string    `json:"countryOfOrigin"`
	LastUpdatedDate time.Time `json:"lastUpdatedDate"`
}

// Equal reports whether every field of f and other matches.
// Timestamps are compared as instants, so the same moment decoded in two
// different zones is still equal.
func (f Food) Equal(other Food) bool {
	return f.ID == other.ID &&
		f.Name == other.Name &&
		f.IsLiked == other.IsLiked &&
		f.PhotoURL == other.PhotoURL &&
		f.Description == other.Description &&
		f.CountryOfOrigin == other.CountryOfOrigin &&
		f.LastUpdatedDate.Equal(other.LastUpdatedDate)
}

// Hash returns a 64-bit FNV-1a digest over all fields. Foods that are Equal
// hash identically.
func (f Food) Hash() uint64 {
	h := fnv.New64a()
	var buf [8]byte

	writeInt := func(v int64) {
		binary.BigEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}
	writeString := func(s string) {
		writeInt(int64(len(s)))
		h.Write([]byte(s))
	}

	writeInt(int64(f.ID))
	writeString(f.Name)
	if f.IsLiked {
		writeInt(1)
	} else {
		writeInt(0)
	}
	writeString(f.PhotoURL)
	writeString(f.Description)
	writeString(f.CountryOfOrigin)
	writeInt(f.LastUpdatedDate.Unix())
	writeInt(int64(f.LastUpdatedDate.Nanosecond()))

	return h.Sum64()
}

// WithLiked returns a copy of f with IsLiked set and LastUpdatedDate bumped.
// Used by stores that own the canonical state, never by the API client.
func (f Food) WithLiked(liked bool, at time.Time) Food {
	f.IsLiked = liked
	f.LastUpdatedDate = at
	return f
}

// FindByID returns the food with the given id from foods.
func FindByID(foods []Food, id int) (Food, bool) {
	for _, f := range foods {
		if f.ID == id {
			return f, true
		}
	}
	return Food{}, false
}
