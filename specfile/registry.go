package specfile

import (
	"iter"
	"log/slog"
	"slices"
)

// key identifies a scan by its declared number and its occurrence index.
type key struct{ number, index int }

// Registry is the whole-file result: every scan in file order, with lookups
// by (number, index) and by number alone.
type Registry struct {
	headers []*FileHeader
	scans   []*Scan
	byKey   map[key]*Scan
	byNum   map[int][]*Scan
}

func newRegistry() *Registry {
	return &Registry{
		byKey: make(map[key]*Scan),
		byNum: make(map[int][]*Scan),
	}
}

func (r *Registry) addHeader(h *FileHeader) {
	if h == nil {
		return
	}

	if n := len(r.headers); n > 0 && r.headers[n-1] == h {
		return
	}

	r.headers = append(r.headers, h)
}

// add appends s. The index of s must already be assigned.
func (r *Registry) add(s *Scan) {
	r.addHeader(s.Header)
	r.insert(s)
}

func (r *Registry) insert(s *Scan) {
	r.scans = append(r.scans, s)
	r.byKey[key{s.Number, s.Index}] = s
	r.byNum[s.Number] = append(r.byNum[s.Number], s)
}

// Len returns the number of scans.
func (r *Registry) Len() int { return len(r.scans) }

// Header returns the first file header block, or nil if the file had none.
func (r *Registry) Header() *FileHeader {
	if len(r.headers) == 0 {
		return nil
	}

	return r.headers[0]
}

// Headers returns every file header block in file order.
func (r *Registry) Headers() []*FileHeader { return slices.Clone(r.headers) }

// Scans returns an iterator over the scans in file order.
func (r *Registry) Scans() iter.Seq[*Scan] {
	return slices.Values(r.scans)
}

// At returns the i-th scan in file order.
func (r *Registry) At(i int) *Scan { return r.scans[i] }

// Get returns the index-th scan declared with number.
func (r *Registry) Get(number, index int) (*Scan, bool) {
	s, ok := r.byKey[key{number, index}]

	return s, ok
}

// Lookup returns the only scan declared with number. It fails with
// [ErrScanNotFound] if there is none and with [ErrAmbiguousScan] if there is
// more than one; use [Registry.Get] or [Registry.All] in that case.
func (r *Registry) Lookup(number int) (*Scan, error) {
	switch found := r.byNum[number]; len(found) {
	case 0:
		return nil, ErrScanNotFound.With(slog.Int("number", number))

	case 1:
		return found[0], nil

	default:
		return nil, ErrAmbiguousScan.With(
			slog.Int("number", number),
			slog.Int("count", len(found)),
		)
	}
}

// All returns every scan declared with number, in file order.
func (r *Registry) All(number int) []*Scan {
	return slices.Clone(r.byNum[number])
}

// Select returns a registry of the scans for which keep reports true. The
// header blocks of r are carried over unchanged.
func (r *Registry) Select(keep func(*Scan) bool) *Registry {
	out := newRegistry()
	out.headers = slices.Clone(r.headers)

	for _, s := range r.scans {
		if keep(s) {
			out.insert(s)
		}
	}

	return out
}
