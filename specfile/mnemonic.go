package specfile

import (
	"iter"
	"slices"
)

// Mnemonic pairs the short internal name of a motor or counter with its
// descriptive label.
type Mnemonic struct {
	Mnemonic string `json:"mnemonic,omitempty" yaml:"mnemonic,omitempty"`
	Label    string `json:"label"              yaml:"label"`
}

// MnemonicMap is an ordered mnemonic-to-label mapping. The position of an
// entry is the column it occupies in positional data such as #P lines.
//
// A MnemonicMap is immutable once built and is shared by reference between
// the header that declared it and every scan parsed while it was in effect.
// All methods are safe on a nil receiver, which behaves as an empty map.
type MnemonicMap struct {
	entries    []Mnemonic
	byMnemonic map[string]int
	byLabel    map[string]int
}

// NewMnemonicMap zips labels and mnemonics by position.
//
// If mnemonics is nil the labels alone build the map. Otherwise the shorter
// list wins and the surplus of the longer one is returned so the caller can
// preserve it.
func NewMnemonicMap(
	labels, mnemonics []string,
) (m *MnemonicMap, extraLabels, extraMnemonics []string) {
	n := len(labels)

	if mnemonics != nil {
		n = min(len(labels), len(mnemonics))
		extraLabels = slices.Clone(labels[n:])
		extraMnemonics = slices.Clone(mnemonics[n:])
	}

	m = &MnemonicMap{
		entries:    make([]Mnemonic, n),
		byMnemonic: make(map[string]int, n),
		byLabel:    make(map[string]int, n),
	}

	for i := range n {
		e := Mnemonic{Label: labels[i]}
		if mnemonics != nil {
			e.Mnemonic = mnemonics[i]
		}

		m.entries[i] = e

		// First declaration wins for lookups; positions are kept regardless.
		if _, dup := m.byLabel[e.Label]; !dup {
			m.byLabel[e.Label] = i
		}

		if e.Mnemonic != "" {
			if _, dup := m.byMnemonic[e.Mnemonic]; !dup {
				m.byMnemonic[e.Mnemonic] = i
			}
		}
	}

	if len(extraLabels) == 0 {
		extraLabels = nil
	}

	if len(extraMnemonics) == 0 {
		extraMnemonics = nil
	}

	return m, extraLabels, extraMnemonics
}

// Len returns the number of entries.
func (m *MnemonicMap) Len() int {
	if m == nil {
		return 0
	}

	return len(m.entries)
}

// At returns the entry at position i.
func (m *MnemonicMap) At(i int) Mnemonic { return m.entries[i] }

// Label returns the label declared for mnemonic.
func (m *MnemonicMap) Label(mnemonic string) (string, bool) {
	if m == nil {
		return "", false
	}

	i, ok := m.byMnemonic[mnemonic]
	if !ok {
		return "", false
	}

	return m.entries[i].Label, true
}

// Mnemonic returns the mnemonic declared for label.
func (m *MnemonicMap) Mnemonic(label string) (string, bool) {
	if m == nil {
		return "", false
	}

	i, ok := m.byLabel[label]
	if !ok {
		return "", false
	}

	return m.entries[i].Mnemonic, true
}

// Claims reports whether name is a label or a mnemonic of m.
func (m *MnemonicMap) Claims(name string) bool {
	if m == nil {
		return false
	}

	_, isLabel := m.byLabel[name]
	_, isMnemonic := m.byMnemonic[name]

	return isLabel || isMnemonic
}

// Labels returns the labels in declaration order.
func (m *MnemonicMap) Labels() []string {
	if m == nil {
		return nil
	}

	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Label
	}

	return out
}

// Mnemonics returns the mnemonics in declaration order.
func (m *MnemonicMap) Mnemonics() []string {
	if m == nil {
		return nil
	}

	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Mnemonic
	}

	return out
}

// All returns an iterator over the entries in declaration order.
func (m *MnemonicMap) All() iter.Seq2[int, Mnemonic] {
	return func(yield func(int, Mnemonic) bool) {
		if m == nil {
			return
		}

		for i, e := range m.entries {
			if !yield(i, e) {
				return
			}
		}
	}
}
