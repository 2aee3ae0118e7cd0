package entities

import (
	"fmt"

	pkgerrors "molgraph/pkg/errors"
)

// BondOrder is the tag attached to a bond between two atoms
type BondOrder string

const (
	BondSingle   BondOrder = "SINGLE"
	BondDouble   BondOrder = "DOUBLE"
	BondTriple   BondOrder = "TRIPLE"
	BondAromatic BondOrder = "AROMATIC"
)

// Atom is one atom of a parsed molecule. Index is the position of the
// atom within the source descriptor and is unique per molecule.
type Atom struct {
	Index     int
	Symbol    string
	AtomicNum int
	Aromatic  bool
}

// Bond connects two atoms by their indices. Begin is always the atom
// that appeared first in the descriptor.
type Bond struct {
	Begin int
	End   int
	Order BondOrder
}

// Molecule is the in-memory form of a parsed descriptor: a flat list of
// atoms and the bonds between them. It carries no behavior beyond basic
// consistency checks; chemistry (valence, sanitization) is out of scope.
type Molecule struct {
	atoms []Atom
	bonds []Bond
}

// NewMolecule creates a molecule from parsed atoms and bonds.
// Bond endpoints must reference existing atom indices.
func NewMolecule(atoms []Atom, bonds []Bond) (*Molecule, error) {
	for _, b := range bonds {
		if b.Begin < 0 || b.Begin >= len(atoms) || b.End < 0 || b.End >= len(atoms) {
			return nil, pkgerrors.NewParseError(
				fmt.Sprintf("bond %d-%d references a missing atom", b.Begin, b.End))
		}
		if b.Begin == b.End {
			return nil, pkgerrors.NewParseError(
				fmt.Sprintf("bond %d-%d is a self loop", b.Begin, b.End))
		}
	}
	return &Molecule{atoms: atoms, bonds: bonds}, nil
}

// Atoms returns the atoms in descriptor order.
func (m *Molecule) Atoms() []Atom {
	return m.atoms
}

// Bonds returns the bonds in descriptor order.
func (m *Molecule) Bonds() []Bond {
	return m.bonds
}

// AtomCount returns the number of heavy atoms.
func (m *Molecule) AtomCount() int {
	return len(m.atoms)
}

// BondCount returns the number of bonds.
func (m *Molecule) BondCount() int {
	return len(m.bonds)
}
