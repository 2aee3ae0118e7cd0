// Package smiles reads SMILES descriptors into molecules.
//
// The reader covers the subset that load workloads actually use: the
// organic subset, bracket atoms, branches, ring closures (including the
// %nn form) and explicit bond symbols. Stereo markers and isotopes are
// accepted and ignored. It does not sanitize chemistry; a lexically
// valid descriptor with impossible valence still parses.
package smiles

import (
	"fmt"
	"strings"

	"molgraph/domain/core/entities"
	pkgerrors "molgraph/pkg/errors"
)

// atomicNumbers maps element symbols to their atomic number. Symbols
// missing from the table parse with atomic number 0.
var atomicNumbers = map[string]int{
	"H": 1, "He": 2, "Li": 3, "Be": 4, "B": 5, "C": 6, "N": 7, "O": 8,
	"F": 9, "Ne": 10, "Na": 11, "Mg": 12, "Al": 13, "Si": 14, "P": 15,
	"S": 16, "Cl": 17, "Ar": 18, "K": 19, "Ca": 20, "Fe": 26, "Co": 27,
	"Ni": 28, "Cu": 29, "Zn": 30, "As": 33, "Se": 34, "Br": 35, "I": 53,
	"Sn": 50, "Pt": 78, "Au": 79, "Hg": 80, "Pb": 82,
}

// aromaticSymbols are the lowercase atoms SMILES allows outside and
// inside brackets.
var aromaticSymbols = map[string]string{
	"b": "B", "c": "C", "n": "N", "o": "O", "p": "P", "s": "S",
	"se": "Se", "as": "As",
}

type ringBond struct {
	atom     int
	order    entities.BondOrder
	explicit bool
}

type parser struct {
	input string
	pos   int

	atoms []entities.Atom
	bonds []entities.Bond

	prev    int // index of the atom the next bond attaches to, -1 after '.'
	stack   []int
	rings   map[string]ringBond
	pending entities.BondOrder
	hasBond bool
}

// Parse reads a SMILES descriptor and returns the molecule it encodes.
func Parse(descriptor string) (*entities.Molecule, error) {
	descriptor = strings.TrimSpace(descriptor)
	if descriptor == "" {
		return nil, pkgerrors.NewParseError("empty descriptor")
	}

	p := &parser{
		input: descriptor,
		prev:  -1,
		rings: make(map[string]ringBond),
	}
	if err := p.run(); err != nil {
		return nil, err
	}
	if len(p.rings) != 0 {
		return nil, pkgerrors.NewParseError("unclosed ring bond in descriptor")
	}
	if len(p.stack) != 0 {
		return nil, pkgerrors.NewParseError("unclosed branch in descriptor")
	}
	if p.hasBond {
		return nil, pkgerrors.NewParseError("dangling bond symbol at end of descriptor")
	}
	if len(p.atoms) == 0 {
		return nil, pkgerrors.NewParseError("descriptor contains no atoms")
	}
	return entities.NewMolecule(p.atoms, p.bonds)
}

func (p *parser) run() error {
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		switch {
		case c == '(':
			if p.prev < 0 {
				return p.errorf("branch cannot open before any atom")
			}
			p.stack = append(p.stack, p.prev)
			p.pos++
		case c == ')':
			if len(p.stack) == 0 {
				return p.errorf("branch close without open")
			}
			p.prev = p.stack[len(p.stack)-1]
			p.stack = p.stack[:len(p.stack)-1]
			p.pos++
		case c == '-' || c == '=' || c == '#' || c == ':' || c == '/' || c == '\\':
			if p.hasBond {
				return p.errorf("two bond symbols in a row")
			}
			if p.prev < 0 {
				return p.errorf("bond symbol with no preceding atom")
			}
			p.pending = bondOrderFor(c)
			p.hasBond = true
			p.pos++
		case c == '.':
			if p.hasBond {
				return p.errorf("bond symbol before fragment separator")
			}
			p.prev = -1
			p.pos++
		case c >= '0' && c <= '9':
			if err := p.closeRing(string(c)); err != nil {
				return err
			}
			p.pos++
		case c == '%':
			if p.pos+2 >= len(p.input) || !isDigit(p.input[p.pos+1]) || !isDigit(p.input[p.pos+2]) {
				return p.errorf("%% must be followed by two digits")
			}
			if err := p.closeRing(p.input[p.pos+1 : p.pos+3]); err != nil {
				return err
			}
			p.pos += 3
		case c == '[':
			atom, err := p.readBracketAtom()
			if err != nil {
				return err
			}
			p.addAtom(atom)
		default:
			atom, n, err := p.readOrganicAtom()
			if err != nil {
				return err
			}
			p.pos += n
			p.addAtom(atom)
		}
	}
	return nil
}

// readOrganicAtom reads an unbracketed atom at the current position and
// returns it together with the number of bytes consumed.
func (p *parser) readOrganicAtom() (entities.Atom, int, error) {
	rest := p.input[p.pos:]

	// Two-letter symbols first so "Cl" does not read as carbon.
	for _, sym := range []string{"Cl", "Br"} {
		if strings.HasPrefix(rest, sym) {
			return entities.Atom{Symbol: sym, AtomicNum: atomicNumbers[sym]}, 2, nil
		}
	}

	c := rest[0]
	if strings.ContainsRune("BCNOPSFI", rune(c)) {
		sym := string(c)
		return entities.Atom{Symbol: sym, AtomicNum: atomicNumbers[sym]}, 1, nil
	}
	if upper, ok := aromaticSymbols[string(c)]; ok {
		return entities.Atom{Symbol: upper, AtomicNum: atomicNumbers[upper], Aromatic: true}, 1, nil
	}
	return entities.Atom{}, 0, p.errorf("unexpected character %q", c)
}

// readBracketAtom reads a [...] atom. Isotope, chirality, hydrogen
// count, charge and atom class are consumed but not retained.
func (p *parser) readBracketAtom() (entities.Atom, error) {
	end := strings.IndexByte(p.input[p.pos:], ']')
	if end < 0 {
		return entities.Atom{}, p.errorf("unterminated bracket atom")
	}
	body := p.input[p.pos+1 : p.pos+end]
	p.pos += end + 1

	i := 0
	for i < len(body) && isDigit(body[i]) { // isotope
		i++
	}
	if i >= len(body) {
		return entities.Atom{}, p.errorf("bracket atom has no element symbol")
	}

	var symbol string
	aromatic := false
	c := body[i]
	switch {
	case c >= 'A' && c <= 'Z':
		symbol = string(c)
		if i+1 < len(body) && body[i+1] >= 'a' && body[i+1] <= 'z' {
			two := symbol + string(body[i+1])
			if _, ok := atomicNumbers[two]; ok {
				symbol = two
			}
		}
	case c >= 'a' && c <= 'z':
		aromatic = true
		symbol = string(c)
		if i+1 < len(body) && body[i+1] >= 'a' && body[i+1] <= 'z' {
			if upper, ok := aromaticSymbols[symbol+string(body[i+1])]; ok {
				return entities.Atom{Symbol: upper, AtomicNum: atomicNumbers[upper], Aromatic: true}, nil
			}
		}
		upper, ok := aromaticSymbols[symbol]
		if !ok {
			return entities.Atom{}, p.errorf("%q cannot be aromatic", symbol)
		}
		symbol = upper
	case c == '*':
		symbol = "*"
	default:
		return entities.Atom{}, p.errorf("bad element symbol in bracket atom %q", body)
	}

	return entities.Atom{Symbol: symbol, AtomicNum: atomicNumbers[symbol], Aromatic: aromatic}, nil
}

// addAtom appends an atom and bonds it to the previous one.
func (p *parser) addAtom(atom entities.Atom) {
	atom.Index = len(p.atoms)
	p.atoms = append(p.atoms, atom)

	if p.prev >= 0 {
		p.bonds = append(p.bonds, entities.Bond{
			Begin: p.prev,
			End:   atom.Index,
			Order: p.takeBond(p.atoms[p.prev], atom),
		})
	}
	p.prev = atom.Index
}

// closeRing opens or closes the numbered ring bond.
func (p *parser) closeRing(label string) error {
	if p.prev < 0 {
		return p.errorf("ring bond %s before any atom", label)
	}
	open, ok := p.rings[label]
	if !ok {
		p.rings[label] = ringBond{atom: p.prev, order: p.pending, explicit: p.hasBond}
		p.pending = ""
		p.hasBond = false
		return nil
	}
	delete(p.rings, label)

	order := open.order
	explicit := open.explicit
	if p.hasBond {
		order = p.pending
		explicit = true
		p.pending = ""
		p.hasBond = false
	}
	if !explicit {
		order = entities.BondSingle
		if p.atoms[open.atom].Aromatic && p.atoms[p.prev].Aromatic {
			order = entities.BondAromatic
		}
	}
	p.bonds = append(p.bonds, entities.Bond{Begin: open.atom, End: p.prev, Order: order})
	return nil
}

// takeBond resolves the order of the bond to a freshly added atom.
func (p *parser) takeBond(from, to entities.Atom) entities.BondOrder {
	if p.hasBond {
		order := p.pending
		p.pending = ""
		p.hasBond = false
		return order
	}
	if from.Aromatic && to.Aromatic {
		return entities.BondAromatic
	}
	return entities.BondSingle
}

func bondOrderFor(c byte) entities.BondOrder {
	switch c {
	case '=':
		return entities.BondDouble
	case '#':
		return entities.BondTriple
	case ':':
		return entities.BondAromatic
	default: // '-', '/' and '\' are all single bonds here
		return entities.BondSingle
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func (p *parser) errorf(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	return pkgerrors.NewParseError(fmt.Sprintf("%s at position %d in %q", msg, p.pos, p.input))
}
