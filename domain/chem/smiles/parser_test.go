package smiles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"molgraph/domain/core/entities"
)

func TestParse_Ethanol(t *testing.T) {
	mol, err := Parse("CCO")
	require.NoError(t, err)

	require.Equal(t, 3, mol.AtomCount())
	require.Equal(t, 2, mol.BondCount())

	atoms := mol.Atoms()
	assert.Equal(t, "C", atoms[0].Symbol)
	assert.Equal(t, "C", atoms[1].Symbol)
	assert.Equal(t, "O", atoms[2].Symbol)
	assert.Equal(t, 8, atoms[2].AtomicNum)

	for _, b := range mol.Bonds() {
		assert.Equal(t, entities.BondSingle, b.Order)
	}
}

func TestParse_Caffeine(t *testing.T) {
	mol, err := Parse("CN1C=NC2=C1C(=O)N(C(=O)N2C)C")
	require.NoError(t, err)

	assert.Equal(t, 14, mol.AtomCount())
	assert.Equal(t, 15, mol.BondCount())

	var doubles int
	for _, b := range mol.Bonds() {
		if b.Order == entities.BondDouble {
			doubles++
		}
	}
	assert.Equal(t, 4, doubles)
}

func TestParse_Benzene(t *testing.T) {
	mol, err := Parse("c1ccccc1")
	require.NoError(t, err)

	require.Equal(t, 6, mol.AtomCount())
	require.Equal(t, 6, mol.BondCount())

	for _, a := range mol.Atoms() {
		assert.True(t, a.Aromatic)
		assert.Equal(t, "C", a.Symbol)
		assert.Equal(t, 6, a.AtomicNum)
	}
	for _, b := range mol.Bonds() {
		assert.Equal(t, entities.BondAromatic, b.Order)
	}
}

func TestParse_BondOrders(t *testing.T) {
	tests := []struct {
		name       string
		descriptor string
		order      entities.BondOrder
	}{
		{"explicit single", "C-C", entities.BondSingle},
		{"double", "C=C", entities.BondDouble},
		{"triple", "C#N", entities.BondTriple},
		{"stereo up is single", "C/C", entities.BondSingle},
		{"stereo down is single", `C\C`, entities.BondSingle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mol, err := Parse(tt.descriptor)
			require.NoError(t, err)
			require.Equal(t, 1, mol.BondCount())
			assert.Equal(t, tt.order, mol.Bonds()[0].Order)
		})
	}
}

func TestParse_TwoLetterSymbols(t *testing.T) {
	mol, err := Parse("ClCBr")
	require.NoError(t, err)

	require.Equal(t, 3, mol.AtomCount())
	atoms := mol.Atoms()
	assert.Equal(t, "Cl", atoms[0].Symbol)
	assert.Equal(t, 17, atoms[0].AtomicNum)
	assert.Equal(t, "Br", atoms[2].Symbol)
	assert.Equal(t, 35, atoms[2].AtomicNum)
}

func TestParse_BracketAtoms(t *testing.T) {
	tests := []struct {
		name       string
		descriptor string
		symbol     string
		atomicNum  int
		aromatic   bool
	}{
		{"charged sodium", "[Na+]", "Na", 11, false},
		{"isotope carbon", "[13C]", "C", 6, false},
		{"hydrogen count", "[NH4+]", "N", 7, false},
		{"aromatic selenium", "[se]", "Se", 34, true},
		{"wildcard", "[*]", "*", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mol, err := Parse(tt.descriptor)
			require.NoError(t, err)
			require.Equal(t, 1, mol.AtomCount())
			atom := mol.Atoms()[0]
			assert.Equal(t, tt.symbol, atom.Symbol)
			assert.Equal(t, tt.atomicNum, atom.AtomicNum)
			assert.Equal(t, tt.aromatic, atom.Aromatic)
		})
	}
}

func TestParse_Fragments(t *testing.T) {
	mol, err := Parse("[Na+].[Cl-]")
	require.NoError(t, err)

	assert.Equal(t, 2, mol.AtomCount())
	assert.Equal(t, 0, mol.BondCount())
}

func TestParse_Branches(t *testing.T) {
	// isobutane: central carbon bonded to three others
	mol, err := Parse("CC(C)C")
	require.NoError(t, err)

	require.Equal(t, 4, mol.AtomCount())
	require.Equal(t, 3, mol.BondCount())

	degree := make(map[int]int)
	for _, b := range mol.Bonds() {
		degree[b.Begin]++
		degree[b.End]++
	}
	assert.Equal(t, 3, degree[1])
}

func TestParse_RingClosures(t *testing.T) {
	t.Run("cyclohexane", func(t *testing.T) {
		mol, err := Parse("C1CCCCC1")
		require.NoError(t, err)
		assert.Equal(t, 6, mol.AtomCount())
		assert.Equal(t, 6, mol.BondCount())
	})

	t.Run("percent label", func(t *testing.T) {
		mol, err := Parse("C%10CCC%10")
		require.NoError(t, err)
		assert.Equal(t, 4, mol.AtomCount())
		assert.Equal(t, 4, mol.BondCount())
	})

	t.Run("explicit ring bond order", func(t *testing.T) {
		mol, err := Parse("C=1CCCCC=1")
		require.NoError(t, err)
		var doubles int
		for _, b := range mol.Bonds() {
			if b.Order == entities.BondDouble {
				doubles++
			}
		}
		assert.Equal(t, 1, doubles)
	})
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name       string
		descriptor string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"unclosed ring", "C1CC"},
		{"unclosed branch", "C(CC"},
		{"branch close without open", "CC)C"},
		{"branch before atom", "(CC)"},
		{"dangling bond", "CC="},
		{"leading bond", "=CC"},
		{"double bond symbol", "C==C"},
		{"bond before separator", "C=.C"},
		{"unterminated bracket", "[NH4"},
		{"empty bracket", "[]C"},
		{"percent needs two digits", "C%1C"},
		{"unknown character", "CxC"},
		{"ring before atom", "1CC1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.descriptor)
			assert.Error(t, err)
		})
	}
}
