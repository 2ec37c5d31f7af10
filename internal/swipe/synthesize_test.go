package swipe

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/swipe-solver/internal/letters"
)

type wordSet map[string]bool

func (w wordSet) Contains(word string) bool { return w[word] }

func words(ws ...string) wordSet {
	set := make(wordSet, len(ws))
	for _, w := range ws {
		set[w] = true
	}
	return set
}

type countingLexicon struct {
	wordSet
	calls int
}

func (c *countingLexicon) Contains(word string) bool {
	c.calls++
	return c.wordSet.Contains(word)
}

func obs(specs ...interface{}) []letters.Observation {
	out := make([]letters.Observation, 0, len(specs)/3)
	for i := 0; i+2 < len(specs); i += 3 {
		out = append(out, letters.Observation{
			Letter:     specs[i].(string),
			X:          specs[i+1].(int),
			Y:          specs[i+2].(int),
			Confidence: 1,
		})
	}
	return out
}

func TestPermutations(t *testing.T) {
	got := slices.Collect(Permutations([]string{"A", "B", "C"}, 2))
	assert.Equal(t, []string{"AB", "AC", "BA", "BC", "CA", "CB"}, got)

	assert.Len(t, slices.Collect(Permutations([]string{"A", "B", "C", "D"}, 4)), 24)
	assert.Empty(t, slices.Collect(Permutations([]string{"A", "B"}, 3)))
	assert.Empty(t, slices.Collect(Permutations([]string{"A", "B"}, 0)))
	assert.Empty(t, slices.Collect(Permutations(nil, 1)))
}

func TestPermutations_StopsEarly(t *testing.T) {
	var got []string
	for p := range Permutations([]string{"A", "B", "C", "D"}, 3) {
		got = append(got, p)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"ABC", "ABD"}, got)
}

func TestSynthesize_ThreeAnagrams(t *testing.T) {
	o := obs("A", 0, 0, "R", 10, 0, "T", 20, 0)

	got := Synthesize(o, words("ART", "RAT", "TAR"), DefaultOptions())

	require.Len(t, got, 3)
	assert.Equal(t, []string{"ART", "RAT", "TAR"}, []string{got[0].Word, got[1].Word, got[2].Word})
	for _, c := range got {
		assert.Len(t, c.Path, 3)
		assert.Equal(t, 30, c.Score)
		positions := map[Step]bool{}
		for _, s := range c.Path {
			positions[s] = true
		}
		assert.Len(t, positions, 3, "%s should visit every tile once", c.Word)
	}
	assert.Equal(t, []Step{{0, 0, "A"}, {10, 0, "R"}, {20, 0, "T"}}, got[0].Path)
	assert.Equal(t, []Step{{20, 0, "T"}, {0, 0, "A"}, {10, 0, "R"}}, got[2].Path)
}

func TestSynthesize_SingleLetter(t *testing.T) {
	got := Synthesize(obs("Q", 5, 5), words("QQQ", "Q"), DefaultOptions())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSynthesize_DuplicateTiles(t *testing.T) {
	o := obs("A", 0, 0, "A", 5, 5, "T", 10, 0, "P", 15, 0)

	got := Synthesize(o, words("TAP"), DefaultOptions())

	require.Len(t, got, 1)
	assert.Equal(t, "TAP", got[0].Word)
	assert.Equal(t, []Step{{10, 0, "T"}, {0, 0, "A"}, {15, 0, "P"}}, got[0].Path)
}

func TestSynthesize_NoObservations(t *testing.T) {
	got := Synthesize(nil, words("ART"), DefaultOptions())
	assert.NotNil(t, got)
	assert.Empty(t, got)

	assert.Empty(t, Synthesize(obs("A", 0, 0, "R", 1, 1, "T", 2, 2), nil, DefaultOptions()))
}

func TestSynthesize_MinLengthConfigurable(t *testing.T) {
	o := obs("A", 0, 0, "T", 40, 0)
	lex := words("AT")

	assert.Empty(t, Synthesize(o, lex, DefaultOptions()), "default floor is 3 letters")

	opts := DefaultOptions()
	opts.MinLength = 2
	got := Synthesize(o, lex, opts)
	require.Len(t, got, 1)
	assert.Equal(t, "AT", got[0].Word)
}

func TestSynthesize_LongestFirstAndCapped(t *testing.T) {
	o := obs("P", 0, 0, "A", 50, 0, "R", 100, 0, "T", 150, 0)
	lex := words("PART", "TRAP", "TARP", "RAPT", "PRAT", "PAR", "RAP", "TAP", "RAT", "PAT", "ART", "TAR", "APT")

	opts := DefaultOptions()
	opts.MaxResults = 3
	got := Synthesize(o, lex, opts)

	require.Len(t, got, 3)
	assert.Equal(t, "PART", got[0].Word)
	assert.Equal(t, "PRAT", got[1].Word)
	assert.Equal(t, "RAPT", got[2].Word)
	for _, c := range got {
		assert.Equal(t, 40, c.Score)
	}
}

func TestSynthesize_StopsEnumeratingAtCap(t *testing.T) {
	o := obs("A", 0, 0, "B", 1, 0, "C", 2, 0, "D", 3, 0, "E", 4, 0, "F", 5, 0)
	lex := &countingLexicon{wordSet: words("ABCDEF")}

	opts := DefaultOptions()
	opts.MaxResults = 1
	got := Synthesize(o, lex, opts)

	require.Len(t, got, 1)
	assert.Equal(t, 1, lex.calls, "the first permutation already fills the cap")
}

func TestSynthesize_CapsAlphabet(t *testing.T) {
	var o []letters.Observation
	for i, r := range "ABCDEFGHIJKLMN" {
		o = append(o, obs(string(r), i*40, 0)...)
	}
	lex := &countingLexicon{wordSet: words("ABC", "ABI", "NMK")}

	got := Synthesize(o, lex, DefaultOptions())

	require.Len(t, got, 1)
	assert.Equal(t, "ABC", got[0].Word, "letters past the eighth distinct one are not searched")
	// P(8,3) + P(8,4) + ... + P(8,8)
	assert.Equal(t, 336+1680+6720+20160+40320+40320, lex.calls)

	opts := DefaultOptions()
	opts.MaxAlphabet = 14
	opts.MaxLength = 3
	got = Synthesize(o, words("ABC", "ABI", "NMK"), opts)
	assert.Len(t, got, 3)
}

func TestSynthesize_Properties(t *testing.T) {
	o := obs("P", 0, 0, "A", 50, 0, "R", 100, 0, "T", 150, 0, "A", 200, 0, "K", 250, 0)
	lex := words("PART", "TRAP", "PARK", "TAP", "RAT", "ART", "KAT", "PAR", "ARK", "RAP", "TARP", "PARKA")

	first := Synthesize(o, lex, DefaultOptions())
	second := Synthesize(o, lex, DefaultOptions())
	require.NotEmpty(t, first)
	assert.Equal(t, first, second, "synthesis is deterministic")
	assert.LessOrEqual(t, len(first), 10)

	for i, c := range first {
		assert.True(t, lex.Contains(c.Word))
		assert.Len(t, c.Path, len(c.Word))
		seen := map[[2]int]bool{}
		for j, s := range c.Path {
			key := [2]int{s.X, s.Y}
			assert.False(t, seen[key], "%s reuses a tile", c.Word)
			seen[key] = true
			assert.Equal(t, string(c.Word[j]), s.Letter)
		}
		for _, other := range first[i+1:] {
			if len(c.Word) > len(other.Word) {
				assert.GreaterOrEqual(t, c.Score, other.Score)
			}
			assert.GreaterOrEqual(t, c.Score, other.Score, "results are sorted by score")
		}
	}
	for _, c := range first {
		assert.NotEqual(t, "PARKA", c.Word, "a word needing a letter twice beyond the distinct alphabet is not enumerated")
	}
}

func TestRealize(t *testing.T) {
	o := obs("A", 0, 0, "B", 1, 0, "A", 2, 0)

	path, ok := Realize("ABA", o)
	require.True(t, ok)
	assert.Equal(t, []Step{{0, 0, "A"}, {1, 0, "B"}, {2, 0, "A"}}, path)

	_, ok = Realize("AAA", o)
	assert.False(t, ok)
	_, ok = Realize("ABC", o)
	assert.False(t, ok)
}

func TestAlphabet(t *testing.T) {
	o := obs("T", 0, 0, "A", 1, 0, "T", 2, 0, "P", 3, 0)
	assert.Equal(t, []string{"T", "A", "P"}, Alphabet(o))
}

func TestOptionsWithDefaults(t *testing.T) {
	assert.Equal(t, DefaultOptions(), Options{}.withDefaults())

	custom := Options{MinLength: 2, MaxLength: 5, MaxResults: 20, ScorePerLetter: 1, MaxAlphabet: 6}
	assert.Equal(t, custom, custom.withDefaults())
}
