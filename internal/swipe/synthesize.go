package swipe

import (
	"sort"

	"github.com/ironsheep/swipe-solver/internal/letters"
)

// Lexicon is the word membership test the synthesizer needs.
type Lexicon interface {
	Contains(word string) bool
}

// Options bounds the search. Zero values fall back to DefaultOptions.
type Options struct {
	MinLength      int `json:"min_length" mapstructure:"min_word_length"`
	MaxLength      int `json:"max_length" mapstructure:"max_word_length"`
	MaxResults     int `json:"max_results" mapstructure:"max_results"`
	ScorePerLetter int `json:"score_per_letter" mapstructure:"score_per_letter"`

	// MaxAlphabet caps how many distinct letters take part in the search.
	// Letters beyond it, in detection order, are ignored.
	MaxAlphabet int `json:"max_alphabet" mapstructure:"max_alphabet"`
}

// DefaultOptions returns words of 3 to 8 letters, at most 10 of them, drawn
// from at most 8 distinct letters.
func DefaultOptions() Options {
	return Options{
		MinLength:      3,
		MaxLength:      8,
		MaxResults:     10,
		ScorePerLetter: 10,
		MaxAlphabet:    8,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.MinLength <= 0 {
		o.MinLength = def.MinLength
	}
	if o.MaxLength <= 0 {
		o.MaxLength = def.MaxLength
	}
	if o.MaxResults <= 0 {
		o.MaxResults = def.MaxResults
	}
	if o.ScorePerLetter <= 0 {
		o.ScorePerLetter = def.ScorePerLetter
	}
	if o.MaxAlphabet <= 0 {
		o.MaxAlphabet = def.MaxAlphabet
	}
	return o
}

// Step is one position of a swipe path.
type Step struct {
	X      int    `json:"x" yaml:"x"`
	Y      int    `json:"y" yaml:"y"`
	Letter string `json:"letter" yaml:"letter"`
}

// Candidate is a dictionary word and the path that spells it.
type Candidate struct {
	Word  string `json:"word" yaml:"word"`
	Path  []Step `json:"path" yaml:"path"`
	Score int    `json:"score" yaml:"score"`
}

// Alphabet returns the distinct letters of obs in first-detection order.
func Alphabet(obs []letters.Observation) []string {
	seen := make(map[string]bool, len(obs))
	out := make([]string, 0, len(obs))
	for _, o := range obs {
		if o.Letter == "" || seen[o.Letter] {
			continue
		}
		seen[o.Letter] = true
		out = append(out, o.Letter)
	}
	return out
}

// Synthesize enumerates words formable from the observed letters, longest
// first, and returns up to MaxResults of them with a realized path each.
//
// Results are ordered by score descending, then word ascending. The output is
// never nil.
func Synthesize(obs []letters.Observation, lex Lexicon, opts Options) []Candidate {
	opts = opts.withDefaults()
	out := make([]Candidate, 0, opts.MaxResults)
	if len(obs) == 0 || lex == nil {
		return out
	}

	alphabet := Alphabet(obs)
	if len(alphabet) > opts.MaxAlphabet {
		alphabet = alphabet[:opts.MaxAlphabet]
	}
	maxLen := opts.MaxLength
	if maxLen > len(alphabet) {
		maxLen = len(alphabet)
	}

	for length := maxLen; length >= opts.MinLength && len(out) < opts.MaxResults; length-- {
		for word := range Permutations(alphabet, length) {
			if !lex.Contains(word) {
				continue
			}
			path, ok := Realize(word, obs)
			if !ok {
				continue
			}
			out = append(out, Candidate{
				Word:  word,
				Path:  path,
				Score: Score(word, opts.ScorePerLetter),
			})
			if len(out) >= opts.MaxResults {
				break
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Word < out[j].Word
	})
	return out
}

// Realize picks, for each letter of word, the first observation in detection
// order that matches it and has not been used earlier in this word.
func Realize(word string, obs []letters.Observation) ([]Step, bool) {
	used := make([]bool, len(obs))
	path := make([]Step, 0, len(word))
	for _, r := range word {
		letter := string(r)
		found := -1
		for i, o := range obs {
			if !used[i] && o.Letter == letter {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, false
		}
		used[found] = true
		o := obs[found]
		path = append(path, Step{X: o.X, Y: o.Y, Letter: o.Letter})
	}
	return path, true
}

// Score is monotonic in word length.
func Score(word string, perLetter int) int {
	return len(word) * perLetter
}
