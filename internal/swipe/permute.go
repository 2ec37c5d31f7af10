package swipe

import "iter"

// Permutations yields every ordering of k distinct elements of alphabet,
// concatenated, in lexicographic order of element index. Nothing is yielded
// when k is out of range. The sequence is lazy: breaking out of the range
// loop stops the enumeration.
func Permutations(alphabet []string, k int) iter.Seq[string] {
	return func(yield func(string) bool) {
		n := len(alphabet)
		if k <= 0 || k > n {
			return
		}
		used := make([]bool, n)
		picked := make([]string, 0, k)

		var walk func() bool
		walk = func() bool {
			if len(picked) == k {
				word := ""
				for _, s := range picked {
					word += s
				}
				return yield(word)
			}
			for i := 0; i < n; i++ {
				if used[i] {
					continue
				}
				used[i] = true
				picked = append(picked, alphabet[i])
				ok := walk()
				picked = picked[:len(picked)-1]
				used[i] = false
				if !ok {
					return false
				}
			}
			return true
		}
		walk()
	}
}
