package musicxml

// PartFilter decides whether to keep part p at index i.
type PartFilter func(i int, p Part) bool

// KeepIndices returns a PartFilter keeping only the listed part indices.
func KeepIndices(indices ...int) PartFilter {
	keep := make(map[int]bool, len(indices))
	for _, i := range indices {
		keep[i] = true
	}
	return func(i int, p Part) bool { return keep[i] }
}

// FilterParts returns a new score containing the parts the filter keeps,
// in their original order. A nil filter keeps everything.
func FilterParts(filter PartFilter, score *Score) *Score {
	if filter == nil {
		filter = func(int, Part) bool { return true }
	}
	out := &Score{XMLName: score.XMLName}
	for i, part := range score.Parts {
		if filter(i, part) {
			out.Parts = append(out.Parts, part)
		}
	}
	return out
}

// DeleteParts returns a new score with the listed part indices removed.
func DeleteParts(indices []int, score *Score) *Score {
	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		drop[i] = true
	}
	return FilterParts(func(i int, p Part) bool { return !drop[i] }, score)
}
