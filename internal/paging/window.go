package paging

// DefaultButtons is the number of page buttons the console renders.
const DefaultButtons = 5

// Window returns up to maxButtons consecutive page indexes for a pager.
//
// When every page fits, all pages are returned. Otherwise the window is
// centred on the current page, clamped so it never runs past either end:
// near the start it pins to the first maxButtons pages, near the end to
// the last maxButtons pages.
func Window(index, total, maxButtons int) []int {
	if maxButtons <= 0 {
		maxButtons = DefaultButtons
	}
	total = totalPages(total)
	if total <= maxButtons {
		out := make([]int, total)
		for i := range out {
			out[i] = i
		}
		return out
	}

	half := maxButtons / 2
	center := index
	if center < half {
		center = half
	}
	if hi := total - (maxButtons - half); center > hi {
		center = hi
	}
	start := center - half
	if start < 0 {
		start = 0
	}

	out := make([]int, maxButtons)
	for i := range out {
		out[i] = start + i
	}
	return out
}
