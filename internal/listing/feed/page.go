package feed

// BasePageSize is the number of cards a page targets before column rounding.
const BasePageSize = 100

// PageSizeFor rounds BasePageSize up to a multiple of the rendered column
// count so the last row of every page is full.
func PageSizeFor(columns int) int {
	if columns < 1 {
		columns = 1
	}
	return (BasePageSize + columns - 1) / columns * columns
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// window returns how many of total items are visible.
func window(total, pageSize, reveal int) int {
	n := pageSize * reveal
	if n < 0 || n > total { // overflow or past the end
		return total
	}
	return n
}
