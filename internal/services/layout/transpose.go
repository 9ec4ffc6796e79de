// -----------------------------------------------------------------------
// Layout Transposer
// Column-major fill / row-major read index remapping for checklist grids
// -----------------------------------------------------------------------

package layout

// Transpose remaps a flat author-ordered list for a grid renderer that walks
// cells left-to-right, top-to-bottom. The author's list fills down column 1,
// then column 2, and so on, but the output is emitted in row-major order.
//
// For original index i with rows = ceil(n/columns): col = i/rows,
// row = i%rows, and the item lands at row*columns+col. Output positions the
// mapping never reaches keep T's zero value; grid renderers skip them rather
// than treating them as an error.
//
// Transpose(items, 1) is the identity. This is the single shared
// implementation used by both the editor preview and the report renderer.
func Transpose[T any](items []T, columns int) []T {
	n := len(items)
	if n == 0 {
		return []T{}
	}
	if columns <= 1 {
		out := make([]T, n)
		copy(out, items)
		return out
	}

	rows := (n + columns - 1) / columns
	out := make([]T, n)
	for i := 0; i < n; i++ {
		col := i / rows
		row := i % rows
		newIndex := row*columns + col
		if newIndex < n {
			out[newIndex] = items[i]
		}
	}
	return out
}

// Rows slices a transposed list into renderable rows of the given column
// count. The final row may be shorter than columns when the item count is
// not a multiple of the grid width.
func Rows[T any](items []T, columns int) [][]T {
	if columns < 1 {
		columns = 1
	}
	var rows [][]T
	for start := 0; start < len(items); start += columns {
		end := start + columns
		if end > len(items) {
			end = len(items)
		}
		rows = append(rows, items[start:end])
	}
	return rows
}
