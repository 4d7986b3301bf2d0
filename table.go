package slidedom

import "fmt"

// tableData is the grid of a table frame. Widths and heights are EMU.
type tableData struct {
	cols []int64
	rows []*tableRow
}

type tableRow struct {
	height int64
	cells  []*Cell
}

// Cell is one cell of a table. Its text box never autofits.
type Cell struct {
	table Shape
	row   int
	col   int
	text  *TextBox
}

// newTableData splits cx×cy evenly over rows×cols cells.
func newTableData(d *Document, owner Shape, rows, cols int, cx, cy int64) *tableData {
	t := &tableData{cols: make([]int64, cols)}
	for i := range t.cols {
		t.cols[i] = cx / int64(cols)
	}
	for r := range rows {
		row := &tableRow{height: cy / int64(rows)}
		for c := range cols {
			row.cells = append(row.cells, newCell(d, owner, r, c))
		}
		t.rows = append(t.rows, row)
	}
	return t
}

func newCell(d *Document, owner Shape, row, col int) *Cell {
	cell := &Cell{table: owner, row: row, col: col}
	cell.text = newTextBox(d, owner)
	cell.text.cell = cell
	return cell
}

func (t *tableData) clone(d *Document, owner Shape) *tableData {
	out := &tableData{cols: append([]int64(nil), t.cols...)}
	for _, row := range t.rows {
		nr := &tableRow{height: row.height}
		for _, c := range row.cells {
			cell := &Cell{table: owner, row: c.row, col: c.col}
			cell.text = c.text.clone(owner)
			cell.text.cell = cell
			nr.cells = append(nr.cells, cell)
		}
		out.rows = append(out.rows, nr)
	}
	return out
}

// GetRow returns the row index of the cell.
func (c *Cell) GetRow() int { return c.row }

// GetColumn returns the column index of the cell.
func (c *Cell) GetColumn() int { return c.col }

// GetTextBox returns the cell text.
func (c *Cell) GetTextBox() *TextBox { return c.text }

func (tv Table) data() (*tableData, error) {
	n, err := tv.node()
	if err != nil {
		return nil, err
	}
	return n.table, nil
}

// GetRowCount returns the number of rows.
func (tv Table) GetRowCount() (int, error) {
	t, err := tv.data()
	if err != nil {
		return 0, err
	}
	return len(t.rows), nil
}

// GetColumnCount returns the number of columns.
func (tv Table) GetColumnCount() (int, error) {
	t, err := tv.data()
	if err != nil {
		return 0, err
	}
	return len(t.cols), nil
}

// GetCell returns the cell at row, col.
func (tv Table) GetCell(row, col int) (*Cell, error) {
	t, err := tv.data()
	if err != nil {
		return nil, err
	}
	if row < 0 || row >= len(t.rows) || col < 0 || col >= len(t.cols) {
		return nil, fmt.Errorf("cell (%d,%d) of %dx%d: %w", row, col, len(t.rows), len(t.cols), errOutOfRange)
	}
	return t.rows[row].cells[col], nil
}

// GetColumnWidth returns a column width in points.
func (tv Table) GetColumnWidth(col int) (float64, error) {
	t, err := tv.data()
	if err != nil {
		return 0, err
	}
	if col < 0 || col >= len(t.cols) {
		return 0, fmt.Errorf("column %d of %d: %w", col, len(t.cols), errOutOfRange)
	}
	return emuToPoints(t.cols[col]), nil
}

// SetColumnWidth sets a column width in points.
func (tv Table) SetColumnWidth(col int, w float64) error {
	t, err := tv.data()
	if err != nil {
		return err
	}
	if col < 0 || col >= len(t.cols) {
		return fmt.Errorf("column %d of %d: %w", col, len(t.cols), errOutOfRange)
	}
	if w <= 0 {
		return fmt.Errorf("column width %g: %w", w, ErrInvalidState)
	}
	t.cols[col] = pointsToEMU(w)
	return nil
}

// GetRowHeight returns a row height in points.
func (tv Table) GetRowHeight(row int) (float64, error) {
	t, err := tv.data()
	if err != nil {
		return 0, err
	}
	if row < 0 || row >= len(t.rows) {
		return 0, fmt.Errorf("row %d of %d: %w", row, len(t.rows), errOutOfRange)
	}
	return emuToPoints(t.rows[row].height), nil
}

// AddRow appends a row copying the last row's height.
func (tv Table) AddRow() error {
	t, err := tv.data()
	if err != nil {
		return err
	}
	row := &tableRow{}
	if n := len(t.rows); n > 0 {
		row.height = t.rows[n-1].height
	}
	r := len(t.rows)
	for c := range t.cols {
		row.cells = append(row.cells, newCell(tv.doc, tv.Shape, r, c))
	}
	t.rows = append(t.rows, row)
	return nil
}
