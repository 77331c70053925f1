package embedded

// RowIterator walks a ResultSet one row at a time, boxing each cell with
// the same mapping as ResultSet.Value. It moves forward only and cannot be
// restarted.
type RowIterator struct {
	rs     *ResultSet
	row    int
	values []interface{}
	err    error
}

// Rows returns a forward-only iterator over the rows of rs.
func (rs *ResultSet) Rows() *RowIterator {
	return &RowIterator{rs: rs}
}

// Next advances to the next row. It returns false at the end of the result
// or on error; Err tells the two apart.
func (it *RowIterator) Next() bool {
	if it.err != nil || it.row >= it.rs.RowCount() {
		it.values = nil
		return false
	}
	it.row++
	values := make([]interface{}, it.rs.ColumnCount())
	for col := range values {
		v, err := it.rs.Value(col+1, it.row)
		if err != nil {
			it.err = err
			it.values = nil
			return false
		}
		values[col] = v
	}
	it.values = values
	return true
}

// Row returns the 1-based index of the current row.
func (it *RowIterator) Row() int { return it.row }

// Values returns the cells of the current row in column order.
func (it *RowIterator) Values() []interface{} { return it.values }

// Err returns the error that stopped the iteration, if any.
func (it *RowIterator) Err() error { return it.err }
