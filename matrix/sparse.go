/*
Package matrix implements a sparse integer matrix, used by package grammar
to back the dense-looking (rhs1,rhs2) → rule-group lookup that probabilistic
CKY leans on in its inner loop.

This implementation uses the COO algorithm (a.k.a. triplet-encoding).

   https://medium.com/@jmaxg3/101-ways-to-store-a-sparse-matrix-c7f2bf15a229
   https://www.coin-or.org/Ipopt/documentation/node38.html


License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package matrix

// IntMatrix is a type for a sparse matrix of int32 values. Construct with
//
//     M := NewIntMatrix(10, 10, 0)   // last parameter is M's null-value
//
// Now
//
//     M.Set(2, 3, 17)                // set a value
//     v := M.Value(2, 3)             // returns 17
//     v = M.Value(9, 9)              // returns 0, i.e. the null-value
//
// Values cannot be deleted, but may be overwritten with the null-value. Space
// for null-values is not re-claimed.
type IntMatrix struct {
	values  []triplet
	rowcnt  int
	colcnt  int
	nullval int32
}

// triplet is a stored (row,col,value), kept sorted by (row,col).
type triplet struct {
	row, col int
	value    int32
}

// DefaultNullValue is the default empty-value for matrices backing a
// rule-group index, where rule-group 0 is reserved to mean "no rule".
const DefaultNullValue int32 = 0

// NewIntMatrix creates a new matrix for int32, size m x n. The 3rd argument
// is a null-value, indicating empty entries (use DefaultNullValue if you
// haven't any specific requirements).
func NewIntMatrix(m, n int, nullValue int32) *IntMatrix {
	return &IntMatrix{
		values:  []triplet{},
		rowcnt:  m,
		colcnt:  n,
		nullval: nullValue,
	}
}

// M returns the row count.
func (m *IntMatrix) M() int {
	return m.rowcnt
}

// N returns the column count.
func (m *IntMatrix) N() int {
	return m.colcnt
}

// NullValue returns this matrix' null value.
func (m *IntMatrix) NullValue() int32 {
	return m.nullval
}

// ValueCount returns the number of non-null values in the matrix.
func (m *IntMatrix) ValueCount() int {
	return len(m.values)
}

// Value returns the value at position (i,j), or NullValue if unset.
func (m *IntMatrix) Value(i, j int) int32 {
	for _, t := range m.values {
		if !t.storedLeftOf(i, j) { // have skipped all lesser indices
			if t.storedAt(i, j) {
				return t.value
			}
			break
		}
	}
	return m.nullval
}

// Set sets a value in the matrix at position (i,j), keeping the triplet
// list ordered by (row,col) so that Value's linear scan can stop at the
// first entry past (i,j).
func (m *IntMatrix) Set(i, j int, value int32) *IntMatrix {
	at := 0 // will be the insertion position of the new value
	for k, t := range m.values {
		if !t.storedLeftOf(i, j) {
			if t.storedAt(i, j) { // overwrite an existing cell
				m.values[k].value = value
				return m
			}
			break // no existing value at (i,j)
		}
		at++
	}
	tnew := triplet{row: i, col: j, value: value}
	m.values = append(m.values, tnew)
	copy(m.values[at+1:], m.values[at:])
	m.values[at] = tnew
	return m
}

func (t *triplet) storedLeftOf(i, j int) bool {
	return t.row < i || t.row == i && t.col < j
}

func (t *triplet) storedAt(i, j int) bool {
	return t.row == i && t.col == j
}
