package core

import "fmt"

// Column is one named column of a Frame. A nil value is missing.
type Column struct {
	Name   string `json:"name"`
	Values []any  `json:"values"`
}

// Frame is an in-memory table with ordered, uniquely named columns.
// Column order is significant: it fixes the tie-break order of inference.
type Frame struct {
	Name    string
	columns []Column
	index   map[string]int
}

// NewFrame creates an empty frame.
func NewFrame(name string) *Frame {
	return &Frame{
		Name:  name,
		index: make(map[string]int),
	}
}

// NewFrameFromColumns builds a frame from columns in the given order.
func NewFrameFromColumns(name string, columns ...Column) (*Frame, error) {
	f := NewFrame(name)
	for _, c := range columns {
		if err := f.AddColumn(c.Name, c.Values); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// AddColumn appends a column. Names must be unique within the frame.
func (f *Frame) AddColumn(name string, values []any) error {
	if _, ok := f.index[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
	}
	f.index[name] = len(f.columns)
	f.columns = append(f.columns, Column{Name: name, Values: values})
	return nil
}

// Columns returns the columns in order. Callers must not mutate the result.
func (f *Frame) Columns() []Column {
	return f.columns
}

// ColumnNames returns the column names in order.
func (f *Frame) ColumnNames() []string {
	names := make([]string, len(f.columns))
	for i, c := range f.columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name.
func (f *Frame) Column(name string) (Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return Column{}, false
	}
	return f.columns[i], true
}

// RowCount returns the length of the longest column.
func (f *Frame) RowCount() int {
	n := 0
	for _, c := range f.columns {
		if len(c.Values) > n {
			n = len(c.Values)
		}
	}
	return n
}

// Rename returns a copy of the frame with columns renamed per the mapping.
// Names absent from the mapping are kept. Values are shared, not copied.
func (f *Frame) Rename(mapping map[string]string) (*Frame, error) {
	out := NewFrame(f.Name)
	for _, c := range f.columns {
		name := c.Name
		if to, ok := mapping[name]; ok {
			name = to
		}
		if err := out.AddColumn(name, c.Values); err != nil {
			return nil, err
		}
	}
	return out, nil
}
