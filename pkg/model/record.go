package model

import (
	"iter"
	"strings"
)

// Record is one data row viewed through the header. Field order follows the
// header order.
type Record struct {
	header []string
	values []string
	index  map[string]int
}

// Get returns the value of the named field. When the header repeats a name,
// the rightmost column wins.
func (r Record) Get(name string) (string, bool) {
	i, ok := r.index[name]
	if !ok {
		return "", false
	}
	return r.values[i], true
}

// Value returns the named field or an empty string when the record has no
// such field.
func (r Record) Value(name string) string {
	v, _ := r.Get(name)
	return v
}

// Fields iterates over (header name, value) pairs in header order.
func (r Record) Fields() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for i, name := range r.header {
			if !yield(name, r.values[i]) {
				return
			}
		}
	}
}

// Map returns the record as a plain map. Duplicate header names collapse to
// the rightmost column.
func (r Record) Map() map[string]string {
	m := make(map[string]string, len(r.header))
	for name, v := range r.Fields() {
		m[name] = v
	}
	return m
}

// RecordSet is the header-aware view of a RawTable.
type RecordSet struct {
	header  []string
	records []Record
}

// BuildRecordSet zips every data row of raw against its header row. Rows
// shorter than the header are padded with empty strings, longer rows are
// truncated. A table with zero rows yields an empty set with an empty header.
func BuildRecordSet(raw RawTable) *RecordSet {
	if len(raw) == 0 {
		return &RecordSet{}
	}

	header := append([]string(nil), raw[0]...)
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	records := make([]Record, 0, len(raw)-1)
	for _, row := range raw[1:] {
		values := make([]string, len(header))
		copy(values, row)
		records = append(records, Record{
			header: header,
			values: values,
			index:  index,
		})
	}

	return &RecordSet{
		header:  header,
		records: records,
	}
}

// Header returns the column names.
func (s *RecordSet) Header() []string {
	return append([]string(nil), s.header...)
}

// Len returns the number of data records.
func (s *RecordSet) Len() int {
	return len(s.records)
}

// Records iterates over records in source row order.
func (s *RecordSet) Records() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for _, r := range s.records {
			if !yield(r) {
				return
			}
		}
	}
}

// Flatten renders the set as grounding text: one "<section>: <description>"
// line per record, in source order. Missing fields render as empty strings
// and an empty set renders as "".
func (s *RecordSet) Flatten(sectionField, descriptionField string) string {
	lines := make([]string, 0, len(s.records))
	for r := range s.Records() {
		lines = append(lines, r.Value(sectionField)+": "+r.Value(descriptionField))
	}
	return strings.Join(lines, "\n")
}
