package catalog

import "strings"

// Catalog is the immutable, in-memory form of the chip database: records in
// stream order, decoded once at load.
type Catalog struct {
	records []ChipRecord
}

// Cursor addresses one record within a catalog. It is only meaningful for
// the catalog that produced it.
type Cursor int

// Len returns the number of records.
func (c *Catalog) Len() int {
	return len(c.records)
}

// Records returns the records in catalog order. The slice is shared; callers
// must not mutate it.
func (c *Catalog) Records() []ChipRecord {
	return c.records
}

// Names produces every record's name in catalog order. Each call returns a
// fresh slice.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.records))
	for i, rec := range c.records {
		names[i] = rec.Name
	}
	return names
}

// Find locates the first record whose name matches, ignoring case. Duplicate
// names are permitted in the stream; the first wins.
func (c *Catalog) Find(name string) (Cursor, bool) {
	for i, rec := range c.records {
		if strings.EqualFold(rec.Name, name) {
			return Cursor(i), true
		}
	}
	return 0, false
}

// Record resolves a cursor to its record.
func (c *Catalog) Record(cur Cursor) (ChipRecord, bool) {
	if cur < 0 || int(cur) >= len(c.records) {
		return ChipRecord{}, false
	}
	return c.records[cur], true
}

// Next advances a sequential traversal: it returns the record at the cursor
// and the cursor for the following record. ok is false at end of catalog.
func (c *Catalog) Next(cur Cursor) (ChipRecord, Cursor, bool) {
	rec, ok := c.Record(cur)
	if !ok {
		return ChipRecord{}, cur, false
	}
	return rec, cur + 1, true
}
