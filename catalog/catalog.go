// Package catalog models the PostgreSQL errcodes.txt catalog and parses it.
//
// Besides feeding the pgerrgen generator, a parsed catalog can classify
// errors returned by pgx at runtime:
//
//	cat, err := catalog.Parse(errcodesTxt)
//	...
//	idx := catalog.NewIndex(cat)
//	if entry, ok := idx.Classify(err); ok && entry.Constant == "UNIQUE_VIOLATION" {
//		return ErrAlreadyExists
//	}
package catalog

// Severity classifies an error code. The catalog uses a single character.
type Severity string

const (
	// SeverityError marks error-class codes.
	SeverityError Severity = "E"
	// SeverityWarning marks warning-class codes.
	SeverityWarning Severity = "W"
	// SeveritySuccess marks success-class codes.
	SeveritySuccess Severity = "S"
)

func (s Severity) String() string {
	return string(s)
}

// Name returns the long form of the severity.
func (s Severity) Name() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeveritySuccess:
		return "success"
	default:
		return "unknown"
	}
}

// Record is one error code line of the catalog.
type Record struct {
	SQLState string
	Severity Severity
	// Constant is the symbolic name without its ERRCODE_ prefix.
	Constant string
	Code     string
	// Line is the 1-based line number the record was read from.
	Line int
}

// Section groups the records that follow one "Section:" header.
type Section struct {
	Description string
	Records     []Record
	Line        int
}

// Catalog is the ordered list of sections parsed from errcodes.txt.
type Catalog struct {
	Sections []Section
}

// Entry pairs a record with the description of its section.
type Entry struct {
	Description string
	Record
}

// Flatten returns every record in catalog order, each carrying its section
// description.
func (c *Catalog) Flatten() []Entry {
	if c == nil {
		return nil
	}
	entries := make([]Entry, 0, c.Len())
	for _, section := range c.Sections {
		for _, record := range section.Records {
			entries = append(entries, Entry{Description: section.Description, Record: record})
		}
	}
	return entries
}

// Len reports the total number of records across all sections.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, section := range c.Sections {
		n += len(section.Records)
	}
	return n
}
