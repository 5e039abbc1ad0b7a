package catalog

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/alecthomas/participle/v2"
)

// MaxNameLen bounds a record name; longer names are an authoring error.
const MaxNameLen = 16

// rawCatalog is the syntactic shape of the database stream. Everything
// before the first '$' is the ignorable header; everything after '&' is
// ignored entirely.
type rawCatalog struct {
	Header  []string    `( @Token | EOL )*`
	Records []rawRecord `@@*`
	Ended   bool        `( @Amp ( Token | EOL | Dollar )* )?`
}

type rawRecord struct {
	Name string   `Dollar @Token EOL`
	Pins string   `@Token EOL`
	Rows []string `( @Token | EOL )*`
}

// Parser decodes chip database streams.
type Parser struct {
	parser *participle.Parser[rawCatalog]
}

// NewParser creates a new catalog parser instance.
func NewParser() (*Parser, error) {
	parser, err := participle.Build[rawCatalog](
		participle.Lexer(catalogLexer),
		participle.Elide("WS"),
		participle.UseLookahead(2),
	)
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to build parser: %w", err)
	}
	return &Parser{parser: parser}, nil
}

// Parse decodes a catalog from a reader.
func (p *Parser) Parse(r io.Reader) (*Catalog, error) {
	raw, err := p.parser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return compile(raw)
}

// ParseString decodes a catalog from a string.
func (p *Parser) ParseString(input string) (*Catalog, error) {
	raw, err := p.parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return compile(raw)
}

// ParseFile decodes a catalog from a file path.
func (p *Parser) ParseFile(filename string) (*Catalog, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to open file: %w", err)
	}
	defer file.Close()

	return p.Parse(file)
}

// compile validates the raw records and decodes every vector row into
// directives. A vector may be split across rows, so the row stream is
// re-chunked by pin count, but every vector must end where a row does:
// a directive character where a separator is expected marks the vector
// malformed.
func compile(raw *rawCatalog) (*Catalog, error) {
	records := make([]ChipRecord, 0, len(raw.Records))
	for _, rr := range raw.Records {
		rec, err := compileRecord(rr)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return &Catalog{records: records}, nil
}

func compileRecord(rr rawRecord) (ChipRecord, error) {
	if len(rr.Name) > MaxNameLen {
		return ChipRecord{}, fmt.Errorf("%w: name %q exceeds %d characters", ErrMalformedRecord, rr.Name, MaxNameLen)
	}

	if len(rr.Pins) != 2 {
		return ChipRecord{}, fmt.Errorf("%w: record %q pin-count field %q is not two digits", ErrMalformedRecord, rr.Name, rr.Pins)
	}
	pins, err := strconv.Atoi(rr.Pins)
	if err != nil {
		return ChipRecord{}, fmt.Errorf("%w: record %q pin-count field %q: %v", ErrMalformedRecord, rr.Name, rr.Pins, err)
	}
	if pins < 4 || pins > 16 || pins%2 != 0 {
		return ChipRecord{}, fmt.Errorf("%w: record %q declares unsupported pin count %d", ErrMalformedRecord, rr.Name, pins)
	}

	var stream []rune
	boundaries := map[int]bool{0: true}
	for _, row := range rr.Rows {
		stream = append(stream, []rune(row)...)
		boundaries[len(stream)] = true
	}

	var vectors []TestVector
	for i := 0; i < len(stream); i += pins {
		end := i + pins
		if end > len(stream) {
			end = len(stream)
		}
		vec := ParseVector(string(stream[i:end]), pins)
		if vec.err == nil && !boundaries[end] {
			vec.err = fmt.Errorf("%w: directive %q where a separator is expected after pin %d",
				ErrMalformedVector, stream[end], pins)
		}
		vectors = append(vectors, vec)
	}

	return ChipRecord{Name: rr.Name, Pins: pins, Vectors: vectors}, nil
}

// Decode parses a catalog from a reader with a freshly built parser.
func Decode(r io.Reader) (*Catalog, error) {
	p, err := NewParser()
	if err != nil {
		return nil, err
	}
	return p.Parse(r)
}

// DecodeString parses a catalog held in memory.
func DecodeString(input string) (*Catalog, error) {
	p, err := NewParser()
	if err != nil {
		return nil, err
	}
	return p.ParseString(input)
}

// Load parses a catalog file from disk.
func Load(path string) (*Catalog, error) {
	p, err := NewParser()
	if err != nil {
		return nil, err
	}
	return p.ParseFile(path)
}
