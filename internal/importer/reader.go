// Package importer loads the INSEE given-name file into the name store.
//
// The file has one row per (sexe, preusuel, annais, nombre). Rows that
// cannot describe a valid record are dropped: the rare-names aggregate,
// unknown years ("XXXX"), malformed or negative counts, unknown sex codes
// and blank names.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/pkordes/prenoms/internal/domain"
)

// RareNames is the placeholder INSEE uses for the aggregate of rare names.
const RareNames = "_PRENOMS_RARES"

// Column names of the source file.
const (
	colGender = "sexe"
	colName   = "preusuel"
	colYear   = "annais"
	colCount  = "nombre"
)

// Format describes how the source file is encoded.
type Format struct {
	// Delimiter separates fields. Raw INSEE files use ';'.
	Delimiter rune
	// Encoding is a WHATWG encoding label such as "utf-8" or "windows-1252".
	Encoding string
}

// DefaultFormat is a UTF-8, comma-separated file.
func DefaultFormat() Format {
	return Format{Delimiter: ',', Encoding: "utf-8"}
}

// Result is the outcome of reading a source file.
type Result struct {
	Records []domain.NameRecord
	// Skipped counts the rows dropped by the filters, duplicates included.
	Skipped int
}

// Read decodes every row of src. It fails on an unknown encoding, a
// missing column or broken quoting; short rows and invalid values only
// cause the row to be skipped.
func Read(src io.Reader, f Format) (Result, error) {
	if f.Delimiter == 0 {
		f.Delimiter = ','
	}
	if f.Encoding == "" {
		f.Encoding = "utf-8"
	}

	enc, err := htmlindex.Get(f.Encoding)
	if err != nil {
		return Result{}, fmt.Errorf("importer.Read: encoding %q: %w", f.Encoding, err)
	}

	r := csv.NewReader(enc.NewDecoder().Reader(src))
	r.Comma = f.Delimiter
	r.ReuseRecord = true
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return Result{}, fmt.Errorf("importer.Read: empty file")
	}
	if err != nil {
		return Result{}, fmt.Errorf("importer.Read: header: %w", err)
	}
	cols, err := mapColumns(header)
	if err != nil {
		return Result{}, fmt.Errorf("importer.Read: %w", err)
	}

	type key struct {
		name   string
		gender domain.Gender
		year   int
	}
	seen := make(map[key]struct{})

	var res Result
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Result{}, fmt.Errorf("importer.Read: %w", err)
		}

		rec, ok := cols.record(row)
		if !ok {
			res.Skipped++
			continue
		}
		k := key{rec.Name, rec.Gender, rec.Year}
		if _, dup := seen[k]; dup {
			res.Skipped++
			continue
		}
		seen[k] = struct{}{}
		res.Records = append(res.Records, rec)
	}
	return res, nil
}

// columns holds the index of each required field.
type columns struct {
	gender, name, year, count int
}

// width is the number of fields a row needs to reach every column.
func (c columns) width() int {
	return max(c.gender, c.name, c.year, c.count) + 1
}

func mapColumns(header []string) (columns, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var missing []string
	get := func(name string) int {
		i, ok := idx[name]
		if !ok {
			missing = append(missing, name)
		}
		return i
	}
	c := columns{
		gender: get(colGender),
		name:   get(colName),
		year:   get(colYear),
		count:  get(colCount),
	}
	if len(missing) > 0 {
		return columns{}, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return c, nil
}

// record converts row, reporting false when it must be skipped.
func (c columns) record(row []string) (domain.NameRecord, bool) {
	if len(row) < c.width() {
		return domain.NameRecord{}, false
	}
	name := domain.NormalizeName(row[c.name])
	if name == "" || name == RareNames {
		return domain.NameRecord{}, false
	}

	gender, err := strconv.Atoi(strings.TrimSpace(row[c.gender]))
	if err != nil || !domain.Gender(gender).Valid() {
		return domain.NameRecord{}, false
	}

	year, err := strconv.Atoi(strings.TrimSpace(row[c.year]))
	if err != nil {
		return domain.NameRecord{}, false
	}

	count, err := strconv.Atoi(strings.TrimSpace(row[c.count]))
	if err != nil || count < 0 {
		return domain.NameRecord{}, false
	}

	return domain.NameRecord{Name: name, Gender: domain.Gender(gender), Year: year, Count: count}, true
}
