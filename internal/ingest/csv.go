// Package ingest reads raw tables from CSV/XLSX files and remote JSON
// endpoints and hands them to the normalizer. Reading is lenient where
// the data is bulk (cell-level noise) and strict where it is structural
// (unreadable file, bad endpoint).
package ingest

import (
	"bytes"
	"encoding/csv"
	"io"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"

	"github.com/kurashi-ikiiki/keisu-cli/internal/schema"
)

// utf8BOM is stripped before decoding; Excel CSV exports love it.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// fallbackEncodings are tried in order when the payload is not valid
// UTF-8. Japanese marketplace exports are usually Shift_JIS.
var fallbackEncodings = []struct {
	name string
	enc  encoding.Encoding
}{
	{"shift_jis", japanese.ShiftJIS},
	{"euc-jp", japanese.EUCJP},
}

// ReadCSV parses a CSV payload into a raw table. The first row is the
// header. Payloads that are not valid UTF-8 are transparently decoded
// as Shift_JIS, then EUC-JP; only a payload no encoding can explain is
// an error.
func ReadCSV(r io.Reader) (schema.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return schema.Table{}, eris.Wrap(err, "ingest: read csv payload")
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	decoded, err := toUTF8(data)
	if err != nil {
		return schema.Table{}, err
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.FieldsPerRecord = -1 // marketplace exports have ragged rows
	reader.LazyQuotes = true

	var table schema.Table
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return schema.Table{}, eris.Wrap(err, "ingest: parse csv row")
		}
		if table.Header == nil {
			table.Header = record
			continue
		}
		table.Rows = append(table.Rows, record)
	}
	return table, nil
}

// toUTF8 returns the payload as UTF-8, decoding through the fallback
// encodings when needed. The Japanese decoders substitute rather than
// fail on wrong-encoding input, so candidates are scored and the most
// plausible decoding wins; ties go to the earlier encoding.
func toUTF8(data []byte) ([]byte, error) {
	if utf8.Valid(data) {
		return data, nil
	}

	var best []byte
	bestScore := -1
	for _, fb := range fallbackEncodings {
		decoded, err := fb.enc.NewDecoder().Bytes(data)
		if err != nil || !utf8.Valid(decoded) {
			continue
		}
		score := implausibility(decoded)
		if bestScore == -1 || score < bestScore {
			best, bestScore = decoded, score
		}
	}
	if best == nil {
		return nil, eris.New("ingest: csv payload is not UTF-8, Shift_JIS, or EUC-JP")
	}
	return best, nil
}

// implausibility counts replacement characters and halfwidth katakana.
// Business CSVs contain almost none of either, while text run through
// the wrong Japanese decoder degrades into long runs of them.
func implausibility(data []byte) int {
	n := 0
	for _, r := range string(data) {
		if r == utf8.RuneError || (r >= 0xFF61 && r <= 0xFF9F) {
			n++
		}
	}
	return n
}
