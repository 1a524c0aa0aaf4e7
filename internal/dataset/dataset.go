// Package dataset holds the per-company question/answer table. The table is
// append-only: every parse concatenates its rows to the existing set and the
// whole CSV is written back with a dense index column.
package dataset

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
)

// Row is one parsed question/answer pair. Embeddings are float32; the CSV
// cells store them as JSON arrays, which round-trips float32 exactly.
type Row struct {
	Question          string
	Answer            string
	FileInfoID        uint
	QuestionEmbedding []float32
	AnswerEmbedding   []float32
}

var baseColumns = []string{"question", "answer", "file_info_id", "question_embedding"}

const answerEmbeddingColumn = "answer_embedding"

// Dataset is the accumulated ordered table for one company. The column
// schema is fixed at creation: the answer_embedding column exists either on
// every row or on none, and appends of the other flavor are rejected.
type Dataset struct {
	HasAnswerEmbeddings bool
	Rows                []Row
}

func New(withAnswerEmbeddings bool) *Dataset {
	return &Dataset{HasAnswerEmbeddings: withAnswerEmbeddings}
}

func (d *Dataset) columns() []string {
	cols := append([]string{""}, baseColumns...)
	if d.HasAnswerEmbeddings {
		cols = append(cols, answerEmbeddingColumn)
	}
	return cols
}

// Append adds rows to the end of the table. Rows must match the dataset
// schema: answer embeddings on a dataset without that column (or the other
// way round) make the merge invalid.
func (d *Dataset) Append(rows []Row) error {
	for _, row := range rows {
		if !d.HasAnswerEmbeddings && row.AnswerEmbedding != nil {
			return fmt.Errorf("row for file %d carries an answer embedding but the dataset schema has no answer_embedding column", row.FileInfoID)
		}
		if d.HasAnswerEmbeddings && row.AnswerEmbedding == nil {
			return fmt.Errorf("row for file %d is missing the answer embedding required by the dataset schema", row.FileInfoID)
		}
	}
	d.Rows = append(d.Rows, rows...)
	return nil
}

// Encode renders the table as CSV. The index column is rewritten densely
// from zero on every encode.
func (d *Dataset) Encode() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(d.columns()); err != nil {
		return nil, fmt.Errorf("write dataset header: %w", err)
	}

	for i, row := range d.Rows {
		record := []string{
			strconv.Itoa(i),
			row.Question,
			row.Answer,
			strconv.FormatUint(uint64(row.FileInfoID), 10),
		}

		cell, err := encodeEmbedding(row.QuestionEmbedding)
		if err != nil {
			return nil, err
		}
		record = append(record, cell)

		if d.HasAnswerEmbeddings {
			cell, err := encodeEmbedding(row.AnswerEmbedding)
			if err != nil {
				return nil, err
			}
			record = append(record, cell)
		}

		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write dataset row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush dataset csv: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a stored dataset CSV. The header must match one of the two
// fixed schemas exactly.
func Decode(data []byte) (*Dataset, error) {
	r := csv.NewReader(bytes.NewReader(data))
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset csv: %w", err)
	}
	if len(records) == 0 {
		return New(false), nil
	}

	header := records[0]
	d := New(false)
	switch {
	case equalColumns(header, New(false).columns()):
	case equalColumns(header, New(true).columns()):
		d.HasAnswerEmbeddings = true
	default:
		return nil, fmt.Errorf("dataset header %v does not match the fixed column schema", header)
	}

	for i, record := range records[1:] {
		fileInfoID, err := strconv.ParseUint(record[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("dataset row %d: bad file_info_id %q: %w", i, record[3], err)
		}

		row := Row{
			Question:   record[1],
			Answer:     record[2],
			FileInfoID: uint(fileInfoID),
		}
		if row.QuestionEmbedding, err = decodeEmbedding(record[4]); err != nil {
			return nil, fmt.Errorf("dataset row %d: %w", i, err)
		}
		if d.HasAnswerEmbeddings {
			if row.AnswerEmbedding, err = decodeEmbedding(record[5]); err != nil {
				return nil, fmt.Errorf("dataset row %d: %w", i, err)
			}
		}

		d.Rows = append(d.Rows, row)
	}

	return d, nil
}

func encodeEmbedding(vec []float32) (string, error) {
	if vec == nil {
		return "", nil
	}
	data, err := json.Marshal(vec)
	if err != nil {
		return "", fmt.Errorf("encode embedding: %w", err)
	}
	return string(data), nil
}

func decodeEmbedding(cell string) ([]float32, error) {
	if cell == "" {
		return nil, nil
	}
	var vec []float32
	if err := json.Unmarshal([]byte(cell), &vec); err != nil {
		return nil, fmt.Errorf("decode embedding %q: %w", cell, err)
	}
	return vec, nil
}

func equalColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
