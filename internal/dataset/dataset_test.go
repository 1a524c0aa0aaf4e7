package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	d := New(false)
	err := d.Append([]Row{
		{Question: "What is X?", Answer: "X is Y.", FileInfoID: 3, QuestionEmbedding: []float32{0.1, -0.25, 3.14159}},
		{Question: "quoted, \"tricky\"?", Answer: "line\nbreak", FileInfoID: 4},
	})
	require.NoError(t, err)

	data, err := d.Encode()
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)

	require.Len(t, decoded.Rows, 2)
	assert.Equal(t, d.Rows, decoded.Rows)
	// float32 values survive the CSV round trip exactly
	assert.Equal(t, []float32{0.1, -0.25, 3.14159}, decoded.Rows[0].QuestionEmbedding)
	assert.Nil(t, decoded.Rows[1].QuestionEmbedding)
}

func TestEncode_DenseIndexColumn(t *testing.T) {
	d := New(false)
	require.NoError(t, d.Append([]Row{{Question: "a?", Answer: "a", FileInfoID: 1}}))
	require.NoError(t, d.Append([]Row{{Question: "b?", Answer: "b", FileInfoID: 2}}))

	data, err := d.Encode()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "0,"))
	assert.True(t, strings.HasPrefix(lines[2], "1,"))
}

func TestDecode_EmptyAndHeaderValidation(t *testing.T) {
	d, err := Decode(nil)
	require.NoError(t, err)
	assert.Empty(t, d.Rows)

	_, err = Decode([]byte("question,answer\nhello?,hi\n"))
	require.Error(t, err)

	// answer_embedding flavor is detected from the header
	withAnswers := New(true)
	require.NoError(t, withAnswers.Append([]Row{{
		Question:          "q?",
		Answer:            "a",
		FileInfoID:        1,
		QuestionEmbedding: []float32{1, 0},
		AnswerEmbedding:   []float32{0, 1},
	}}))
	data, err := withAnswers.Encode()
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.True(t, decoded.HasAnswerEmbeddings)
	assert.Equal(t, []float32{0, 1}, decoded.Rows[0].AnswerEmbedding)
}

func TestAppend_SchemaMismatch(t *testing.T) {
	base := New(false)
	err := base.Append([]Row{{Question: "q?", Answer: "a", FileInfoID: 1, AnswerEmbedding: []float32{1}}})
	require.Error(t, err)
	assert.Empty(t, base.Rows)

	withAnswers := New(true)
	err = withAnswers.Append([]Row{{Question: "q?", Answer: "a", FileInfoID: 1}})
	require.Error(t, err)
	assert.Empty(t, withAnswers.Rows)
}

func TestAppend_IsAppendOnly(t *testing.T) {
	d := New(false)
	require.NoError(t, d.Append([]Row{{Question: "first?", Answer: "1", FileInfoID: 1}}))
	require.NoError(t, d.Append([]Row{{Question: "second?", Answer: "2", FileInfoID: 2}}))

	require.Len(t, d.Rows, 2)
	assert.Equal(t, "first?", d.Rows[0].Question)
	assert.Equal(t, "second?", d.Rows[1].Question)
}
