package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSize(t *testing.T) {
	assert.Equal(t, 37, RecordSize)
	assert.Len(t, Encode(Record{AccountNumber: 1, LastName: "Williams", FirstName: "Bob", Balance: 3200}), RecordSize)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	rec := Record{
		AccountNumber: 42,
		LastName:      "O'Neil-Smith",
		FirstName:     "Mary Ann",
		Balance:       -120.55,
	}

	got := Decode(Encode(rec))
	assert.Equal(t, rec, got)
}

func TestEncodeTruncatesLongNames(t *testing.T) {
	rec := Record{
		AccountNumber: 7,
		LastName:      "Wolfeschlegelsteinhausen", // longer than 14
		FirstName:     "Maximiliana",              // longer than 9
		Balance:       1,
	}

	got := Decode(Encode(rec))
	assert.Equal(t, "Wolfeschlegels", got.LastName)
	assert.Len(t, got.LastName, LastNameWidth-1)
	assert.Equal(t, "Maximilia", got.FirstName)
	assert.Len(t, got.FirstName, FirstNameWidth-1)
}

func TestNameFieldsKeepTerminator(t *testing.T) {
	// The last byte of each name field is reserved even for max-length
	// names.
	data := Encode(Record{AccountNumber: 1, LastName: "FourteenChars!", FirstName: "NineChar!"})
	require.Len(t, data, RecordSize)
	assert.Zero(t, data[AccountNumberWidth+LastNameWidth-1])
	assert.Zero(t, data[AccountNumberWidth+LastNameWidth+FirstNameWidth-1])
}

func TestZeroBlockDecodesToSentinel(t *testing.T) {
	got := Decode(make([]byte, RecordSize))
	assert.True(t, got.Empty())
	assert.Equal(t, EmptySentinel(), got)
}

func TestEmptySentinelIsAllZero(t *testing.T) {
	sentinel := EmptySentinel()
	assert.True(t, sentinel.Empty())
	assert.Zero(t, sentinel.AccountNumber)
	assert.Empty(t, sentinel.LastName)
	assert.Empty(t, sentinel.FirstName)
	assert.Zero(t, sentinel.Balance)

	for _, b := range Encode(sentinel) {
		require.Zero(t, b)
	}
}

func TestBoundName(t *testing.T) {
	kept, truncated := BoundName("Short", LastNameWidth)
	assert.Equal(t, "Short", kept)
	assert.False(t, truncated)

	kept, truncated = BoundName("ExactlyFourteen", LastNameWidth)
	assert.Equal(t, "ExactlyFourtee", kept)
	assert.True(t, truncated)
}
