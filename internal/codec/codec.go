package codec

import (
	"bytes"
	"encoding/binary"
	"math"
)

// On-disk layout of one slot, LittleEndian, in field order:
// AccountNumber (4) + LastName (15) + FirstName (10) + Balance (8).
// The name fields are null-padded; the final byte of each is always a
// terminator, so at most width-1 characters are significant.
const (
	AccountNumberWidth = 4
	LastNameWidth      = 15
	FirstNameWidth     = 10
	BalanceWidth       = 8

	RecordSize = AccountNumberWidth + LastNameWidth + FirstNameWidth + BalanceWidth

	// MaxAccounts is the fixed slot count of the account file.
	MaxAccounts = 100
)

// Record is one decoded slot. An account number of zero marks an empty
// slot; real accounts are numbered 1..MaxAccounts.
type Record struct {
	AccountNumber uint32
	LastName      string
	FirstName     string
	Balance       float64
}

// EmptySentinel returns the record that marks an unoccupied slot.
func EmptySentinel() Record {
	return Record{}
}

// Empty reports whether the record is the empty sentinel.
func (r Record) Empty() bool {
	return r.AccountNumber == 0
}

// BoundName forces s into a name field of the given on-disk width. One
// byte of the field is reserved for the terminator, so at most width-1
// characters survive. Truncation is silent by contract; the returned
// flag lets callers surface it. No error is ever signaled.
func BoundName(s string, width int) (string, bool) {
	if len(s) <= width-1 {
		return s, false
	}
	return s[:width-1], true
}

// Encode converts a record into its fixed-width byte block. It never
// fails; over-long names are truncated per BoundName.
func Encode(r Record) []byte {
	buf := make([]byte, RecordSize)

	binary.LittleEndian.PutUint32(buf[0:AccountNumberWidth], r.AccountNumber)

	off := AccountNumberWidth
	putName(buf[off:off+LastNameWidth], r.LastName)
	off += LastNameWidth
	putName(buf[off:off+FirstNameWidth], r.FirstName)
	off += FirstNameWidth

	binary.LittleEndian.PutUint64(buf[off:off+BalanceWidth], math.Float64bits(r.Balance))

	return buf
}

// Decode converts a fixed-width byte block back into a record. It never
// fails structurally; an all-zero block decodes to the empty sentinel.
// data must be exactly RecordSize bytes.
func Decode(data []byte) Record {
	off := AccountNumberWidth
	rec := Record{
		AccountNumber: binary.LittleEndian.Uint32(data[0:AccountNumberWidth]),
		LastName:      fieldString(data[off : off+LastNameWidth]),
	}
	off += LastNameWidth
	rec.FirstName = fieldString(data[off : off+FirstNameWidth])
	off += FirstNameWidth
	rec.Balance = math.Float64frombits(binary.LittleEndian.Uint64(data[off : off+BalanceWidth]))
	return rec
}

func putName(field []byte, name string) {
	bounded, _ := BoundName(name, len(field))
	copy(field, bounded)
}

func fieldString(field []byte) string {
	if i := bytes.IndexByte(field, 0); i >= 0 {
		field = field[:i]
	}
	return string(field)
}
