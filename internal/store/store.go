package store

import (
	"io"
	"log/slog"
	"os"

	"github.com/kjk/common/atomicfile"

	"account-records/internal/codec"
	"account-records/internal/errors"
)

// Mode selects how a handle may touch the account file.
type Mode int

const (
	ReadOnly Mode = iota
	ReadWrite
)

// Store knows where the account file lives and how to open it. It holds
// no file handle itself; every operation runs through a short-lived
// Handle so the file is released on every exit path.
type Store struct {
	path   string
	logger *slog.Logger
}

// New creates a Store for the account file at path.
func New(path string, logger *slog.Logger) *Store {
	return &Store{
		path:   path,
		logger: logger,
	}
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}

// Initialize creates (or truncates) the backing file and writes
// MaxAccounts empty-sentinel records. The file is written to a temp
// file and renamed into place, so a crash mid-initialize never leaves a
// half-sized store behind. Calling this against a store holding real
// data wipes it.
func (s *Store) Initialize() error {
	f, err := atomicfile.New(s.path)
	if err != nil {
		return errors.NewAppError(errors.IOFailure, "cannot initialize account file").WithDetails(err.Error())
	}
	defer f.RemoveIfNotClosed()

	empty := codec.Encode(codec.EmptySentinel())
	for i := 0; i < codec.MaxAccounts; i++ {
		if _, err := f.Write(empty); err != nil {
			return errors.NewAppError(errors.IOFailure, "cannot initialize account file").WithDetails(err.Error())
		}
	}

	if err := f.Close(); err != nil {
		return errors.NewAppError(errors.IOFailure, "cannot initialize account file").WithDetails(err.Error())
	}

	if s.logger != nil {
		s.logger.Info("account file initialized", "path", s.path, "slots", codec.MaxAccounts)
	}
	return nil
}

// InitializeIfMissing initializes the store only when the backing file
// does not exist yet, so an existing file is never wiped on startup.
func (s *Store) InitializeIfMissing() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return errors.NewAppError(errors.IOFailure, "cannot stat account file").WithDetails(err.Error())
	}
	return s.Initialize()
}

// Handle is a scoped acquisition of the backing file. Read-write
// handles hold an exclusive advisory lock, read-only handles a shared
// one, for the lifetime of the handle.
type Handle struct {
	file *os.File
	mode Mode
}

// Open acquires the backing file in the given mode. It fails with an
// io_error when the file does not exist.
func (s *Store) Open(mode Mode) (*Handle, error) {
	flag := os.O_RDONLY
	if mode == ReadWrite {
		flag = os.O_RDWR
	}

	f, err := os.OpenFile(s.path, flag, 0644)
	if err != nil {
		return nil, errors.NewAppError(errors.IOFailure, "cannot open account file").WithDetails(err.Error())
	}

	if err := lockFile(f, mode); err != nil {
		f.Close()
		return nil, errors.NewAppError(errors.IOFailure, "cannot lock account file").WithDetails(err.Error())
	}

	return &Handle{file: f, mode: mode}, nil
}

// Close releases the lock and the file. Safe to call more than once.
func (h *Handle) Close() error {
	if h.file == nil {
		return nil
	}
	f := h.file
	h.file = nil

	unlockFile(f)
	if err := f.Close(); err != nil {
		return errors.NewAppError(errors.IOFailure, "cannot close account file").WithDetails(err.Error())
	}
	return nil
}

// ReadAt reads the record at the given zero-based position. A short
// read reports short_read and returns the empty sentinel; callers
// auditing integrity must not treat that as a validly-empty slot.
func (h *Handle) ReadAt(position int) (codec.Record, error) {
	if err := checkPosition(position); err != nil {
		return codec.EmptySentinel(), err
	}

	if _, err := h.file.Seek(int64(position)*codec.RecordSize, io.SeekStart); err != nil {
		return codec.EmptySentinel(), errors.NewAppError(errors.IOFailure, "seek failed").WithDetails(err.Error())
	}

	buf := make([]byte, codec.RecordSize)
	if _, err := io.ReadFull(h.file, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return codec.EmptySentinel(), errors.NewAppErrorf(errors.ShortRead, "short read at position %d", position).WithDetails(err.Error())
		}
		return codec.EmptySentinel(), errors.NewAppError(errors.IOFailure, "read failed").WithDetails(err.Error())
	}

	return codec.Decode(buf), nil
}

// WriteAt overwrites the entire slot at the given position. A partial
// write reports short_write; the slot is left as the partial write made
// it, there is no rollback.
func (h *Handle) WriteAt(position int, rec codec.Record) error {
	if err := checkPosition(position); err != nil {
		return err
	}
	if h.mode != ReadWrite {
		return errors.NewAppError(errors.IOFailure, "store opened read-only")
	}

	data := codec.Encode(rec)
	n, err := h.file.WriteAt(data, int64(position)*codec.RecordSize)
	if err != nil {
		if n > 0 && n < codec.RecordSize {
			return errors.NewAppErrorf(errors.ShortWrite, "short write at position %d", position).WithDetails(err.Error())
		}
		return errors.NewAppError(errors.IOFailure, "write failed").WithDetails(err.Error())
	}
	if n != codec.RecordSize {
		return errors.NewAppErrorf(errors.ShortWrite, "short write at position %d", position)
	}
	return nil
}

// Scan reads positions 0..MaxAccounts-1 in ascending order and passes
// each record to fn, empty slots included. fn returning an error stops
// the scan and propagates it. Calling Scan again restarts from zero.
func (h *Handle) Scan(fn func(position int, rec codec.Record) error) error {
	for position := 0; position < codec.MaxAccounts; position++ {
		rec, err := h.ReadAt(position)
		if err != nil {
			return err
		}
		if err := fn(position, rec); err != nil {
			return err
		}
	}
	return nil
}

func checkPosition(position int) error {
	if position < 0 || position >= codec.MaxAccounts {
		return errors.NewAppErrorf(errors.InvalidPosition, "position %d outside [0, %d)", position, codec.MaxAccounts)
	}
	return nil
}
