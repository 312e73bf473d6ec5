package service

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"account-records/internal/codec"
	"account-records/internal/domain"
	"account-records/internal/errors"
	"account-records/internal/store"
)

// AccountService enforces the account-number-to-slot bijection
// (position = number - 1) and composes store operations into the CRUD
// verbs. Every verb is one open-operate-close cycle; no handle survives
// a call, and validation happens before any I/O.
type AccountService struct {
	store  *store.Store
	logger *slog.Logger
}

func NewAccountService(st *store.Store, logger *slog.Logger) *AccountService {
	return &AccountService{
		store:  st,
		logger: logger,
	}
}

func position(acctNum uint32) int {
	return int(acctNum) - 1
}

// Exists reports whether the slot for acctNum holds a real account.
// Out-of-range numbers are simply not present.
func (s *AccountService) Exists(acctNum uint32) (bool, error) {
	if !domain.ValidAccountNumber(acctNum) {
		return false, nil
	}

	h, err := s.store.Open(store.ReadOnly)
	if err != nil {
		return false, err
	}
	defer h.Close()

	rec, err := h.ReadAt(position(acctNum))
	if err != nil {
		return false, err
	}
	return !rec.Empty(), nil
}

// Create validates, checks the slot is free, writes the record, and
// confirms the write by reading the slot back.
func (s *AccountService) Create(acctNum uint32, lastName, firstName string, balance decimal.Decimal) (*domain.Account, error) {
	s.logger.Info("creating account", "account_number", acctNum)

	if !domain.ValidAccountNumber(acctNum) {
		return nil, errors.ErrInvalidAccountNumber
	}
	if !domain.ValidName(lastName) || !domain.ValidName(firstName) {
		return nil, errors.ErrInvalidName
	}

	lastName = s.boundName(acctNum, "last_name", lastName, codec.LastNameWidth)
	firstName = s.boundName(acctNum, "first_name", firstName, codec.FirstNameWidth)

	h, err := s.store.Open(store.ReadWrite)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	pos := position(acctNum)
	cur, err := h.ReadAt(pos)
	if err != nil {
		return nil, err
	}
	if !cur.Empty() {
		s.logger.Warn("duplicate account creation attempt", "account_number", acctNum)
		return nil, errors.ErrAccountExists
	}

	rec := codec.Record{
		AccountNumber: acctNum,
		LastName:      lastName,
		FirstName:     firstName,
		Balance:       balance.InexactFloat64(),
	}
	if err := h.WriteAt(pos, rec); err != nil {
		return nil, err
	}

	written, err := h.ReadAt(pos)
	if err != nil {
		return nil, err
	}
	if written.AccountNumber != acctNum {
		return nil, errors.NewAppErrorf(errors.IOFailure, "create of account %d not confirmed by read-back", acctNum)
	}

	s.logger.Info("account created", "account_number", acctNum)
	return accountFromRecord(written), nil
}

// Read returns the account stored for acctNum.
func (s *AccountService) Read(acctNum uint32) (*domain.Account, error) {
	if !domain.ValidAccountNumber(acctNum) {
		return nil, errors.ErrInvalidAccountNumber
	}

	h, err := s.store.Open(store.ReadOnly)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	rec, err := h.ReadAt(position(acctNum))
	if err != nil {
		return nil, err
	}
	if rec.Empty() {
		return nil, errors.ErrAccountNotFound
	}
	return accountFromRecord(rec), nil
}

// AdjustBalance adds delta (which may be negative) to the stored
// balance.
func (s *AccountService) AdjustBalance(acctNum uint32, delta decimal.Decimal) (*domain.Account, error) {
	s.logger.Info("adjusting balance", "account_number", acctNum, "delta", delta)

	return s.update(acctNum, func(rec codec.Record) (codec.Record, error) {
		rec.Balance = decimal.NewFromFloat(rec.Balance).Add(delta).InexactFloat64()
		return rec, nil
	})
}

// Rename replaces both names. Invalid names reject the update before
// any I/O, leaving storage untouched.
func (s *AccountService) Rename(acctNum uint32, lastName, firstName string) (*domain.Account, error) {
	s.logger.Info("renaming account", "account_number", acctNum)

	if !domain.ValidName(lastName) || !domain.ValidName(firstName) {
		return nil, errors.ErrInvalidName
	}
	lastName = s.boundName(acctNum, "last_name", lastName, codec.LastNameWidth)
	firstName = s.boundName(acctNum, "first_name", firstName, codec.FirstNameWidth)

	return s.update(acctNum, func(rec codec.Record) (codec.Record, error) {
		rec.LastName = lastName
		rec.FirstName = firstName
		return rec, nil
	})
}

// Replace overwrites names and balance in one update. The account
// number itself is never mutated.
func (s *AccountService) Replace(acctNum uint32, lastName, firstName string, balance decimal.Decimal) (*domain.Account, error) {
	s.logger.Info("replacing account", "account_number", acctNum)

	if !domain.ValidName(lastName) || !domain.ValidName(firstName) {
		return nil, errors.ErrInvalidName
	}
	lastName = s.boundName(acctNum, "last_name", lastName, codec.LastNameWidth)
	firstName = s.boundName(acctNum, "first_name", firstName, codec.FirstNameWidth)

	return s.update(acctNum, func(rec codec.Record) (codec.Record, error) {
		rec.LastName = lastName
		rec.FirstName = firstName
		rec.Balance = balance.InexactFloat64()
		return rec, nil
	})
}

// update is the shared read-modify-write cycle behind the three update
// modes. The exclusive lock on the read-write handle covers the whole
// cycle.
func (s *AccountService) update(acctNum uint32, mutate func(codec.Record) (codec.Record, error)) (*domain.Account, error) {
	if !domain.ValidAccountNumber(acctNum) {
		return nil, errors.ErrInvalidAccountNumber
	}

	h, err := s.store.Open(store.ReadWrite)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	pos := position(acctNum)
	rec, err := h.ReadAt(pos)
	if err != nil {
		return nil, err
	}
	if rec.Empty() {
		return nil, errors.ErrAccountNotFound
	}

	next, err := mutate(rec)
	if err != nil {
		return nil, err
	}
	next.AccountNumber = rec.AccountNumber

	if err := h.WriteAt(pos, next); err != nil {
		return nil, err
	}
	return accountFromRecord(next), nil
}

// Delete returns the slot to the empty sentinel. Logical deletion only;
// the slot becomes available to a future Create with the same number.
func (s *AccountService) Delete(acctNum uint32) error {
	s.logger.Info("deleting account", "account_number", acctNum)

	if !domain.ValidAccountNumber(acctNum) {
		return errors.ErrInvalidAccountNumber
	}

	h, err := s.store.Open(store.ReadWrite)
	if err != nil {
		return err
	}
	defer h.Close()

	pos := position(acctNum)
	rec, err := h.ReadAt(pos)
	if err != nil {
		return err
	}
	if rec.Empty() {
		return errors.ErrAccountNotFound
	}

	if err := h.WriteAt(pos, codec.EmptySentinel()); err != nil {
		return err
	}

	s.logger.Info("account deleted", "account_number", acctNum)
	return nil
}

// ListAll returns every occupied slot, ascending by account number (the
// bijection makes scan order account-number order).
func (s *AccountService) ListAll() ([]domain.Account, error) {
	h, err := s.store.Open(store.ReadOnly)
	if err != nil {
		return nil, err
	}
	defer h.Close()

	var accounts []domain.Account
	err = h.Scan(func(pos int, rec codec.Record) error {
		if rec.Empty() {
			return nil
		}
		accounts = append(accounts, *accountFromRecord(rec))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// Aggregate derives the summary from ListAll. With zero accounts it
// fails with no_accounts rather than producing an undefined average.
func (s *AccountService) Aggregate() (*domain.Summary, error) {
	accounts, err := s.ListAll()
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, errors.ErrNoAccounts
	}

	total := decimal.Zero
	overdrawn := 0
	for _, a := range accounts {
		total = total.Add(a.Balance)
		if a.Balance.IsNegative() {
			overdrawn++
		}
	}

	return &domain.Summary{
		Count:          len(accounts),
		TotalBalance:   total,
		OverdrawnCount: overdrawn,
		AverageBalance: total.Div(decimal.NewFromInt(int64(len(accounts)))),
	}, nil
}

func (s *AccountService) boundName(acctNum uint32, field, name string, width int) string {
	bounded, truncated := codec.BoundName(name, width)
	if truncated {
		s.logger.Warn("name truncated to field width", "account_number", acctNum, "field", field, "kept", bounded)
	}
	return bounded
}

func accountFromRecord(rec codec.Record) *domain.Account {
	return &domain.Account{
		Number:    rec.AccountNumber,
		LastName:  rec.LastName,
		FirstName: rec.FirstName,
		Balance:   decimal.NewFromFloat(rec.Balance),
	}
}
