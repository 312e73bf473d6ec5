package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"account-records/internal/domain"
	"account-records/internal/errors"
	"account-records/internal/service"
)

type AccountHandler struct {
	accountService *service.AccountService
}

func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

type CreateAccountRequest struct {
	AccountNumber  uint32 `json:"account_number"`
	LastName       string `json:"last_name" validate:"required"`
	FirstName      string `json:"first_name" validate:"required"`
	InitialBalance string `json:"initial_balance" validate:"required"`
}

type AdjustBalanceRequest struct {
	Delta string `json:"delta" validate:"required"`
}

type RenameAccountRequest struct {
	LastName  string `json:"last_name" validate:"required"`
	FirstName string `json:"first_name" validate:"required"`
}

type ReplaceAccountRequest struct {
	LastName  string `json:"last_name" validate:"required"`
	FirstName string `json:"first_name" validate:"required"`
	Balance   string `json:"balance" validate:"required"`
}

type AccountResponse struct {
	AccountNumber uint32 `json:"account_number"`
	LastName      string `json:"last_name"`
	FirstName     string `json:"first_name"`
	Balance       string `json:"balance"`
}

type SummaryResponse struct {
	Count          int    `json:"count"`
	TotalBalance   string `json:"total_balance"`
	OverdrawnCount int    `json:"overdrawn_count"`
	AverageBalance string `json:"average_balance"`
}

func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid request body"))
		return
	}
	if appErr := validateRequest(req); appErr != nil {
		writeError(w, appErr)
		return
	}

	initialBalance, err := decimal.NewFromString(req.InitialBalance)
	if err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid initial_balance format"))
		return
	}

	account, err := h.accountService.Create(req.AccountNumber, req.LastName, req.FirstName, initialBalance)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, accountResponse(account))
}

func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	acctNum, appErr := accountNumberFromRequest(r)
	if appErr != nil {
		writeError(w, appErr)
		return
	}

	account, err := h.accountService.Read(acctNum)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, accountResponse(account))
}

func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountService.ListAll()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	responses := make([]AccountResponse, 0, len(accounts))
	for i := range accounts {
		responses = append(responses, accountResponse(&accounts[i]))
	}
	writeJSON(w, http.StatusOK, responses)
}

func (h *AccountHandler) AdjustBalance(w http.ResponseWriter, r *http.Request) {
	acctNum, appErr := accountNumberFromRequest(r)
	if appErr != nil {
		writeError(w, appErr)
		return
	}

	var req AdjustBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid request body"))
		return
	}
	if appErr := validateRequest(req); appErr != nil {
		writeError(w, appErr)
		return
	}

	delta, err := decimal.NewFromString(req.Delta)
	if err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid delta format"))
		return
	}

	account, err := h.accountService.AdjustBalance(acctNum, delta)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, accountResponse(account))
}

func (h *AccountHandler) RenameAccount(w http.ResponseWriter, r *http.Request) {
	acctNum, appErr := accountNumberFromRequest(r)
	if appErr != nil {
		writeError(w, appErr)
		return
	}

	var req RenameAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid request body"))
		return
	}
	if appErr := validateRequest(req); appErr != nil {
		writeError(w, appErr)
		return
	}

	account, err := h.accountService.Rename(acctNum, req.LastName, req.FirstName)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, accountResponse(account))
}

func (h *AccountHandler) ReplaceAccount(w http.ResponseWriter, r *http.Request) {
	acctNum, appErr := accountNumberFromRequest(r)
	if appErr != nil {
		writeError(w, appErr)
		return
	}

	var req ReplaceAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid request body"))
		return
	}
	if appErr := validateRequest(req); appErr != nil {
		writeError(w, appErr)
		return
	}

	balance, err := decimal.NewFromString(req.Balance)
	if err != nil {
		writeError(w, errors.NewAppError(errors.InvalidInput, "invalid balance format"))
		return
	}

	account, err := h.accountService.Replace(acctNum, req.LastName, req.FirstName, balance)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, accountResponse(account))
}

func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	acctNum, appErr := accountNumberFromRequest(r)
	if appErr != nil {
		writeError(w, appErr)
		return
	}

	if err := h.accountService.Delete(acctNum); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AccountHandler) AccountSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.accountService.Aggregate()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SummaryResponse{
		Count:          summary.Count,
		TotalBalance:   summary.TotalBalance.String(),
		OverdrawnCount: summary.OverdrawnCount,
		AverageBalance: summary.AverageBalance.String(),
	})
}

func accountNumberFromRequest(r *http.Request) (uint32, *errors.AppError) {
	raw := mux.Vars(r)["account_number"]
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, errors.ErrInvalidAccountNumber
	}
	return uint32(n), nil
}

func accountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		AccountNumber: account.Number,
		LastName:      account.LastName,
		FirstName:     account.FirstName,
		Balance:       account.Balance.String(),
	}
}
