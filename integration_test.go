package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"account-records/internal/config"
	"account-records/internal/server"
	"account-records/internal/store"
)

type IntegrationTestSuite struct {
	suite.Suite
	dataDir        string
	dataFile       string
	serverInstance *server.Server
	baseURL        string
	client         *http.Client
}

func (suite *IntegrationTestSuite) SetupSuite() {
	dir, err := os.MkdirTemp("", "account-records-test")
	require.NoError(suite.T(), err)
	suite.dataDir = dir
	suite.dataFile = filepath.Join(dir, "accounts.dat")

	cfg := &config.Config{
		ServerPort: "0",
		DataFile:   suite.dataFile,
	}

	serverInstance, _, err := server.StartServer(cfg)
	require.NoError(suite.T(), err)
	suite.serverInstance = serverInstance
	suite.baseURL = serverInstance.GetBaseURL()

	suite.client = &http.Client{
		Timeout: 30 * time.Second,
	}
}

func (suite *IntegrationTestSuite) TearDownSuite() {
	if suite.serverInstance != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		suite.serverInstance.Stop(ctx)
	}
	os.RemoveAll(suite.dataDir)
}

// SetupTest wipes the account file so every test starts from an empty
// store.
func (suite *IntegrationTestSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(suite.T(), store.New(suite.dataFile, logger).Initialize())
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type accountBody struct {
	AccountNumber uint32 `json:"account_number"`
	LastName      string `json:"last_name"`
	FirstName     string `json:"first_name"`
	Balance       string `json:"balance"`
}

func (suite *IntegrationTestSuite) doJSON(method, path string, body interface{}) (*http.Response, envelope) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(suite.T(), err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, suite.baseURL+path, reader)
	require.NoError(suite.T(), err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := suite.client.Do(req)
	require.NoError(suite.T(), err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(suite.T(), err)
	if len(raw) > 0 {
		require.NoError(suite.T(), json.Unmarshal(raw, &env), "body: %s", raw)
	}
	return resp, env
}

func (suite *IntegrationTestSuite) createAccount(num uint32, last, first, balance string) {
	resp, env := suite.doJSON("POST", "/accounts", map[string]interface{}{
		"account_number":  num,
		"last_name":       last,
		"first_name":      first,
		"initial_balance": balance,
	})
	require.Equal(suite.T(), http.StatusCreated, resp.StatusCode, "create %d failed: %+v", num, env.Error)
}

func (suite *IntegrationTestSuite) TestCreateAndGetAccount() {
	suite.createAccount(10, "Williams", "Bob", "3200.00")

	resp, env := suite.doJSON("GET", "/accounts/10", nil)
	require.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	var account accountBody
	require.NoError(suite.T(), json.Unmarshal(env.Data, &account))
	assert.Equal(suite.T(), uint32(10), account.AccountNumber)
	assert.Equal(suite.T(), "Williams", account.LastName)
	assert.Equal(suite.T(), "Bob", account.FirstName)
	assert.Equal(suite.T(), "3200", account.Balance)
}

func (suite *IntegrationTestSuite) TestGetMissingAccount() {
	resp, env := suite.doJSON("GET", "/accounts/55", nil)
	assert.Equal(suite.T(), http.StatusNotFound, resp.StatusCode)
	require.NotNil(suite.T(), env.Error)
	assert.Equal(suite.T(), "account_not_found", env.Error.Code)
}

func (suite *IntegrationTestSuite) TestDuplicateCreate() {
	suite.createAccount(7, "First", "Writer", "100")

	resp, env := suite.doJSON("POST", "/accounts", map[string]interface{}{
		"account_number":  7,
		"last_name":       "Second",
		"first_name":      "Writer",
		"initial_balance": "999",
	})
	assert.Equal(suite.T(), http.StatusConflict, resp.StatusCode)
	require.NotNil(suite.T(), env.Error)
	assert.Equal(suite.T(), "account_exists", env.Error.Code)
}

func (suite *IntegrationTestSuite) TestCreateValidation() {
	// Out-of-range account number.
	resp, env := suite.doJSON("POST", "/accounts", map[string]interface{}{
		"account_number":  101,
		"last_name":       "Smith",
		"first_name":      "Ann",
		"initial_balance": "1",
	})
	assert.Equal(suite.T(), http.StatusBadRequest, resp.StatusCode)
	require.NotNil(suite.T(), env.Error)
	assert.Equal(suite.T(), "invalid_account_number", env.Error.Code)

	// Invalid name characters.
	resp, env = suite.doJSON("POST", "/accounts", map[string]interface{}{
		"account_number":  5,
		"last_name":       "Sm1th",
		"first_name":      "Ann",
		"initial_balance": "1",
	})
	assert.Equal(suite.T(), http.StatusBadRequest, resp.StatusCode)
	require.NotNil(suite.T(), env.Error)
	assert.Equal(suite.T(), "invalid_name", env.Error.Code)

	// Missing fields are caught before the service runs.
	resp, env = suite.doJSON("POST", "/accounts", map[string]interface{}{
		"account_number": 5,
	})
	assert.Equal(suite.T(), http.StatusBadRequest, resp.StatusCode)
	require.NotNil(suite.T(), env.Error)
	assert.Equal(suite.T(), "invalid_input", env.Error.Code)
}

func (suite *IntegrationTestSuite) TestAdjustBalance() {
	suite.createAccount(5, "Lee", "Kim", "50.25")

	resp, _ := suite.doJSON("POST", "/accounts/5/adjustments", map[string]interface{}{"delta": "10.10"})
	require.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	resp, env := suite.doJSON("POST", "/accounts/5/adjustments", map[string]interface{}{"delta": "-80.00"})
	require.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	var account accountBody
	require.NoError(suite.T(), json.Unmarshal(env.Data, &account))
	assert.Equal(suite.T(), "-19.65", account.Balance)
}

func (suite *IntegrationTestSuite) TestRenameAndReplace() {
	suite.createAccount(4, "Before", "Ann", "10")

	resp, env := suite.doJSON("PUT", "/accounts/4/name", map[string]interface{}{
		"last_name":  "Middle",
		"first_name": "Ann",
	})
	require.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	var account accountBody
	require.NoError(suite.T(), json.Unmarshal(env.Data, &account))
	assert.Equal(suite.T(), "Middle", account.LastName)
	assert.Equal(suite.T(), "10", account.Balance, "rename must not touch the balance")

	resp, env = suite.doJSON("PUT", "/accounts/4", map[string]interface{}{
		"last_name":  "After",
		"first_name": "Beth",
		"balance":    "77.70",
	})
	require.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	require.NoError(suite.T(), json.Unmarshal(env.Data, &account))
	assert.Equal(suite.T(), "After", account.LastName)
	assert.Equal(suite.T(), "Beth", account.FirstName)
	assert.Equal(suite.T(), "77.7", account.Balance)
}

func (suite *IntegrationTestSuite) TestDeleteAccount() {
	suite.createAccount(10, "Williams", "Bob", "3200.00")

	req, err := http.NewRequest("DELETE", suite.baseURL+"/accounts/10", nil)
	require.NoError(suite.T(), err)
	resp, err := suite.client.Do(req)
	require.NoError(suite.T(), err)
	resp.Body.Close()
	assert.Equal(suite.T(), http.StatusNoContent, resp.StatusCode)

	getResp, env := suite.doJSON("GET", "/accounts/10", nil)
	assert.Equal(suite.T(), http.StatusNotFound, getResp.StatusCode)
	require.NotNil(suite.T(), env.Error)
	assert.Equal(suite.T(), "account_not_found", env.Error.Code)
}

func (suite *IntegrationTestSuite) TestListAndSummary() {
	for _, n := range []uint32{25, 1, 10, 5} {
		suite.createAccount(n, "Person", "Num", fmt.Sprintf("%d", n))
	}

	resp, env := suite.doJSON("GET", "/accounts", nil)
	require.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	var accounts []accountBody
	require.NoError(suite.T(), json.Unmarshal(env.Data, &accounts))
	require.Len(suite.T(), accounts, 4)
	for i, want := range []uint32{1, 5, 10, 25} {
		assert.Equal(suite.T(), want, accounts[i].AccountNumber)
	}

	resp, env = suite.doJSON("GET", "/accounts/summary", nil)
	require.Equal(suite.T(), http.StatusOK, resp.StatusCode)

	var summary struct {
		Count          int    `json:"count"`
		TotalBalance   string `json:"total_balance"`
		OverdrawnCount int    `json:"overdrawn_count"`
	}
	require.NoError(suite.T(), json.Unmarshal(env.Data, &summary))
	assert.Equal(suite.T(), 4, summary.Count)
	assert.Equal(suite.T(), "41", summary.TotalBalance)
	assert.Equal(suite.T(), 0, summary.OverdrawnCount)
}

func (suite *IntegrationTestSuite) TestSummaryWithNoAccounts() {
	resp, env := suite.doJSON("GET", "/accounts/summary", nil)
	assert.Equal(suite.T(), http.StatusNotFound, resp.StatusCode)
	require.NotNil(suite.T(), env.Error)
	assert.Equal(suite.T(), "no_accounts", env.Error.Code)
}

func (suite *IntegrationTestSuite) TestAccountReport() {
	suite.createAccount(10, "Williams", "Bob", "3200.00")

	resp, err := suite.client.Get(suite.baseURL + "/reports/accounts")
	require.NoError(suite.T(), err)
	defer resp.Body.Close()
	require.Equal(suite.T(), http.StatusOK, resp.StatusCode)
	assert.Contains(suite.T(), resp.Header.Get("Content-Type"), "text/plain")

	body, err := io.ReadAll(resp.Body)
	require.NoError(suite.T(), err)
	assert.Contains(suite.T(), string(body), "Williams")
	assert.Contains(suite.T(), string(body), "Accounts: 1")
}

func (suite *IntegrationTestSuite) TestHealthCheck() {
	resp, err := suite.client.Get(suite.baseURL + "/health")
	require.NoError(suite.T(), err)
	defer resp.Body.Close()
	assert.Equal(suite.T(), http.StatusOK, resp.StatusCode)
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}
