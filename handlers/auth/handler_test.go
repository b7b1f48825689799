package auth

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/M4N4N22/SubHub/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	testutils.InitTestMain()

	log.SetOutput(io.Discard)

	exitCode := m.Run()

	log.SetOutput(os.Stdout)

	os.Exit(exitCode)
}

// signChallenge produces a wallet-style personal_sign signature (V = 27/28).
func signChallenge(t *testing.T, message string) (string, string) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	require.NoError(t, err)
	sig[crypto.RecoveryIDOffset] += 27

	return crypto.PubkeyToAddress(key.PublicKey).Hex(), hexutil.Encode(sig)
}

func TestChallengeMessage_Deterministic(t *testing.T) {
	assert.Equal(t, "SubHub login\nNonce: abc", ChallengeMessage("abc"))
}

func TestRecoverSigner_Roundtrip(t *testing.T) {
	message := ChallengeMessage("test-nonce")
	address, signature := signChallenge(t, message)

	recovered, err := recoverSigner(message, signature)

	assert.NoError(t, err)
	assert.Equal(t, address, recovered)
}

func TestRecoverSigner_WrongMessage(t *testing.T) {
	address, signature := signChallenge(t, ChallengeMessage("nonce-a"))

	recovered, err := recoverSigner(ChallengeMessage("nonce-b"), signature)

	// Recovery over different bytes yields a different address.
	if err == nil {
		assert.NotEqual(t, address, recovered)
	}
}

func TestRecoverSigner_MalformedSignature(t *testing.T) {
	_, err := recoverSigner(ChallengeMessage("abc"), "0xdeadbeef")

	assert.Error(t, err)
}

func TestRequestNonce_Success(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "auth_nonces" (.+) RETURNING "id"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow("123e4567-e89b-12d3-a456-426614174000"))
	mock.ExpectCommit()

	r := testutils.SetupTestRouter()
	r.POST("/auth/nonce", RequestNonce)

	body := map[string]string{"address": "0x71C7656EC7ab88b098defB751B7401B5f6d8976F"}
	jsonData, _ := json.Marshal(body)

	req, _ := http.NewRequest(http.MethodPost, "/auth/nonce", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var respBody map[string]string
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.NotEmpty(t, respBody["nonce"])
	assert.Equal(t, ChallengeMessage(respBody["nonce"]), respBody["message"])
}

func TestRequestNonce_InvalidAddress(t *testing.T) {
	r := testutils.SetupTestRouter()
	r.POST("/auth/nonce", RequestNonce)

	body := map[string]string{"address": "not-an-address"}
	jsonData, _ := json.Marshal(body)

	req, _ := http.NewRequest(http.MethodPost, "/auth/nonce", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestLogin_Success(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	nonce := "roundtrip-nonce"
	address, signature := signChallenge(t, ChallengeMessage(nonce))

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM "auth_nonces" WHERE address = (.+)`).
		WillReturnRows(mock.NewRows([]string{"id", "address", "nonce", "expires_at", "created_at"}).
			AddRow("123e4567-e89b-12d3-a456-426614174000", address, nonce, now.Add(5*time.Minute), now))
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "auth_nonces" (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := testutils.SetupTestRouter()
	r.POST("/auth/login", Login)

	body := map[string]string{"address": address, "signature": signature}
	jsonData, _ := json.Marshal(body)

	req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var respBody map[string]string
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.NotEmpty(t, respBody["token"])
}

func TestLogin_WrongSigner(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	nonce := "stolen-nonce"
	address, _ := signChallenge(t, ChallengeMessage(nonce))
	// Signature from a different key over the same challenge.
	_, wrongSignature := signChallenge(t, ChallengeMessage(nonce))

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM "auth_nonces" WHERE address = (.+)`).
		WillReturnRows(mock.NewRows([]string{"id", "address", "nonce", "expires_at", "created_at"}).
			AddRow("123e4567-e89b-12d3-a456-426614174000", address, nonce, now.Add(5*time.Minute), now))

	r := testutils.SetupTestRouter()
	r.POST("/auth/login", Login)

	body := map[string]string{"address": address, "signature": wrongSignature}
	jsonData, _ := json.Marshal(body)

	req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLogin_NoPendingChallenge(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "auth_nonces" WHERE address = (.+)`).
		WillReturnRows(mock.NewRows([]string{"id"}))

	r := testutils.SetupTestRouter()
	r.POST("/auth/login", Login)

	body := map[string]string{
		"address":   "0x71C7656EC7ab88b098defB751B7401B5f6d8976F",
		"signature": "0x00",
	}
	jsonData, _ := json.Marshal(body)

	req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
