package creators

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

	"github.com/M4N4N22/SubHub/models"
	"github.com/M4N4N22/SubHub/testutils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

const testWallet = "0x71C7656EC7ab88b098defB751B7401B5f6d8976F"

func TestMain(m *testing.M) {
	testutils.InitTestMain()

	log.SetOutput(io.Discard)

	exitCode := m.Run()

	log.SetOutput(os.Stdout)

	os.Exit(exitCode)
}

func creatorColumns() []string {
	return []string{"address", "seq", "profile_cid", "created_at", "updated_at"}
}

func TestSetProfile_Success(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "creators" (.+) ON CONFLICT (.+) DO NOTHING`).
		WillReturnRows(mock.NewRows([]string{"seq"}).AddRow(1))
	mock.ExpectExec(`UPDATE "creators" SET (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "ledger_events" (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT (.+) FROM "creators" WHERE address = (.+)`).
		WillReturnRows(mock.NewRows(creatorColumns()).
			AddRow(testWallet, 1, "ipfs://QmProfile", now, now))
	mock.ExpectCommit()

	r := testutils.SetupTestRouter()
	r.PUT("/profile", func(c *gin.Context) {
		c.Set("wallet", testWallet)
		SetProfile(c)
	})

	body := map[string]string{"profileCid": "ipfs://QmProfile"}
	jsonData, _ := json.Marshal(body)

	req, _ := http.NewRequest(http.MethodPut, "/profile", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var creator models.Creator
	json.Unmarshal(resp.Body.Bytes(), &creator)
	assert.Equal(t, testWallet, creator.Address)
	assert.Equal(t, "ipfs://QmProfile", creator.ProfileCid)
}

func TestSetProfile_MissingCid(t *testing.T) {
	r := testutils.SetupTestRouter()
	r.PUT("/profile", func(c *gin.Context) {
		c.Set("wallet", testWallet)
		SetProfile(c)
	})

	req, _ := http.NewRequest(http.MethodPut, "/profile", bytes.NewBuffer([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestGetProfile_UnknownWalletReadsEmpty(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "creators" WHERE address = (.+)`).
		WillReturnRows(mock.NewRows(creatorColumns()))

	r := testutils.SetupTestRouter()
	r.GET("/creators/:address/profile", GetProfile)

	req, _ := http.NewRequest(http.MethodGet, "/creators/"+testWallet+"/profile", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var creator models.Creator
	json.Unmarshal(resp.Body.Bytes(), &creator)
	assert.Equal(t, testWallet, creator.Address)
	assert.Empty(t, creator.ProfileCid)
}

func TestGetProfile_InvalidAddress(t *testing.T) {
	r := testutils.SetupTestRouter()
	r.GET("/creators/:address/profile", GetProfile)

	req, _ := http.NewRequest(http.MethodGet, "/creators/0x123/profile", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestGetAllCreators_RegistrationOrder(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Now()
	second := "0x2546BcD3c84621e976D8185a91A922aE77ECEc30"
	mock.ExpectQuery(`SELECT (.+) FROM "creators" ORDER BY seq ASC`).
		WillReturnRows(mock.NewRows(creatorColumns()).
			AddRow(testWallet, 1, "ipfs://QmA", now, now).
			AddRow(second, 2, "", now, now))

	r := testutils.SetupTestRouter()
	r.GET("/creators", GetAllCreators)

	req, _ := http.NewRequest(http.MethodGet, "/creators", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var creators []models.Creator
	json.Unmarshal(resp.Body.Bytes(), &creators)
	assert.Len(t, creators, 2)
	assert.Equal(t, testWallet, creators[0].Address)
	assert.Equal(t, second, creators[1].Address)
}

func TestGetCreatorCount(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "creators"`).
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(5))

	r := testutils.SetupTestRouter()
	r.GET("/creators/count", GetCreatorCount)

	req, _ := http.NewRequest(http.MethodGet, "/creators/count", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var respBody map[string]int64
	json.Unmarshal(resp.Body.Bytes(), &respBody)
	assert.Equal(t, int64(5), respBody["count"])
}

func TestGetCreatorByIndex_OutOfRange(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "creators" (.+)`).
		WillReturnRows(mock.NewRows(creatorColumns()))

	r := testutils.SetupTestRouter()
	r.GET("/creators/index/:index", GetCreatorByIndex)

	req, _ := http.NewRequest(http.MethodGet, "/creators/index/99", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestGetCreatorByIndex_NegativeIndex(t *testing.T) {
	r := testutils.SetupTestRouter()
	r.GET("/creators/index/:index", GetCreatorByIndex)

	req, _ := http.NewRequest(http.MethodGet, "/creators/index/-1", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
