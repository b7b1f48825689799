package contents

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

const (
	testWallet = "0x71C7656EC7ab88b098defB751B7401B5f6d8976F"
	testOther  = "0x2546BcD3c84621e976D8185a91A922aE77ECEc30"
)

func TestMain(m *testing.M) {
	testutils.InitTestMain()

	log.SetOutput(io.Discard)

	exitCode := m.Run()

	log.SetOutput(os.Stdout)

	os.Exit(exitCode)
}

func contentColumns() []string {
	return []string{"id", "creator", "content_cid", "gate", "plan_id", "tier_id", "created_at"}
}

func TestPostContent_PublicSuccess(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "creators" (.+) ON CONFLICT (.+) DO NOTHING`).
		WillReturnRows(mock.NewRows([]string{"seq"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO "content_posts" (.+) RETURNING "id"`).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(`INSERT INTO "ledger_events" (.+)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := testutils.SetupTestRouter()
	r.POST("/contents", func(c *gin.Context) {
		c.Set("wallet", testWallet)
		PostContent(c)
	})

	body := map[string]interface{}{
		"gate":       0,
		"contentCid": "ipfs://QmContent",
	}
	jsonData, _ := json.Marshal(body)

	req, _ := http.NewRequest(http.MethodPost, "/contents", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusCreated, resp.Code)

	var post models.ContentPost
	json.Unmarshal(resp.Body.Bytes(), &post)
	assert.Equal(t, uint64(1), post.ID)
	assert.Equal(t, models.GatePublic, post.Gate)
	assert.Nil(t, post.PlanID)
}

func TestPostContent_InvalidGateType(t *testing.T) {
	r := testutils.SetupTestRouter()
	r.POST("/contents", func(c *gin.Context) {
		c.Set("wallet", testWallet)
		PostContent(c)
	})

	body := map[string]interface{}{
		"gate":       9,
		"contentCid": "ipfs://QmContent",
	}
	jsonData, _ := json.Marshal(body)

	req, _ := http.NewRequest(http.MethodPost, "/contents", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestPostContent_SubscriptionGateNeedsPlan(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectRollback()

	r := testutils.SetupTestRouter()
	r.POST("/contents", func(c *gin.Context) {
		c.Set("wallet", testWallet)
		PostContent(c)
	})

	body := map[string]interface{}{
		"gate":       1,
		"planId":     0,
		"contentCid": "ipfs://QmContent",
	}
	jsonData, _ := json.Marshal(body)

	req, _ := http.NewRequest(http.MethodPost, "/contents", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestPostContent_PlanOwnedBySomeoneElse(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "subscription_plans" WHERE id = (.+)`).
		WillReturnRows(mock.NewRows([]string{"id", "creator", "price_wei", "frequency", "metadata_cid", "active", "created_at", "updated_at"}).
			AddRow(1, testOther, "1000", 86400, "", true, now, now))
	mock.ExpectRollback()

	r := testutils.SetupTestRouter()
	r.POST("/contents", func(c *gin.Context) {
		c.Set("wallet", testWallet)
		PostContent(c)
	})

	body := map[string]interface{}{
		"gate":       1,
		"planId":     1,
		"contentCid": "ipfs://QmContent",
	}
	jsonData, _ := json.Marshal(body)

	req, _ := http.NewRequest(http.MethodPost, "/contents", bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestResolveAccess_PublicPost(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM "content_posts" WHERE id = (.+)`).
		WillReturnRows(mock.NewRows(contentColumns()).
			AddRow(1, testWallet, "ipfs://QmContent", 0, nil, nil, now))

	r := testutils.SetupTestRouter()
	r.GET("/contents/:id/access", ResolveAccess)

	req, _ := http.NewRequest(http.MethodGet, "/contents/1/access?requester="+testOther, nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var decision models.AccessDecision
	json.Unmarshal(resp.Body.Bytes(), &decision)
	assert.True(t, decision.Allow)
}

func TestResolveAccess_ActiveSubscriptionUnlocks(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM "content_posts" WHERE id = (.+)`).
		WillReturnRows(mock.NewRows(contentColumns()).
			AddRow(1, testWallet, "ipfs://QmContent", 1, 7, nil, now))
	mock.ExpectQuery(`SELECT (.+) FROM "subscriptions" WHERE plan_id = (.+)`).
		WillReturnRows(mock.NewRows([]string{"id", "plan_id", "subscriber", "expires_at", "joined_at", "created_at", "updated_at"}).
			AddRow("123e4567-e89b-12d3-a456-426614174000", 7, testOther, now.Unix()+1000, now.Unix()-1000, now, now))

	r := testutils.SetupTestRouter()
	r.GET("/contents/:id/access", ResolveAccess)

	req, _ := http.NewRequest(http.MethodGet, "/contents/1/access?requester="+testOther, nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var decision models.AccessDecision
	json.Unmarshal(resp.Body.Bytes(), &decision)
	assert.True(t, decision.Allow)
}

func TestResolveAccess_LapsedSubscriptionDenies(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM "content_posts" WHERE id = (.+)`).
		WillReturnRows(mock.NewRows(contentColumns()).
			AddRow(1, testWallet, "ipfs://QmContent", 1, 7, nil, now))
	mock.ExpectQuery(`SELECT (.+) FROM "subscriptions" WHERE plan_id = (.+)`).
		WillReturnRows(mock.NewRows([]string{"id", "plan_id", "subscriber", "expires_at", "joined_at", "created_at", "updated_at"}).
			AddRow("123e4567-e89b-12d3-a456-426614174000", 7, testOther, now.Unix()-100, now.Unix()-100000, now, now))

	r := testutils.SetupTestRouter()
	r.GET("/contents/:id/access", ResolveAccess)

	req, _ := http.NewRequest(http.MethodGet, "/contents/1/access?requester="+testOther, nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var decision models.AccessDecision
	json.Unmarshal(resp.Body.Bytes(), &decision)
	assert.False(t, decision.Allow)
}

func TestResolveAccess_ContentNotFound(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT (.+) FROM "content_posts" WHERE id = (.+)`).
		WillReturnRows(mock.NewRows(contentColumns()))

	r := testutils.SetupTestRouter()
	r.GET("/contents/:id/access", ResolveAccess)

	req, _ := http.NewRequest(http.MethodGet, "/contents/42/access?requester="+testOther, nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestGetCreatorContents_NewestFirst(t *testing.T) {
	_, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM "content_posts" WHERE creator = (.+)`).
		WillReturnRows(mock.NewRows(contentColumns()).
			AddRow(2, testWallet, "ipfs://QmNewer", 0, nil, nil, now).
			AddRow(1, testWallet, "ipfs://QmOlder", 0, nil, nil, now.Add(-time.Hour)))

	r := testutils.SetupTestRouter()
	r.GET("/creators/:address/contents", GetCreatorContents)

	req, _ := http.NewRequest(http.MethodGet, "/creators/"+testWallet+"/contents", nil)
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)

	var posts []models.ContentPost
	json.Unmarshal(resp.Body.Bytes(), &posts)
	assert.Len(t, posts, 2)
	assert.Equal(t, uint64(2), posts[0].ID)
}
