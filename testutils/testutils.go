package testutils

import (
	"context"
	"io"
	"log"
	"math/big"
	"testing"

	"github.com/M4N4N22/SubHub/chain"
	"github.com/M4N4N22/SubHub/db"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func SetupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error creating the SQL mock connection: %s", err)
	}

	newLogger := logger.New(
		log.New(io.Discard, "", log.LstdFlags),
		logger.Config{
			LogLevel: logger.Silent,
		},
	)

	dialector := postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		t.Fatalf("error opening the GORM connection: %s", err)
	}

	originalDB := db.DB
	db.DB = gormDB

	cleanup := func() {
		db.DB = originalDB
		sqlDB.Close()
	}

	return gormDB, mock, cleanup
}

func SetupTestRouter() *gin.Engine {
	r := gin.New()
	return r
}

func InitTestMain() {
	gin.SetMode(gin.TestMode)
}

// StubRail replaces the chain boundary in payment tests. Each hook defaults
// to success when nil.
type StubRail struct {
	PullErr        error
	PayoutErr      error
	PulledFrom     []string
	PulledAmounts  []*big.Int
	PaidTo         []string
	PaidAmounts    []*big.Int
	PayoutCurrency []string
}

func (s *StubRail) PullStablecoin(ctx context.Context, payer string, amount *big.Int) error {
	if s.PullErr != nil {
		return s.PullErr
	}
	s.PulledFrom = append(s.PulledFrom, payer)
	s.PulledAmounts = append(s.PulledAmounts, new(big.Int).Set(amount))
	return nil
}

func (s *StubRail) PayoutStablecoin(ctx context.Context, to string, amount *big.Int) (string, error) {
	if s.PayoutErr != nil {
		return "", s.PayoutErr
	}
	s.PaidTo = append(s.PaidTo, to)
	s.PaidAmounts = append(s.PaidAmounts, new(big.Int).Set(amount))
	s.PayoutCurrency = append(s.PayoutCurrency, "USDC")
	return "0xstub", nil
}

func (s *StubRail) PayoutNative(ctx context.Context, to string, amount *big.Int) (string, error) {
	if s.PayoutErr != nil {
		return "", s.PayoutErr
	}
	s.PaidTo = append(s.PaidTo, to)
	s.PaidAmounts = append(s.PaidAmounts, new(big.Int).Set(amount))
	s.PayoutCurrency = append(s.PayoutCurrency, "NATIVE")
	return "0xstub", nil
}

// SetupStubRail installs a fresh StubRail and returns it with a restore func.
func SetupStubRail() (*StubRail, func()) {
	original := chain.Rail
	stub := &StubRail{}
	chain.Rail = stub
	return stub, func() {
		chain.Rail = original
	}
}
