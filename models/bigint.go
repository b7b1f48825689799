package models

import (
	"database/sql/driver"
	"fmt"
	"math/big"
)

// BigInt is a wei-denominated amount stored as numeric(78,0).
// Native and stablecoin prices routinely exceed int64, so every money
// column in the schema uses this type.
type BigInt struct {
	big.Int
}

func NewBigInt(v int64) *BigInt {
	b := new(BigInt)
	b.SetInt64(v)
	return b
}

// ParseBigInt parses a base-10 amount. Negative amounts are rejected:
// nothing in the ledger ever holds a negative balance.
func ParseBigInt(s string) (*BigInt, error) {
	b := new(BigInt)
	if _, ok := b.SetString(s, 10); !ok {
		return nil, fmt.Errorf("invalid amount: %q", s)
	}
	if b.Sign() < 0 {
		return nil, fmt.Errorf("negative amount: %q", s)
	}
	return b, nil
}

func (b *BigInt) Value() (driver.Value, error) {
	if b == nil {
		return "0", nil
	}
	return b.String(), nil
}

func (b *BigInt) Scan(src interface{}) error {
	if src == nil {
		b.SetInt64(0)
		return nil
	}
	switch v := src.(type) {
	case int64:
		b.SetInt64(v)
		return nil
	case []byte:
		return b.scanString(string(v))
	case string:
		return b.scanString(v)
	default:
		return fmt.Errorf("cannot scan %T into BigInt", src)
	}
}

func (b *BigInt) scanString(s string) error {
	if _, ok := b.SetString(s, 10); !ok {
		return fmt.Errorf("cannot scan %q into BigInt", s)
	}
	return nil
}

// GormDataType keeps AutoMigrate from guessing a lossy column type.
func (BigInt) GormDataType() string {
	return "numeric(78,0)"
}

// MarshalJSON renders the amount as a decimal string, the same shape the
// frontend passes around for wei values.
func (b *BigInt) MarshalJSON() ([]byte, error) {
	if b == nil {
		return []byte(`"0"`), nil
	}
	return []byte(`"` + b.String() + `"`), nil
}

func (b *BigInt) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParseBigInt(s)
	if err != nil {
		return err
	}
	b.Set(&parsed.Int)
	return nil
}

// Cmp compares against another amount, treating nil as zero.
func (b *BigInt) Cmp(other *BigInt) int {
	x := new(big.Int)
	y := new(big.Int)
	if b != nil {
		x.Set(&b.Int)
	}
	if other != nil {
		y.Set(&other.Int)
	}
	return x.Cmp(y)
}

// Add returns b + other without mutating either operand.
func (b *BigInt) Add(other *BigInt) *BigInt {
	sum := new(BigInt)
	if b != nil {
		sum.Set(&b.Int)
	}
	if other != nil {
		sum.Int.Add(&sum.Int, &other.Int)
	}
	return sum
}
