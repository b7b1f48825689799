package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextExpiry_FirstPayment(t *testing.T) {
	assert.Equal(t, int64(86400), NextExpiry(0, 0, 86400))
	assert.Equal(t, int64(1000+604800), NextExpiry(1000, 0, 604800))
}

func TestNextExpiry_EarlyRenewalCompounds(t *testing.T) {
	// Renewing at t=100 with an expiry at 86400 stacks the new period onto
	// the existing one instead of resetting it.
	assert.Equal(t, int64(172800), NextExpiry(100, 86400, 86400))
}

func TestNextExpiry_RenewalAfterLapse(t *testing.T) {
	// After the expiry has passed, the new period starts from now.
	assert.Equal(t, int64(200000+86400), NextExpiry(200000, 172800, 86400))
}

func TestNextExpiry_BackToBackPayments(t *testing.T) {
	expiry := NextExpiry(0, 0, 86400)
	expiry = NextExpiry(0, expiry, 86400)
	expiry = NextExpiry(0, expiry, 86400)

	assert.Equal(t, int64(3*86400), expiry)
}

func TestNextExpiry_RenewalAtExactExpiry(t *testing.T) {
	// now == currentExpiry: a single period from that instant either way.
	assert.Equal(t, int64(86400+3600), NextExpiry(86400, 86400, 3600))
}
