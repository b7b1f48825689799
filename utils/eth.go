package utils

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// NormalizeAddress validates a hex wallet address and returns its EIP-55
// checksummed form. Every address stored in the ledger goes through this, so
// case differences can never split one wallet into two rows.
func NormalizeAddress(addr string) (string, error) {
	if !common.IsHexAddress(addr) {
		return "", fmt.Errorf("invalid address: %q", addr)
	}
	return common.HexToAddress(addr).Hex(), nil
}
