package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/M4N4N22/SubHub/models"
	"github.com/M4N4N22/SubHub/utils"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// PaymentRail is the settlement boundary. The ledger calls it inside the same
// database transaction that records the movement, so a rail failure rolls the
// ledger change back.
type PaymentRail interface {
	// PullStablecoin moves amount from payer into the escrow operator wallet
	// via a pre-approved transferFrom. Distinguishes a missing allowance from
	// a failed transfer.
	PullStablecoin(ctx context.Context, payer string, amount *big.Int) error
	// PayoutStablecoin sends amount of the stablecoin to the recipient and
	// returns the transaction hash.
	PayoutStablecoin(ctx context.Context, to string, amount *big.Int) (string, error)
	// PayoutNative sends amount of the native currency to the recipient and
	// returns the transaction hash.
	PayoutNative(ctx context.Context, to string, amount *big.Int) (string, error)
}

// Rail is the process-wide rail, swapped for a stub in tests.
var Rail PaymentRail

const erc20ABI = `[
	{"name":"transfer","type":"function","inputs":[{"name":"to","type":"address"},{"name":"value","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"name":"transferFrom","type":"function","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"value","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"name":"allowance","type":"function","constant":true,"inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]}
]`

type evmRail struct {
	client     *ethclient.Client
	chainID    *big.Int
	key        *ecdsa.PrivateKey
	operator   common.Address
	stablecoin common.Address
	abi        abi.ABI
}

// Init dials the RPC endpoint and loads the operator key. The operator wallet
// is the spender subscribers approve for stablecoin pulls and the source of
// all payouts.
func Init() error {
	rpcURL := os.Getenv("RPC_URL")
	if rpcURL == "" {
		return fmt.Errorf("RPC_URL is not set")
	}

	keyHex := strings.TrimPrefix(os.Getenv("OPERATOR_PRIVATE_KEY"), "0x")
	if keyHex == "" {
		return fmt.Errorf("OPERATOR_PRIVATE_KEY is not set")
	}
	key, err := crypto.HexToECDSA(keyHex)
	if err != nil {
		return fmt.Errorf("invalid operator key: %w", err)
	}

	stablecoinAddr := os.Getenv("STABLECOIN_ADDRESS")
	if !common.IsHexAddress(stablecoinAddr) {
		return fmt.Errorf("STABLECOIN_ADDRESS is not a valid address")
	}

	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return fmt.Errorf("could not connect to RPC: %w", err)
	}

	chainID, err := client.ChainID(context.Background())
	if err != nil {
		return fmt.Errorf("could not read chain id: %w", err)
	}

	parsed, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return fmt.Errorf("erc20 abi: %w", err)
	}

	Rail = &evmRail{
		client:     client,
		chainID:    chainID,
		key:        key,
		operator:   crypto.PubkeyToAddress(key.PublicKey),
		stablecoin: common.HexToAddress(stablecoinAddr),
		abi:        parsed,
	}

	utils.LogSuccess("Chain rail initialised on chain " + chainID.String())
	return nil
}

func (r *evmRail) PullStablecoin(ctx context.Context, payer string, amount *big.Int) error {
	from := common.HexToAddress(payer)

	allowance, err := r.allowance(ctx, from)
	if err != nil {
		return fmt.Errorf("%w: allowance query: %v", models.ErrTransferFailed, err)
	}
	if allowance.Cmp(amount) < 0 {
		return models.ErrInsufficientAllowance
	}

	calldata, err := r.abi.Pack("transferFrom", from, r.operator, amount)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrTransferFailed, err)
	}

	if _, err := r.sendTx(ctx, r.stablecoin, big.NewInt(0), calldata); err != nil {
		return fmt.Errorf("%w: %v", models.ErrTransferFailed, err)
	}
	return nil
}

func (r *evmRail) PayoutStablecoin(ctx context.Context, to string, amount *big.Int) (string, error) {
	calldata, err := r.abi.Pack("transfer", common.HexToAddress(to), amount)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrTransferFailed, err)
	}

	hash, err := r.sendTx(ctx, r.stablecoin, big.NewInt(0), calldata)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrTransferFailed, err)
	}
	return hash, nil
}

func (r *evmRail) PayoutNative(ctx context.Context, to string, amount *big.Int) (string, error) {
	hash, err := r.sendTx(ctx, common.HexToAddress(to), amount, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrTransferFailed, err)
	}
	return hash, nil
}

func (r *evmRail) allowance(ctx context.Context, owner common.Address) (*big.Int, error) {
	calldata, err := r.abi.Pack("allowance", owner, r.operator)
	if err != nil {
		return nil, err
	}

	raw, err := r.client.CallContract(ctx, ethereum.CallMsg{
		To:   &r.stablecoin,
		Data: calldata,
	}, nil)
	if err != nil {
		return nil, err
	}

	out, err := r.abi.Unpack("allowance", raw)
	if err != nil {
		return nil, err
	}
	return abi.ConvertType(out[0], new(big.Int)).(*big.Int), nil
}

// sendTx signs and submits a transaction from the operator wallet and waits
// for it to be mined. A reverted receipt is an error: the caller's database
// transaction must not commit on a failed transfer.
func (r *evmRail) sendTx(ctx context.Context, to common.Address, value *big.Int, calldata []byte) (string, error) {
	nonce, err := r.client.PendingNonceAt(ctx, r.operator)
	if err != nil {
		return "", err
	}

	gasPrice, err := r.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", err
	}

	gasLimit, err := r.client.EstimateGas(ctx, ethereum.CallMsg{
		From:  r.operator,
		To:    &to,
		Value: value,
		Data:  calldata,
	})
	if err != nil {
		return "", err
	}

	tx := types.NewTransaction(nonce, to, value, gasLimit, gasPrice, calldata)
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(r.chainID), r.key)
	if err != nil {
		return "", err
	}

	if err := r.client.SendTransaction(ctx, signed); err != nil {
		return "", err
	}

	receipt, err := waitMined(ctx, r.client, signed.Hash())
	if err != nil {
		return "", err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return "", fmt.Errorf("transaction %s reverted", signed.Hash().Hex())
	}
	return signed.Hash().Hex(), nil
}

func waitMined(ctx context.Context, client *ethclient.Client, hash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		receipt, err := client.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}
		if err != ethereum.NotFound {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
