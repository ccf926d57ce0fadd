package activator

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
)

// buildActivationTx constructs and signs the EIP-1559 transaction that
// activates the program, attaching fee wei to cover the activation data fee.
// The fee cap follows the usual 2*baseFee + tip policy.
func buildActivationTx(
	ctx context.Context,
	client ChainClient,
	key *ecdsa.PrivateKey,
	chainID *big.Int,
	program common.Address,
	fee *big.Int,
) (*types.Transaction, error) {
	from := crypto.PubkeyToAddress(key.PublicKey)

	nonce, err := client.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, err
	}

	tip, err := client.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, err
	}

	head, err := client.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, err
	}
	baseFee := head.BaseFee
	if baseFee == nil {
		baseFee = big.NewInt(params.GWei)
	}
	feeCap := new(big.Int).Add(new(big.Int).Mul(baseFee, big.NewInt(2)), tip)

	data, err := packActivateProgram(program)
	if err != nil {
		return nil, err
	}

	gas, err := client.EstimateGas(ctx, ethereum.CallMsg{
		From:      from,
		To:        &ArbWasmAddress,
		Value:     fee,
		Data:      data,
		GasTipCap: tip,
		GasFeeCap: feeCap,
	})
	if err != nil {
		return nil, err
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       gas,
		To:        &ArbWasmAddress,
		Value:     fee,
		Data:      data,
	})

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign activation transaction: %w", err)
	}
	return signed, nil
}
