package activator

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/ethclient/gethclient"
	"github.com/ethereum/go-ethereum/params"
	"github.com/ethereum/go-ethereum/rpc"
)

// ChainClient is the node surface the activation pipeline depends on.
// The production implementation speaks JSON-RPC; tests substitute a mock.
type ChainClient interface {
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)

	// EstimateActivationFee returns the data fee in wei required to
	// activate the program at the given address.
	EstimateActivationFee(ctx context.Context, program common.Address) (*big.Int, error)

	// SendTransaction broadcasts a fully signed transaction. No retries
	// are performed; failures propagate to the caller.
	SendTransaction(ctx context.Context, tx *types.Transaction) error

	Close()
}

type rpcChainClient struct {
	eth  *ethclient.Client
	geth *gethclient.Client
	rpc  *rpc.Client
}

// Dial connects to a JSON-RPC endpoint over HTTP(S).
func Dial(ctx context.Context, endpoint string) (ChainClient, error) {
	rpcClient, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to endpoint %s: %w", endpoint, err)
	}
	return &rpcChainClient{
		eth:  ethclient.NewClient(rpcClient),
		geth: gethclient.New(rpcClient),
		rpc:  rpcClient,
	}, nil
}

func (c *rpcChainClient) ChainID(ctx context.Context) (*big.Int, error) {
	id, err := c.eth.ChainID(ctx)
	if err != nil {
		return nil, wrapRPCError("failed to fetch chain id", err)
	}
	return id, nil
}

func (c *rpcChainClient) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	nonce, err := c.eth.PendingNonceAt(ctx, account)
	if err != nil {
		return 0, wrapRPCError(fmt.Sprintf("failed to fetch nonce for %s", account.Hex()), err)
	}
	return nonce, nil
}

func (c *rpcChainClient) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	head, err := c.eth.HeaderByNumber(ctx, number)
	if err != nil {
		return nil, wrapRPCError("failed to fetch block header", err)
	}
	return head, nil
}

func (c *rpcChainClient) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	tip, err := c.eth.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, wrapRPCError("failed to fetch gas tip cap", err)
	}
	return tip, nil
}

func (c *rpcChainClient) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	gas, err := c.eth.EstimateGas(ctx, msg)
	if err != nil {
		return 0, wrapRPCError("failed to estimate gas", err)
	}
	return gas, nil
}

// EstimateActivationFee runs ArbWasm.activateProgram as a spoofed eth_call:
// the program's own code is placed at its address via a state override and
// the zero sender is given max balance, so the estimate never fails on
// funding. The decoded dataFee return is the base estimate in wei.
func (c *rpcChainClient) EstimateActivationFee(ctx context.Context, program common.Address) (*big.Int, error) {
	code, err := c.eth.CodeAt(ctx, program, nil)
	if err != nil {
		return nil, wrapRPCError(fmt.Sprintf("failed to fetch code for %s", program.Hex()), err)
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoCode, program.Hex())
	}

	data, err := packActivateProgram(program)
	if err != nil {
		return nil, err
	}

	overrides := map[common.Address]gethclient.OverrideAccount{
		program:          {Code: code},
		common.Address{}: {Balance: maxBalance},
	}
	msg := ethereum.CallMsg{
		To:    &ArbWasmAddress,
		Data:  data,
		Value: big.NewInt(params.Ether),
	}

	out, err := c.geth.CallContract(ctx, msg, nil, &overrides)
	if err != nil {
		return nil, wrapRPCError("activation fee estimate failed", err)
	}

	_, dataFee, err := unpackActivateProgram(out)
	if err != nil {
		return nil, err
	}
	return dataFee, nil
}

func (c *rpcChainClient) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if err := c.eth.SendTransaction(ctx, tx); err != nil {
		return wrapRPCError("failed to broadcast transaction", err)
	}
	return nil
}

func (c *rpcChainClient) Close() {
	c.rpc.Close()
}

// maxBalance is the largest value a balance override accepts (uint256 max).
var maxBalance = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// wrapRPCError converts a go-ethereum client error into an *RPCError,
// preserving the node's error code, message, and revert data.
func wrapRPCError(msg string, err error) error {
	rpcErr := &RPCError{Message: err.Error()}

	var coded rpc.Error
	if errors.As(err, &coded) {
		rpcErr.Code = coded.ErrorCode()
	}

	var withData rpc.DataError
	if errors.As(err, &withData) {
		if s, ok := withData.ErrorData().(string); ok {
			if decoded, err := hexutil.Decode(s); err == nil {
				rpcErr.Data = decoded
			}
		}
	}

	return fmt.Errorf("%s: %w", msg, rpcErr)
}
