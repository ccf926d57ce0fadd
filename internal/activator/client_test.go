package activator

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

type rpcHandler func(method string, params []json.RawMessage) (interface{}, *rpcErrorBody)

// setupTestClient dials a ChainClient against an in-process JSON-RPC node
// whose behavior is supplied per test. Served methods are recorded.
func setupTestClient(t *testing.T, handler rpcHandler) (ChainClient, *[]string) {
	t.Helper()

	var served []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage   `json:"id"`
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		served = append(served, req.Method)

		result, rpcErr := handler(req.Method, req.Params)
		resp := map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
		}
		if rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)

	client, err := Dial(context.Background(), srv.URL)
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return client, &served
}

func TestEstimateActivationFee(t *testing.T) {
	program := common.HexToAddress(testProgramAddress)
	programCode := "0x6080604052"

	ret, err := arbWasm.Methods["activateProgram"].Outputs.Pack(uint16(2), big.NewInt(54321))
	require.NoError(t, err)

	var callParams []json.RawMessage
	client, _ := setupTestClient(t, func(method string, params []json.RawMessage) (interface{}, *rpcErrorBody) {
		switch method {
		case "eth_getCode":
			return programCode, nil
		case "eth_call":
			callParams = params
			return hexutil.Encode(ret), nil
		default:
			return nil, &rpcErrorBody{Code: -32601, Message: "method not found"}
		}
	})

	fee, err := client.EstimateActivationFee(context.Background(), program)
	require.NoError(t, err)
	assert.Equal(t, "54321", fee.String())

	// The call carries state overrides: the program's code spoofed at its
	// own address, and a funded zero sender.
	require.Len(t, callParams, 3)
	var overrides map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(callParams[2], &overrides))

	programOverride, ok := overrides[strings.ToLower(program.Hex())]
	require.True(t, ok)
	assert.Equal(t, programCode, programOverride["code"])

	zeroOverride, ok := overrides["0x0000000000000000000000000000000000000000"]
	require.True(t, ok)
	assert.Equal(t, hexutil.EncodeBig(maxBalance), zeroOverride["balance"])

	var callArg map[string]interface{}
	require.NoError(t, json.Unmarshal(callParams[0], &callArg))
	assert.Equal(t, strings.ToLower(ArbWasmAddress.Hex()), callArg["to"])
}

func TestEstimateActivationFee_NoCode(t *testing.T) {
	client, served := setupTestClient(t, func(method string, params []json.RawMessage) (interface{}, *rpcErrorBody) {
		switch method {
		case "eth_getCode":
			return "0x", nil
		default:
			return nil, &rpcErrorBody{Code: -32601, Message: "method not found"}
		}
	})

	_, err := client.EstimateActivationFee(context.Background(), common.HexToAddress(testProgramAddress))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoCode)
	assert.NotContains(t, *served, "eth_call")
}

func TestEstimateActivationFee_NodeRejection(t *testing.T) {
	client, _ := setupTestClient(t, func(method string, params []json.RawMessage) (interface{}, *rpcErrorBody) {
		switch method {
		case "eth_getCode":
			return "0x6080604052", nil
		case "eth_call":
			return nil, &rpcErrorBody{
				Code:    3,
				Message: "execution reverted: error ProgramUpToDate()",
				Data:    "0xcc944bf2",
			}
		default:
			return nil, &rpcErrorBody{Code: -32601, Message: "method not found"}
		}
	})

	_, err := client.EstimateActivationFee(context.Background(), common.HexToAddress(testProgramAddress))
	require.Error(t, err)

	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, 3, rpcErr.Code)
	assert.Contains(t, rpcErr.Message, "ProgramUpToDate")
	assert.Equal(t, hexutil.MustDecode("0xcc944bf2"), rpcErr.Data)

	assert.ErrorIs(t, err, ErrProgramUpToDate)
}

func TestSendTransaction(t *testing.T) {
	key, err := ParsePrivateKey(testPrivateKey)
	require.NoError(t, err)

	chainID := big.NewInt(421614)
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     0,
		GasTipCap: big.NewInt(1),
		GasFeeCap: big.NewInt(2),
		Gas:       21000,
		To:        &ArbWasmAddress,
		Value:     big.NewInt(500),
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), key)
	require.NoError(t, err)

	client, served := setupTestClient(t, func(method string, params []json.RawMessage) (interface{}, *rpcErrorBody) {
		switch method {
		case "eth_sendRawTransaction":
			return signed.Hash().Hex(), nil
		default:
			return nil, &rpcErrorBody{Code: -32601, Message: "method not found"}
		}
	})

	require.NoError(t, client.SendTransaction(context.Background(), signed))
	assert.Contains(t, *served, "eth_sendRawTransaction")
}

func TestSendTransaction_InsufficientFunds(t *testing.T) {
	key, err := ParsePrivateKey(testPrivateKey)
	require.NoError(t, err)

	chainID := big.NewInt(421614)
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		GasTipCap: big.NewInt(1),
		GasFeeCap: big.NewInt(2),
		Gas:       21000,
		To:        &ArbWasmAddress,
		Value:     big.NewInt(500),
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), key)
	require.NoError(t, err)

	client, _ := setupTestClient(t, func(method string, params []json.RawMessage) (interface{}, *rpcErrorBody) {
		return nil, &rpcErrorBody{Code: -32000, Message: "insufficient funds for gas * price + value"}
	})

	err = client.SendTransaction(context.Background(), signed)
	require.Error(t, err)

	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, -32000, rpcErr.Code)
	assert.Contains(t, rpcErr.Message, "insufficient funds")
}

func TestChainID(t *testing.T) {
	client, _ := setupTestClient(t, func(method string, params []json.RawMessage) (interface{}, *rpcErrorBody) {
		if method == "eth_chainId" {
			return "0x66eee", nil
		}
		return nil, &rpcErrorBody{Code: -32601, Message: "method not found"}
	})

	id, err := client.ChainID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "421614", id.String())
}
