package activator

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// ArbWasmAddress is the ArbWasm precompile, present at the same address on
// every Arbitrum chain.
var ArbWasmAddress = common.HexToAddress("0x0000000000000000000000000000000000000071")

const arbWasmABI = `[{"inputs":[{"internalType":"address","name":"program","type":"address"}],"name":"activateProgram","outputs":[{"internalType":"uint16","name":"version","type":"uint16"},{"internalType":"uint256","name":"dataFee","type":"uint256"}],"stateMutability":"payable","type":"function"}]`

var arbWasm = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(arbWasmABI))
	if err != nil {
		panic(err)
	}
	return parsed
}()

// packActivateProgram encodes the calldata for ArbWasm.activateProgram.
func packActivateProgram(program common.Address) ([]byte, error) {
	data, err := arbWasm.Pack("activateProgram", program)
	if err != nil {
		return nil, fmt.Errorf("failed to encode activateProgram call: %w", err)
	}
	return data, nil
}

// unpackActivateProgram decodes the (version, dataFee) return of
// ArbWasm.activateProgram.
func unpackActivateProgram(output []byte) (uint16, *big.Int, error) {
	vals, err := arbWasm.Unpack("activateProgram", output)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to decode activateProgram return: %w", err)
	}
	version := vals[0].(uint16)
	dataFee := vals[1].(*big.Int)
	return version, dataFee, nil
}
