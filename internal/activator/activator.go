// Package activator activates Stylus programs on Arbitrum chains. The
// pipeline is strictly linear: estimate the activation data fee via the
// ArbWasm precompile, apply the configured bump, build and sign a single
// EIP-1559 transaction, and broadcast it.
package activator

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Config holds everything a single activation run needs.
type Config struct {
	PrivateKey     string       // hex-encoded secp256k1 key of the sending account
	Endpoint       string       // node JSON-RPC endpoint, http(s)
	Address        string       // target program address, hex
	BumpFeePercent uint64       // safety margin on the estimated data fee
	Logger         *slog.Logger // optional; discarded if nil
}

// WithDefaults returns Config with default values applied.
func (c Config) WithDefaults() Config {
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}

// Validate checks required configuration fields.
func (c *Config) Validate() error {
	if c.PrivateKey == "" {
		return ErrMissingPrivateKey
	}
	if c.Endpoint == "" {
		return ErrMissingEndpoint
	}
	if c.Address == "" {
		return ErrMissingAddress
	}
	if !common.IsHexAddress(c.Address) {
		return fmt.Errorf("%w: %s", ErrInvalidAddress, c.Address)
	}
	return nil
}

// Result reports a successful activation.
type Result struct {
	Program common.Address
	BaseFee *big.Int // estimated data fee before the bump
	DataFee *big.Int // fee attached to the transaction
	TxHash  common.Hash
}

// ParsePrivateKey decodes a hex-encoded secp256k1 private key, with or
// without a 0x prefix. Malformed keys fail here, before any network call.
func ParsePrivateKey(hexkey string) (*ecdsa.PrivateKey, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(hexkey), "0x")
	key, err := crypto.HexToECDSA(trimmed)
	if err != nil {
		return nil, &SigningError{Err: err}
	}
	return key, nil
}

// Run validates the config, dials the endpoint, and performs one activation.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	key, err := ParsePrivateKey(cfg.PrivateKey)
	if err != nil {
		return nil, err
	}

	client, err := Dial(ctx, cfg.Endpoint)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	return activate(ctx, cfg, key, client)
}

// Activate performs one activation against an already-built client. Any
// stage failure aborts the remaining stages.
func Activate(ctx context.Context, cfg Config, client ChainClient) (*Result, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	key, err := ParsePrivateKey(cfg.PrivateKey)
	if err != nil {
		return nil, err
	}
	return activate(ctx, cfg, key, client)
}

func activate(ctx context.Context, cfg Config, key *ecdsa.PrivateKey, client ChainClient) (*Result, error) {
	program := common.HexToAddress(cfg.Address)
	log := cfg.Logger

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	log.Debug("connected to chain", "endpoint", cfg.Endpoint, "chain_id", chainID)

	base, err := client.EstimateActivationFee(ctx, program)
	if err != nil {
		return nil, err
	}
	log.Debug("estimated activation data fee", "program", program.Hex(), "wei", base)

	fee := ComputeFee(base, cfg.BumpFeePercent)
	if cfg.BumpFeePercent > 0 {
		log.Debug("bumped activation data fee", "percent", cfg.BumpFeePercent, "wei", fee)
	}

	tx, err := buildActivationTx(ctx, client, key, chainID, program, fee)
	if err != nil {
		return nil, err
	}
	log.Debug("signed activation transaction",
		"nonce", tx.Nonce(), "gas", tx.Gas(), "hash", tx.Hash().Hex())

	if err := client.SendTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return &Result{
		Program: program,
		BaseFee: base,
		DataFee: fee,
		TxHash:  tx.Hash(),
	}, nil
}
