package chain

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"
)

const (
	RpcTimeOut = time.Second * 5

	weiDecimals = 18
)

type Account struct {
	Address    string
	PrivateKey string
}

// Chain is the wallet backend: key generation and live balance lookups.
type Chain interface {
	NewAccount() (*Account, error)
	BalanceOf(ctx context.Context, address string) (string, error)
}

type EVMChain struct {
	client  *ethclient.Client
	timeout time.Duration
}

func NewEVMChain(ctx context.Context, rpcURL string, timeout time.Duration) (*EVMChain, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", rpcURL, err)
	}

	if timeout <= 0 {
		timeout = RpcTimeOut
	}
	return &EVMChain{client: client, timeout: timeout}, nil
}

func (c *EVMChain) NewAccount() (*Account, error) {
	return GenerateAccount()
}

// BalanceOf returns the latest balance of address in ether units.
func (c *EVMChain) BalanceOf(ctx context.Context, address string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	wei, err := c.client.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return "", err
	}
	return FormatEther(wei), nil
}

func (c *EVMChain) Close() {
	c.client.Close()
}

func GenerateAccount() (*Account, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}

	return &Account{
		Address:    crypto.PubkeyToAddress(key.PublicKey).Hex(),
		PrivateKey: hexutil.Encode(crypto.FromECDSA(key)),
	}, nil
}

func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -weiDecimals).String()
}

func IsAddress(s string) bool {
	return common.IsHexAddress(s)
}
