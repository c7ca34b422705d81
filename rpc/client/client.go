package client

import (
	"encoding/json"
	"fmt"

	"github.com/0xPolygon/cdk-rpc/rpc"
	"github.com/0xPolygon/cdk-verifier/prover"
	"github.com/0xPolygon/cdk-verifier/rpc/types"
	"github.com/0xPolygon/cdk-verifier/verifier"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var jSONRPCCall = rpc.JSONRPCCall

// Client wraps the endpoints of the verifier server
type Client struct {
	url string
}

func NewClient(url string) *Client {
	return &Client{
		url: url,
	}
}

func (c *Client) call(result interface{}, method string, params ...interface{}) error {
	response, err := jSONRPCCall(c.url, method, params...)
	if err != nil {
		return err
	}

	// Check if the response is an error
	if response.Error != nil {
		return fmt.Errorf("error in the response calling %s: %v", method, response.Error)
	}
	return json.Unmarshal(response.Result, result)
}

// Prove returns the Poe of the committed batch. Without pobs the server
// generates them from its execution endpoint.
func (c *Client) Prove(batchData []byte, pobs []*prover.Pob) (*prover.Poe, error) {
	if pobs == nil {
		pobs = []*prover.Pob{}
	}
	result := &prover.Poe{}
	if err := c.call(result, "verifier_prove", hexutil.Bytes(batchData), pobs); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) GenerateContext(start, end uint64) ([]*prover.Pob, error) {
	var result []*prover.Pob
	if err := c.call(&result, "verifier_generateContext", hexutil.Uint64(start), hexutil.Uint64(end)); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) CacheKey(batchData []byte, pobHash common.Hash) (verifier.CacheKey, error) {
	var result verifier.CacheKey
	err := c.call(&result, "verifier_cacheKey", hexutil.Bytes(batchData), pobHash)
	return result, err
}

func (c *Client) Status() (*types.Status, error) {
	result := &types.Status{}
	if err := c.call(result, "verifier_status"); err != nil {
		return nil, err
	}
	return result, nil
}
