package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/0xPolygon/cdk-verifier/config"
	"github.com/0xPolygon/cdk-verifier/log"
	"github.com/0xPolygon/cdk-verifier/prover"
	"github.com/0xPolygon/cdk-verifier/stackerr"
	"github.com/0xPolygon/cdk-verifier/verifier"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/urfave/cli/v2"
)

func proveCmd(cliCtx *cli.Context) error {
	v, batchData, err := newOneShotVerifier(cliCtx)
	if err != nil {
		return err
	}
	defer v.Close()

	pobs, err := loadPobs(cliCtx.Context, v, batchData, cliCtx.String(config.FlagPobs))
	if err != nil {
		return err
	}
	poe, err := v.Prove(cliCtx.Context, pobs, batchData)
	if err != nil {
		log.Error(stackerr.Trace(err))
		return err
	}
	return writeJSON(cliCtx.String(config.FlagOutputFile), poe)
}

func cacheKeyCmd(cliCtx *cli.Context) error {
	v, batchData, err := newOneShotVerifier(cliCtx)
	if err != nil {
		return err
	}
	defer v.Close()

	pobs, err := loadPobs(cliCtx.Context, v, batchData, cliCtx.String(config.FlagPobs))
	if err != nil {
		return err
	}
	key, err := v.CacheKey(batchData, prover.HashList(pobs))
	if err != nil {
		return err
	}
	return writeJSON(cliCtx.String(config.FlagOutputFile), key)
}

func newOneShotVerifier(cliCtx *cli.Context) (*verifier.BatchVerifier, []byte, error) {
	c, err := config.Load(cliCtx)
	if err != nil {
		return nil, nil, err
	}
	log.Init(c.Log)

	batchData, err := readBatch(cliCtx.String(config.FlagBatch))
	if err != nil {
		return nil, nil, err
	}
	v, err := verifier.New(cliCtx.Context, c.Verifier)
	if err != nil {
		return nil, nil, err
	}
	return v, batchData, nil
}

// loadPobs reads the pobs from file, or generates the ones of the batch blocks when file is empty
func loadPobs(ctx context.Context, v *verifier.BatchVerifier, batchData []byte, file string) ([]*prover.Pob, error) {
	if file != "" {
		return readPobs(file)
	}
	key, err := v.CacheKey(batchData, common.Hash{})
	if err != nil {
		return nil, err
	}
	log.Infof("generating the pobs of blocks %d..%d", key.StartBlock, key.EndBlock)
	return v.GenerateContext(ctx, key.StartBlock, key.EndBlock)
}

// readBatch decodes the hex calldata held in file, with or without 0x prefix
func readBatch(file string) ([]byte, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("error reading batch file: %s. Err: %w", file, err)
	}
	hexData := strings.TrimSpace(string(content))
	if !strings.HasPrefix(hexData, "0x") && !strings.HasPrefix(hexData, "0X") {
		hexData = "0x" + hexData
	}
	batchData, err := hexutil.Decode(hexData)
	if err != nil {
		return nil, fmt.Errorf("error decoding batch file: %s. Err: %w", file, err)
	}
	return batchData, nil
}

func readPobs(file string) ([]*prover.Pob, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("error reading pobs file: %s. Err: %w", file, err)
	}
	var pobs []*prover.Pob
	if err := json.Unmarshal(content, &pobs); err != nil {
		return nil, fmt.Errorf("error decoding pobs file: %s. Err: %w", file, err)
	}
	return pobs, nil
}

func writeJSON(file string, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	out = append(out, '\n')
	if file == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	return os.WriteFile(file, out, config.DefaultCreationFilePermissions)
}
