package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/0xPolygon/cdk-verifier/prover"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(file, []byte(content), 0600))
	return file
}

func TestReadBatch(t *testing.T) {
	data, err := readBatch(writeFile(t, "batch.hex", "0x0001ff\n"))
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x01, 0xff}, data)

	data, err = readBatch(writeFile(t, "batch.hex", "0001ff"))
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x01, 0xff}, data)

	_, err = readBatch(writeFile(t, "batch.hex", "0xzz"))
	require.ErrorContains(t, err, "error decoding batch file")

	_, err = readBatch(writeFile(t, "batch.hex", "0x001"))
	require.ErrorIs(t, err, hexutil.ErrOddLength)

	_, err = readBatch(filepath.Join(t.TempDir(), "none.hex"))
	require.ErrorContains(t, err, "error reading batch file")
}

func TestReadPobs(t *testing.T) {
	expected := []*prover.Pob{{
		Block: prover.Block{Number: 7, Transactions: []hexutil.Bytes{{0x01}}},
		Data:  prover.PobData{ChainID: 534352, PrevStateRoot: common.HexToHash("0x01")},
	}}
	raw, err := json.Marshal(expected)
	require.NoError(t, err)

	pobs, err := readPobs(writeFile(t, "pobs.json", string(raw)))
	require.NoError(t, err)
	require.Equal(t, prover.HashList(expected), prover.HashList(pobs))

	_, err = readPobs(writeFile(t, "pobs.json", "{"))
	require.ErrorContains(t, err, "error decoding pobs file")
}

func TestWriteJSON(t *testing.T) {
	file := filepath.Join(t.TempDir(), "poe.json")
	poe := &prover.Poe{BatchHash: common.HexToHash("0x05")}
	require.NoError(t, writeJSON(file, poe))

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	decoded := &prover.Poe{}
	require.NoError(t, json.Unmarshal(content, decoded))
	require.Equal(t, poe, decoded)
}
