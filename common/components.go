package common

const (
	// VERIFIER name to identify the batch verifier component
	VERIFIER = "verifier"
	// RPC name to identify the rpc component (implies verifier)
	RPC = "rpc"
	// CACHE name to identify the proof of execution cache
	CACHE = "cache"
	// EXECUTOR name to identify the block executor
	EXECUTOR = "executor"
)
