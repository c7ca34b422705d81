package types

// Status describes a running verifier
type Status struct {
	Version string `json:"version"`
	// WithContext is true when the verifier has no execution endpoint and
	// every prove call must carry the pobs of the batch
	WithContext bool   `json:"withContext"`
	Proved      uint64 `json:"proved"`
	CacheHits   uint64 `json:"cacheHits"`
	Failed      uint64 `json:"failed"`
}
