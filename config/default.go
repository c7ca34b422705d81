package config

// DefaultVars are the vars used to avoid repetition in config-files.
// They can be overridden by the config-files or by CDK_VERIFIER_<var> env vars.
const DefaultVars = `
# ExecutionURL is the endpoint serving the block traces.
# Empty means every prove request must carry the pobs of the batch
ExecutionURL = ""
# PathRWData is the directory of the files written by the verifier
PathRWData = "/tmp/cdk-verifier"
`

// DefaultValues is the default configuration
const DefaultValues = `
# This is the default configuration for the cdk-verifier

# Log configuration
[Log]
  # Environment is the environment where the node is running
  Environment = "development" # "production" or "development"
  # Level is the log level
  Level = "info"
  # Outputs are the outputs where the logs will be written
  Outputs = ["stderr"]

[Verifier]
  # ExecutionURL is the JSON-RPC endpoint the block traces are fetched from
  ExecutionURL = "{{ExecutionURL}}"
  # CallTimeout bounds every call to the execution endpoint
  CallTimeout = "30s"
  # TraceMethod is the method returning the trace of a block by number
  TraceMethod = "scroll_getBlockTraceByNumberOrHash"
  # Workers is the number of blocks fetched or replayed concurrently
  Workers = 4
  # MaxBlockRange is the largest block range served by one GenerateContext call, 0 is the largest batch
  MaxBlockRange = 0
  # MessageQueueAddress is the contract holding the withdrawal root
  MessageQueueAddress = "0x5300000000000000000000000000000000000000"

[Cache]
  # DBPath is the path of the database. Empty keeps the Poe in memory only
  DBPath = "{{PathRWData}}/poe_cache.sqlite"
  # Size is the number of Poe kept in memory
  Size = 1024

[RPC]
  # Host defines the network adapter that will be used to serve the HTTP requests
  Host = "0.0.0.0"
  # Port defines the port to serve the endpoints via HTTP
  Port = 5576
  # ReadTimeout is the HTTP server read timeout
  # check net/http.server.ReadTimeout and net/http.server.ReadHeaderTimeout
  ReadTimeout = "30s"
  # WriteTimeout is the HTTP server write timeout, it also bounds every prove request
  # check net/http.server.WriteTimeout
  WriteTimeout = "5m"
  # MaxRequestsPerIPAndSecond defines how much requests a single IP can
  # send within a single second
  MaxRequestsPerIPAndSecond = 10
`
