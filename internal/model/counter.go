package model

// InitialShards is the shard count of a counter that was never resized.
const InitialShards = 5

// Counter is the configuration row of a sharded counter.
type Counter struct {
	Name       string `json:"name"`
	ShardCount int    `json:"shard_count"`
}
