package uid

import (
	"hash/fnv"
	"os"

	"github.com/bwmarrin/snowflake"
)

// Snowflake generates int64 ids from a node derived from the hostname.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake returns a generator bound to this host's node number.
func NewSnowflake() (*Snowflake, error) {
	node, err := snowflake.NewNode(nodeNumber())
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: node}, nil
}

// Generate returns the next id.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}

func nodeNumber() int64 {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return 1
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(host))

	// node bits default to 10
	return int64(h.Sum32() % 1024)
}
