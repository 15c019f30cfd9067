package bootstrap

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"os"

	"github.com/jt828/hello-observability/pkg/apperror"
	"github.com/jt828/hello-observability/pkg/snowflake"
	snowflakeImpl "github.com/jt828/hello-observability/pkg/snowflake/implementation"
)

// InitializeSnowflake uses nodeID when it is non-negative and otherwise
// derives the node from the host name.
func InitializeSnowflake(nodeID int64) (snowflake.Snowflake, error) {
	if nodeID < 0 {
		var err error
		if nodeID, err = PodNodeID(); err != nil {
			return nil, err
		}
	}
	return snowflakeImpl.NewSnowflake(nodeID)
}

// PodNodeID hashes HOSTNAME (falling back to os.Hostname) into 0-1023.
func PodNodeID() (int64, error) {
	hostname := os.Getenv("HOSTNAME")
	if hostname == "" {
		hostname, _ = os.Hostname()
	}
	if hostname == "" {
		return 0, fmt.Errorf("hostname is not available: %w", apperror.ErrInvalidConfig)
	}
	return nodeIDFor(hostname), nil
}

func nodeIDFor(hostname string) int64 {
	h := fnv.New64a()
	h.Write([]byte(hostname))
	return int64(binary.BigEndian.Uint64(h.Sum(nil)) % 1024)
}
