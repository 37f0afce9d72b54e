package autotax

import (
	"encoding/json"
	"fmt"
	"os"
)

// IPAddressMap maps FxA user ids to the last known IP address of the user.
type IPAddressMap map[string]string

// LoadIPAddressMap reads a JSON object of uid to IP address. An empty path
// yields an empty map.
func LoadIPAddressMap(path string) (IPAddressMap, error) {
	if path == "" {
		return IPAddressMap{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ip address map %s: %w", path, err)
	}

	ipAddressMap := IPAddressMap{}
	if err := json.Unmarshal(data, &ipAddressMap); err != nil {
		return nil, fmt.Errorf("parse ip address map %s: %w", path, err)
	}
	return ipAddressMap, nil
}

// Lookup returns the IP address for uid, or "" when unknown.
func (m IPAddressMap) Lookup(uid string) string {
	if uid == "" {
		return ""
	}
	return m[uid]
}
