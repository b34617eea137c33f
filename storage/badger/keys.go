package badger

import (
	"fmt"
	"strings"
)

// Key prefixes for different data types
const (
	qaRecordPrefix = "qarec"
)

// makeQARecordKey generates a key for a Q&A record by ID.
// Format: prefix:id
func makeQARecordKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", qaRecordPrefix, id))
}

// makeQARecordScanPrefix returns the prefix shared by all Q&A record keys.
func makeQARecordScanPrefix() []byte {
	return []byte(qaRecordPrefix + ":")
}

// idFromQARecordKey extracts the record ID from a Q&A record key.
func idFromQARecordKey(key []byte) string {
	return strings.TrimPrefix(string(key), qaRecordPrefix+":")
}
