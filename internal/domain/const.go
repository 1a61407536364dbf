package domain

const (
	// Blockchain constants
	ETHEREUM_ZERO_ADDRESS = "0x0000000000000000000000000000000000000000"

	// API status value used by the indexer and the cache backend for successful responses
	API_STATUS_OK = "1"

	// DEFAULT_PART_PERCENTAGE is the part-1 share used when a source does not report one
	DEFAULT_PART_PERCENTAGE = "0.33"
)
