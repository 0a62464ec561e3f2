package constants

import "os"

// One period sample per NES video frame. Shared with whatever captured the dump.
const ResolutionSeconds = 1.0 / 60

const BeatsPerMeasure = 4

// Upper bound on extrapolated measures, in case the anchors are nearly on top
// of each other.
const MaxMeasures = 100000

const DefaultDynamoTable = "chiptheory-analyses"

func getenv(name, fallback string) string {
	v := os.Getenv(name)
	if v != "" {
		return v
	}
	return fallback
}

func GetDumpDir() string {
	return getenv("DUMP_PATH", "./dumps")
}

func GetStateDir() string {
	return getenv("STATE_PATH", "./out")
}

// GetStoreKind is one of "file", "memory" or "dynamo".
func GetStoreKind() string {
	return getenv("CHIPTHEORY_STORE", "file")
}

func GetDynamoEndpoint() string {
	return getenv("DYNAMO_ENDPOINT", "http://localhost:8000")
}

func GetDynamoRegion() string {
	return getenv("DYNAMO_REGION", "localhost")
}

func GetDynamoTable() string {
	return getenv("DYNAMO_TABLE", DefaultDynamoTable)
}

func GetLogLevel() string {
	return getenv("CHIPTHEORY_LOG_LEVEL", "info")
}
