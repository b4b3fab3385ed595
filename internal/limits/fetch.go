package limits

const (
	// FetchMaxBytesDefault bounds a single weather response body. Observation
	// payloads are a few KiB; the cap guards against a misbehaving endpoint.
	FetchMaxBytesDefault int64 = 1 * 1024 * 1024

	// FetchMaxBytesMax is a hard ceiling for any config override.
	FetchMaxBytesMax int64 = 16 * 1024 * 1024

	// FetchTotalMaxBytesDefault bounds in-flight response memory across all
	// stations of a dashboard cycle. The per-station budget is derived from
	// this when a layout polls many stations.
	FetchTotalMaxBytesDefault int64 = 16 * 1024 * 1024

	// FetchMinBytesPerStation keeps the derived budget large enough for a
	// complete observation document.
	FetchMinBytesPerStation int64 = 64 * 1024
)

// FetchMaxBytesPerStation returns the response byte budget for each station
// given the number of stations polled in one cycle. It enforces the global
// cap while preserving the single-station default for small layouts.
func FetchMaxBytesPerStation(activeStations int) int64 {
	if activeStations <= 0 {
		return FetchMaxBytesDefault
	}
	per := FetchTotalMaxBytesDefault / int64(activeStations)
	if per < FetchMinBytesPerStation {
		per = FetchMinBytesPerStation
	}
	if per > FetchMaxBytesDefault {
		per = FetchMaxBytesDefault
	}
	return per
}
