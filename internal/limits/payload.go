package limits

// PayloadInspectLimit caps how many payload bytes get hashed or previewed
// when a response body is logged.
const PayloadInspectLimit = 64 * 1024
