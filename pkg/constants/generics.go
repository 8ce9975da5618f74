package constants

import "time"

const (
	DefaultAppPort             = "8080"
	DefaultRequestTimeout      = 30 * time.Second
	DefaultMaxRequestBodyBytes = int64(1 << 20)
	DefaultHSTSMaxAgeSeconds   = int64(31536000)
	DefaultProductName         = "Muscle AI"
)
