package constant

import "time"

const (
	HTTPReadTimeout  = 30 * time.Second
	HTTPWriteTimeout = 30 * time.Second
	HTTPIdleTimeout  = 120 * time.Second
	StopTimeout      = 5 * time.Second
	FatalStopTimeout = 10 * time.Second
)
