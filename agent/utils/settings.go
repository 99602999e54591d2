/*
Package utils holds the wallet's process wide runtime settings and helpers.
The CLI sets the settings once at startup before anything else runs.
*/
package utils

import (
	"time"
)

// Defaults of the runtime settings.
const (
	HTTPReqTimeout         = 1 * time.Minute
	DefaultPollInterval    = 2 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

var Settings = &Hub{}

type Hub struct {
	versionInfo string        // Version number etc. in free format as a string
	timeout     time.Duration // timeout setting for http requests and sidecar calls

	pollInterval    time.Duration // publication status poll interval
	publishTimeout  time.Duration // max wait of the issuer DID publication, 0 = no limit
	shutdownTimeout time.Duration // max wait of the teardown and pending sends

	enclaveBackupTime string // daily enclave backup time HH:MM[:SS]
}

// SetVersionInfo sets current version info of this wallet. The info is shown
// by the version command and the control API.
func (h *Hub) SetVersionInfo(info string) {
	h.versionInfo = info
}

func (h *Hub) VersionInfo() string {
	if h.versionInfo == "" {
		return Version
	}
	return h.versionInfo
}

// SetTimeout sets the default timeout for HTTP and websocket requests.
func (h *Hub) SetTimeout(to time.Duration) {
	h.timeout = to
}

func (h *Hub) Timeout() time.Duration {
	if h.timeout == 0 {
		return HTTPReqTimeout
	}
	return h.timeout
}

func (h *Hub) SetPollInterval(d time.Duration) {
	h.pollInterval = d
}

func (h *Hub) PollInterval() time.Duration {
	if h.pollInterval == 0 {
		return DefaultPollInterval
	}
	return h.pollInterval
}

func (h *Hub) SetPublishTimeout(d time.Duration) {
	h.publishTimeout = d
}

func (h *Hub) PublishTimeout() time.Duration {
	return h.publishTimeout
}

func (h *Hub) SetShutdownTimeout(d time.Duration) {
	h.shutdownTimeout = d
}

func (h *Hub) ShutdownTimeout() time.Duration {
	if h.shutdownTimeout == 0 {
		return DefaultShutdownTimeout
	}
	return h.shutdownTimeout
}

func (h *Hub) SetEnclaveBackupTime(t string) {
	h.enclaveBackupTime = t
}

func (h *Hub) EnclaveBackupTime() string {
	return h.enclaveBackupTime
}
