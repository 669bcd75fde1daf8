// Package systemd reports daemon lifecycle to the service manager.
package systemd

import "github.com/coreos/go-systemd/v22/daemon"

// NotifyReady signals that startup has finished. Returns false when the
// process is not supervised by systemd.
func NotifyReady() (bool, error) {
	return daemon.SdNotify(false, daemon.SdNotifyReady)
}

// NotifyStopping signals that shutdown has begun.
func NotifyStopping() (bool, error) {
	return daemon.SdNotify(false, daemon.SdNotifyStopping)
}
