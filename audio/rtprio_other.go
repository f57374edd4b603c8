//go:build !linux

package audio

import "errors"

func setRealtimePriority() error {
	return errors.New("realtime scheduling not supported on this platform")
}
