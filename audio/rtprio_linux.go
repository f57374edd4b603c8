//go:build linux

package audio

import "golang.org/x/sys/unix"

// setRealtimePriority puts the calling thread in a realtime scheduling
// class. The audio thread must be locked to its OS thread first.
func setRealtimePriority() error {
	attr := unix.SchedAttr{
		Size:     unix.SizeofSchedAttr,
		Policy:   unix.SCHED_FIFO,
		Priority: 80,
	}
	if err := unix.SchedSetAttr(0, &attr, 0); err == nil {
		return nil
	}
	attr.Policy = unix.SCHED_RR
	return unix.SchedSetAttr(0, &attr, 0)
}
