//go:build linux

package threadprio

import "golang.org/x/sys/unix"

// The raw getpriority syscall returns 20-nice so that the result is never
// negative; setpriority takes the nice value directly.
const priorityBias = 20

func getNice() (int, error) {
	prio, err := unix.Getpriority(unix.PRIO_PROCESS, unix.Gettid())
	if err != nil {
		return 0, err
	}
	return priorityBias - prio, nil
}

func setNice(nice int) error {
	return unix.Setpriority(unix.PRIO_PROCESS, unix.Gettid(), nice)
}
