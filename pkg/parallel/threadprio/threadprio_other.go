//go:build !linux

package threadprio

import "errors"

func getNice() (int, error) {
	return 0, errors.ErrUnsupported
}

func setNice(int) error {
	return errors.ErrUnsupported
}
