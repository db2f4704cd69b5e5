//go:build darwin

package download

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

const quarantineAttr = "com.apple.quarantine"

// markUntrusted sets the com.apple.quarantine extended attribute so
// Gatekeeper treats the file as an untrusted download.
func markUntrusted(path, sourceURL string) error {
	// flags;epoch;agent;UUID, with a zeroed epoch to keep the value stable.
	value := "0081;00000000;snarf;"
	_ = sourceURL // the quarantine value does not carry the origin URL

	if err := unix.Setxattr(path, quarantineAttr, []byte(value), 0); err != nil {
		if errors.Is(err, unix.ENOTSUP) {
			return nil
		}
		return fmt.Errorf("setting quarantine xattr: %w", err)
	}
	return nil
}

// clearUntrusted removes any quarantine attribute, treating the file
// as locally trusted.
func clearUntrusted(path string) error {
	err := unix.Removexattr(path, quarantineAttr)
	if err == nil || errors.Is(err, unix.ENOATTR) || errors.Is(err, unix.ENOTSUP) {
		return nil
	}
	return fmt.Errorf("removing quarantine xattr: %w", err)
}
