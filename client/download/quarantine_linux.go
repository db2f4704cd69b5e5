//go:build linux

package download

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// originAttr is the freedesktop.org convention for recording where a
// downloaded file came from. Linux has no trust-zone concept, so the
// origin xattr doubles as the provenance marker.
const originAttr = "user.xdg.origin.url"

func markUntrusted(path, sourceURL string) error {
	if sourceURL == "" {
		return nil
	}

	if err := unix.Setxattr(path, originAttr, []byte(sourceURL), 0); err != nil {
		// xattr support is filesystem-dependent; degrade to a no-op.
		if errors.Is(err, unix.ENOTSUP) {
			return nil
		}
		return fmt.Errorf("setting origin xattr: %w", err)
	}
	return nil
}

func clearUntrusted(path string) error {
	err := unix.Removexattr(path, originAttr)
	if err == nil || errors.Is(err, unix.ENODATA) || errors.Is(err, unix.ENOTSUP) {
		return nil
	}
	return fmt.Errorf("removing origin xattr: %w", err)
}
