//go:build !windows && !darwin && !linux

package download

// Provenance marking has no meaning on this platform.

func markUntrusted(path, sourceURL string) error { return nil }

func clearUntrusted(path string) error { return nil }
