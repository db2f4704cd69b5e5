//go:build windows

package download

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// zoneInternet is the URLZONE_INTERNET security zone identifier.
const zoneInternet = 3

// markUntrusted writes the Zone.Identifier alternate data stream,
// flagging the file as downloaded from the internet zone.
func markUntrusted(path, sourceURL string) error {
	content := fmt.Sprintf("[ZoneTransfer]\r\nZoneId=%d\r\n", zoneInternet)
	if sourceURL != "" {
		content += fmt.Sprintf("HostUrl=%s\r\n", sourceURL)
	}

	return os.WriteFile(path+":Zone.Identifier", []byte(content), 0o644)
}

// clearUntrusted removes any Zone.Identifier stream, treating the
// file as locally trusted.
func clearUntrusted(path string) error {
	err := os.Remove(path + ":Zone.Identifier")
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
