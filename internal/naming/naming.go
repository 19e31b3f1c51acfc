// Package naming provides the naming conventions vbdctl relies on:
// partition-name patterns, privileged helper locations and device paths.
package naming

import (
	"path/filepath"
	"strconv"
	"strings"
)

// Placeholder is the character in a partition pattern that is replaced by
// a domain id (or an explicit substitution value).
const Placeholder = "+"

// Helper executable names, relative to the configured tools directory.
const (
	HelperPhysGrant  = "xi_phys_grant"
	HelperPhysRevoke = "xi_phys_revoke"
	HelperUtil       = "xi_helper"
)

// HasPlaceholder reports whether pattern contains the placeholder.
func HasPlaceholder(pattern string) bool {
	return strings.Contains(pattern, Placeholder)
}

// Resolve substitutes the decimal form of subst for the first placeholder
// in pattern. Patterns without a placeholder are returned unchanged. Only
// the first occurrence is replaced.
//
// Example: Resolve("disk+", 7) → "disk7"
func Resolve(pattern string, subst int) string {
	return strings.Replace(pattern, Placeholder, strconv.Itoa(subst), 1)
}

// HelperPath returns the full path of a privileged helper.
// An empty toolsDir leaves the name to be found through PATH.
func HelperPath(toolsDir, name string) string {
	if toolsDir == "" {
		return name
	}
	return filepath.Join(toolsDir, name)
}

// DevicePath returns the host block device path for a partition name.
// Names that are already absolute are returned as is.
//
// Example: DevicePath("sda7") → "/dev/sda7"
func DevicePath(partition string) string {
	if strings.HasPrefix(partition, "/") {
		return partition
	}
	return "/dev/" + partition
}

// TargetDevice returns the guest device name for a VBD number: 0 is xvda,
// 25 is xvdz, 26 is xvdaa.
func TargetDevice(number int) string {
	if number < 0 {
		return ""
	}
	var suffix []byte
	for n := number; ; n = n/26 - 1 {
		suffix = append([]byte{byte('a' + n%26)}, suffix...)
		if n < 26 {
			break
		}
	}
	return "xvd" + string(suffix)
}
