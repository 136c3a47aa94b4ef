//go:build windows

// Package win32 provides the Windows backend using user32 through
// golang.org/x/sys/windows, with screen capture through robotgo.
package win32
