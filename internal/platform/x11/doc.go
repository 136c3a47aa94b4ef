//go:build linux

// Package x11 provides the Linux backend on top of the X11 protocol
// (EWMH client list, XTEST input and core GetImage capture).
package x11
