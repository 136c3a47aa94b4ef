//go:build linux

package main

import _ "github.com/mj1618/novelclick/internal/platform/x11"
