//go:build windows

package main

import _ "github.com/mj1618/novelclick/internal/platform/win32"
