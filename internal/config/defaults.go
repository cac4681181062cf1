package config

import (
	"time"

	"github.com/adrg/xdg"
)

const (
	listenAddr      = ":8000"
	chunkSize       = 1024 * 1024
	stagingSuffix   = ".tmp"
	shutdownTimeout = 10 * time.Second
	userAgent       = "debridget/1.0"
)

var downloadDir = xdg.UserDirs.Download
