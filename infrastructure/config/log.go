package config

import (
	"github.com/nereidnetwork/nereidd/infrastructure/logger"
)

var log = logger.RegisterSubSystem("CNFG")
