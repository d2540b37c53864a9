package blockvalidator

import (
	"github.com/nereidnetwork/nereidd/infrastructure/logger"
)

var log = logger.RegisterSubSystem("BVAL")
