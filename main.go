// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nereidnetwork/nereidd/infrastructure/config"
	"github.com/nereidnetwork/nereidd/infrastructure/db/blockdb"
	"github.com/nereidnetwork/nereidd/infrastructure/logger"
	"github.com/nereidnetwork/nereidd/infrastructure/os/signal"
	"github.com/nereidnetwork/nereidd/version"
)

func main() {
	interrupt := signal.InterruptListener()
	defer logger.DefaultBackend().Close()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing command-line arguments: %s\n", err)
		os.Exit(1)
	}

	log.Infof("Version %s", version.Version())
	log.Infof("Active network: %s", cfg.NetParams().Name)

	db, err := blockdb.Open(filepath.Join(cfg.DataDir, "blocks"))
	if err != nil {
		log.Criticalf("Error opening block database: %+v", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Errorf("Error closing block database: %s", err)
		}
	}()

	daemon, err := newNereidd(cfg, db)
	if err != nil {
		log.Criticalf("Error initializing daemon: %+v", err)
		os.Exit(1)
	}

	daemon.start()
	defer daemon.stop()

	<-interrupt
}
