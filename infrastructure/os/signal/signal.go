// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package signal

import (
	"os"
	"os/signal"
	"syscall"
)

// interruptSignals defines the signals that are handled to do a clean
// shutdown.
var interruptSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// InterruptListener returns a channel that will be closed when an
// interrupt signal is received, or when ShutdownRequestChannel is closed.
func InterruptListener() <-chan struct{} {
	c := make(chan struct{})
	go func() {
		interruptChannel := make(chan os.Signal, 1)
		signal.Notify(interruptChannel, interruptSignals...)

		select {
		case sig := <-interruptChannel:
			log.Infof("Received signal (%s). Shutting down...", sig)
		case <-ShutdownRequestChannel:
			log.Info("Shutdown requested. Shutting down...")
		}
		close(c)

		// Repeated signals while shutdown is in progress are reported
		// but do not interrupt the cleanup.
		for {
			select {
			case sig := <-interruptChannel:
				log.Infof("Received signal (%s). Already shutting down...", sig)
			case <-ShutdownRequestChannel:
				log.Info("Shutdown requested. Already shutting down...")
			}
		}
	}()
	return c
}

// ShutdownRequestChannel is used to initiate shutdown from one of the
// subsystems using the same code paths as when an interrupt signal is
// received.
var ShutdownRequestChannel = make(chan struct{})
