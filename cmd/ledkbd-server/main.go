// ledkbd: a userspace driver for RGB-backlit gaming keyboards
// Copyright (C) 2026
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Command ledkbd-server is the lean, always-on counterpart to
// ledkbd-host: no example handlers, no CLI flag surface beyond config
// overrides, just the device, the REST control plane, and the event
// loop, meant to run as a background service.
package main

import (
	"flag"
	"log"
	"time"

	"github.com/google/gousb"

	"ledkbd/internal/driver/config"
	"ledkbd/internal/driver/host"
	"ledkbd/internal/driver/keyboard"
	"ledkbd/internal/driver/usbhal"
)

const (
	vendorID  = 0x046d
	productID = 0xc32b
)

var httpAddr = flag.String("http-addr", "", "REST listen address (empty = from config/.env)")

func main() {
	flag.Parse()

	cfg, err := config.LoadDriverConfig()
	if err != nil {
		log.Fatalf("ledkbd-server: failed to load config: %v", err)
	}
	if *httpAddr != "" {
		cfg.HTTPAddr = *httpAddr
	}

	transport, err := usbhal.Open(gousb.ID(vendorID), gousb.ID(productID))
	if err != nil {
		log.Fatalf("ledkbd-server: failed to open device: %v", err)
	}

	kb := keyboard.New(transport, keyboard.Config{
		ReconnectAttempts: cfg.ReconnectAttempts,
		ReconnectInterval: cfg.ReconnectInterval,
		AutoReconnect:     true,
	})

	stopSignals := kb.EnableSignalHandling()
	defer stopSignals()
	defer kb.Teardown()

	srv := host.NewServer(kb, cfg.HTTPAddr)
	go func() {
		log.Printf("ledkbd-server: REST control surface listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil {
			log.Printf("ledkbd-server: REST server error: %v", err)
		}
	}()
	defer func() {
		if err := srv.Shutdown(5 * time.Second); err != nil {
			log.Printf("ledkbd-server: REST server shutdown error: %v", err)
		}
	}()

	if err := kb.RunLoop(); err != nil {
		kb.Teardown()
		log.Fatalf("ledkbd-server: event loop exited with error: %v", err)
	}
	log.Printf("ledkbd-server: shut down cleanly")
}
