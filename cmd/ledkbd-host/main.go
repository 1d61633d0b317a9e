// ledkbd: a userspace driver for RGB-backlit gaming keyboards
// Copyright (C) 2026
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Command ledkbd-host runs the keyboard driver: it opens the USB
// device, registers the sample heatmap handler, optionally starts the
// local REST control surface, and runs the event loop until a signal or
// an unrecoverable USB error.
package main

import (
	"flag"
	"log"
	"time"

	"github.com/google/gousb"

	"ledkbd/examples/heatmap"
	"ledkbd/internal/driver/config"
	"ledkbd/internal/driver/host"
	"ledkbd/internal/driver/keyboard"
	"ledkbd/internal/driver/usbhal"
)

// Logitech G910 Orion Spark vendor/product id.
const (
	vendorID  = 0x046d
	productID = 0xc32b
)

var (
	enableAPI       = flag.Bool("api", true, "enable the local REST control surface")
	httpAddr        = flag.String("http-addr", "", "REST listen address (empty = from config/.env)")
	reconnectTries  = flag.Int("reconnect-attempts", 0, "reconnect attempts before giving up (0 = from config/.env)")
	reconnectMillis = flag.Int("reconnect-interval-ms", 0, "milliseconds between reconnect attempts (0 = from config/.env)")
	enableHeatmap   = flag.Bool("heatmap", true, "register the sample heatmap handler")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadDriverConfig()
	if err != nil {
		log.Fatalf("ledkbd: failed to load config: %v", err)
	}
	if *httpAddr != "" {
		cfg.HTTPAddr = *httpAddr
	}
	if *reconnectTries > 0 {
		cfg.ReconnectAttempts = *reconnectTries
	}
	if *reconnectMillis > 0 {
		cfg.ReconnectInterval = time.Duration(*reconnectMillis) * time.Millisecond
	}

	log.Printf("ledkbd: opening device %04x:%04x", vendorID, productID)
	transport, err := usbhal.Open(gousb.ID(vendorID), gousb.ID(productID))
	if err != nil {
		log.Fatalf("ledkbd: failed to open device: %v", err)
	}

	kb := keyboard.New(transport, keyboard.Config{
		ReconnectAttempts: cfg.ReconnectAttempts,
		ReconnectInterval: cfg.ReconnectInterval,
		AutoReconnect:     true,
	})

	if *enableHeatmap {
		kb.AddHandler(heatmap.New())
		log.Printf("ledkbd: heatmap handler registered")
	}

	stopSignals := kb.EnableSignalHandling()
	defer stopSignals()
	defer kb.Teardown()

	var srv *host.Server
	if *enableAPI {
		srv = host.NewServer(kb, cfg.HTTPAddr)
		go func() {
			log.Printf("ledkbd: REST control surface listening on %s", cfg.HTTPAddr)
			if err := srv.ListenAndServe(); err != nil {
				log.Printf("ledkbd: REST server error: %v", err)
			}
		}()
		defer func() {
			if err := srv.Shutdown(5 * time.Second); err != nil {
				log.Printf("ledkbd: REST server shutdown error: %v", err)
			}
		}()
	}

	log.Printf("ledkbd: entering event loop")
	if err := kb.RunLoop(); err != nil {
		kb.Teardown()
		log.Fatalf("ledkbd: event loop exited with error: %v", err)
	}
	log.Printf("ledkbd: shut down cleanly")
}
