// ledkbd: a userspace driver for RGB-backlit gaming keyboards
// Copyright (C) 2026
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Command ledkbd-tui is a live terminal dashboard: it opens the device,
// runs the driver's event loop in the background, and renders a
// press-count heatmap of every Standard key alongside host CPU/memory
// footer stats.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/google/gousb"

	"ledkbd/internal/driver/config"
	"ledkbd/internal/driver/keyboard"
	"ledkbd/internal/driver/usbhal"
)

const (
	vendorID  = 0x046d
	productID = 0xc32b
)

func main() {
	flag.Parse()

	cfg, err := config.LoadDriverConfig()
	if err != nil {
		log.Fatalf("ledkbd-tui: failed to load config: %v", err)
	}

	transport, err := usbhal.Open(gousb.ID(vendorID), gousb.ID(productID))
	if err != nil {
		log.Fatalf("ledkbd-tui: failed to open device: %v", err)
	}

	kb := keyboard.New(transport, keyboard.Config{
		ReconnectAttempts: cfg.ReconnectAttempts,
		ReconnectInterval: cfg.ReconnectInterval,
		AutoReconnect:     true,
	})
	defer kb.Teardown()

	events := make(chan keyEventMsg, 64)
	kb.AddHandler(newBridgeHandler(events))

	go func() {
		if err := kb.RunLoop(); err != nil {
			log.Printf("ledkbd-tui: event loop exited: %v", err)
		}
	}()

	if err := runProgram(events); err != nil {
		fmt.Println("ledkbd-tui:", err)
	}
}
