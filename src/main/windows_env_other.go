//go:build !windows

package main

import (
	"log"

	"screen-annotator/src/screenshot"
)

func enableDPIAwareness() {}

func logMonitorConfiguration() {
	virtual, err := screenshot.VirtualBounds()
	if err != nil {
		log.Printf("MONITOR: %v", err)
		return
	}
	primary, _ := screenshot.PrimaryBounds()
	log.Printf("MONITOR: virtual screen %v, primary %v", virtual, primary)
}
