//go:build windows

package main

import (
	"log"

	"golang.org/x/sys/windows"
)

var (
	shcore                     = windows.NewLazySystemDLL("Shcore.dll")
	user32                     = windows.NewLazySystemDLL("user32.dll")
	procSetProcessDpiAwareness = shcore.NewProc("SetProcessDpiAwareness")
	procSetProcessDPIAware     = user32.NewProc("SetProcessDPIAware")
	procGetSystemMetrics       = user32.NewProc("GetSystemMetrics")
)

// enableDPIAwareness makes the process per-monitor DPI aware so the overlay maps one
// window pixel to one screen pixel.
func enableDPIAwareness() {
	const processPerMonitorDPIAware = 2
	if err := procSetProcessDpiAwareness.Find(); err == nil {
		ret, _, _ := procSetProcessDpiAwareness.Call(uintptr(processPerMonitorDPIAware))
		if ret == 0 {
			log.Printf("DPI: per-monitor awareness set")
		} else {
			log.Printf("DPI: SetProcessDpiAwareness failed, code %d", ret)
		}
		return
	}

	log.Printf("DPI: Shcore.SetProcessDpiAwareness not available, trying fallback")
	if err := procSetProcessDPIAware.Find(); err != nil {
		log.Printf("DPI: SetProcessDPIAware not available, no DPI awareness set")
		return
	}
	if ret, _, _ := procSetProcessDPIAware.Call(); ret != 0 {
		log.Printf("DPI: system awareness set (fallback)")
	} else {
		log.Printf("DPI: SetProcessDPIAware failed")
	}
}

func logMonitorConfiguration() {
	const (
		smCXScreen        = 0
		smCYScreen        = 1
		smXVirtualScreen  = 76
		smYVirtualScreen  = 77
		smCXVirtualScreen = 78
		smCYVirtualScreen = 79
		smCMonitors       = 80
	)
	metric := func(i int) int32 {
		ret, _, _ := procGetSystemMetrics.Call(uintptr(i))
		return int32(ret)
	}
	log.Printf("MONITOR: %d monitors", metric(smCMonitors))
	log.Printf("MONITOR: virtual screen x:%d y:%d w:%d h:%d",
		metric(smXVirtualScreen), metric(smYVirtualScreen), metric(smCXVirtualScreen), metric(smCYVirtualScreen))
	log.Printf("MONITOR: primary screen w:%d h:%d", metric(smCXScreen), metric(smCYScreen))
}
