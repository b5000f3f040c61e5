package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/banshee-data/mmwave/internal/config"
	"github.com/banshee-data/mmwave/internal/monitoring"
	"github.com/banshee-data/mmwave/internal/radar"
	"github.com/banshee-data/mmwave/internal/transport"
	"github.com/banshee-data/mmwave/internal/units"
	"github.com/banshee-data/mmwave/internal/version"
)

var (
	simMode     = flag.Bool("sim", false, "Use a simulated sensor instead of serial ports")
	configFile  = flag.String("config", "", "Device config file (.json, .yaml or .yml)")
	commandPort = flag.String("cmd-port", "", "Command UART (overrides config)")
	dataPort    = flag.String("data-port", "", "Data UART (overrides config)")
	frameCount  = flag.Int("frames", -1, "Frames to capture (default from config, 3 if unset)")
	plotFile    = flag.String("plot", "", "Write a PNG scatter of detected targets to this path")
	logFile     = flag.String("log-file", "", "Write logs to a rotating file instead of stderr")
	speedUnits  = flag.String("units", units.MPS, "Velocity units for frame summaries (mps, mph, kmph, kph)")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("radar"))
		return
	}

	if *logFile != "" {
		w := monitoring.LogToFile(*logFile)
		defer w.Close()
	}

	speedUnit, err := units.ParseSpeedUnit(*speedUnits)
	if err != nil {
		log.Fatalf("invalid -units: %v", err)
	}

	cfg := config.EmptyDeviceConfig()
	if *configFile != "" {
		cfg, err = config.LoadDeviceConfig(*configFile)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}
	if *commandPort != "" {
		cfg.CommandPort = commandPort
	}
	if *dataPort != "" {
		cfg.DataPort = dataPort
	}
	frames := cfg.GetFrames()
	if *frameCount >= 0 {
		frames = *frameCount
	}

	var connector transport.Connector = cfg.SerialConnector()
	if *simMode {
		log.Printf("using simulated sensor")
		connector = transport.NewSimDevice()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctrl := radar.NewController(connector, cfg.ControllerOptions())
	results, err := runSession(ctx, ctrl, cfg, frames, speedUnit)
	if err != nil {
		log.Fatalf("radar session failed: %v", err)
	}

	if *plotFile != "" {
		if err := plotTargets(results, *plotFile); err != nil {
			log.Fatalf("failed to write plot: %v", err)
		}
		log.Printf("wrote target plot to %s", *plotFile)
	}
}
