package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/banshee-data/mmwave/internal/config"
	"github.com/banshee-data/mmwave/internal/pipeline"
	"github.com/banshee-data/mmwave/internal/radar"
	"github.com/banshee-data/mmwave/internal/units"
)

// frameResult is the detection output for one captured frame.
type frameResult struct {
	Seq     uint64
	Cloud   pipeline.PointCloud
	Targets pipeline.TargetList
}

// runSession powers the sensor on, programs the waveform from cfg, captures
// frames and runs each through the detection pipeline. The sensor is always
// powered off before returning. A failed calibration is logged and the
// session continues uncalibrated.
func runSession(ctx context.Context, ctrl *radar.Controller, cfg *config.DeviceConfig, frames int, speedUnit string) (results []frameResult, err error) {
	if err := ctrl.PowerOn(); err != nil {
		return nil, err
	}
	defer func() {
		if offErr := ctrl.PowerOff(); offErr != nil {
			err = errors.Join(err, fmt.Errorf("power off: %w", offErr))
		}
	}()

	if err := ctrl.Initialize(); err != nil {
		return nil, err
	}
	if err := ctrl.ConfigureProfile(cfg.GetProfile()); err != nil {
		return nil, err
	}
	if err := ctrl.ConfigureChirps(cfg.GetChirps()); err != nil {
		return nil, err
	}
	if err := ctrl.ConfigureFrame(cfg.GetFrame()); err != nil {
		return nil, err
	}
	if err := ctrl.Calibrate(); err != nil {
		log.Printf("continuing without calibration: %v", err)
	}

	if frames == 0 {
		return nil, nil
	}
	if err := ctrl.StartCapture(); err != nil {
		return nil, err
	}
	for len(results) < frames {
		if ctx.Err() != nil {
			log.Printf("capture interrupted after %d frames", len(results))
			break
		}
		raw, err := ctrl.ReadData()
		if err != nil {
			return results, err
		}
		cloud, targets := pipeline.Process(raw)
		s := pipeline.Summarize(targets)
		log.Printf("frame %d: %d bytes, %d points, %d targets, velocity %.3f±%.3f %s, range %.2f..%.2f m",
			raw.Seq, raw.Len(), len(cloud.Points), s.Count,
			units.ConvertSpeed(s.MeanVelocity, speedUnit), units.ConvertSpeed(s.StdVelocity, speedUnit), units.Symbol(speedUnit),
			s.MinRange, s.MaxRange)
		results = append(results, frameResult{Seq: raw.Seq, Cloud: cloud, Targets: targets})
	}
	if err := ctrl.StopCapture(); err != nil {
		return results, err
	}
	return results, nil
}
