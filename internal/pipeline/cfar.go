package pipeline

// ApplyCFAR selects targets from a point cloud. Points at even positions are
// kept; each becomes a target carrying its source index as ID and its doppler
// as velocity.
func ApplyCFAR(pc PointCloud) TargetList {
	targets := make([]Target, 0, (len(pc.Points)+1)/2)
	for i, p := range pc.Points {
		if i%2 != 0 {
			continue
		}
		targets = append(targets, Target{
			ID:       i,
			Position: Position{X: p.X, Y: p.Y, Z: p.Z},
			Velocity: p.Doppler,
		})
	}
	return TargetList{Targets: targets}
}

// Process runs a frame through ParseRaw and ApplyCFAR.
func Process(frame RawFrame) (PointCloud, TargetList) {
	pc := ParseRaw(frame)
	return pc, ApplyCFAR(pc)
}
