package radar

import (
	"fmt"
)

// CommandFunc delivers one configuration command to the device and reports
// whether it was accepted.
type CommandFunc func(cmd string) error

// Store holds the configuration committed to the device. A Set call either
// commits completely or leaves the previous contents untouched. Store does
// no locking; the Controller serialises access.
type Store struct {
	profile *ProfileConfig
	chirps  []ChirpConfig
	frame   *FrameConfig
}

func NewStore() *Store {
	return &Store{}
}

// Profile returns the committed profile.
func (s *Store) Profile() (ProfileConfig, bool) {
	if s.profile == nil {
		return ProfileConfig{}, false
	}
	return *s.profile, true
}

// Chirps returns a copy of the committed chirp set.
func (s *Store) Chirps() []ChirpConfig {
	out := make([]ChirpConfig, len(s.chirps))
	copy(out, s.chirps)
	return out
}

// Frame returns the committed frame.
func (s *Store) Frame() (FrameConfig, bool) {
	if s.frame == nil {
		return FrameConfig{}, false
	}
	return *s.frame, true
}

// ChirpIndexRange returns the lowest start index and highest end index of the
// committed chirps. ok is false when no chirps are committed.
func (s *Store) ChirpIndexRange() (lo, hi int, ok bool) {
	if len(s.chirps) == 0 {
		return 0, 0, false
	}
	lo, hi = s.chirps[0].StartIdx, s.chirps[0].EndIdx
	for _, c := range s.chirps[1:] {
		lo = min(lo, c.StartIdx)
		hi = max(hi, c.EndIdx)
	}
	return lo, hi, true
}

// SetProfile validates p, sends it and commits it if the device accepts it.
// Chirps and frame committed against an earlier profile are dropped.
func (s *Store) SetProfile(p ProfileConfig, send CommandFunc) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := send(p.CommandString()); err != nil {
		return fmt.Errorf("profile %d: %w", p.ProfileID, err)
	}
	s.profile = &p
	s.chirps = nil
	s.frame = nil
	return nil
}

// SetChirps validates and sends each chirp in order, stopping at the first
// invalid or rejected entry. The set is committed only if every entry was
// accepted; a committed frame is then dropped.
func (s *Store) SetChirps(chirps []ChirpConfig, send CommandFunc) error {
	if s.profile == nil {
		return fmt.Errorf("%w: a profile must be configured before chirps", ErrSequence)
	}
	if len(chirps) == 0 {
		return fmt.Errorf("%w: chirp set is empty", ErrValidation)
	}

	accepted := make([]ChirpConfig, 0, len(chirps))
	for _, c := range chirps {
		if err := c.Validate(); err != nil {
			return err
		}
		if c.ProfileID != s.profile.ProfileID {
			return fmt.Errorf("%w: chirp %d references profile %d, configured profile is %d",
				ErrValidation, c.ChirpID, c.ProfileID, s.profile.ProfileID)
		}
		if err := send(c.CommandString()); err != nil {
			return fmt.Errorf("chirp %d: %w", c.ChirpID, err)
		}
		accepted = append(accepted, c)
	}

	s.chirps = accepted
	s.frame = nil
	return nil
}

// SetFrame checks f against the committed chirp index range before sending
// it, and commits it if the device accepts it.
func (s *Store) SetFrame(f FrameConfig, send CommandFunc) error {
	lo, hi, ok := s.ChirpIndexRange()
	if !ok {
		return fmt.Errorf("%w: chirps must be configured before the frame", ErrSequence)
	}
	if err := f.Validate(); err != nil {
		return err
	}
	if max(f.ChirpStartIdx, f.ChirpEndIdx) > hi || f.ChirpStartIdx < lo {
		return fmt.Errorf("%w: frame %d chirp indices %d-%d outside configured chirps %d-%d",
			ErrValidation, f.FrameID, f.ChirpStartIdx, f.ChirpEndIdx, lo, hi)
	}
	if err := send(f.CommandString()); err != nil {
		return fmt.Errorf("frame %d: %w", f.FrameID, err)
	}
	s.frame = &f
	return nil
}

// Reset forgets all committed configuration.
func (s *Store) Reset() {
	s.profile = nil
	s.chirps = nil
	s.frame = nil
}
