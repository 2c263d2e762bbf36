package player

// Status is a consistent snapshot of the player's observable state.
type Status struct {
	Current        int    `json:"current"`
	Target         int    `json:"target"`
	Previous       int    `json:"previous"`
	Next           int    `json:"next"`
	FrameName      string `json:"frame_name"`
	Playing        bool   `json:"playing"`
	WaitingTimeout bool   `json:"waiting_timeout"`
	Animating      bool   `json:"animating"`
	Blanked        bool   `json:"blanked"`
}

// Status returns a snapshot of the player's state.
func (p *Player) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Status{
		Current:        p.current,
		Target:         p.target,
		Previous:       p.previousIndexLocked(),
		Next:           p.nextIndexLocked(),
		FrameName:      p.pres.Frame(p.current).Name,
		Playing:        p.playing,
		WaitingTimeout: p.waitingTimeout,
		Animating:      len(p.transitions) > 0,
		Blanked:        p.vp.Blank(),
	}
}

// CurrentIndex returns the index of the frame currently shown (or being
// left, while a transition is in flight).
func (p *Player) CurrentIndex() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// TargetIndex returns the index the player is at or moving toward.
func (p *Player) TargetIndex() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.target
}

// NextIndex returns the display-adjacent next index, chaining off the
// in-flight target while animating.
func (p *Player) NextIndex() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.nextIndexLocked()
}

// PreviousIndex returns the display-adjacent previous index.
func (p *Player) PreviousIndex() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.previousIndexLocked()
}

// Playing reports whether playback is active.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}
