package transport

import "time"

// RunRetransmitSweeper runs SweepRetransmits on a 100ms ticker until stopCh
// is closed (spec.md §4.4: "every ≤ 100 ms"). Intended to run in its own
// goroutine alongside the game-tick thread.
func (s *Server) RunRetransmitSweeper(stopCh <-chan struct{}) {
	ticker := time.NewTicker(retransmitInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.SweepRetransmits()
		case <-stopCh:
			return
		}
	}
}
