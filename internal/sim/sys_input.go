package sim

import (
	"time"

	"github.com/shmup/server/internal/component"
	coresys "github.com/shmup/server/internal/core/system"
)

// applyInputSystem drains the per-player queued InputState into the ECS
// component (spec.md §4.2 step 1). Client-side too, for prediction.
type applyInputSystem struct{ k *Kernel }

func newApplyInputSystem(k *Kernel) *applyInputSystem { return &applyInputSystem{k} }

func (s *applyInputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *applyInputSystem) Update(time.Duration) {
	w := s.k.World
	for playerID, in := range s.k.inputs {
		e, ok := w.PlayerByID[playerID]
		if !ok {
			continue
		}
		st, ok := w.Inputs.Get(e)
		if !ok {
			continue
		}
		st.Left, st.Right, st.Up, st.Down = in.state.Left, in.state.Right, in.state.Up, in.state.Down
		st.Fire = component.FireMode(in.state.Fire)
	}
	for id := range s.k.inputs {
		delete(s.k.inputs, id)
	}
}
