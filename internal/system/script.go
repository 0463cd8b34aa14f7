package system

import (
	"fmt"
	"time"

	"github.com/l1jgo/chimera/internal/core/sched"
	"github.com/l1jgo/chimera/internal/scripting"
)

// ScriptTickable runs one lua script's tick(dt) on the Standard phase. A lua
// error panics out of Tick, which the scheduler contains as a callback fault,
// so one broken script cannot stall its siblings.
type ScriptTickable struct {
	eng     *scripting.Engine
	script  *scripting.Script
	enabled bool
}

func NewScriptTickable(eng *scripting.Engine, script *scripting.Script) *ScriptTickable {
	return &ScriptTickable{eng: eng, script: script, enabled: true}
}

func (s *ScriptTickable) Priority() int     { return s.script.Priority() }
func (s *ScriptTickable) Enabled() bool     { return s.enabled }
func (s *ScriptTickable) SetEnabled(v bool) { s.enabled = v }
func (s *ScriptTickable) OnRegistered()     {}
func (s *ScriptTickable) OnUnregistered()   {}

func (s *ScriptTickable) Tick(dt time.Duration) {
	if err := s.eng.Call(s.script, dt); err != nil {
		panic(fmt.Sprintf("lua: %v", err))
	}
}

// RegisterScripts wraps every loaded script as a tickable and queues it with
// the orchestrator. Returns the wrappers so the caller can unregister them.
func RegisterScripts(orch *sched.Orchestrator, eng *scripting.Engine) []*ScriptTickable {
	var out []*ScriptTickable
	for _, sc := range eng.Scripts() {
		t := NewScriptTickable(eng, sc)
		orch.RegisterStandard(t)
		out = append(out, t)
	}
	return out
}
