package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Script is one loaded tick script: a lua file defining a global tick(dt)
// function and optionally a PRIORITY number.
type Script struct {
	Name     string
	fn       *lua.LFunction
	priority int
}

func (s *Script) Priority() int { return s.priority }

const defaultScriptPriority = 50

// Engine wraps a single gopher-lua VM for scripted tick logic.
// Single-goroutine access only (game loop).
type Engine struct {
	vm      *lua.LState
	log     *zap.Logger
	scripts []*Script
}

// NewEngine creates a lua engine and loads every .lua file in dir. A missing
// dir yields an engine with no scripts.
func NewEngine(dir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if err := e.loadDir(dir); err != nil {
		vm.Close()
		return nil, err
	}
	return e, nil
}

func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if err := e.LoadSource(filepath.Base(path), string(data)); err != nil {
			return err
		}
	}
	return nil
}

// LoadSource compiles one script chunk. The chunk must define a global
// tick(dt) to be scheduled; a chunk without one is loaded but not collected.
func (e *Engine) LoadSource(name, src string) error {
	e.vm.SetGlobal("tick", lua.LNil)
	e.vm.SetGlobal("PRIORITY", lua.LNil)
	if err := e.vm.DoString(src); err != nil {
		return fmt.Errorf("load script %s: %w", name, err)
	}
	fn, ok := e.vm.GetGlobal("tick").(*lua.LFunction)
	if !ok {
		e.log.Warn("script defines no tick function", zap.String("script", name))
		return nil
	}
	priority := defaultScriptPriority
	if n, ok := e.vm.GetGlobal("PRIORITY").(lua.LNumber); ok {
		priority = int(n)
	}
	e.scripts = append(e.scripts, &Script{Name: name, fn: fn, priority: priority})
	return nil
}

func (e *Engine) Scripts() []*Script { return e.scripts }

// Call invokes the script's tick with dt in seconds, protected so a lua error
// comes back as a Go error instead of unwinding the VM.
func (e *Engine) Call(s *Script, dt time.Duration) error {
	err := e.vm.CallByParam(lua.P{
		Fn:      s.fn,
		NRet:    0,
		Protect: true,
	}, lua.LNumber(dt.Seconds()))
	if err != nil {
		return fmt.Errorf("script %s: %w", s.Name, err)
	}
	return nil
}

func (e *Engine) Close() { e.vm.Close() }
