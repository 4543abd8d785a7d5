package hook

import (
	"log"
	"sync"
	"time"
)

// DefaultTimeout bounds one hook execution.
const DefaultTimeout = 3 * time.Second

// Dispatcher fans events out to subscribed hooks. Execution is
// asynchronous so a slow hook never stalls the frame loop.
type Dispatcher struct {
	manager  *Manager
	executor *Executor
	wg       sync.WaitGroup
}

// NewDispatcher creates a Dispatcher over the given hook directory,
// discovering hooks immediately.
func NewDispatcher(hookDir string, timeout time.Duration) (*Dispatcher, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	m := NewManager(hookDir)
	if err := m.Discover(); err != nil {
		return nil, err
	}

	return &Dispatcher{
		manager:  m,
		executor: NewExecutor(timeout),
	}, nil
}

// Manager exposes the underlying hook manager.
func (d *Dispatcher) Manager() *Manager {
	return d.manager
}

// Dispatch runs all hooks subscribed to the payload's event in the
// background. Failures are logged, never propagated.
func (d *Dispatcher) Dispatch(payload Payload) {
	for _, h := range d.manager.Subscribers(payload.Event) {
		h := h
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.run(h, payload)
		}()
	}
}

// DispatchSync runs subscribed hooks on the calling goroutine and
// returns their responses, keyed by hook name.
func (d *Dispatcher) DispatchSync(payload Payload) map[string]*Response {
	responses := make(map[string]*Response)
	for _, h := range d.manager.Subscribers(payload.Event) {
		resp := d.run(h, payload)
		if resp != nil {
			responses[h.Manifest.Name] = resp
		}
	}
	return responses
}

func (d *Dispatcher) run(h *Hook, payload Payload) *Response {
	p := payload
	p.Config = h.Manifest.Config

	resp, err := d.executor.Execute(h, &p)
	if err != nil {
		log.Printf("hook: %v", err)
		return nil
	}
	if !resp.Success {
		log.Printf("hook: %s rejected %s: %s", h.Manifest.Name, p.Event, resp.Error)
	}
	return resp
}

// Wait blocks until all in-flight hook executions finish.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
