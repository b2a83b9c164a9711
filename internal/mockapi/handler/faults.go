package handler

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// faults holds injected failures keyed by request path.
type faults struct {
	mu     sync.Mutex
	byPath map[string]*Fault
}

func newFaults() *faults {
	return &faults{byPath: make(map[string]*Fault)}
}

func (f *faults) add(req *FaultRequest) Fault {
	count := req.Count
	if count == 0 {
		count = 1
	}
	fault := &Fault{
		ID:        uuid.NewString(),
		Path:      req.Path,
		Status:    req.Status,
		Message:   req.Message,
		Body:      req.Body,
		Remaining: count,
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.byPath[req.Path] = fault
	return *fault
}

func (f *faults) list() []Fault {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Fault, 0, len(f.byPath))
	for _, fault := range f.byPath {
		out = append(out, *fault)
	}
	return out
}

func (f *faults) clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byPath = make(map[string]*Fault)
}

// take consumes one use of the fault registered for path.
func (f *faults) take(path string) (Fault, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fault, ok := f.byPath[path]
	if !ok {
		return Fault{}, false
	}
	fault.Remaining--
	if fault.Remaining <= 0 {
		delete(f.byPath, path)
	}
	return *fault, true
}

// middleware answers requests matching an injected fault.
func (f *faults) middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		fault, ok := f.take(c.Path())
		if !ok {
			return c.Next()
		}
		switch {
		case fault.Body != "":
			status := fault.Status
			if status == 0 {
				status = fiber.StatusOK
			}
			return c.Status(status).SendString(fault.Body)
		case fault.Status == 0:
			// closing without a response reads as a network error upstream
			c.Context().SetConnectionClose()
			return c.Context().Conn().Close()
		}
		body := fiber.Map{}
		if fault.Message != "" {
			body["error"] = fault.Message
		}
		return c.Status(fault.Status).JSON(body)
	}
}
