// kernel_log.go - Structured boot/runtime diagnostics for kernel391
//
// Mirrors the plain fmt.Printf/log.Printf diagnostic style the rest of this
// codebase uses for hardware trace output: no structured logging library,
// just a thin wrapper that timestamps and tags every line so interleaved
// goroutine output (PIT tick, keyboard IRQ, syscalls) stays readable.

package main

import (
	"fmt"
	"log"
	"os"
	"sync"
)

var klog = newKernelLogger()

type kernelLogger struct {
	mu     sync.Mutex
	logger *log.Logger
	trace  bool
}

func newKernelLogger() *kernelLogger {
	return &kernelLogger{
		logger: log.New(os.Stderr, "", log.Ltime|log.Lmicroseconds),
		trace:  os.Getenv("KERNEL391_TRACE") != "",
	}
}

func (kl *kernelLogger) Printf(component, format string, args ...interface{}) {
	kl.mu.Lock()
	defer kl.mu.Unlock()
	kl.logger.Printf("[%s] %s", component, fmt.Sprintf(format, args...))
}

// Tracef only prints when KERNEL391_TRACE is set, for the IRQ/scheduler
// chatter that would otherwise drown out boot messages.
func (kl *kernelLogger) Tracef(component, format string, args ...interface{}) {
	if !kl.trace {
		return
	}
	kl.Printf(component, format, args...)
}
