// main.go - Entry point for kernel391
//
// Flag handling follows the same flag/os.Exit convention as the teacher's
// cmd/ie32to64 tool: parse, validate, fail loudly to stderr.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	fsPath := flag.String("fs", "", "Path to the filesystem image to boot")
	trace := flag.Bool("trace", false, "Enable IRQ/scheduler trace logging")
	showFeatures := flag.Bool("features", false, "Print the build's compiled feature list and exit")
	debugConsole := flag.Bool("debug-console", false, "Run a Lua debug console on stdio alongside the kernel")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: kernel391 -fs <image> [options]\n\nBoots kernel391 against a filesystem image.\n\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showFeatures {
		printFeatures()
		return
	}

	if *trace {
		os.Setenv("KERNEL391_TRACE", "1")
		klog.trace = true
	}

	if *fsPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	image, err := os.ReadFile(*fsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: reading filesystem image: %v\n", err)
		os.Exit(1)
	}

	k, err := Boot(BootConfig{
		FilesystemImage: image,
		Backend:         VideoBackendEbiten,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: boot failed: %v\n", err)
		os.Exit(1)
	}

	if err := k.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "error: starting kernel: %v\n", err)
		os.Exit(1)
	}

	if *debugConsole {
		console := NewDebugConsole(k)
		defer console.Close()
		go console.Run(os.Stdin, os.Stdout)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	k.Shutdown()
}
