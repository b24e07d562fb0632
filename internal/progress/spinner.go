// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

/*
Package progress provides a CLI progress indicator shown while the tracer
and workload are running.
*/
package progress

import (
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

var spinChars []string = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

type Spinner struct {
	mutex     sync.Mutex
	label     string
	status    string
	spinIndex int
	ticker    *time.Ticker
	done      chan bool
	spinning  bool
}

// NewSpinner creates a spinner with a fixed label, e.g., the target name.
func NewSpinner(label string) *Spinner {
	return &Spinner{label: label, status: "?", done: make(chan bool)}
}

// Start starts drawing the spinner. No-op when stdout is not a terminal.
func (s *Spinner) Start() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return
	}
	s.draw(true)
	s.ticker = time.NewTicker(250 * time.Millisecond)
	s.spinning = true
	go s.onTick()
}

// Status updates the text shown next to the spinner.
func (s *Spinner) Status(status string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.status = status
}

// Finish stops the spinner and leaves the last status on screen.
func (s *Spinner) Finish() {
	if !s.spinning {
		return
	}
	s.ticker.Stop()
	s.done <- true
	s.draw(false)
	s.spinning = false
	fmt.Println()
}

func (s *Spinner) onTick() {
	for {
		select {
		case <-s.done:
			return
		case <-s.ticker.C:
			s.draw(false)
			s.mutex.Lock()
			s.spinIndex = (s.spinIndex + 1) % len(spinChars)
			s.mutex.Unlock()
		}
	}
}

func (s *Spinner) draw(first bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if !first {
		fmt.Print("\r\033[K")
	}
	fmt.Printf("%s  %s %s", s.label, spinChars[s.spinIndex], s.status)
}
