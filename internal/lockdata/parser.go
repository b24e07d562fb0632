package lockdata

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// The tracer output contains six sections, one per metric, in the order of
// the Section constants. Each section is framed like this:
//
//	mutex acquire averages          <- header, discarded
//	----------------------------    <- header, discarded
//	@aq_report_avg[                 <- marks the start of a captured stack
//	    mutex_lock+5                <- the lock primitive frame
//	    kernfs_iop_permission+39    <- the calling function
//	    ...
//	]: 66842                        <- closes the stack, value after ':'
//	@aq_report_avg[]: 0             <- empty capture, skipped
//	============================    <- section terminator
//
// Any change to the tracer script's END block must be reflected here.

type parser struct {
	reader  *bufio.Reader
	lineNum int
	sdepth  int
	store   *Store
}

// ParseReport reads the tracer's six-section report and returns the
// populated per-stack record store. Malformed input is a fatal error; no
// partial store is returned.
func ParseReport(r io.Reader, sdepth int) (*Store, error) {
	if sdepth < 1 {
		return nil, fmt.Errorf("stack depth must be at least 1, got %d", sdepth)
	}
	p := &parser{
		reader: bufio.NewReader(r),
		sdepth: sdepth,
		store:  NewStore(),
	}
	for section := SectionAcqAvg; section < NumSections; section++ {
		if err := p.parseSection(section); err != nil {
			return nil, err
		}
	}
	return p.store, nil
}

// readLine returns the next line without its newline. A final line that is
// not newline-terminated is malformed, matching the tracer's guarantee that
// every emitted line ends in a newline.
func (p *parser) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err == io.EOF {
		if line != "" {
			p.lineNum++
			return "", fmt.Errorf("malformed line %d: missing newline: %q", p.lineNum, line)
		}
		return "", io.EOF
	}
	if err != nil {
		return "", fmt.Errorf("read error at line %d: %w", p.lineNum+1, err)
	}
	p.lineNum++
	return strings.TrimSuffix(line, "\n"), nil
}

func (p *parser) parseSection(section Section) error {
	// two header lines precede each section's entries
	for i := 0; i < 2; i++ {
		if _, err := p.readLine(); err != nil {
			if err == io.EOF {
				return fmt.Errorf("unexpected end of file before %s section", section)
			}
			return err
		}
	}
	var frames []string
	for {
		line, err := p.readLine()
		if err != nil {
			if err == io.EOF {
				return fmt.Errorf("unexpected end of file in %s section", section)
			}
			return err
		}
		switch {
		case strings.HasPrefix(line, "="):
			// end of section
			return nil
		case strings.Contains(line, "[]"):
			// empty capture, nothing recorded
			frames = frames[:0]
		case strings.HasPrefix(line, "@"):
			// start of a new captured stack
			frames = frames[:0]
		case strings.HasPrefix(line, "]"):
			if err := p.closeEntry(section, frames, line); err != nil {
				return err
			}
			frames = frames[:0]
		default:
			if frame := strings.TrimSpace(line); frame != "" {
				frames = append(frames, frame)
			}
		}
	}
}

// closeEntry extracts the value from the terminator line and accumulates it
// into the record for the captured stack.
func (p *parser) closeEntry(section Section, frames []string, line string) error {
	idx := strings.IndexByte(line, ':')
	if idx == -1 {
		return fmt.Errorf("malformed line %d: missing value separator: %q", p.lineNum, line)
	}
	value, err := strconv.ParseInt(strings.TrimSpace(line[idx+1:]), 10, 64)
	if err != nil {
		return fmt.Errorf("malformed line %d: bad value: %q", p.lineNum, line)
	}
	if len(frames) < 2 {
		// no frames below the lock primitive, nothing to attribute
		return nil
	}
	sig, calledFrom := newKeys(frames, p.sdepth)
	record := p.store.resolve(sig, calledFrom)
	record.Metrics.accumulate(section, value)
	return nil
}
