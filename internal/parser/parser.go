// Package parser runs the external demo parser and turns its JSON output
// into domain matches.
package parser

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"

	"demodash/internal/match"
)

// Parser invokes the parsing script as a subprocess. Demo parsing happens
// out of process; this package only supervises the run and decodes the
// result.
type Parser struct {
	bin    string
	script string
}

// New returns a Parser that runs script with bin (typically a python3
// interpreter).
func New(bin, script string) *Parser {
	return &Parser{bin: bin, script: script}
}

// Parse runs the script against demoPath and returns the decoded match. The
// match date is taken from the demo file's modification time since the
// payload carries no date.
func (p *Parser) Parse(ctx context.Context, demoPath string) (match.Match, error) {
	info, err := os.Stat(demoPath)
	if err != nil {
		return match.Match{}, fmt.Errorf("stat demo: %w", err)
	}

	cmd := exec.CommandContext(ctx, p.bin, p.script, demoPath)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return match.Match{}, fmt.Errorf("parser failed: %w: %s", err, tail(stderr.Bytes(), 512))
	}

	m, err := decodePayload(stdout.Bytes())
	if err != nil {
		return match.Match{}, err
	}
	m.Date = info.ModTime().Format("2006-01-02")
	return m, nil
}

// tail returns the last n bytes of b as a string.
func tail(b []byte, n int) string {
	if len(b) > n {
		b = b[len(b)-n:]
	}
	return string(bytes.TrimSpace(b))
}
