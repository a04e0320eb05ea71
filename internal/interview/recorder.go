package interview

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// DefaultRecordCommand captures microphone audio until interrupted. The %f
// token is replaced with the output path; sox writes a valid WAV header on
// SIGINT.
const DefaultRecordCommand = "sox -d -q -t wav %f"

// waitTimeout bounds how long Stop waits for the capture process to flush
// and exit after the interrupt.
const waitTimeout = 5 * time.Second

// ExecRecorder captures audio by running an external command per turn. The
// process and its temp file are the only held resources; both are released
// by Stop or Abort on every path.
type ExecRecorder struct {
	command string

	cmd     *exec.Cmd
	outPath string
}

// NewExecRecorder builds a recorder from a whitespace-separated command
// template. A %f token marks where the output file path goes; without one
// the path is appended as the last argument.
func NewExecRecorder(command string) *ExecRecorder {
	if command == "" {
		command = DefaultRecordCommand
	}
	return &ExecRecorder{command: command}
}

func (r *ExecRecorder) Start(ctx context.Context) error {
	if r.cmd != nil {
		return errors.New("recording already in progress")
	}

	f, err := os.CreateTemp("", "jobprep-answer-*.wav")
	if err != nil {
		return fmt.Errorf("creating capture file: %w", err)
	}
	outPath := f.Name()
	f.Close()

	fields := strings.Fields(r.command)
	if len(fields) == 0 {
		os.Remove(outPath)
		return errors.New("empty record command")
	}

	args := make([]string, 0, len(fields))
	replaced := false
	for _, field := range fields[1:] {
		if field == "%f" {
			args = append(args, outPath)
			replaced = true
			continue
		}
		args = append(args, field)
	}
	if !replaced {
		args = append(args, outPath)
	}

	cmd := exec.CommandContext(ctx, fields[0], args...)
	if err := cmd.Start(); err != nil {
		os.Remove(outPath)
		return fmt.Errorf("starting %s: %w (is it installed and is a microphone available?)", fields[0], err)
	}

	r.cmd = cmd
	r.outPath = outPath
	return nil
}

// Stop interrupts the capture process, waits for it to flush, and returns
// the recorded bytes. The process and temp file are released regardless of
// outcome.
func (r *ExecRecorder) Stop() ([]byte, error) {
	if r.cmd == nil {
		return nil, errors.New("no recording in progress")
	}
	cmd, outPath := r.cmd, r.outPath
	r.cmd, r.outPath = nil, ""
	defer os.Remove(outPath)

	// SIGINT lets the capture tool finalize the WAV header. The exit code
	// after an interrupt is not meaningful.
	_ = cmd.Process.Signal(os.Interrupt)

	done := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(waitTimeout):
		_ = cmd.Process.Kill()
		<-done
	}

	audio, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("reading captured audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, errors.New("no audio captured")
	}
	return audio, nil
}

// Abort kills the capture process and discards any captured audio.
func (r *ExecRecorder) Abort() {
	if r.cmd == nil {
		return
	}
	cmd, outPath := r.cmd, r.outPath
	r.cmd, r.outPath = nil, ""

	_ = cmd.Process.Kill()
	_ = cmd.Wait()
	os.Remove(outPath)
}
