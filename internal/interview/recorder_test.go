package interview

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// captureScript writes a shell script that mimics a capture tool: it writes
// the given payload to its last argument and then waits for a signal.
func captureScript(t *testing.T, payload string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-rec.sh")
	script := "#!/bin/sh\n" +
		"for out do :; done\n" +
		"printf '" + payload + "' > \"$out\"\n" +
		"trap 'exit 0' INT TERM\n" +
		"sleep 30 &\n" +
		"wait\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("writing capture script: %v", err)
	}
	return path
}

func capturedPath(t *testing.T, r *ExecRecorder) string {
	t.Helper()
	if r.outPath == "" {
		t.Fatal("no capture file recorded")
	}
	return r.outPath
}

func TestExecRecorder_StopReturnsAudio(t *testing.T) {
	script := captureScript(t, "RIFFfakeaudio")
	r := NewExecRecorder(script + " -d %f")

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("start error: %v", err)
	}
	outPath := capturedPath(t, r)

	audio, err := r.Stop()
	if err != nil {
		t.Fatalf("stop error: %v", err)
	}
	if string(audio) != "RIFFfakeaudio" {
		t.Errorf("audio = %q, want the script's payload", audio)
	}
	if _, err := os.Stat(outPath); !os.IsNotExist(err) {
		t.Error("capture file should be removed after stop")
	}
}

func TestExecRecorder_AppendsPathWithoutToken(t *testing.T) {
	script := captureScript(t, "bytes")
	r := NewExecRecorder(script)

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("start error: %v", err)
	}
	audio, err := r.Stop()
	if err != nil {
		t.Fatalf("stop error: %v", err)
	}
	if string(audio) != "bytes" {
		t.Errorf("audio = %q, want payload via appended path", audio)
	}
}

func TestExecRecorder_EmptyCaptureIsError(t *testing.T) {
	script := captureScript(t, "")
	r := NewExecRecorder(script + " %f")

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("start error: %v", err)
	}
	if _, err := r.Stop(); err == nil {
		t.Fatal("expected error for empty capture")
	}
}

func TestExecRecorder_AbortRemovesFile(t *testing.T) {
	script := captureScript(t, "bytes")
	r := NewExecRecorder(script + " %f")

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("start error: %v", err)
	}
	outPath := capturedPath(t, r)

	r.Abort()
	if _, err := os.Stat(outPath); !os.IsNotExist(err) {
		t.Error("capture file should be removed after abort")
	}
	if r.cmd != nil {
		t.Error("recorder should be reusable after abort")
	}
}

func TestExecRecorder_DoubleStart(t *testing.T) {
	script := captureScript(t, "bytes")
	r := NewExecRecorder(script + " %f")

	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("start error: %v", err)
	}
	defer r.Abort()

	if err := r.Start(context.Background()); err == nil {
		t.Fatal("expected error for concurrent start")
	}
}

func TestExecRecorder_MissingBinary(t *testing.T) {
	r := NewExecRecorder("definitely-not-a-real-binary-xyz %f")

	err := r.Start(context.Background())
	if err == nil {
		t.Fatal("expected error for missing capture binary")
	}
	if !strings.Contains(err.Error(), "is it installed") {
		t.Errorf("error = %v, want the installation hint", err)
	}
	if r.cmd != nil {
		t.Error("failed start must not hold a process")
	}
}

func TestExecRecorder_StopWithoutStart(t *testing.T) {
	r := NewExecRecorder("")
	if _, err := r.Stop(); err == nil {
		t.Fatal("expected error stopping an idle recorder")
	}
}
