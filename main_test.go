package main

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureOutput(f func()) string {
	var buf bytes.Buffer
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	done := make(chan bool)
	go func() {
		_, _ = io.Copy(&buf, r)
		done <- true
	}()

	f()
	_ = w.Close()
	os.Stdout = oldStdout
	<-done

	return buf.String()
}

func callMain() (int, string) {
	var exitCode int
	oldExit := exit
	defer func() { exit = oldExit }()
	exit = func(code int) {
		exitCode = code
		panic("exit")
	}

	// Capture output
	var buf bytes.Buffer
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	// Run main in a goroutine
	done := make(chan bool)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				if r != "exit" {
					panic(r)
				}
			}
			done <- true
		}()
		RealMain()
	}()

	// Copy output in another goroutine
	outputDone := make(chan bool)
	go func() {
		_, _ = io.Copy(&buf, r)
		outputDone <- true
	}()

	// Wait for main to finish
	<-done
	w.Close()
	os.Stdout = oldStdout
	<-outputDone

	return exitCode, buf.String()
}

func TestRealMain(t *testing.T) {
	// Save original args
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	tests := []struct {
		name           string
		args           []string
		expectedExit   int
		expectedOutput string
	}{
		{
			name:           "no arguments",
			args:           []string{"postboard"},
			expectedExit:   1,
			expectedOutput: "Usage: postboard <command>",
		},
		{
			name:           "help command",
			args:           []string{"postboard", "help"},
			expectedExit:   0,
			expectedOutput: "Usage: postboard <command> [options]",
		},
		{
			name:           "version command",
			args:           []string{"postboard", "version"},
			expectedExit:   0,
			expectedOutput: "postboard version " + CliVersion,
		},
		{
			name:           "unknown command",
			args:           []string{"postboard", "unknown"},
			expectedExit:   1,
			expectedOutput: "Unknown command: unknown",
		},
		{
			name:           "browse with bad user",
			args:           []string{"postboard", "browse", "--user", "abc"},
			expectedExit:   1,
			expectedOutput: "Error: --user expects a non-negative number",
		},
		{
			name:           "browse with unknown option",
			args:           []string{"postboard", "browse", "--all"},
			expectedExit:   1,
			expectedOutput: `Error: unknown browse option "--all"`,
		},
		{
			name:           "comments help",
			args:           []string{"postboard", "comments", "help"},
			expectedExit:   0,
			expectedOutput: "Usage: postboard comments",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Set up test args
			os.Args = tt.args

			exitCode, output := callMain()

			// Verify output and exit code
			assert.Contains(t, output, tt.expectedOutput)
			assert.Equal(t, tt.expectedExit, exitCode)
		})
	}
}

func TestParseUserFlag(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    int
		wantErr bool
	}{
		{name: "no flag", args: nil, want: 0},
		{name: "separate value", args: []string{"--user", "3"}, want: 3},
		{name: "inline value", args: []string{"--user=7"}, want: 7},
		{name: "missing value", args: []string{"--user"}, wantErr: true},
		{name: "negative", args: []string{"--user", "-1"}, wantErr: true},
		{name: "not a number", args: []string{"--user=x"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseUserFlag(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrintHelp(t *testing.T) {
	output := captureOutput(func() {
		printHelp()
	})

	assert.Contains(t, output, "Usage: postboard")
	assert.Contains(t, output, "help")
	assert.Contains(t, output, "version")
	assert.Contains(t, output, "serve")
	assert.Contains(t, output, "browse [--user <id>]")
	assert.Contains(t, output, "comments <subcommand>")
}
