package main

import "testing"

func TestBuildRootCmdIncludesRun(t *testing.T) {
	cmd := buildRootCmd()
	var found bool
	for _, sub := range cmd.Commands() {
		if sub.Name() == "run" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the run subcommand to be registered")
	}
}

func TestVerboseLevel(t *testing.T) {
	if got := verboseLevel(true); got != "debug" {
		t.Fatalf("expected debug, got %q", got)
	}
	if got := verboseLevel(false); got != "info" {
		t.Fatalf("expected info, got %q", got)
	}
}
