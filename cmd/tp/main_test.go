package main

import "testing"

func TestRootCommandName(t *testing.T) {
	if rootCmd.Use != "tp" {
		t.Fatalf("expected root command name tp, got %q", rootCmd.Use)
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	for _, name := range []string{"add", "edit", "rm", "show", "list", "calendar", "remind", "serve", "theme", "token"} {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd == nil || cmd.Name() != name {
			t.Fatalf("expected subcommand %q to be registered, got %v (err %v)", name, cmd, err)
		}
	}
}
