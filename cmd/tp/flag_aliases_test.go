package main

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestNoteAliasUsesSingleFlag(t *testing.T) {
	var note string
	cmd := &cobra.Command{Use: "example"}
	addTaskFlagAliases(cmd)
	cmd.Flags().StringVarP(&note, "note", "n", "", "Example note")

	if err := cmd.Flags().Set("description", "Hello"); err != nil {
		t.Fatalf("set description alias: %v", err)
	}
	if note != "Hello" {
		t.Fatalf("expected note to be set via alias, got %q", note)
	}
	if !cmd.Flags().Changed("note") {
		t.Fatal("expected note flag to be marked as changed")
	}

	usage := cmd.Flags().FlagUsages()
	if strings.Contains(usage, "--description") {
		t.Fatalf("did not expect alias to appear in usage, got %q", usage)
	}
	if !strings.Contains(usage, "-n, --note") {
		t.Fatalf("expected shorthand to appear inline, got %q", usage)
	}
}

func TestDueAliasSetsDeadline(t *testing.T) {
	value := newDeadlineValue()
	cmd := &cobra.Command{Use: "example"}
	addTaskFlagAliases(cmd)
	cmd.Flags().Var(value, "deadline", "Example deadline")

	if err := cmd.Flags().Set("due", "2026-03-14 15:00"); err != nil {
		t.Fatalf("set due alias: %v", err)
	}
	if value.Time() == nil {
		t.Fatal("expected deadline to be set via alias")
	}
	if !cmd.Flags().Changed("deadline") {
		t.Fatal("expected deadline flag to be marked as changed")
	}
}
