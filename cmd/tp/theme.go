package main

import (
	"fmt"
	"strings"

	"github.com/amonks/taskpad/theme"
	"github.com/spf13/cobra"
)

var themeCmd = &cobra.Command{
	Use:       "theme [dark|light|toggle]",
	Short:     "Show or change the color theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"dark", "light", "toggle"},
	RunE:      runTheme,
}

func init() {
	rootCmd.AddCommand(themeCmd)
}

func runTheme(cmd *cobra.Command, args []string) error {
	_, blobs, err := openBlobs()
	if err != nil {
		return err
	}
	defer blobs.Close()

	if len(args) == 0 {
		current, err := theme.Load(blobs)
		if err != nil {
			return err
		}
		fmt.Println(current)
		return nil
	}

	var next theme.Theme
	if strings.EqualFold(strings.TrimSpace(args[0]), "toggle") {
		next, err = theme.Toggle(blobs)
		if err != nil {
			return err
		}
	} else {
		next, err = theme.Parse(args[0])
		if err != nil {
			return err
		}
		if err := theme.Save(blobs, next); err != nil {
			return err
		}
	}
	fmt.Printf("Theme set to %s\n", next)
	return nil
}
