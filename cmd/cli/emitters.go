package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/testforge-hq/testforge/internal/emitter"
)

func emittersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "emitters",
		Short: "List available export formats",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := emitter.NewRegistry()

			fmt.Printf("Available emitters:\n\n")
			for _, name := range registry.List() {
				em, err := registry.Get(name)
				if err != nil {
					return err
				}
				desc := em.Language()
				if em.Framework() != "" {
					desc += " + " + em.Framework()
				}
				fmt.Printf("  %-12s %s (%s)\n", em.Name(), desc, em.FileExtension())
			}

			return nil
		},
	}
}
