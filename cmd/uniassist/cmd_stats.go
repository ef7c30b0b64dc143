package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// statsCmd reports per-university index sizes.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show passage counts for each university index",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Println("University indexes:")
		for _, key := range universityKeys {
			st := a.stores[key]
			n, err := st.Count()
			if err != nil {
				fmt.Printf("  %-8s error: %v\n", strings.ToUpper(key), err)
				continue
			}
			fmt.Printf("  %-8s %6d passages  (%s)\n", strings.ToUpper(key), n, st.Path())
		}
		return nil
	},
}
