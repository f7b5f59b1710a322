package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newListCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "列出当前可发现的 interrogator",
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := opts.loadSpec()
			if err != nil {
				return err
			}

			registry := spec.BuildRegistry()
			defer registry.Close()

			names, err := registry.Refresh()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Println(color.YellowString("no interrogators found"))
				return nil
			}
			for _, name := range names {
				fmt.Println(color.GreenString(name))
			}
			return nil
		},
	}
}
