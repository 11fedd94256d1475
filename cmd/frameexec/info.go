package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/momentics/frameexec/affinity"
)

func newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the processor parallelism and usable CPUs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			n, err := affinity.AvailableParallelism()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "parallelism: %d\n", n)

			cpus, err := affinity.UsableCPUs()
			if err != nil {
				fmt.Fprintf(out, "usable cpus: unknown (%v)\n", err)
			} else {
				fmt.Fprintf(out, "usable cpus: %v\n", cpus)
			}

			if tid, ok := affinity.CurrentThreadID(); ok {
				fmt.Fprintf(out, "thread ids:  supported (current %d)\n", tid)
			} else {
				fmt.Fprintln(out, "thread ids:  unsupported")
			}
			return nil
		},
	}
}
