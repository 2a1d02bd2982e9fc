// Command kvignite is the wire-protocol client CLI: its subcommands
// mirror the get/set/rm verbs and exit 1 on any error, including a
// "key not found" reply to rm.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iamNilotpal/kvignite/internal/wireclient"
	"github.com/iamNilotpal/kvignite/pkg/options"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var addr string

	root := &cobra.Command{
		Use:   "kvignite",
		Short: "Talk to a kvignite server over its wire protocol",
	}
	root.PersistentFlags().StringVar(&addr, "addr", options.DefaultAddr, "server address")

	root.AddCommand(newGetCmd(&addr), newSetCmd(&addr), newRmCmd(&addr))
	return root
}

func newGetCmd(addr *string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "fetch the value matched by key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reply, err := wireclient.New(*addr).Get(args[0])
			if err != nil {
				return err
			}
			fmt.Println(reply)
			return nil
		},
	}
}

func newSetCmd(addr *string) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "set key to value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wireclient.New(*addr).Set(args[0], args[1])
		},
	}
}

func newRmCmd(addr *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <key>",
		Short: "remove the key-value pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reply, err := wireclient.New(*addr).Remove(args[0])
			if err != nil {
				return err
			}
			if reply != "" {
				fmt.Fprintln(os.Stderr, reply)
				return fmt.Errorf("rm failed: %s", reply)
			}
			return nil
		},
	}
}
