package cmd

import (
	"fmt"
	"io"

	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
)

var treeDoc = `Prints the findy-wallet command structure.

The whole command structure is printed if no argument is given. If a command
path is given, e.g. 'tree enclave', only its structure is printed. Hidden
commands are skipped.
`

var treeCmd = &cobra.Command{
	Use:   "tree [command...]",
	Short: "Prints the command structure",
	Long:  treeDoc,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)

		c := rootCmd
		if len(args) > 0 {
			c, _ = try.To2(rootCmd.Find(args))
		}
		printTree(cmd.OutOrStdout(), c, "", 0, true)
		return nil
	},
}

func printTree(w io.Writer, c *cobra.Command, indent string, level int, last bool) {
	if treeDepth != 0 && level >= treeDepth {
		return
	}
	branch, next := "├── ", "│   "
	if last {
		branch, next = "└── ", "    "
	}
	try.To1(fmt.Fprintf(w, "%s%s%s\n", indent, branch, c.Name()))

	subs := visible(c.Commands())
	for i, sub := range subs {
		printTree(w, sub, indent+next, level+1, i == len(subs)-1)
	}
}

func visible(cs []*cobra.Command) []*cobra.Command {
	res := make([]*cobra.Command, 0, len(cs))
	for _, c := range cs {
		if !c.Hidden && c.IsAvailableCommand() {
			res = append(res, c)
		}
	}
	return res
}

var treeDepth int

func init() {
	treeCmd.Flags().IntVarP(&treeDepth, "level", "L", 0, "level of the tree, zero is ignored")
	rootCmd.AddCommand(treeCmd)
}
