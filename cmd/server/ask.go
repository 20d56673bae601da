package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAskCmd() *cobra.Command {
	var lang string
	var verbose bool
	cmd := &cobra.Command{
		Use:   "ask [message]",
		Short: "Answer a single message and print the reply",
		Example: `  server ask "¿Cuál es su horario?"
  server ask --lang en "What are your fees?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			reply := a.service.Respond(cmd.Context(), strings.Join(args, " "), lang, nil)
			if verbose {
				fmt.Fprintf(cmd.ErrOrStderr(), "source=%s intent=%s\n", reply.Source, reply.Intent)
			}
			fmt.Fprintln(cmd.OutOrStdout(), reply.Text)
			return nil
		},
	}
	cmd.Flags().StringVarP(&lang, "lang", "l", "es", "message language (es or en)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print which path produced the reply")
	return cmd
}

func newIntentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "intents",
		Short: "List the knowledge-base intents in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, in := range a.kb.Intents() {
				fmt.Fprintf(out, "%d. %s (%d patterns, %d replies): %s\n",
					i+1, in.Name, len(in.Patterns), len(in.Responses), strings.Join(in.Patterns, ", "))
			}
			fmt.Fprintf(out, "defaults: %d replies\n", len(a.kb.Defaults()))
			return nil
		},
	}
}
