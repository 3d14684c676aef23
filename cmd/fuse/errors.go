package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/fuse/internal/errors"
)

func errorsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "errors [code]",
		Short: "List error codes or explain one",
		Long: `Print the error codes fuse can report.

Without an argument every registered code is listed with its message.
With a code the full explanation is printed.

Examples:
  fuse errors
  fuse errors E002
  fuse errors E060 --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, code := range errors.GetAllCodes() {
					if asJSON {
						fmt.Fprintln(out, errors.New(code).FormatJSON())
						continue
					}
					fmt.Fprintln(out, errors.New(code).FormatCompact())
				}
				return nil
			}

			code := args[0]
			if _, ok := errors.GetTemplate(code); !ok {
				return errors.New("E142").
					WithDetail(fmt.Sprintf("No error is registered under %q.", code)).
					WithSuggestion("Run 'fuse errors' to list every code")
			}
			if asJSON {
				fmt.Fprintln(out, errors.New(code).FormatJSON())
				return nil
			}
			fmt.Fprint(out, errors.New(code).Format())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print errors as JSON lines")

	return cmd
}
