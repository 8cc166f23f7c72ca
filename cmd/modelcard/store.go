package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-modelcard/pkg/card"
	"github.com/goliatone/go-modelcard/pkg/store"
)

func newStoreCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Keep versioned card artifacts in a local database",
	}
	cmd.AddCommand(newStorePutCmd(a), newStoreGetCmd(a), newStoreListCmd(a))
	return cmd
}

func (a *app) openStore(cmd *cobra.Command) (*store.Store, error) {
	a.logger.Debug("opening artifact store", "path", a.cfg.StorePath)
	return store.Open(cmd.Context(), a.cfg.StorePath)
}

func newStorePutCmd(a *app) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "put [FILE]",
		Short: "Store a card, or the card asset when FILE is omitted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tk, err := a.toolkit()
			if err != nil {
				return err
			}
			var c *card.ModelCard
			if len(args) == 1 {
				c, err = readCard(cmd, tk, args[0])
			} else {
				c, err = tk.LoadModelCard()
			}
			if err != nil {
				return err
			}

			s, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			art, err := s.Put(cmd.Context(), name, c)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), art.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Artifact name (default model_details.name)")
	return cmd
}

func newStoreGetCmd(a *app) *cobra.Command {
	var (
		latest bool
		output string
	)
	cmd := &cobra.Command{
		Use:   "get ID|NAME",
		Short: "Print a stored card as versioned JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			var art store.Artifact
			if latest {
				art, err = s.Latest(cmd.Context(), args[0])
			} else {
				art, err = s.Get(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}

			out, err := art.JSON()
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, append(out, '\n'))
		},
	}
	cmd.Flags().BoolVar(&latest, "latest", false, "Treat the argument as a name and fetch its newest artifact")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (stdout when empty)")
	return cmd
}

func newStoreListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			summaries, err := s.List(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tSCHEMA\tCREATED")
			for _, sum := range summaries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", sum.ID, sum.Name, sum.SchemaVersion, sum.CreatedAt.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}
}
