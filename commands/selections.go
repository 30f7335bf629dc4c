package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/penwyp/go-chronoface/internal/core/model"
	"github.com/penwyp/go-chronoface/internal/data/cache"
)

var selectionsCmd = &cobra.Command{
	Use:   "selections",
	Short: "Inspect and clear recorded manual picks",
}

var selectionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List runs with recorded picks",
	Args:  cobra.NoArgs,
	RunE:  runSelectionsList,
}

var selectionsShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show the picks of one run (default the run of --input)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSelectionsShow,
}

var selectionsClearCmd = &cobra.Command{
	Use:   "clear [run-id]",
	Short: "Delete the picks of one run, or of every run with --all",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSelectionsClear,
}

var clearAll bool

func init() {
	rootCmd.AddCommand(selectionsCmd)
	selectionsCmd.AddCommand(selectionsListCmd, selectionsShowCmd, selectionsClearCmd)

	selectionsClearCmd.Flags().BoolVar(&clearAll, "all", false, "Delete every recorded run")
}

func openStore(cmd *cobra.Command) (*cache.FileStore, error) {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}
	return cache.NewFileStore(cfg.CacheDir)
}

func selectedRunID(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	if runID != "" {
		return runID
	}
	return cache.RunIDFor(resolveInput(nil))
}

func runSelectionsList(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	ids, err := store.List()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(ids) == 0 {
		fmt.Fprintln(out, "No recorded selections")
		return nil
	}
	for _, id := range ids {
		res := store.Get(id)
		if !res.Found {
			fmt.Fprintf(out, "%s\t(unreadable: %s)\n", id, res.MissReason)
			continue
		}
		total := 0
		for _, picks := range res.Snapshot.Picks {
			total += len(picks)
		}
		fmt.Fprintf(out, "%s\t%d picks\tupdated %s\n", id, total, res.Snapshot.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runSelectionsShow(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	id := selectedRunID(args)
	res := store.Get(id)
	if !res.Found {
		return fmt.Errorf("no selections for run %s (%s)", id, res.MissReason)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s\n", id)
	for _, g := range model.Granularities {
		picks := res.Snapshot.Picks[g]
		if len(picks) == 0 {
			continue
		}
		keys := make([]string, 0, len(picks))
		for k := range picks {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintf(out, "%s:\n", cases.Title(language.English).String(string(g)))
		for _, k := range keys {
			fmt.Fprintf(out, "  %s = %s\n", k, picks[k])
		}
	}
	return nil
}

func runSelectionsClear(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	if clearAll {
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Cleared all recorded selections")
		return nil
	}
	id := selectedRunID(args)
	if err := store.Delete(id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cleared selections for run %s\n", id)
	return nil
}
