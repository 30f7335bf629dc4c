package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/penwyp/go-chronoface/internal/analyzer"
	"github.com/penwyp/go-chronoface/internal/core/render"
	"github.com/penwyp/go-chronoface/internal/util"
)

var (
	planBucket string
	planSend   bool
)

var planCmd = &cobra.Command{
	Use:   "plan [input]",
	Short: "Build the collage render request",
	Long: `Reduces the buckets to one representative face each, solves the grid layout for
the chosen paper size and prints the render request as JSON.

With --bucket the collage holds every face of one bucket instead. With --send
the request is posted to the renderer and its response is printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().StringVar(&planBucket, "bucket", analyzer.AllBuckets,
		"Bucket key to render, or all for every bucket's representative")
	planCmd.Flags().BoolVar(&planSend, "send", false,
		"Post the request to the renderer")
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	acfg := newAnalyzerConfig(cfg, resolveInput(args))
	acfg.Bucket = planBucket

	a, err := analyzer.New(acfg)
	if err != nil {
		return err
	}
	res, req, err := a.Plan()
	if err != nil {
		return err
	}
	util.LogInfof("Planned %d faces on %s: %s", len(req.FaceIDs), acfg.Paper, res.Plan)

	if !planSend {
		return writeJSON(cmd, req)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = util.ContextWithRunID(ctx, a.RunID())

	client := render.NewClient(cfg.Render.URL, cfg.Render.Timeout)
	resp, err := client.Send(ctx, req)
	if err != nil {
		return fmt.Errorf("render request to %s failed: %w", client.Endpoint(), err)
	}
	return writeJSON(cmd, resp)
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
