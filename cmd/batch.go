package main

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/JamieAtGit/shipping-emissions-project/internal/model"
	"github.com/JamieAtGit/shipping-emissions-project/internal/pipeline"
)

var batchFlags struct {
	input  string
	output string
	limit  int
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Estimate a JSONL file of product requests",
	Long:  "Reads one pipeline request per line from the input file, estimates them concurrently, and writes one product record per line to the output.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		requests, err := readBatchRequests(batchFlags.input, batchFlags.limit)
		if err != nil {
			return err
		}

		products, err := processBatch(ctx, env.Pipeline, requests,
			cfg.Batch.MaxConcurrent, rate.Limit(cfg.Batch.RatePerSec))
		if err != nil {
			return err
		}

		return writeBatchProducts(batchFlags.output, products)
	},
}

func init() {
	f := batchCmd.Flags()
	f.StringVar(&batchFlags.input, "input", "", "JSONL file of product requests (required)")
	f.StringVar(&batchFlags.output, "output", "", "JSONL output path (default stdout)")
	f.IntVar(&batchFlags.limit, "limit", 0, "max requests to process (0 = all)")
	_ = batchCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(batchCmd)
}

// readBatchRequests parses one JSON request per line, skipping blanks.
func readBatchRequests(path string, limit int) ([]pipeline.Request, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open batch input %s", path)
	}
	defer f.Close()

	var requests []pipeline.Request
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		if len(sc.Bytes()) == 0 {
			continue
		}
		var req pipeline.Request
		if err := json.Unmarshal(sc.Bytes(), &req); err != nil {
			return nil, eris.Wrapf(err, "batch input line %d", line)
		}
		requests = append(requests, req)
		if limit > 0 && len(requests) == limit {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return nil, eris.Wrapf(err, "read batch input %s", path)
	}
	return requests, nil
}

// processBatch runs requests through the pipeline with bounded concurrency
// and a shared rate limit. Output order matches input order.
func processBatch(ctx context.Context, p *pipeline.Pipeline, requests []pipeline.Request,
	concurrency int, limit rate.Limit) ([]model.Product, error) {
	if concurrency < 1 {
		concurrency = 1
	}
	limiter := rate.NewLimiter(limit, 1)
	products := make([]model.Product, len(requests))
	var done atomic.Int64

	zap.L().Info("processing batch",
		zap.Int("requests", len(requests)),
		zap.Int("concurrency", concurrency))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, req := range requests {
		i, req := i, req
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return err
			}
			products[i] = p.Estimate(gctx, req)
			done.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "batch processing")
	}

	zap.L().Info("batch complete", zap.Int64("processed", done.Load()))
	return products, nil
}

func writeBatchProducts(path string, products []model.Product) error {
	out := os.Stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return eris.Wrapf(err, "create batch output %s", path)
		}
		defer f.Close()
		out = f
	}

	w := bufio.NewWriter(out)
	enc := json.NewEncoder(w)
	for _, p := range products {
		if err := enc.Encode(p); err != nil {
			return eris.Wrap(err, "write batch output")
		}
	}
	return w.Flush()
}
