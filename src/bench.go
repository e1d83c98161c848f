// Copyright (c) 2026 Khaled Abbas
//
// This source code is licensed under the Business Source License 1.1.
//
// Change Date: 4 years after the first public release of this version.
// Change License: MIT
//
// On the Change Date, this version of the code automatically converts
// to the MIT License. Prior to that date, use is subject to the
// Additional Use Grant. See the LICENSE file for details.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"eisenhower/src/client"
	"eisenhower/src/model"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// benchResult sums one run. Each task costs four requests: create, move,
// edit, delete.
type benchResult struct {
	Tasks     int
	Requests  int64
	Failed    int64
	Latency   time.Duration // summed over all requests
	Duration  time.Duration
	Remaining int
}

type benchRunner struct {
	api         *client.Client
	tasks       int
	concurrency int
	out         io.Writer

	requests atomic.Int64
	failed   atomic.Int64
	latency  atomic.Int64
	done     atomic.Int64
}

func (a *app) benchCmd() *cobra.Command {
	r := &benchRunner{}
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Drive create/move/edit/delete cycles against a running server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r.api = a.client()
			r.out = cmd.OutOrStdout()
			res, err := r.run(cmd.Context())
			if err != nil {
				return err
			}
			printReport(r.out, res)
			return nil
		},
	}
	cmd.Flags().IntVarP(&r.tasks, "tasks", "n", 200, "number of tasks to cycle")
	cmd.Flags().IntVarP(&r.concurrency, "concurrency", "c", 8, "parallel task cycles")
	return cmd
}

func (r *benchRunner) run(ctx context.Context) (benchResult, error) {
	if r.tasks < 1 || r.concurrency < 1 {
		return benchResult{}, errors.New("tasks and concurrency must be positive")
	}

	// Get Baseline Stats
	initial, err := r.api.Status(ctx)
	if err != nil {
		return benchResult{}, fmt.Errorf("server not reachable: %w", err)
	}

	fmt.Fprintf(r.out, "\n%s%s >> EISENHOWER BENCHMARK  TASKS: %d  WORKERS: %d <<%s\n",
		colorCyan, colorBold, r.tasks, r.concurrency, colorReset)
	fmt.Fprintf(r.out, "%s%-10s %-12s %-10s%s\n", colorGray+colorBold, "ELAPSED", "COMPLETED", "FAILED", colorReset)
	fmt.Fprintln(r.out, colorGray+"------------------------------------"+colorReset)

	start := time.Now()
	stopProgress := r.progress(start)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i := range r.tasks {
		g.Go(func() error {
			r.cycle(gctx, i)
			r.done.Add(1)
			return gctx.Err()
		})
	}
	err = g.Wait()
	stopProgress()
	if err != nil {
		return benchResult{}, err
	}

	res := benchResult{
		Tasks:    r.tasks,
		Requests: r.requests.Load(),
		Failed:   r.failed.Load(),
		Latency:  time.Duration(r.latency.Load()),
		Duration: time.Since(start),
	}
	if final, err := r.api.Status(ctx); err == nil {
		res.Remaining = final.TotalTasks - initial.TotalTasks
	}
	return res, nil
}

// cycle walks one task through the matrix and removes it again.
func (r *benchRunner) cycle(ctx context.Context, i int) {
	quadrants := model.Quadrants()
	var task model.Task
	ok := r.timed(func() (err error) {
		task, err = r.api.Create(ctx, model.NewTask{
			Text:     fmt.Sprintf("bench task %d", i),
			Quadrant: quadrants[i%len(quadrants)].ID,
		})
		return err
	})
	if !ok {
		return
	}
	r.timed(func() error {
		_, err := r.api.Update(ctx, task.ID, model.MovePatch(quadrants[(i+1)%len(quadrants)].ID))
		return err
	})
	r.timed(func() error {
		_, err := r.api.Update(ctx, task.ID, model.TextPatch(task.Text+" (edited)"))
		return err
	})
	r.timed(func() error {
		return r.api.Delete(ctx, task.ID)
	})
}

func (r *benchRunner) timed(call func() error) bool {
	start := time.Now()
	err := call()
	r.latency.Add(int64(time.Since(start)))
	r.requests.Add(1)
	if err != nil {
		r.failed.Add(1)
		return false
	}
	return true
}

// progress redraws the status line until the returned func is called.
func (r *benchRunner) progress(start time.Time) func() {
	ticker := time.NewTicker(500 * time.Millisecond)
	quit := make(chan struct{})
	finished := make(chan struct{})

	draw := func() {
		failed := r.failed.Load()
		statusColor := colorGreen
		if failed > 0 {
			statusColor = colorRed
		}
		fmt.Fprintf(r.out, "\r%-10s %s%-12d%s %s%-10d%s",
			time.Since(start).Round(time.Second).String(),
			colorGreen, r.done.Load(), colorReset,
			statusColor, failed, colorReset,
		)
	}

	go func() {
		defer close(finished)
		defer ticker.Stop()
		for {
			select {
			case <-quit:
				draw()
				return
			case <-ticker.C:
				draw()
			}
		}
	}()

	return func() {
		close(quit)
		<-finished
		fmt.Fprintf(r.out, "\n%s------------------------------------%s\n", colorGray, colorReset)
	}
}

func printReport(w io.Writer, res benchResult) {
	successRate := 100.0
	if res.Requests > 0 {
		successRate = float64(res.Requests-res.Failed) / float64(res.Requests) * 100
	}
	var avgLatency time.Duration
	if res.Requests > 0 {
		avgLatency = res.Latency / time.Duration(res.Requests)
	}
	rps := float64(res.Requests) / res.Duration.Seconds()

	if res.Failed == 0 {
		fmt.Fprintf(w, "\n%s%s Benchmark Completed Successfully! ✓%s\n", colorGreen, colorBold, colorReset)
	} else {
		fmt.Fprintf(w, "\n%s%s Benchmark Completed With Failures%s\n", colorYellow, colorBold, colorReset)
	}

	fmt.Fprintln(w, "\n"+colorCyan+colorBold+"┏━━━━━━━━━━━━━━━━━━━━━━ REPORT ━━━━━━━━━━━━━━━━━━━━━━┓"+colorReset)

	lineFmt := colorCyan + "┃" + colorReset + "  %-22s " + colorBold + "%-25s" + colorCyan + "┃" + colorReset + "\n"

	fmt.Fprintf(w, lineFmt, "Duration:", res.Duration.Truncate(time.Millisecond).String())
	fmt.Fprintf(w, lineFmt, "Tasks Cycled:", fmt.Sprintf("%d", res.Tasks))
	fmt.Fprintf(w, lineFmt, "Requests:", fmt.Sprintf("%d", res.Requests))

	failedColor := colorGreen
	if res.Failed > 0 {
		failedColor = colorRed
	}
	fmt.Fprintf(w, colorCyan+"┃"+"  %-22s "+failedColor+colorBold+"%-25s"+colorCyan+"┃"+colorReset+"\n", "  - Failed:", fmt.Sprintf("%d", res.Failed))

	fmt.Fprintf(w, lineFmt, "Success Rate:", fmt.Sprintf("%.2f%%", successRate))
	fmt.Fprintf(w, lineFmt, "Throughput:", fmt.Sprintf("%.2f req/sec", rps))
	fmt.Fprintf(w, lineFmt, "Avg Latency:", fmt.Sprintf("%.2f ms", float64(avgLatency.Microseconds())/1000))
	fmt.Fprintf(w, lineFmt, "Tasks Left Behind:", fmt.Sprintf("%d", res.Remaining))

	fmt.Fprintln(w, colorCyan+colorBold+"┗━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━┛"+colorReset)
}
