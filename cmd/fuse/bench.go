package main

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/vango-dev/fuse/internal/demo"
	"github.com/vango-dev/fuse/pkg/dom"
	"github.com/vango-dev/fuse/pkg/reactive"
	"github.com/vango-dev/fuse/pkg/render"
	"github.com/vango-dev/fuse/pkg/virtual"
)

// benchResult is one row of the report.
type benchResult struct {
	name       string
	iterations int
	mutations  int
	calc       *tachymeter.Metrics
}

func benchCmd() *cobra.Command {
	var (
		iters int
		size  int
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure propagation, reconciliation and virtualization",
		Long: `Run the built-in benchmarks and print latency percentiles.

  propagate   a signal driving W chains of H computed values
  keyed       reversing and rotating a keyed list of --size rows
  virtual     scrolling a virtual list of 100x --size rows

Examples:
  fuse bench
  fuse bench -n 500 --size 2000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if iters < 1 || size < 1 {
				return fmt.Errorf("--iterations and --size must be positive")
			}
			results := runBenchmarks(iters, size)
			renderBench(cmd.OutOrStdout(), results)
			return nil
		},
	}

	cmd.Flags().IntVarP(&iters, "iterations", "n", 100, "Iterations per benchmark")
	cmd.Flags().IntVar(&size, "size", 1000, "List size for the list benchmarks")

	return cmd
}

func runBenchmarks(iters, size int) []benchResult {
	var results []benchResult
	for _, w := range []int{1, 10, 100} {
		for _, h := range []int{1, 10, 100} {
			results = append(results, benchPropagate(w, h, iters))
		}
	}
	results = append(results,
		benchKeyed(size, iters),
		benchVirtual(size*100, iters),
	)
	return results
}

func renderBench(w io.Writer, results []benchResult) {
	tbl := table.NewWriter()
	tbl.SetTitle("fuse")
	tbl.SetOutputMirror(w)
	tbl.AppendHeader(table.Row{"benchmark", "iterations", "avg", "min", "p75", "p99", "max", "mutations"})
	for _, r := range results {
		tbl.AppendRow(table.Row{
			r.name,
			humanize.Comma(int64(r.iterations)),
			r.calc.Time.Avg,
			r.calc.Time.Min,
			r.calc.Time.P75,
			r.calc.Time.P99,
			r.calc.Time.Max,
			humanize.Comma(int64(r.mutations)),
		})
	}
	tbl.Render()
}

// benchPropagate builds w chains of h computed values fed by one signal,
// each ending in an effect, and times a single write.
func benchPropagate(w, h, iters int) benchResult {
	tach := tachymeter.New(&tachymeter.Config{Size: iters})

	rt := reactive.NewRuntime()
	src := reactive.NewSignal(rt, 1)
	for i := 0; i < w; i++ {
		last := reactive.Reader[int](src)
		for j := 0; j < h; j++ {
			prev := last
			last = reactive.NewComputed(rt, func() int { return prev.Get() + 1 })
		}
		reactive.NewEffect(rt, func() { _ = last.Get() })
	}

	for i := 0; i < iters; i++ {
		start := time.Now()
		src.Update(func(n int) int { return n + 1 })
		tach.AddTime(time.Since(start))
	}

	return benchResult{
		name:       fmt.Sprintf("propagate: %d * %d", w, h),
		iterations: iters,
		calc:       tach.Calc(),
	}
}

// benchKeyed alternates reversing and rotating a keyed list.
func benchKeyed(size, iters int) benchResult {
	tach := tachymeter.New(&tachymeter.Config{Size: iters})

	rt := reactive.NewRuntime()
	doc := dom.NewDocument()
	r := render.New(doc, rt)
	rows := reactive.NewSignal(rt, demo.GenerateLog(0, size))

	list := r.El("ul", render.For(r, render.ItemsFunc(rows.Get),
		func(l demo.LogLine, _ int) *dom.Node {
			return r.El("li", l.Message)
		},
		render.WithKey(func(l demo.LogLine) any { return l.Seq }),
	))
	doc.Body().AppendChild(list)

	mutations := 0
	stop := doc.Observe(func(dom.Mutation) { mutations++ })
	defer stop()

	for i := 0; i < iters; i++ {
		next := slices.Clone(rows.Peek())
		if i%2 == 0 {
			slices.Reverse(next)
		} else {
			next = append(next[1:], next[0])
		}
		start := time.Now()
		rows.Set(next)
		tach.AddTime(time.Since(start))
	}
	r.Remove(list)

	return benchResult{
		name:       fmt.Sprintf("keyed: %s rows", humanize.Comma(int64(size))),
		iterations: iters,
		mutations:  mutations,
		calc:       tach.Calc(),
	}
}

// benchVirtual scrolls a virtual list down one viewport per iteration.
func benchVirtual(size, iters int) benchResult {
	const (
		itemHeight = 20
		viewport   = 600
	)
	tach := tachymeter.New(&tachymeter.Config{Size: iters})

	rt := reactive.NewRuntime()
	doc := dom.NewDocument()
	r := render.New(doc, rt)
	list := virtual.New(r, virtual.Options[demo.LogLine]{
		Items: demo.GenerateLog(0, size),
		RenderItem: func(l demo.LogLine, _ int) *dom.Node {
			return r.El("div", l.Message)
		},
		ItemHeight:      itemHeight,
		ContainerHeight: viewport,
	})
	root := list.Render()
	doc.Body().AppendChild(root)

	mutations := 0
	stop := doc.Observe(func(dom.Mutation) { mutations++ })
	defer stop()

	total := list.TotalHeight()
	for i := 0; i < iters; i++ {
		top := (i * viewport) % max(total-viewport, 1)
		start := time.Now()
		list.ScrollTop().Set(top)
		tach.AddTime(time.Since(start))
	}
	r.Remove(root)

	return benchResult{
		name:       fmt.Sprintf("virtual: %s rows", humanize.Comma(int64(size))),
		iterations: iters,
		mutations:  mutations,
		calc:       tach.Calc(),
	}
}
