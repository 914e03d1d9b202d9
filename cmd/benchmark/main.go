package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/delaneyj/deps/deps"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
)

var (
	ww    = []int{1, 10, 100, 1_000}
	hh    = []int{1, 10, 100, 1_000}
	iters = 100

	profile = flag.String("cpuprofile", "default.pgo", "write a cpu profile to this file, empty to disable")
)

func main() {
	flag.Parse()

	if *profile != "" {
		f, err := os.Create(*profile)
		if err != nil {
			log.Fatal(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal(err)
		}
		defer pprof.StopCPUProfile()
	}

	log.Printf("warming up")
	benchmarkPropagate(false)

	benchmarkPropagate(true)
	benchmarkFanOut(true)
}

func newTable(title string) table.Writer {
	tbl := table.NewWriter()
	tbl.SetTitle(title)
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})
	return tbl
}

func appendResult(tbl table.Writer, name string, tach *tachymeter.Tachymeter) {
	calc := tach.Calc()
	tbl.AppendRows([]table.Row{
		{
			name,
			calc.Time.Avg,
			calc.Time.Min,
			calc.Time.P75,
			calc.Time.P99,
			calc.Time.Max,
		},
	})
}

// benchmarkPropagate builds w chains of h computations, each copying the
// previous Var plus one into its own Var, and times one source write plus the
// flush that settles every chain.
func benchmarkPropagate(shouldRender bool) {
	tbl := newTable("Deps propagate")

	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			rctx := deps.NewReactiveContext()
			src := deps.NewVar(rctx, 1)
			for i := 0; i < w; i++ {
				last := src
				for j := 0; j < h; j++ {
					prev := last
					next := deps.NewVar(rctx, 0)
					rctx.Run(func(*deps.Computation) {
						next.Set(prev.Get() + 1)
					})
					last = next
				}

				leaf := last
				rctx.Run(func(*deps.Computation) {
					leaf.Get()
				})
			}
			if err := rctx.Flush(); err != nil {
				log.Fatal(err)
			}

			for i := 0; i < iters; i++ {
				start := time.Now()
				src.Set(src.Peek() + 1)
				if err := rctx.Flush(); err != nil {
					log.Fatal(err)
				}
				tach.AddTime(time.Since(start))
			}

			appendResult(tbl, fmt.Sprintf("propagate: %d * %d", w, h), tach)
		}
	}

	if shouldRender {
		tbl.Render()
	}
}

// benchmarkFanOut subscribes w*h computations to one dependency.
func benchmarkFanOut(shouldRender bool) {
	tbl := newTable("Deps fan out")

	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			rctx := deps.NewReactiveContext()
			d := deps.NewDependency(rctx)
			for i := 0; i < w*h; i++ {
				rctx.Run(func(*deps.Computation) {
					d.Depend()
				})
			}

			for i := 0; i < iters; i++ {
				start := time.Now()
				d.Changed()
				if err := rctx.Flush(); err != nil {
					log.Fatal(err)
				}
				tach.AddTime(time.Since(start))
			}

			appendResult(tbl, fmt.Sprintf("fan out: %d", w*h), tach)
		}
	}

	if shouldRender {
		tbl.Render()
	}
}
