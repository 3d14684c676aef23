package demo

import (
	"fmt"
	"slices"

	"github.com/dustin/go-humanize"

	"github.com/vango-dev/fuse/pkg/dom"
	"github.com/vango-dev/fuse/pkg/reactive"
	"github.com/vango-dev/fuse/pkg/render"
	"github.com/vango-dev/fuse/pkg/virtual"
)

// Log demo sizing.
const (
	LogLines       = 10000
	LogAppendBatch = 1000
	LogLineHeight  = 20
	LogViewport    = 400
)

// LogLine is one row of the virtual log.
type LogLine struct {
	Seq     int
	Level   string
	Message string
}

var (
	logLevels   = []string{"INFO", "DEBUG", "INFO", "WARN", "INFO", "ERROR"}
	logMessages = []string{
		"request served",
		"cache miss",
		"session opened",
		"slow effect",
		"session closed",
		"write timeout",
	}
)

// GenerateLog returns n deterministic log lines starting at sequence from.
func GenerateLog(from, n int) []LogLine {
	out := make([]LogLine, n)
	for i := range out {
		seq := from + i
		out[i] = LogLine{
			Seq:     seq,
			Level:   logLevels[seq%len(logLevels)],
			Message: logMessages[(seq/len(logLevels))%len(logMessages)],
		}
	}
	return out
}

// VirtualLog renders a long log through a virtualized list.
func VirtualLog(r *render.Renderer) render.Child {
	rt := r.Runtime()
	lines := reactive.NewSignal(rt, GenerateLog(0, LogLines))

	list := virtual.New(r, virtual.Options[LogLine]{
		ItemsFunc: lines.Get,
		RenderItem: func(l LogLine, _ int) *dom.Node {
			return r.El("div", render.Class("line", "level-"+l.Level),
				fmt.Sprintf("%06d %-5s %s", l.Seq, l.Level, l.Message))
		},
		ItemHeight:      LogLineHeight,
		ContainerHeight: LogViewport,
	})

	viewport := list.Render()
	viewport.SetAttribute("id", "log-viewport")

	return render.NodeChild(r.El("div", render.Class("log"),
		r.El("p", render.ID("log-status"), render.TextFunc(func() string {
			rng := list.VisibleRange()
			return fmt.Sprintf("%s lines, showing %d-%d",
				humanize.Comma(int64(len(lines.Get()))), rng.Start, rng.End)
		})),
		r.El("button", render.ID("append"), render.OnClick(func(*dom.Event) {
			lines.Update(func(ls []LogLine) []LogLine {
				return append(slices.Clone(ls), GenerateLog(len(ls), LogAppendBatch)...)
			})
		}), "Append "+humanize.Comma(LogAppendBatch)),
		viewport,
	))
}
