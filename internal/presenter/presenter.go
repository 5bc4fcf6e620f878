// Package presenter renders gate detail cards for the terminal: level badge,
// status line, request stats, progress bar, and an activity sparkline for the
// selected timeframe.
package presenter

import (
	"fmt"
	"io"
	"strings"

	"github.com/groblegark/shadowgate/internal/model"
	"github.com/groblegark/shadowgate/internal/ui"
)

// Tab selects which detail section Render shows under the card header.
type Tab string

const (
	TabOverview    Tab = "overview"
	TabEndpoints   Tab = "endpoints"
	TabIntegration Tab = "integration"
)

// Tabs lists every valid tab.
var Tabs = []Tab{TabOverview, TabEndpoints, TabIntegration}

// IsValid reports whether t names a known tab.
func (t Tab) IsValid() bool {
	for _, known := range Tabs {
		if t == known {
			return true
		}
	}
	return false
}

const (
	progressWidth   = 24
	sparklineLevels = "▁▂▃▄▅▆▇█"
)

// Presenter writes gate cards to out. The zero timeframe is 7 days and the
// zero tab is the overview.
type Presenter struct {
	out       io.Writer
	timeframe model.Window
	tab       Tab
}

// New creates a Presenter writing to out.
func New(out io.Writer) *Presenter {
	return &Presenter{out: out, timeframe: model.Window7d, tab: TabOverview}
}

// SetTimeframe selects the activity window shown in the sparkline.
func (p *Presenter) SetTimeframe(w model.Window) error {
	if !w.IsValid() {
		return fmt.Errorf("unknown timeframe %q", w)
	}
	p.timeframe = w
	return nil
}

// SetTab selects the detail section.
func (p *Presenter) SetTab(t Tab) error {
	if !t.IsValid() {
		return fmt.Errorf("unknown tab %q", t)
	}
	p.tab = t
	return nil
}

// Render writes the full card for one gate. baseURL is the gateway origin
// used to print endpoint URLs.
func (p *Presenter) Render(gate *model.Gate, baseURL string) {
	p.renderHeader(gate)

	switch p.tab {
	case TabEndpoints:
		p.renderEndpoints(gate, baseURL)
	case TabIntegration:
		p.renderIntegration(gate, baseURL)
	default:
		p.renderOverview(gate)
	}
}

func (p *Presenter) renderHeader(gate *model.Gate) {
	badge := ui.RenderAccent(fmt.Sprintf("[LV %d]", gate.Level))
	status := ui.RenderSuccess(gate.Status.String())
	if gate.Status != model.StatusActive {
		status = ui.RenderDanger(gate.Status.String())
	}

	fmt.Fprintf(p.out, "%s %s  %s\n", badge, ui.RenderBold(gate.Name), status)
	fmt.Fprintf(p.out, "%s\n", ui.RenderMuted(gate.ID))
	fmt.Fprintf(p.out, "Created %s\n\n", gate.CreatedAt.Format("Jan 2, 2006"))
}

func (p *Presenter) renderOverview(gate *model.Gate) {
	fmt.Fprintf(p.out, "Requests today:  %d\n", gate.RequestsToday)
	fmt.Fprintf(p.out, "Total requests:  %d\n", gate.TotalRequests)
	fmt.Fprintf(p.out, "Source:          %s\n\n", gate.SourceURL)

	frac := model.ProgressToNextLevel(gate.TotalRequests)
	fmt.Fprintf(p.out, "Next level  %s %3.0f%%\n", progressBar(frac, progressWidth), frac*100)

	if points, ok := gate.ActivitySeries[p.timeframe]; ok && len(points) > 0 {
		fmt.Fprintf(p.out, "Activity %s  %s\n", p.timeframe, sparkline(points))
	}
}

func (p *Presenter) renderEndpoints(gate *model.Gate, baseURL string) {
	fmt.Fprintf(p.out, "Identity:  %s/%s\n", baseURL, gate.ID)
	fmt.Fprintf(p.out, "Data:      %s/%s/data\n", baseURL, gate.ID)
	fmt.Fprintf(p.out, "Status:    %s/%s/status\n", baseURL, gate.ID)
	fmt.Fprintf(p.out, "API:       %s/api/%s/data\n", baseURL, gate.ID)
}

func (p *Presenter) renderIntegration(gate *model.Gate, baseURL string) {
	fmt.Fprintf(p.out, "Fetch your gate data from any client:\n\n")
	fmt.Fprintf(p.out, "  curl %s/api/%s/data\n\n", baseURL, gate.ID)
	fmt.Fprintf(p.out, "The response carries the connected source at %s\n", ui.RenderMuted(gate.SourceURL))
}

// Alert writes a level-up notice.
func (p *Presenter) Alert(gate *model.Gate) {
	fmt.Fprintf(p.out, "%s %s reached level %d\n",
		ui.RenderSuccess("LEVEL UP!"), gate.Name, gate.Level)
}

// progressBar renders frac in [0,1) as a fixed-width bar.
func progressBar(frac float64, width int) string {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac * float64(width))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

// sparkline maps points onto eight block heights, scaled to the series range.
func sparkline(points []int) string {
	min, max := points[0], points[0]
	for _, v := range points {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	levels := []rune(sparklineLevels)
	var b strings.Builder
	for _, v := range points {
		idx := 0
		if max > min {
			idx = (v - min) * (len(levels) - 1) / (max - min)
		}
		b.WriteRune(levels[idx])
	}
	return b.String()
}
