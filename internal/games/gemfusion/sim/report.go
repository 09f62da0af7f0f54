package sim

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/vovakirdan/gemfusion/internal/games/gemfusion/engine"
)

// Confidence is the level of every interval in the report.
const Confidence = 0.95

var lang = language.English

// CI is a closed confidence interval.
type CI struct {
	Lo float64
	Hi float64
}

// Report aggregates a set of trials.
type Report struct {
	LevelID string
	Trials  int
	Moves   int

	// WithinBound counts moves whose cascade finished without the safety bound.
	WithinBound int
	WithinRate  float64
	WithinCI    CI

	DepthMean float64
	DepthStd  float64
	DepthMax  int

	Wins    int
	WinRate float64
	WinCI   CI

	ScoreMean float64
	ScoreStd  float64
	Stars     [engine.StarCount + 1]int // trials per star count
	Shuffles  int
	Stuck     int
	Elapsed   time.Duration
}

// Summarize builds a report from finished trials.
func Summarize(levelID string, trials []Trial) *Report {
	r := &Report{LevelID: levelID, Trials: len(trials)}

	var depths, scores []float64
	for _, t := range trials {
		for _, d := range t.Depths {
			depths = append(depths, float64(d))
			r.DepthMax = max(r.DepthMax, d)
		}
		r.Moves += len(t.Depths)
		r.WithinBound += len(t.Depths) - t.Aborted
		r.Shuffles += t.Shuffles
		scores = append(scores, float64(t.Score))
		if t.Outcome == engine.OutcomeWon {
			r.Wins++
		}
		if t.Stuck {
			r.Stuck++
		}
		if t.Stars >= 0 && t.Stars < len(r.Stars) {
			r.Stars[t.Stars]++
		}
	}

	r.DepthMean, r.DepthStd = meanStd(depths)
	r.ScoreMean, r.ScoreStd = meanStd(scores)
	r.WithinRate, r.WithinCI = ProportionCI(r.WithinBound, r.Moves, Confidence)
	r.WinRate, r.WinCI = ProportionCI(r.Wins, r.Trials, Confidence)
	return r
}

// meanStd returns the sample mean and standard deviation. The deviation of
// fewer than two samples is zero.
func meanStd(x []float64) (float64, float64) {
	switch len(x) {
	case 0:
		return 0, 0
	case 1:
		return x[0], 0
	}
	return stat.MeanStdDev(x, nil)
}

// ProportionCI returns the point estimate and the Clopper-Pearson exact
// interval of k successes out of n.
func ProportionCI(k, n int, confidence float64) (float64, CI) {
	if n == 0 {
		return 0, CI{Lo: 0, Hi: 1}
	}
	alpha := 1 - confidence
	pHat := float64(k) / float64(n)

	var ci CI
	if k == 0 {
		ci.Lo = 0
	} else {
		b := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
		ci.Lo = b.Quantile(alpha / 2)
	}
	if k == n {
		ci.Hi = 1
	} else {
		b := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
		ci.Hi = b.Quantile(1 - alpha/2)
	}
	return pHat, ci
}

// Format writes the report as a two-column table.
func (r *Report) Format(w io.Writer) error {
	p := message.NewPrinter(lang)
	rows := [][2]string{
		{"Level", r.LevelID},
		{"Trials", p.Sprintf("%d", r.Trials)},
		{"Moves", p.Sprintf("%d", r.Moves)},
		{"Within safety bound", p.Sprintf("%.2f %%", 100*r.WithinRate)},
		{"Bound rate 95% CI", p.Sprintf("[%.2f%%, %.2f%%]", 100*r.WithinCI.Lo, 100*r.WithinCI.Hi)},
		{"Cascade depth", p.Sprintf("%.2f ± %.2f (max %d)", r.DepthMean, r.DepthStd, r.DepthMax)},
		{"Win rate", p.Sprintf("%.2f %%", 100*r.WinRate)},
		{"Win rate 95% CI", p.Sprintf("[%.2f%%, %.2f%%]", 100*r.WinCI.Lo, 100*r.WinCI.Hi)},
		{"Final score", p.Sprintf("%.0f ± %.0f", r.ScoreMean, r.ScoreStd)},
		{"Stars 0/1/2/3", p.Sprintf("%d / %d / %d / %d", r.Stars[0], r.Stars[1], r.Stars[2], r.Stars[3])},
		{"Shuffles", p.Sprintf("%d", r.Shuffles)},
		{"Stuck sessions", p.Sprintf("%d", r.Stuck)},
	}
	if r.Elapsed > 0 {
		rows = append(rows, [2]string{"Elapsed", r.Elapsed.Round(time.Millisecond).String()})
	}
	_, err := io.WriteString(w, table("Simulation "+r.LevelID, rows))
	return err
}

func table(title string, rows [][2]string) string {
	keyW, valW := 0, 0
	for _, row := range rows {
		keyW = max(keyW, runewidth.StringWidth(row[0]))
		valW = max(valW, runewidth.StringWidth(row[1]))
	}
	keyW += 2
	valW += 2
	inner := keyW + valW + 1
	if tw := runewidth.StringWidth(title) + 2; tw > inner {
		valW += tw - inner
		inner = tw
	}

	var sb strings.Builder
	top := "+" + strings.Repeat("-", inner) + "+\n"
	divider := "+" + strings.Repeat("-", keyW) + "+" + strings.Repeat("-", valW) + "+\n"

	titleW := runewidth.StringWidth(title)
	left := (inner - titleW) / 2
	sb.WriteString(top)
	fmt.Fprintf(&sb, "|%s%s%s|\n", pad(left), title, pad(inner-titleW-left))
	sb.WriteString(divider)
	for _, row := range rows {
		fmt.Fprintf(&sb, "| %s%s | %s%s |\n",
			row[0], pad(keyW-2-runewidth.StringWidth(row[0])),
			row[1], pad(valW-2-runewidth.StringWidth(row[1])))
	}
	sb.WriteString(divider)
	return sb.String()
}

func pad(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
