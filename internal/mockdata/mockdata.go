// Package mockdata writes synthetic Parsivel raw files for tests and local
// runs. Output follows the instrument's line layout, including the CRLF
// endings, trailing semicolons, and untracked status tags.
package mockdata

import (
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/couchcryptid/disdrometer-etl/internal/domain"
)

// Options controls a generated file.
type Options struct {
	Intervals    int
	StartSeconds int // seconds of day of the first interval
	StepSeconds  int // defaults to 60
	Seed         uint64

	// SentinelEvery masks reflectivity and empties the upper drop classes
	// on every Nth interval. Zero disables it.
	SentinelEvery int

	// MalformedEvery truncates the 90 line of every Nth interval. Zero disables it.
	MalformedEvery int
}

// Write renders a raw file to w.
func Write(w io.Writer, opts Options) error {
	step := opts.StepSeconds
	if step <= 0 {
		step = 60
	}
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))

	for i := range opts.Intervals {
		sec := (opts.StartSeconds + i*step) % 86400
		sentinel := opts.SentinelEvery > 0 && (i+1)%opts.SentinelEvery == 0
		malformed := opts.MalformedEvery > 0 && (i+1)%opts.MalformedEvery == 0
		if err := writeInterval(w, rng, sec, sentinel, malformed); err != nil {
			return err
		}
	}
	return nil
}

func writeInterval(w io.Writer, rng *rand.Rand, sec int, sentinel, malformed bool) error {
	rate := rng.Float64() * 12
	z := 10*math.Log10(200*math.Pow(rate+0.01, 1.6)) + rng.NormFloat64()
	zField := fmt.Sprintf("%.3f", z)
	if zField == "-9.999" {
		zField = "-9.998"
	}
	if sentinel {
		zField = fmt.Sprintf("%.3f", domain.Sentinel)
	}

	nd := make([]string, domain.BinCount)
	vd := make([]string, domain.BinCount)
	raw := make([]string, domain.RawMatrixSize)
	particles := 0
	for d := range domain.BinCount {
		// Exponential-like spectrum: small drops dominate.
		lambda := 4.1 * math.Pow(rate+0.1, -0.21)
		logN := max(math.Log10(8000)-lambda*float64(d)*0.25/math.Ln10, -3)
		switch {
		case d > 22 || (sentinel && d > 16):
			nd[d] = fmt.Sprintf("%.3f", domain.Sentinel)
			vd[d] = "0.000"
		default:
			nd[d] = fmt.Sprintf("%.3f", logN)
			vd[d] = fmt.Sprintf("%.3f", 9.65-10.3*math.Exp(-0.6*float64(d+1)*0.3))
		}
		for v := range domain.BinCount {
			n := 0
			if d <= 22 && abs(v-d) <= 2 {
				n = rng.IntN(8)
			}
			particles += n
			raw[d*domain.BinCount+v] = fmt.Sprintf("%03d", n)
		}
	}
	if malformed {
		nd = nd[:domain.BinCount-1]
	}

	hh, mm, ss := sec/3600, sec/60%60, sec%60
	lines := []string{
		fmt.Sprintf("01:%.3f", rate),
		fmt.Sprintf("02:%07.2f", rate*60/1000),
		fmt.Sprintf("07:%s", zField),
		"08:20000",
		fmt.Sprintf("11:%d", particles),
		"18:0",
		fmt.Sprintf("20:%02d:%02d:%02d", hh, mm, ss),
		"90:" + strings.Join(nd, ";") + ";",
		"91:" + strings.Join(vd, ";") + ";",
		"93:" + strings.Join(raw, ";") + ";",
	}
	for _, l := range lines {
		if _, err := io.WriteString(w, l+"\r\n"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\r\n")
	return err
}

// WriteConditionalMatrix renders a comma separated 32x32 matrix that keeps
// counts within two classes of the diagonal.
func WriteConditionalMatrix(w io.Writer) error {
	vals := make([]string, domain.RawMatrixSize)
	for i := range vals {
		v := 0
		if abs(i/domain.BinCount-i%domain.BinCount) <= 2 {
			v = 1
		}
		vals[i] = strconv.Itoa(v)
	}
	_, err := io.WriteString(w, strings.Join(vals, ",")+"\n")
	return err
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
