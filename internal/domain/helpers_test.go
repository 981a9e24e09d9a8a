package domain

import (
	"fmt"
	"strings"
)

// interval describes one observation interval for rawLines.
type interval struct {
	rainRate  string
	z         string
	particles string
	hms       string
	nd        []string
	vd        []string
	raw       []string
}

func fullInterval(sec int) interval {
	nd := make([]string, BinCount)
	vd := make([]string, BinCount)
	for i := range BinCount {
		nd[i] = fmt.Sprintf("%.3f", float64(i)/10)
		vd[i] = fmt.Sprintf("%.3f", float64(i)/4)
	}
	raw := make([]string, RawMatrixSize)
	for i := range raw {
		raw[i] = fmt.Sprintf("%03d", i%7)
	}
	return interval{
		rainRate:  "1.250",
		z:         "22.500",
		particles: "42",
		hms:       fmt.Sprintf("%02d:%02d:%02d", sec/3600, sec/60%60, sec%60),
		nd:        nd,
		vd:        vd,
		raw:       raw,
	}
}

// rawLines renders intervals in instrument order with the usual CRLF and
// trailing semicolons. Empty fields are left out.
func rawLines(intervals ...interval) string {
	var b strings.Builder
	for _, iv := range intervals {
		if iv.rainRate != "" {
			fmt.Fprintf(&b, "01:%s\r\n", iv.rainRate)
		}
		b.WriteString("02:0000.00\r\n")
		if iv.z != "" {
			fmt.Fprintf(&b, "07:%s\r\n", iv.z)
		}
		if iv.particles != "" {
			fmt.Fprintf(&b, "11:%s\r\n", iv.particles)
		}
		if iv.hms != "" {
			fmt.Fprintf(&b, "20:%s\r\n", iv.hms)
		}
		if iv.nd != nil {
			fmt.Fprintf(&b, "90:%s;\r\n", strings.Join(iv.nd, ";"))
		}
		if iv.vd != nil {
			fmt.Fprintf(&b, "91:%s;\r\n", strings.Join(iv.vd, ";"))
		}
		if iv.raw != nil {
			fmt.Fprintf(&b, "93:%s;\r\n", strings.Join(iv.raw, ";"))
		}
		b.WriteString("\r\n")
	}
	return b.String()
}
