package specfile_test

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ardnew/specscan/specfile"
)

const exampleFile = `#F /data/example.spec
#O0 Two Theta  Theta
#o0 tth th

#S 1  ascan  th 0 1 2 1
#P0 20 10
#N 3
#L Theta  Monitor  Detector
0 1000 7
0.5 1000 9
#C beam dump
1 1000 11

#S 1  ascan  th 1 2 2 1
#P0 20 11
#N 3
#L Theta  Monitor  Detector
1 1000 13
1.5 1000 12
`

func ExampleParse() {
	reg, err := specfile.Parse(strings.NewReader(exampleFile))
	if err != nil {
		fmt.Println(err)

		return
	}

	for s := range reg.Scans() {
		det, _ := s.Data.Get("Detector")
		fmt.Println(s.Number, s.Index, s.Points, s.Counters().Labels(), det)
	}

	_, err = reg.Lookup(1)
	fmt.Println(errors.Is(err, specfile.ErrAmbiguousScan))

	// Output:
	// 1 0 3 [Monitor Detector] [7 9 11]
	// 1 1 2 [Monitor Detector] [13 12]
	// true
}

func ExampleParser_NextPoint() {
	p := specfile.NewFromString(exampleFile)

	s, err := p.NextScanHeader()
	if err != nil {
		fmt.Println(err)

		return
	}

	theta, _ := s.Motors.Get("Theta")
	fmt.Println("scan", s.Number, "theta", theta, "labels", s.Labels)

	for {
		row, err := p.NextPoint()
		if errors.Is(err, specfile.ErrScanEnd) {
			break
		}

		fmt.Println(row.Point, row.Values)
	}

	fmt.Println(s.Comments[0].Point, s.Comments[0].Text)

	// Output:
	// scan 1 theta 10 labels [Theta Monitor Detector]
	// 0 [0 1000 7]
	// 1 [0.5 1000 9]
	// 2 [1 1000 11]
	// 2 beam dump
}
