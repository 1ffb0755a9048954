// Copyright 2025 Fronthaul Authors
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

// ofhdump decodes the user-plane messages in a fronthaul capture file
// and prints a per-message summary.
//
// Usage:
//
//	ofhdump -c config.yaml capture.ofhc
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ofh-go/fronthaul/capture"
	"github.com/ofh-go/fronthaul/uplane"
)

var (
	dashc string
	dashv bool
)

func init() {
	flag.StringVar(&dashc, "c", "", "decoder configuration (YAML)")
	flag.BoolVar(&dashv, "v", false, "print per-section sample statistics")
}

func exitf(f string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, f, args...)
	os.Exit(1)
}

func main() {
	flag.Parse()
	if flag.NArg() != 1 || dashc == "" {
		exitf("usage: ofhdump -c config.yaml [-v] capture.ofhc\n")
	}

	cfg, err := uplane.LoadConfig(dashc)
	if err != nil {
		exitf("loading config: %s\n", err)
	}
	dec, err := uplane.NewDecoder(*cfg)
	if err != nil {
		exitf("creating decoder: %s\n", err)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		exitf("%s\n", err)
	}
	defer f.Close()
	r, err := capture.NewReader(f)
	if err != nil {
		exitf("%s: %s\n", flag.Arg(0), err)
	}
	defer r.Close()
	fmt.Printf("capture session %s\n", r.Session())

	var total, rejected int
	for {
		frame, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			exitf("frame %d: %s\n", total, err)
		}
		total++
		msg, err := dec.Decode(frame)
		if err != nil {
			rejected++
			fmt.Printf("#%d REJECT %s\n", total, reason(err))
			continue
		}
		h := &msg.Header
		fmt.Printf("#%d %s frame=%d sf=%d slot=%d sym=%d sections=%d\n",
			total, h.Direction, h.Frame, h.Subframe, h.Slot, h.Symbol, len(msg.Sections))
		if dashv {
			for i := range msg.Sections {
				s := &msg.Sections[i]
				fmt.Printf("  section %d: prb [%d, +%d) %s/%d peak %.4f\n",
					s.SectionID, s.StartPRB, s.NumPRB,
					s.Params.Method, s.Params.BitWidth, peak(s.Samples))
			}
		}
	}
	fmt.Printf("%d frames, %d rejected\n", total, rejected)
	if rejected > 0 {
		os.Exit(2)
	}
}

func reason(err error) string {
	switch {
	case errors.Is(err, uplane.ErrIncomplete):
		return "incomplete"
	case errors.Is(err, uplane.ErrMalformed):
		return "malformed"
	case errors.Is(err, uplane.ErrOutOfRange):
		return "out-of-range"
	case errors.Is(err, uplane.ErrNoSections):
		return "no-valid-section"
	}
	return err.Error()
}

func peak(samples []complex64) float64 {
	var m float64
	for _, c := range samples {
		if re := float64(real(c)); re > m {
			m = re
		} else if -re > m {
			m = -re
		}
		if im := float64(imag(c)); im > m {
			m = im
		} else if -im > m {
			m = -im
		}
	}
	return m
}
