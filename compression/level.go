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

package compression

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/sys/cpu"
)

// Level describes which batched kernels the engine may use.
type Level uint32

const (
	// LevelScalar uses the reference one-block-at-a-time kernels.
	LevelScalar Level = iota

	// LevelWide1 batches two resource blocks per iteration over
	// 256-bit word lanes. Requires AVX2.
	LevelWide1

	// LevelWide2 batches four resource blocks per iteration over
	// 512-bit word lanes. Requires AVX-512 F, BW, DQ, and VL.
	LevelWide2

	// LevelDetect selects the best level supported by the CPU,
	// subject to the OFH_OPT_LEVEL environment variable.
	LevelDetect = Level(0xFFFFFFFF)
)

const levelEnvVar = "OFH_OPT_LEVEL"

func (l Level) String() string {
	switch l {
	case LevelScalar:
		return "scalar"
	case LevelWide1:
		return "wide1"
	case LevelWide2:
		return "wide2"
	case LevelDetect:
		return "auto"
	}
	return fmt.Sprintf("level(%d)", uint32(l))
}

// ParseLevel converts a level name from configuration into a Level.
// The empty string and "auto" select LevelDetect.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return LevelDetect, nil
	case "scalar", "none":
		return LevelScalar, nil
	case "wide1":
		return LevelWide1, nil
	case "wide2":
		return LevelWide2, nil
	}
	return 0, fmt.Errorf("unknown capability level %q", s)
}

// levelFromCPUFeatures determines the maximum level supported by the
// CPU. On non-x86 hardware it returns LevelScalar.
func levelFromCPUFeatures() Level {
	if cpu.X86.HasAVX512F &&
		cpu.X86.HasAVX512BW &&
		cpu.X86.HasAVX512DQ &&
		cpu.X86.HasAVX512VL {
		return LevelWide2
	}
	if cpu.X86.HasAVX2 {
		return LevelWide1
	}
	return LevelScalar
}

var (
	detectOnce    sync.Once
	detectedLevel Level
)

// DetectLevel returns the level to use when none is pinned, based on
// the CPU features and the OFH_OPT_LEVEL environment variable, which
// can only lower the detected level. The probe runs once; the result
// is treated as configuration for the lifetime of the process.
func DetectLevel() Level {
	detectOnce.Do(func() {
		detectedLevel = detectLevel()
	})
	return detectedLevel
}

func detectLevel() Level {
	detected := levelFromCPUFeatures()
	val, _ := os.LookupEnv(levelEnvVar)
	if val == "" {
		return detected
	}
	env, err := ParseLevel(val)
	if err != nil || env == LevelDetect {
		return detected
	}
	if env < detected {
		return env
	}
	return detected
}
