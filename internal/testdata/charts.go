// Package testdata holds chart text shared by the package tests.
package testdata

import (
	"strconv"
	"strings"
)

// Basic covers every section: a circle, two sliders (one under an
// inherited timing point), a break and a spinner.
const Basic = `osu file format v14

[General]
AudioFilename: audio.mp3
AudioLeadIn: 0
PreviewTime: 1000
SampleSet: Soft
StackLeniency: 0.7
Mode: 0

[Editor]
DistanceSpacing: 1.2

[Metadata]
Title:Circles
TitleUnicode:Circles
Artist:Test
Creator:meutraa
Version:Normal
BeatmapID:1
BeatmapSetID:2

[Difficulty]
HPDrainRate:5
CircleSize:4
OverallDifficulty:5
ApproachRate:8
SliderMultiplier:1
SliderTickRate:2

[Events]
0,0,"bg.jpg",0,0
2,5000,7000

[TimingPoints]
0,500,4,2,0,60,1,0
3000,-50,4,2,0,60,0,1

[Colours]
Combo1 : 255,0,0
Combo3 : 0,0,255

[HitObjects]
256,192,1000,5,0,0:0:0:0:
100,100,2000,2,0,L|200:100,1,100
300,200,3500,6,2,B|350:250|400:200,2,100,2|0|8,1:0|2:0|0:0,0:0:0:0:
256,192,8000,12,0,10000,0:0:0:0:
`

// Unsorted lists rows out of order, carries junk rows and omits
// ApproachRate.
const Unsorted = "\ufeffosu file format v14\r\n" + `
[Difficulty]
OverallDifficulty:7
CircleSize:abc

[TimingPoints]
2000,400,4,1,0,100,1,0
not,a,timing,point
0,500,4,1,0,100,1,0
1000,-200,4,1,0,100,0,0

[Colours]
Combo2 : 0,255,0
Combo9 : 1,2,3

[HitObjects]
100,100,3000,1,0
garbage
200,200,1000,1,0
64,64,2000,1,0,0:0:0:0:
10,10,2500,128,0,3000:0:0:0:0:
300,300,2000,5,0
`

// Legacy is an old format chart whose times are shifted by the legacy
// audio offset.
const Legacy = `osu file format v3

[General]
AudioFilename: old.mp3

[Difficulty]
OverallDifficulty:4

[TimingPoints]
100,500

[HitObjects]
256,192,1000,1,0
`

// Stacked puts three circles on the same spot in quick succession and a
// fourth one far away.
const Stacked = `osu file format v14

[General]
StackLeniency: 0.7

[Difficulty]
HPDrainRate:5
CircleSize:4
OverallDifficulty:5
ApproachRate:9
SliderMultiplier:1
SliderTickRate:1

[TimingPoints]
0,500,4,2,0,60,1,0

[HitObjects]
200,200,1000,5,0
200,200,1200,1,0
200,200,1400,1,0
400,300,1600,1,0
`

// Overlap starts a circle while a slider with two ticks is still running,
// then ends on a lone circle.
const Overlap = `osu file format v14

[Difficulty]
HPDrainRate:5
CircleSize:4
OverallDifficulty:5
ApproachRate:9
SliderMultiplier:1
SliderTickRate:1

[TimingPoints]
0,500,4,2,0,60,1,0

[HitObjects]
64,192,1000,5,0,L|364:192,1,300
400,300,1500,1,0
256,100,3000,1,0
`

// Long is a denser chart for calibration and autoplay runs.
var Long = buildLong()

func buildLong() string {
	var b strings.Builder
	b.WriteString(`osu file format v14

[Difficulty]
HPDrainRate:6
CircleSize:4
OverallDifficulty:8
ApproachRate:9
SliderMultiplier:1.4
SliderTickRate:1

[Events]
2,20000,24000

[TimingPoints]
0,400,4,2,0,60,1,0
16000,-100,4,2,0,60,0,0

[HitObjects]
`)
	positions := []string{"64,64", "448,64", "448,320", "64,320", "256,192"}
	t := 1000
	for i := 0; i < 60; i++ {
		if t >= 20000 && t < 24000 {
			t = 24000
		}
		pos := positions[i%len(positions)]
		switch i % 6 {
		case 2:
			b.WriteString(pos + "," + strconv.Itoa(t) + ",2,0,L|300:100,1,140\n")
			t += 800
		case 5:
			b.WriteString(pos + "," + strconv.Itoa(t) + ",6,0,P|200:250|300:300,2,140\n")
			t += 1200
		default:
			b.WriteString(pos + "," + strconv.Itoa(t) + ",1,0\n")
			t += 400
		}
	}
	b.WriteString("256,192," + strconv.Itoa(t) + ",12,0," + strconv.Itoa(t+3000) + "\n")
	return b.String()
}
