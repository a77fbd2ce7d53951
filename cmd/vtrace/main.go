// Command vtrace traces a raster image into an SVG document.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/gogpu/vtrace"
)

func main() {
	app := &cli.App{
		Name:      "vtrace",
		Usage:     "trace a raster image into SVG",
		ArgsUsage: "INPUT",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write SVG to `FILE` instead of stdout",
			},
			&cli.Float64Flag{
				Name:  "threshold",
				Usage: "luminance threshold 0..255, or -1 for auto",
				Value: vtrace.ThresholdAuto,
			},
			&cli.BoolFlag{
				Name:  "white-on-black",
				Usage: "trace the bright side of the threshold",
			},
			&cli.StringFlag{
				Name:  "turn-policy",
				Usage: "ambiguity resolution: black, white, left, right, minority, majority",
				Value: string(vtrace.TurnPolicyMinority),
			},
			&cli.IntFlag{
				Name:  "turd-size",
				Usage: "suppress speckles of up to this many pixels",
				Value: 2,
			},
			&cli.Float64Flag{
				Name:  "alpha-max",
				Usage: "corner threshold parameter",
				Value: 1,
			},
			&cli.BoolFlag{
				Name:  "no-opt",
				Usage: "disable curve optimization",
			},
			&cli.Float64Flag{
				Name:  "opt-tolerance",
				Usage: "curve optimization tolerance",
				Value: 0.2,
			},
			&cli.StringFlag{
				Name:  "color",
				Usage: "fill color (CSS color or auto)",
				Value: vtrace.ColorAuto,
			},
			&cli.StringFlag{
				Name:  "background",
				Usage: "background color (CSS color or transparent)",
				Value: vtrace.ColorTransparent,
			},
			&cli.BoolFlag{
				Name:  "posterize",
				Usage: "trace multiple thresholds into stacked layers",
			},
			&cli.IntFlag{
				Name:  "steps",
				Usage: "posterize layer count, or -1 for auto",
				Value: vtrace.StepsAuto,
			},
			&cli.StringFlag{
				Name:  "fill-strategy",
				Usage: "posterize fill strategy: dominant, mean, median, spread",
				Value: string(vtrace.FillDominant),
			},
			&cli.StringFlag{
				Name:  "range-distribution",
				Usage: "posterize threshold spacing: auto, equal",
				Value: string(vtrace.RangesAuto),
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "vtrace:", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("expected exactly one input image", 2)
	}
	input := c.Args().First()

	opts := []vtrace.Option{
		vtrace.WithThreshold(c.Float64("threshold")),
		vtrace.WithBlackOnWhite(!c.Bool("white-on-black")),
		vtrace.WithTurnPolicy(vtrace.TurnPolicy(c.String("turn-policy"))),
		vtrace.WithTurdSize(c.Int("turd-size")),
		vtrace.WithAlphaMax(c.Float64("alpha-max")),
		vtrace.WithOptCurve(!c.Bool("no-opt")),
		vtrace.WithOptTolerance(c.Float64("opt-tolerance")),
		vtrace.WithColor(c.String("color")),
		vtrace.WithBackground(c.String("background")),
	}

	var svg string
	if c.Bool("posterize") {
		opts = append(opts,
			vtrace.WithSteps(c.Int("steps")),
			vtrace.WithFillStrategy(vtrace.FillStrategy(c.String("fill-strategy"))),
			vtrace.WithRangeDistribution(vtrace.RangeDistribution(c.String("range-distribution"))),
		)
		pz, err := vtrace.NewPosterizer(opts...)
		if err != nil {
			return err
		}
		if err := pz.LoadImage(input); err != nil {
			return err
		}
		if svg, err = pz.SVG(); err != nil {
			return err
		}
	} else {
		p, err := vtrace.New(opts...)
		if err != nil {
			return err
		}
		if err := p.LoadImage(input); err != nil {
			return err
		}
		if svg, err = p.SVG(); err != nil {
			return err
		}
	}

	if out := c.String("output"); out != "" {
		return os.WriteFile(out, []byte(svg+"\n"), 0o644)
	}
	fmt.Println(svg)
	return nil
}
