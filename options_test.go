package vtrace

import (
	"errors"
	"testing"
)

func TestOptionValidation(t *testing.T) {
	tests := []struct {
		name    string
		opt     Option
		wantErr bool
	}{
		{name: "valid turn policy", opt: WithTurnPolicy(TurnPolicyMajority)},
		{name: "bad turn policy", opt: WithTurnPolicy("diagonal"), wantErr: true},
		{name: "valid turd size", opt: WithTurdSize(0)},
		{name: "negative turd size", opt: WithTurdSize(-1), wantErr: true},
		{name: "valid alpha max", opt: WithAlphaMax(1.3)},
		{name: "negative alpha max", opt: WithAlphaMax(-0.1), wantErr: true},
		{name: "valid opt tolerance", opt: WithOptTolerance(0)},
		{name: "negative opt tolerance", opt: WithOptTolerance(-1), wantErr: true},
		{name: "auto threshold", opt: WithThreshold(ThresholdAuto)},
		{name: "threshold 0", opt: WithThreshold(0)},
		{name: "threshold 255", opt: WithThreshold(255)},
		{name: "threshold too high", opt: WithThreshold(256), wantErr: true},
		{name: "threshold too low", opt: WithThreshold(-2), wantErr: true},
		{name: "valid size", opt: WithSize(1, 1)},
		{name: "zero size", opt: WithSize(0, 10), wantErr: true},
		{name: "auto steps", opt: WithSteps(StepsAuto)},
		{name: "steps 255", opt: WithSteps(255)},
		{name: "steps 0", opt: WithSteps(0), wantErr: true},
		{name: "steps 256", opt: WithSteps(256), wantErr: true},
		{name: "valid step values", opt: WithStepValues(10, 20, 250)},
		{name: "empty step values", opt: WithStepValues(), wantErr: true},
		{name: "unordered step values", opt: WithStepValues(20, 10), wantErr: true},
		{name: "duplicate step values", opt: WithStepValues(10, 10), wantErr: true},
		{name: "out of range step values", opt: WithStepValues(10, 300), wantErr: true},
		{name: "valid fill strategy", opt: WithFillStrategy(FillMedian)},
		{name: "bad fill strategy", opt: WithFillStrategy("vibes"), wantErr: true},
		{name: "valid distribution", opt: WithRangeDistribution(RangesEqual)},
		{name: "bad distribution", opt: WithRangeDistribution("log"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultOptions()
			err := tt.opt(&o)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidParameter) {
					t.Errorf("error = %v, want ErrInvalidParameter", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()

	if o.TurnPolicy != TurnPolicyMinority {
		t.Errorf("TurnPolicy = %q, want minority", o.TurnPolicy)
	}
	if o.TurdSize != 2 {
		t.Errorf("TurdSize = %d, want 2", o.TurdSize)
	}
	if o.AlphaMax != 1 {
		t.Errorf("AlphaMax = %v, want 1", o.AlphaMax)
	}
	if !o.OptCurve {
		t.Error("OptCurve should default to true")
	}
	if o.OptTolerance != 0.2 {
		t.Errorf("OptTolerance = %v, want 0.2", o.OptTolerance)
	}
	if o.Threshold != ThresholdAuto {
		t.Errorf("Threshold = %v, want auto", o.Threshold)
	}
	if !o.BlackOnWhite {
		t.Error("BlackOnWhite should default to true")
	}
	if o.Color != ColorAuto || o.Background != ColorTransparent {
		t.Errorf("Color/Background = %q/%q, want auto/transparent", o.Color, o.Background)
	}
	if o.Steps != StepsAuto {
		t.Errorf("Steps = %d, want auto", o.Steps)
	}
	if o.FillStrategy != FillDominant {
		t.Errorf("FillStrategy = %q, want dominant", o.FillStrategy)
	}
	if o.RangeDistribution != RangesAuto {
		t.Errorf("RangeDistribution = %q, want auto", o.RangeDistribution)
	}
}

func TestWithStepsClearsValues(t *testing.T) {
	o := DefaultOptions()
	if err := WithStepValues(10, 20)(&o); err != nil {
		t.Fatalf("WithStepValues: %v", err)
	}
	if err := WithSteps(3)(&o); err != nil {
		t.Fatalf("WithSteps: %v", err)
	}
	if o.StepValues != nil {
		t.Errorf("StepValues = %v after WithSteps, want nil", o.StepValues)
	}
	if o.Steps != 3 {
		t.Errorf("Steps = %d, want 3", o.Steps)
	}
}

func TestTracingEqual(t *testing.T) {
	a := DefaultOptions()
	b := a

	if !tracingEqual(a, b) {
		t.Error("identical options reported unequal")
	}

	b.Color = "red"
	b.Background = "blue"
	b.Width = 400
	if !tracingEqual(a, b) {
		t.Error("presentation-only changes reported as tracing changes")
	}

	b = a
	b.Threshold = 17
	if tracingEqual(a, b) {
		t.Error("threshold change not detected")
	}
}
