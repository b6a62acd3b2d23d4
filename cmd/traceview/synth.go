package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"

	"github.com/Mr-Dark-debug/traceviewer/internal/trace"
)

// maxSynthEvents bounds the output whatever depth and fan-out ask for.
const maxSynthEvents = 1 << 20

var (
	synthOutput string
	synthDepth  int
	synthCalls  int
	synthSeed   uint64

	synthCmd = &cobra.Command{
		Use:   "synth",
		Short: "Write a synthetic nested trace",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if synthDepth < 0 || synthDepth > 16 {
				return fmt.Errorf("depth must be in [0, 16], got %d", synthDepth)
			}
			if synthCalls < 1 {
				return fmt.Errorf("calls must be positive, got %d", synthCalls)
			}

			functions, events := synthesize(synthDepth, synthCalls, synthSeed)

			f, err := os.Create(synthOutput)
			if err != nil {
				return fmt.Errorf("creating %s: %w", synthOutput, err)
			}
			if err := trace.Encode(f, functions, events); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("closing %s: %w", synthOutput, err)
			}

			logger.Info("wrote synthetic trace",
				zap.String("output", synthOutput),
				zap.Int("functions", len(functions)),
				zap.Int("events", len(events)),
			)
			return nil
		},
	}
)

func init() {
	synthCmd.Flags().StringVarP(&synthOutput, "output", "o", "synth.trc", "Output trace file")
	synthCmd.Flags().IntVar(&synthDepth, "depth", 4, "Call nesting below main")
	synthCmd.Flags().IntVar(&synthCalls, "calls", 3, "Most calls each function makes one level down")
	synthCmd.Flags().Uint64Var(&synthSeed, "seed", 1, "Random seed")
	rootCmd.AddCommand(synthCmd)
}

// synthesize returns a well-nested trace: main calls level_1 up to calls
// times, which calls level_2, and so on down to depth. Leaves sometimes
// emit a debug output. The same seed always yields the same trace.
func synthesize(depth, calls int, seed uint64) (trace.FunctionTable, []trace.Event) {
	functions := trace.FunctionTable{{ID: 1, Name: "main"}}
	for level := 1; level <= depth; level++ {
		functions = append(functions, trace.Function{
			ID:   int32(level + 1),
			Name: fmt.Sprintf("level_%d", level),
		})
	}

	g := &synthesizer{rng: rand.New(rand.NewSource(seed)), depth: depth, calls: calls}
	g.call(0)
	return functions, g.events
}

type synthesizer struct {
	rng    *rand.Rand
	depth  int
	calls  int
	now    int64
	leaves int
	events []trace.Event
}

func (g *synthesizer) tick() {
	g.now += 1 + g.rng.Int63n(50)
}

func (g *synthesizer) call(level int) {
	id := int32(level + 1)
	g.events = append(g.events, trace.Enter(id, g.now))
	g.tick()

	if level < g.depth {
		for range 1 + g.rng.Intn(g.calls) {
			if len(g.events) >= maxSynthEvents {
				break
			}
			g.call(level + 1)
		}
	} else if g.rng.Intn(2) == 0 {
		g.leaves++
		g.events = append(g.events, trace.DebugOut(id, g.now, fmt.Sprintf("leaf %d", g.leaves)))
		g.tick()
	}

	g.events = append(g.events, trace.Exit(id, g.now, int32(g.rng.Intn(3))))
	g.tick()
}
