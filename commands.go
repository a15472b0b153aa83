package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iburimskiy/edna-dashboard/internal/config"
	"github.com/iburimskiy/edna-dashboard/internal/export"
	"github.com/iburimskiy/edna-dashboard/internal/particle"
	"github.com/iburimskiy/edna-dashboard/internal/upload"
)

const defaultSimDuration = 30 * time.Second

var (
	simPreset   string
	simFrames   int
	simEvery    int
	simWidth    int
	simHeight   int
	simUpload   string
	simDuration time.Duration
	simTick     time.Duration

	exportDir string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a particle field and the upload pipeline without a window",
	Long: `Runs one particle preset against an offscreen recorder on a fixed
frame interval and prints field statistics every --every frames.

With --upload the simulated processing job runs alongside it and its
progress is printed as it changes. The command exits once both have
finished. The job lasts --duration (30s unless set); --duration 0 uses
upload.duration from the config, which defaults to 30 minutes.

Example:
  edna simulate --preset crystal --frames 600
  edna simulate --upload sample.json --duration 20s --tick 500ms`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

var chatCmd = &cobra.Command{
	Use:   "chat [question]",
	Short: "Ask the assistant one question about the loaded analysis",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runChat,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the analysis tables as CSV files",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE:  runConfigDump,
}

func init() {
	f := simulateCmd.Flags()
	f.StringVar(&simPreset, "preset", "background", "particle preset from the fields section")
	f.IntVar(&simFrames, "frames", 300, "frames to run")
	f.IntVar(&simEvery, "every", 60, "print stats every N frames")
	f.IntVar(&simWidth, "width", 1280, "viewport width")
	f.IntVar(&simHeight, "height", 800, "viewport height")
	f.StringVar(&simUpload, "upload", "", "also simulate processing this .json file")
	f.DurationVar(&simDuration, "duration", defaultSimDuration, "processing duration, 0 for upload.duration from config")
	f.DurationVar(&simTick, "tick", 0, "processing tick (default from config)")

	exportCmd.Flags().StringVarP(&exportDir, "dir", "d", "export", "output directory")
}

// frameProbe wraps the recorder so statistics are read on the loop's own
// goroutine, just before the next frame clears the previous one.
type frameProbe struct {
	*particle.Recorder
	anim   *particle.Animator
	out    io.Writer
	every  int
	limit  int
	frames int
	done   chan struct{}
}

func (p *frameProbe) Clear() {
	if p.frames > 0 && p.anim.Mounted() {
		if p.frames%p.every == 0 || p.frames == p.limit {
			st := p.anim.Field().Stats()
			fmt.Fprintf(p.out, "frame %5d  particles %4d  circles %4d  edges %5d  mean opacity %.3f\n",
				p.frames, st.Particles, len(p.Circles()), st.Edges, st.MeanOpacity)
		}
		if p.frames == p.limit {
			close(p.done)
		}
	}
	p.frames++
	p.Recorder.Clear()
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	pc, err := cfg.Field(simPreset)
	if err != nil {
		return err
	}
	if simFrames <= 0 || simWidth <= 0 || simHeight <= 0 {
		return errors.New("frames, width and height must be positive")
	}

	ctx, cancel := signalContext()
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	out := cmd.OutOrStdout()

	anim := particle.NewAnimator(pc, newRand(cfg))
	probe := &frameProbe{
		Recorder: particle.NewRecorder(simWidth, simHeight),
		anim:     anim,
		out:      out,
		every:    max(simEvery, 1),
		limit:    simFrames,
		done:     make(chan struct{}),
	}
	interval := time.Second / time.Duration(max(cfg.Window.TPS, 1))
	g.Go(func() error {
		sched := particle.NewTickerScheduler(interval)
		defer sched.Close()
		loop := particle.NewLoop(sched, anim, probe)
		loop.Start()
		defer loop.Stop()

		logger.Info("particle run started",
			zap.String("preset", simPreset),
			zap.Int("frames", simFrames),
			zap.Duration("interval", interval))
		select {
		case <-probe.done:
		case <-ctx.Done():
			return ctx.Err()
		}
		loop.Stop()
		fmt.Fprintf(out, "particles done: %d frames, %d skipped\n", loop.Frames(), anim.Skipped())
		return nil
	})

	if simUpload != "" {
		duration, tick := simulateTiming(cfg)
		sim := upload.NewSimulator(duration, tick, logger.Named("upload"))
		if err := sim.Select(simUpload); err != nil {
			return err
		}
		fmt.Fprintf(out, "upload %s: %d steps\n", simUpload, sim.Steps())
		runDone := make(chan struct{})
		g.Go(func() error {
			defer close(runDone)
			return sim.Run(ctx)
		})
		g.Go(func() error {
			return reportProgress(ctx, out, sim, runDone)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// reportProgress prints each new progress value until the run ends.
func reportProgress(ctx context.Context, out io.Writer, sim *upload.Simulator, done <-chan struct{}) error {
	t := time.NewTicker(50 * time.Millisecond)
	defer t.Stop()
	last := -1
	for {
		select {
		case <-done:
			st := sim.Status()
			fmt.Fprintf(out, "upload %s after %s\n", strings.ToLower(st.State.String()), upload.FormatElapsed(st.Elapsed))
			return nil
		case <-ctx.Done():
			return nil
		case <-t.C:
			if st := sim.Status(); st.State == upload.Processing && st.Progress != last {
				last = st.Progress
				fmt.Fprintf(out, "upload %3d%%  elapsed %s\n", st.Progress, upload.FormatElapsed(st.Elapsed))
			}
		}
	}
}

// simulateTiming resolves the upload job's duration and tick for simulate.
func simulateTiming(cfg *config.Config) (time.Duration, time.Duration) {
	return orDefault(simDuration, cfg.Upload.Duration), orDefault(simTick, cfg.Upload.Tick)
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, orDefault(cfg.Chat.Timeout, time.Minute))
	defer cancelTimeout()

	session := newChat(ctx, cfg, store.Current())
	reply, err := session.Send(ctx, strings.Join(args, " "))
	fmt.Fprintln(cmd.OutOrStdout(), reply.Content)
	return err
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	paths, err := export.WriteAll(ctx, exportDir, store.Current())
	if err != nil {
		return err
	}
	logger.Info("export complete", zap.String("dir", exportDir), zap.Int("files", len(paths)))
	for _, p := range paths {
		fmt.Fprintln(cmd.OutOrStdout(), p)
	}
	return nil
}

func runConfigDump(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	data, err := cfg.MarshalYAMLBytes()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
