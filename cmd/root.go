// cmd/root.go wires the validated Config into a running Simulator and
// prints its metrics. Grounded on the teacher's cmd/root.go cobra
// root+run layout, adapted from flag-driven parameters to a single
// --config YAML file (§6) plus the --log level flag the teacher also
// exposes.
package cmd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/networksim/fabric-sim/sim"
	"github.com/networksim/fabric-sim/sim/distribution"
	"github.com/networksim/fabric-sim/sim/flowgen"
)

var (
	configPath  string
	logLevel    string
	metricsAddr string
)

var rootCmd = &cobra.Command{
	Use:   "fabric-sim",
	Short: "Discrete-event simulator for switch-fabric load-balancing policies",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one simulation from a config file and print its metrics as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", logLevel, err)
		}
		logrus.SetLevel(level)

		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}

		s, flows, err := build(cfg)
		if err != nil {
			return err
		}

		logrus.Infof("Starting simulation: duration=%v strategy=%q links=%d flows=%d",
			cfg.Simulation.Duration, cfg.Network.Strategy, len(cfg.Network.Links), len(flows))

		runErrs := s.Run(flows)
		for _, e := range runErrs {
			logrus.Warnf("simulation error: %v", e)
		}
		logrus.Info("Simulation complete.")

		if metricsAddr != "" {
			exp := newExporter()
			exp.snapshot(s)
			stop := serveMetrics(metricsAddr, exp)
			defer stop()
		}

		if err := writeResults(os.Stdout, s); err != nil {
			return err
		}
		if len(runErrs) > 0 {
			return fmt.Errorf("simulation reported %d error(s)", len(runErrs))
		}
		return nil
	},
}

// build constructs C1 through C7 from a validated Config (§6 Glue).
func build(cfg *sim.Config) (*sim.Simulator, []*sim.Flow, error) {
	sizeDist, err := distribution.New(distribution.Spec{
		Type:   cfg.Traffic.FlowSize.Type,
		Params: cfg.Traffic.FlowSize.Params,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("flow-size distribution: %w", err)
	}

	prng := sim.NewPartitionedRNG(cfg.Seed())

	gen, err := flowgen.New(flowgen.Spec{Rate: cfg.Traffic.FlowArrival.Rate}, sizeDist)
	if err != nil {
		return nil, nil, fmt.Errorf("flow generator: %w", err)
	}
	flows, err := gen.Generate(cfg.Simulation.Duration, prng.ForSubsystem(sim.SubsystemFlowGen))
	if err != nil {
		return nil, nil, fmt.Errorf("generating flows: %w", err)
	}

	links := make([]*sim.Link, len(cfg.Network.Links))
	targets := make(map[string]float64, len(cfg.Network.Links))
	for i, lc := range cfg.Network.Links {
		links[i] = sim.NewLink(lc.ID, lc.Capacity)
		targets[lc.ID] = lc.TargetUtilization
	}

	tracker, err := sim.NewMetricsTracker(cfg.Simulation.Metrics.SampleInterval)
	if err != nil {
		return nil, nil, fmt.Errorf("metrics tracker: %w", err)
	}
	for _, l := range links {
		util, err := sim.NewCollector(sim.MetricLinkUtilization)
		if err != nil {
			return nil, nil, err
		}
		buf, err := sim.NewCollector(sim.MetricBufferOccupancy)
		if err != nil {
			return nil, nil, err
		}
		fct, err := sim.NewCollector(sim.MetricFlowCompletionTime)
		if err != nil {
			return nil, nil, err
		}
		tracker.Register(l, util, buf, fct)
	}

	strategy, err := sim.NewStrategy(cfg.Network.Strategy, sim.StrategyConfig{
		Links:               links,
		Targets:             targets,
		Tracker:             tracker,
		Dist:                sizeDist,
		RNG:                 prng.ForSubsystem(sim.SubsystemStrategy),
		BufferLinks:         cfg.Network.BufferLinks,
		LargeFlowPercentile: cfg.Network.LargeFlowPercentile,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("strategy %q: %w", cfg.Network.Strategy, err)
	}

	s := sim.NewSimulator(links, strategy, tracker, targets, cfg.Simulation.Duration)
	return s, flows, nil
}

// serveMetrics exposes the Prometheus handler on addr in the background and
// returns a func to shut it down. Ambient observability only — the returned
// simulation result is unaffected whether or not this is enabled
// (SPEC_FULL.md "Optional Prometheus exporter").
func serveMetrics(addr string, exp *exporter) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(exp.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Warnf("metrics server: %v", err)
		}
	}()
	return func() { _ = srv.Close() }
}

// Execute runs the root command and exits the process with status 1 if it
// returns an error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func init() {
	runCmd.Flags().StringVar(&configPath, "config", "", "Path to the simulation YAML config (required)")
	runCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (debug, info, warn, error)")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "If set, serve live Prometheus metrics on this address (e.g. :9090)")
	_ = runCmd.MarkFlagRequired("config")

	rootCmd.AddCommand(runCmd)
}
