// Command daemon is a persistent MCTS search process: it loads the
// neural network once, then reads FEN strings from stdin and writes the
// chosen UCI move to stdout, one line each, keeping the model resident
// across moves. Usage: daemon [-debug-port N] <model_path> [max_iterations]
// [max_seconds] [cpuct]. The flag must come before the positional
// arguments, since flag parsing stops at the first positional argument.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/AdKamat2411/ChessMirror/debugserver"
	"github.com/AdKamat2411/ChessMirror/engine"
	"github.com/AdKamat2411/ChessMirror/evaluator"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	debugPort := flag.Int("debug-port", 0, "if set, serve /summary JSON on this port")
	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [-debug-port N] <model_path> [max_iterations] [max_seconds] [cpuct]\n", os.Args[0])
		os.Exit(1)
	}

	modelPath := args[0]
	maxIterations := 15000
	maxSeconds := 5
	cpuct := 2.0
	if len(args) >= 2 {
		maxIterations = mustAtoi(args[1])
	}
	if len(args) >= 3 {
		maxSeconds = mustAtoi(args[2])
	}
	if len(args) >= 4 {
		cpuct = mustAtof(args[3])
	}

	var eval *evaluator.Evaluator
	if modelPath != "" && modelPath != "none" {
		loaded, err := evaluator.New(modelPath)
		if err != nil {
			log.Warn().Err(err).Str("model_path", modelPath).Msg("failed to load model, falling back to pure rollout search")
		} else {
			eval = loaded
			defer eval.Close()
		}
	} else {
		log.Info().Msg("no model path given, running in pure rollout mode")
	}

	var debugSrv *debugserver.Server
	if *debugPort > 0 {
		debugSrv = debugserver.New()
		go func() {
			if err := debugSrv.Start(fmt.Sprintf(":%d", *debugPort)); err != nil {
				log.Error().Err(err).Msg("debug server stopped")
			}
		}()
	}

	log.Info().Msg("ready for FEN input (one per line)")
	runLoop(os.Stdin, os.Stdout, modelLoaderOpts(eval, maxIterations, maxSeconds, cpuct), debugSrv)
}

func mustAtoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid integer argument %q: %v\n", s, err)
		os.Exit(1)
	}
	return n
}

func mustAtof(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid float argument %q: %v\n", s, err)
		os.Exit(1)
	}
	return f
}

type searchOpts struct {
	iterations int
	seconds    int
	cpuct      float64
	evaluator  *evaluator.Evaluator
}

func modelLoaderOpts(eval *evaluator.Evaluator, iterations, seconds int, cpuct float64) searchOpts {
	return searchOpts{iterations: iterations, seconds: seconds, cpuct: cpuct, evaluator: eval}
}

func runLoop(in *os.File, out *os.File, opts searchOpts, debugSrv *debugserver.Server) {
	scanner := bufio.NewScanner(in)
	writer := bufio.NewWriter(out)
	defer writer.Flush()

	for scanner.Scan() {
		fen := scanner.Text()
		if fen == "" {
			continue
		}

		engineOpts := []engine.Option{
			engine.WithMaxIterations(opts.iterations),
			engine.WithMaxDuration(time.Duration(opts.seconds) * time.Second),
			engine.WithCpuct(opts.cpuct),
		}
		if opts.evaluator != nil {
			engineOpts = append(engineOpts, engine.WithEvaluator(opts.evaluator))
		}

		search, err := engine.NewSearch(fen, engineOpts...)
		if err != nil {
			log.Error().Err(err).Str("fen", fen).Msg("failed to start search")
			continue
		}

		start := time.Now()
		move, summary, err := search.BestMove(context.Background())
		elapsed := time.Since(start)
		if err != nil {
			log.Error().Err(err).Str("fen", fen).Msg("search failed")
			continue
		}

		fmt.Fprintln(writer, move)
		writer.Flush()

		log.Debug().
			Str("fen", fen).
			Str("move", move).
			Dur("search_time", elapsed).
			Int("iterations", summary.IterationsRun).
			Int("tree_size", summary.TreeSize).
			Msg("move chosen")

		if debugSrv != nil {
			debugSrv.Record(summary)
		}
	}
}
