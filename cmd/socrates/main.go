package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/aneesh-123/Socrates/internal/app/grader"
	"github.com/aneesh-123/Socrates/internal/runtime/docker"
	"github.com/aneesh-123/Socrates/internal/workspace"
)

func main() {
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	testIndex := flag.Int("test", -1, "run only the built-in test case at this index instead of the full suite")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [-test N] <source-file>\n", os.Args[0])
		os.Exit(2)
	}

	source, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to read source file")
	}

	spec := specFromEnv()

	engine, err := docker.New(spec, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize docker engine")
	}

	workspaces, err := workspace.NewManager(os.Getenv("WORKSPACE_ROOT"), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize workspace manager")
	}

	service := grader.NewService(workspaces, engine, spec, logger)
	defer func() {
		if cerr := service.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("failed to close grader service")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *testIndex >= 0 {
		result, err := service.Execute(ctx, string(source), testIndex)
		if err != nil {
			logger.Fatal().Err(err).Msg("single-test execution failed")
		}
		printJSON(logger, result)
		return
	}

	report := service.Classify(ctx, string(source))
	printJSON(logger, report)
}

func printJSON(logger zerolog.Logger, v any) {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to encode result")
	}
	fmt.Println(string(encoded))
}
