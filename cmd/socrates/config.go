package main

import (
	"os"
	"strconv"
	"time"

	units "github.com/docker/go-units"

	"github.com/aneesh-123/Socrates/internal/domain/execution"
)

func specFromEnv() execution.Spec {
	spec := execution.DefaultSpec()
	spec.Image = envOrDefault("RUNNER_IMAGE", spec.Image)
	spec.CPUQuota = parseCPUQuota(os.Getenv("RUNNER_CPU_QUOTA"), spec.CPUQuota)
	spec.MemoryLimitBytes = parseMemoryLimit(os.Getenv("RUNNER_MEMORY_LIMIT"), spec.MemoryLimitBytes)
	spec.CompileTimeout = parseDuration(os.Getenv("RUNNER_COMPILE_TIMEOUT"), spec.CompileTimeout)
	spec.RunTimeout = parseDuration(os.Getenv("RUNNER_RUN_TIMEOUT"), spec.RunTimeout)
	spec.MaxSourceBytes = parseSourceLimit(os.Getenv("RUNNER_MAX_SOURCE_BYTES"), spec.MaxSourceBytes)
	return spec
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseCPUQuota(raw string, fallback float64) float64 {
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

// parseMemoryLimit accepts human-readable sizes such as "256m" or "1g".
func parseMemoryLimit(raw string, fallback int64) int64 {
	if raw == "" {
		return fallback
	}
	value, err := units.RAMInBytes(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseSourceLimit(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
