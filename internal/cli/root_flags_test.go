package vqabench

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
)

func TestPersistentPreRunEUsesFlagValues(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "vqabench.log")
	configPath := writeTempConfig(t, `{"dataDir": "from-config", "maxRows": 7}`)
	useConfig(t, configPath)
	resetRootFlags()

	_ = rootCmd.PersistentFlags().Set("debug", "true")
	_ = rootCmd.PersistentFlags().Set("dataDir", dir)
	_ = rootCmd.PersistentFlags().Set("timeout", "12")
	_ = rootCmd.PersistentFlags().Set("logFile", logPath)

	if err := rootCmd.PersistentPreRunE(rootCmd, []string{}); err != nil {
		t.Fatalf("PersistentPreRunE error: %v", err)
	}

	if currentConfig == nil || currentConfig.ConfigPath != configPath {
		t.Fatalf("expected config loaded with path %s, got %+v", configPath, currentConfig)
	}
	if !currentConfig.Debug {
		t.Fatalf("expected debug flag to flow into config")
	}
	if currentConfig.DataDir != dir {
		t.Fatalf("expected flag to override dataDir, got %s", currentConfig.DataDir)
	}
	if currentConfig.TimeoutSeconds != 12 {
		t.Fatalf("expected timeout 12, got %d", currentConfig.TimeoutSeconds)
	}
	if currentConfig.MaxRows != 7 {
		t.Fatalf("expected maxRows from config, got %d", currentConfig.MaxRows)
	}
	if currentConfig.LogFile != logPath {
		t.Fatalf("expected log file %s, got %s", logPath, currentConfig.LogFile)
	}
}

func TestPersistentPreRunEAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTempConfig(t, fmt.Sprintf(`{"logFile": %q}`, filepath.Join(dir, "log.txt")))
	useConfig(t, configPath)
	resetRootFlags()

	if err := rootCmd.PersistentPreRunE(rootCmd, []string{}); err != nil {
		t.Fatalf("PersistentPreRunE error: %v", err)
	}
	if currentConfig.DataDir != "data" || currentConfig.ResultsDir != "results" {
		t.Fatalf("expected default dirs, got %+v", currentConfig)
	}
	if currentConfig.SimilarityThreshold != 0.6 {
		t.Fatalf("expected default threshold, got %v", currentConfig.SimilarityThreshold)
	}
	if currentConfig.Search.TopK != 5 || currentConfig.Search.Threshold != 0.70 {
		t.Fatalf("expected default search settings, got %+v", currentConfig.Search)
	}
}

func TestPersistentPreRunEMissingConfigFile(t *testing.T) {
	dir := t.TempDir()
	useConfig(t, filepath.Join(dir, "absent.json"))
	resetRootFlags()
	_ = rootCmd.PersistentFlags().Set("logFile", filepath.Join(dir, "log.txt"))

	if err := rootCmd.PersistentPreRunE(rootCmd, []string{}); err != nil {
		t.Fatalf("missing config should fall back to defaults, got %v", err)
	}
	if currentConfig.LLM.Provider != "gemini" {
		t.Fatalf("expected default llm provider, got %q", currentConfig.LLM.Provider)
	}
}

func TestPersistentPreRunEInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTempConfig(t, fmt.Sprintf(`{"similarityThreshold": 1.5, "logFile": %q}`, filepath.Join(dir, "log.txt")))
	useConfig(t, configPath)
	resetRootFlags()

	err := rootCmd.PersistentPreRunE(rootCmd, []string{})
	if err == nil || !strings.Contains(err.Error(), "similarityThreshold") {
		t.Fatalf("expected threshold validation error, got %v", err)
	}
}

func TestPersistentPreRunEMalformedConfig(t *testing.T) {
	configPath := writeTempConfig(t, `{"dataDir": `)
	useConfig(t, configPath)
	resetRootFlags()

	if err := rootCmd.PersistentPreRunE(rootCmd, []string{}); err == nil {
		t.Fatalf("expected error for malformed config")
	}
}

func TestShowConfigCommandOutput(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTempConfig(t, fmt.Sprintf(`{"logFile": %q, "llm": {"provider": "openai", "model": "gpt-4o-mini", "apiKey": "sk-1234567890abcdef"}}`, filepath.Join(dir, "log.txt")))
	useConfig(t, configPath)
	resetRootFlags(showConfigCmd)

	out, err := execute(t, "show", "config")
	if err != nil {
		t.Fatalf("show config error: %v", err)
	}
	if !strings.Contains(out, "Config file: "+configPath) {
		t.Fatalf("expected config path in output:\n%s", out)
	}
	if strings.Contains(out, "sk-1234567890abcdef") {
		t.Fatalf("api key must be masked:\n%s", out)
	}
}
