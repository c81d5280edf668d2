package mapping

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"rdfpipe/internal/logger"
)

const ruleTemplate = `@prefix rml: <http://semweb.mmlab.be/ns/rml#> .

<#Mapping> rml:source "{csv_file_path}" .
`

const fakeTurtle = `<http://example.org/s> <http://example.org/p> "v" .
`

// FakeRunner records invocations instead of launching a JVM.
type FakeRunner struct {
	RunFunc func(ctx context.Context, rulesPath, outputPath string) error

	// Calls records the rule contents and output path of each run
	Calls []FakeCall
}

type FakeCall struct {
	RuleContent string
	OutputPath  string
}

func (f *FakeRunner) Run(ctx context.Context, rulesPath, outputPath string) error {
	data, err := os.ReadFile(rulesPath)
	if err != nil {
		return err
	}

	f.Calls = append(f.Calls, FakeCall{RuleContent: string(data), OutputPath: outputPath})

	if f.RunFunc != nil {
		return f.RunFunc(ctx, rulesPath, outputPath)
	}

	return os.WriteFile(outputPath, []byte(fakeTurtle), 0644)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
}

func TestWriteRuleFile(t *testing.T) {
	t.Chdir(t.TempDir())

	writeFile(t, "rules.rml.ttl", ruleTemplate)

	if err := writeRuleFile("rules.rml.ttl", "/data/chunk_0.csv"); err != nil {
		t.Fatalf("writeRuleFile failed: %v", err)
	}

	data, err := os.ReadFile(TempRuleFile)
	if err != nil {
		t.Fatalf("Failed to read temp rule file: %v", err)
	}

	if !strings.Contains(string(data), `rml:source "/data/chunk_0.csv"`) {
		t.Errorf("Expected CSV path substituted, got:\n%s", data)
	}

	if strings.Contains(string(data), "{csv_file_path}") {
		t.Error("Expected placeholder fully replaced")
	}
}

func TestWriteRuleFile_MissingPlaceholder(t *testing.T) {
	t.Chdir(t.TempDir())

	writeFile(t, "rules.rml.ttl", "no placeholder here")

	err := writeRuleFile("rules.rml.ttl", "/data/chunk_0.csv")
	if !errors.Is(err, ErrPlaceholderMissing) {
		t.Fatalf("Expected ErrPlaceholderMissing, got %v", err)
	}
}

func TestWriteRuleFile_MissingTemplate(t *testing.T) {
	t.Chdir(t.TempDir())

	if err := writeRuleFile("missing.rml.ttl", "/data/chunk_0.csv"); err == nil {
		t.Fatal("Expected error for missing template, got nil")
	}
}

func TestInvoker_FileToFile(t *testing.T) {
	t.Chdir(t.TempDir())

	writeFile(t, "rules.rml.ttl", ruleTemplate)
	writeFile(t, "data.csv", "id\n1\n")

	runner := &FakeRunner{}
	invoker := NewInvoker(runner, logger.NewLogger("error"))

	result, err := invoker.Map(context.Background(), "data.csv", "rules.rml.ttl", "out.ttl")
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}

	if result.Invocations != 1 || result.Failures != 0 {
		t.Errorf("Expected 1 invocation and no failures, got %+v", result)
	}

	if !reflect.DeepEqual(result.Outputs, []string{"out.ttl"}) {
		t.Errorf("Expected output path used as-is, got %v", result.Outputs)
	}

	if len(runner.Calls) != 1 || !strings.Contains(runner.Calls[0].RuleContent, `"data.csv"`) {
		t.Errorf("Expected runner to see substituted rules, got %+v", runner.Calls)
	}

	if _, err := os.Stat(TempRuleFile); !os.IsNotExist(err) {
		t.Error("Expected temp rule file removed after run")
	}
}

func TestInvoker_RulesDirCSVDir(t *testing.T) {
	t.Chdir(t.TempDir())

	writeFile(t, filepath.Join("rules", "a.rml.ttl"), ruleTemplate)
	writeFile(t, filepath.Join("rules", "b.rml.ttl"), ruleTemplate)
	writeFile(t, filepath.Join("chunks", "data_chunk_0.csv"), "id\n1\n")
	writeFile(t, filepath.Join("chunks", "data_chunk_1.csv"), "id\n2\n")
	if err := os.Mkdir("out", 0755); err != nil {
		t.Fatalf("Failed to create output directory: %v", err)
	}

	runner := &FakeRunner{}
	invoker := NewInvoker(runner, logger.NewLogger("error"))

	result, err := invoker.Map(context.Background(), "chunks", "rules", "out")
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}

	if result.Invocations != 4 || result.Failures != 0 {
		t.Errorf("Expected 4 invocations and no failures, got %+v", result)
	}

	want := []string{
		filepath.Join("out", "output_0_0.ttl"),
		filepath.Join("out", "output_1_0.ttl"),
		filepath.Join("out", "output_0_1.ttl"),
		filepath.Join("out", "output_1_1.ttl"),
	}
	if !reflect.DeepEqual(result.Outputs, want) {
		t.Errorf("Expected outputs %v, got %v", want, result.Outputs)
	}
}

func TestInvoker_RulesDirCSVFile(t *testing.T) {
	t.Chdir(t.TempDir())

	writeFile(t, filepath.Join("rules", "a.rml.ttl"), ruleTemplate)
	writeFile(t, filepath.Join("rules", "b.rml.ttl"), ruleTemplate)
	writeFile(t, "data.csv", "id\n1\n")

	runner := &FakeRunner{}
	invoker := NewInvoker(runner, logger.NewLogger("error"))

	result, err := invoker.Map(context.Background(), "data.csv", "rules", "out.ttl")
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}

	if result.Invocations != 2 {
		t.Errorf("Expected 2 invocations, got %d", result.Invocations)
	}

	// Both rules target the same output file
	want := []string{"out.ttl", "out.ttl"}
	if !reflect.DeepEqual(result.Outputs, want) {
		t.Errorf("Expected outputs %v, got %v", want, result.Outputs)
	}
}

func TestInvoker_RuleFileCSVDir(t *testing.T) {
	t.Chdir(t.TempDir())

	writeFile(t, "rules.rml.ttl", ruleTemplate)
	writeFile(t, filepath.Join("chunks", "data_chunk_0.csv"), "id\n1\n")
	writeFile(t, filepath.Join("chunks", "data_chunk_1.csv"), "id\n2\n")
	writeFile(t, filepath.Join("chunks", "data_chunk_2.csv"), "id\n3\n")
	if err := os.Mkdir("out", 0755); err != nil {
		t.Fatalf("Failed to create output directory: %v", err)
	}

	runner := &FakeRunner{}
	invoker := NewInvoker(runner, logger.NewLogger("error"))

	result, err := invoker.Map(context.Background(), "chunks", "rules.rml.ttl", "out")
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}

	want := []string{
		filepath.Join("out", "output_0.ttl"),
		filepath.Join("out", "output_1.ttl"),
		filepath.Join("out", "output_2.ttl"),
	}
	if !reflect.DeepEqual(result.Outputs, want) {
		t.Errorf("Expected outputs %v, got %v", want, result.Outputs)
	}
}

func TestInvoker_GlobCSVSpec(t *testing.T) {
	t.Chdir(t.TempDir())

	writeFile(t, "rules.rml.ttl", ruleTemplate)
	writeFile(t, filepath.Join("chunks", "data_chunk_0.csv"), "id\n1\n")
	writeFile(t, filepath.Join("chunks", "data_chunk_1.csv"), "id\n2\n")
	writeFile(t, filepath.Join("chunks", "notes.txt"), "skip me")
	if err := os.Mkdir("out", 0755); err != nil {
		t.Fatalf("Failed to create output directory: %v", err)
	}

	runner := &FakeRunner{}
	invoker := NewInvoker(runner, logger.NewLogger("error"))

	result, err := invoker.Map(context.Background(), filepath.Join("chunks", "*.csv"), "rules.rml.ttl", "out")
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}

	if result.Invocations != 2 {
		t.Errorf("Expected glob to match 2 CSV files, got %d invocations", result.Invocations)
	}
}

func TestInvoker_MapperFailureIsolated(t *testing.T) {
	t.Chdir(t.TempDir())

	writeFile(t, "rules.rml.ttl", ruleTemplate)
	writeFile(t, filepath.Join("chunks", "data_chunk_0.csv"), "id\n1\n")
	writeFile(t, filepath.Join("chunks", "data_chunk_1.csv"), "id\n2\n")
	writeFile(t, filepath.Join("chunks", "data_chunk_2.csv"), "id\n3\n")
	if err := os.Mkdir("out", 0755); err != nil {
		t.Fatalf("Failed to create output directory: %v", err)
	}

	calls := 0
	runner := &FakeRunner{
		RunFunc: func(ctx context.Context, rulesPath, outputPath string) error {
			calls++
			if calls == 2 {
				return fmt.Errorf("%w: exit status 1", ErrMapperFailed)
			}
			return os.WriteFile(outputPath, []byte(fakeTurtle), 0644)
		},
	}
	invoker := NewInvoker(runner, logger.NewLogger("error"))

	result, err := invoker.Map(context.Background(), "chunks", "rules.rml.ttl", "out")
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}

	if result.Invocations != 3 {
		t.Errorf("Expected all 3 invocations attempted, got %d", result.Invocations)
	}

	if result.Failures != 1 || len(result.Errors) != 1 {
		t.Errorf("Expected 1 recorded failure, got %+v", result)
	}

	if !errors.Is(result.Errors[0], ErrMapperFailed) {
		t.Errorf("Expected ErrMapperFailed in recorded error, got %v", result.Errors[0])
	}

	if len(result.Outputs) != 2 {
		t.Errorf("Expected 2 successful outputs, got %v", result.Outputs)
	}
}

func TestInvoker_TempRuleRemovedOnFailure(t *testing.T) {
	t.Chdir(t.TempDir())

	writeFile(t, "rules.rml.ttl", ruleTemplate)
	writeFile(t, "data.csv", "id\n1\n")

	runner := &FakeRunner{
		RunFunc: func(ctx context.Context, rulesPath, outputPath string) error {
			return ErrMapperFailed
		},
	}
	invoker := NewInvoker(runner, logger.NewLogger("error"))

	result, err := invoker.Map(context.Background(), "data.csv", "rules.rml.ttl", "out.ttl")
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}

	if result.Failures != 1 {
		t.Errorf("Expected 1 failure, got %+v", result)
	}

	if _, err := os.Stat(TempRuleFile); !os.IsNotExist(err) {
		t.Error("Expected temp rule file removed after failed run")
	}
}

func TestInvoker_InvalidRulesSpec(t *testing.T) {
	t.Chdir(t.TempDir())

	writeFile(t, "data.csv", "id\n1\n")

	invoker := NewInvoker(&FakeRunner{}, logger.NewLogger("error"))

	if _, err := invoker.Map(context.Background(), "data.csv", "missing.rml.ttl", "out.ttl"); err == nil {
		t.Fatal("Expected error for invalid rules specifier, got nil")
	}
}

func TestInvoker_InvalidCSVSpec(t *testing.T) {
	t.Chdir(t.TempDir())

	writeFile(t, "rules.rml.ttl", ruleTemplate)

	invoker := NewInvoker(&FakeRunner{}, logger.NewLogger("error"))

	if _, err := invoker.Map(context.Background(), "missing.csv", "rules.rml.ttl", "out.ttl"); err == nil {
		t.Fatal("Expected error for invalid CSV specifier, got nil")
	}
}

func TestJavaRunner_Defaults(t *testing.T) {
	runner := NewJavaRunner("/opt/mapper.jar", logger.NewLogger("error"))

	if runner.JavaPath != DefaultJavaPath {
		t.Errorf("Expected default java path, got %s", runner.JavaPath)
	}

	if runner.InitialHeap != "512m" || runner.MaxHeap != "10g" || runner.GC != "UseG1GC" {
		t.Errorf("Unexpected JVM defaults: %+v", runner)
	}
}

func TestJavaRunner_Args(t *testing.T) {
	runner := NewJavaRunner("/opt/mapper.jar", logger.NewLogger("error"))

	got := runner.args("rules.ttl", "out.ttl")
	want := []string{"-Xms512m", "-Xmx10g", "-XX:+UseG1GC", "-jar", "/opt/mapper.jar", "-m", "rules.ttl", "-o", "out.ttl"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("args = %v, want %v", got, want)
	}
}

func TestJavaRunner_MissingBinary(t *testing.T) {
	runner := NewJavaRunner("/opt/mapper.jar", logger.NewLogger("error"))
	runner.JavaPath = filepath.Join(t.TempDir(), "no-such-java")

	err := runner.Run(context.Background(), "rules.ttl", "out.ttl")
	if !errors.Is(err, ErrMapperFailed) {
		t.Fatalf("Expected ErrMapperFailed, got %v", err)
	}
}
