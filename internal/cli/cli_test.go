package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/printdir/internal/journal"
	"github.com/temirov/printdir/internal/tokenizer"
	"github.com/temirov/printdir/internal/tree"
)

const (
	exampleTree      = "proj\n├─ src\n│   └─ a.txt\n└─ readme.md\n"
	exampleDepthOne  = "proj\n├─ src\n└─ readme.md\n"
	exampleNoReadme  = "proj\n└─ src\n    └─ a.txt\n"
	exampleNoContent = "proj\n├─ src\n└─ readme.md\n"
)

type recordingClipboard struct {
	copied []string
}

func (clipboardRecorder *recordingClipboard) Copy(text string) error {
	clipboardRecorder.copied = append(clipboardRecorder.copied, text)
	return nil
}

type runeCounter struct{}

func (runeCounter) Name() string { return "stub-model" }

func (runeCounter) CountString(input string) (int, error) { return len([]rune(input)), nil }

type invocationResult struct {
	stdout string
	logs   *observer.ObservedLogs
	err    error
}

func (result invocationResult) messages() []string {
	var messages []string
	for _, entry := range result.logs.All() {
		messages = append(messages, entry.Message)
	}
	return messages
}

// createProject lays out proj/src/a.txt and proj/readme.md and isolates the home directory.
func createProject(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("USERPROFILE", t.TempDir())
	projectDirectory := filepath.Join(t.TempDir(), "proj")
	if err := os.MkdirAll(filepath.Join(projectDirectory, "src"), 0o755); err != nil {
		t.Fatalf("create project: %v", err)
	}
	writeProjectFile(t, filepath.Join(projectDirectory, "src", "a.txt"), "a")
	writeProjectFile(t, filepath.Join(projectDirectory, "readme.md"), "readme")
	return projectDirectory
}

func writeProjectFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func invoke(t *testing.T, workingDirectory string, clipboardRecorder *recordingClipboard, arguments ...string) invocationResult {
	t.Helper()
	core, logs := observer.New(zap.InfoLevel)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	if clipboardRecorder == nil {
		clipboardRecorder = &recordingClipboard{}
	}
	dependencies := Dependencies{
		Logger:           zap.New(core),
		Stdout:           &stdout,
		Stderr:           &stderr,
		Clipboard:        clipboardRecorder,
		WorkingDirectory: func() (string, error) { return workingDirectory, nil },
		NewTokenCounter: func(tokenizer.Config) (tokenizer.Counter, string, error) {
			return runeCounter{}, "stub-model", nil
		},
	}
	err := Execute(context.Background(), dependencies, arguments)
	return invocationResult{stdout: stdout.String(), logs: logs, err: err}
}

func TestRootCommandRendersExamples(t *testing.T) {
	testCases := []struct {
		name      string
		arguments []string
		expected  string
	}{
		{name: "default", arguments: nil, expected: exampleTree},
		{name: "depth_one", arguments: []string{"-d", "1"}, expected: exampleDepthOne},
		{name: "ignore_readme", arguments: []string{"--ignore", "readme.md"}, expected: exampleNoReadme},
		{name: "no_content_src", arguments: []string{"--no-content", "src"}, expected: exampleNoContent},
		{name: "depth_zero", arguments: []string{"--depth=0"}, expected: "proj\n"},
		{name: "custom_name", arguments: []string{"-n", "my project", "-d", "1"}, expected: "my project\n├─ src\n└─ readme.md\n"},
		{name: "ignore_glob_list", arguments: []string{"--ignore", "*.md,*.txt"}, expected: "proj\n└─ src\n"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			projectDirectory := createProject(t)
			result := invoke(t, projectDirectory, nil, testCase.arguments...)
			if result.err != nil {
				t.Fatalf("Execute error: %v", result.err)
			}
			if result.stdout != testCase.expected {
				t.Fatalf("expected\n%s\ngot\n%s", testCase.expected, result.stdout)
			}
		})
	}
}

func TestToFileWritesHeaderAndExcludesArtifact(t *testing.T) {
	projectDirectory := createProject(t)
	for attempt := 0; attempt < 2; attempt++ {
		result := invoke(t, projectDirectory, nil, "--to-file", "-n", "my proj")
		if result.err != nil {
			t.Fatalf("Execute error: %v", result.err)
		}
		expectedTree := strings.Replace(exampleTree, "proj", "my proj", 1)
		if result.stdout != expectedTree {
			t.Fatalf("expected console tree without header, got\n%s", result.stdout)
		}
		content, err := os.ReadFile(filepath.Join(projectDirectory, journal.ArtifactName))
		if err != nil {
			t.Fatalf("read artifact: %v", err)
		}
		expectedArtifact := "printdir --to-file -n 'my proj'\n" + expectedTree
		if string(content) != expectedArtifact {
			t.Fatalf("expected artifact\n%s\ngot\n%s", expectedArtifact, string(content))
		}
	}
}

func TestNoIgnoreListsArtifact(t *testing.T) {
	projectDirectory := createProject(t)
	writeProjectFile(t, filepath.Join(projectDirectory, journal.ArtifactName), "printdir\n")
	writeProjectFile(t, filepath.Join(projectDirectory, ".printdirignore"), "readme.md\n")

	ignored := invoke(t, projectDirectory, nil)
	if ignored.err != nil {
		t.Fatalf("Execute error: %v", ignored.err)
	}
	expectedIgnored := "proj\n├─ src\n│   └─ a.txt\n└─ .printdirignore\n"
	if ignored.stdout != expectedIgnored {
		t.Fatalf("expected\n%s\ngot\n%s", expectedIgnored, ignored.stdout)
	}

	restored := invoke(t, projectDirectory, nil, "--no-ignore", "--ignore", "src")
	if restored.err != nil {
		t.Fatalf("Execute error: %v", restored.err)
	}
	expectedRestored := "proj\n├─ src\n│   └─ a.txt\n├─ .printdirignore\n├─ dir_tree.txt\n└─ readme.md\n"
	if restored.stdout != expectedRestored {
		t.Fatalf("expected\n%s\ngot\n%s", expectedRestored, restored.stdout)
	}
}

func TestHiddenFlagFiltersDotEntries(t *testing.T) {
	projectDirectory := createProject(t)
	writeProjectFile(t, filepath.Join(projectDirectory, ".env"), "KEY=value")

	shown := invoke(t, projectDirectory, nil, "-d", "1")
	if shown.err != nil || !strings.Contains(shown.stdout, ".env") {
		t.Fatalf("expected hidden entry to be listed by default, got %q (%v)", shown.stdout, shown.err)
	}
	hidden := invoke(t, projectDirectory, nil, "-d", "1", "--hidden", "false")
	if hidden.err != nil {
		t.Fatalf("Execute error: %v", hidden.err)
	}
	if hidden.stdout != exampleDepthOne {
		t.Fatalf("expected\n%s\ngot\n%s", exampleDepthOne, hidden.stdout)
	}
}

func TestReplayRunsStoredCommand(t *testing.T) {
	projectDirectory := createProject(t)
	writeProjectFile(t, filepath.Join(projectDirectory, journal.ArtifactName), "printdir -d 1\nstale tree\n")

	result := invoke(t, projectDirectory, nil, "--use-prev-cmd", "--ignore", "src")
	if result.err != nil {
		t.Fatalf("Execute error: %v", result.err)
	}
	if result.stdout != exampleDepthOne {
		t.Fatalf("expected\n%s\ngot\n%s", exampleDepthOne, result.stdout)
	}
	messages := result.messages()
	if len(messages) == 0 || messages[0] != "Executing previous command: printdir -d 1" {
		t.Fatalf("unexpected log messages %v", messages)
	}
	content, err := os.ReadFile(filepath.Join(projectDirectory, journal.ArtifactName))
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if !strings.HasSuffix(string(content), "stale tree\n") {
		t.Fatalf("artifact must not be rewritten without --to-file, got %q", string(content))
	}
}

func TestReplayIgnoresVersionAndOtherFlags(t *testing.T) {
	projectDirectory := createProject(t)
	writeProjectFile(t, filepath.Join(projectDirectory, journal.ArtifactName), "printdir -d 1\n")

	for _, arguments := range [][]string{
		{"--use-prev-cmd", "--version"},
		{"--version", "--use-prev-cmd", "-d", "0"},
	} {
		result := invoke(t, projectDirectory, nil, arguments...)
		if result.err != nil {
			t.Fatalf("%v: Execute error: %v", arguments, result.err)
		}
		if result.stdout != exampleDepthOne {
			t.Fatalf("%v: expected replayed tree\n%s\ngot\n%s", arguments, exampleDepthOne, result.stdout)
		}
		messages := result.messages()
		if len(messages) == 0 || messages[0] != "Executing previous command: printdir -d 1" {
			t.Fatalf("%v: unexpected log messages %v", arguments, messages)
		}
	}
}

func TestReplayOfStoredToFileCommandIsIdempotent(t *testing.T) {
	projectDirectory := createProject(t)
	first := invoke(t, projectDirectory, nil, "--to-file", "-d", "1")
	if first.err != nil {
		t.Fatalf("Execute error: %v", first.err)
	}
	artifactPath := filepath.Join(projectDirectory, journal.ArtifactName)
	before, err := os.ReadFile(artifactPath)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}

	replayed := invoke(t, projectDirectory, nil, "--use-prev-cmd")
	if replayed.err != nil {
		t.Fatalf("replay error: %v", replayed.err)
	}
	after, err := os.ReadFile(artifactPath)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if string(before) != string(after) {
		t.Fatalf("expected replay to reproduce the artifact\nbefore:\n%s\nafter:\n%s", before, after)
	}
	if replayed.stdout != first.stdout {
		t.Fatalf("expected replay output %q, got %q", first.stdout, replayed.stdout)
	}
}

func TestReplayFailures(t *testing.T) {
	testCases := []struct {
		name     string
		artifact *string
	}{
		{name: "missing_artifact", artifact: nil},
		{name: "foreign_command", artifact: stringPointer("rm -rf /\nproj\n")},
		{name: "empty_artifact", artifact: stringPointer("")},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			projectDirectory := createProject(t)
			if testCase.artifact != nil {
				writeProjectFile(t, filepath.Join(projectDirectory, journal.ArtifactName), *testCase.artifact)
			}
			result := invoke(t, projectDirectory, nil, "--use-prev-cmd")
			if !errors.Is(result.err, journal.ErrNoStoredCommand) {
				t.Fatalf("expected ErrNoStoredCommand, got %v", result.err)
			}
			if message := ErrorMessage(result.err); message != "No previous command found." {
				t.Fatalf("unexpected error message %q", message)
			}
			if result.stdout != "" {
				t.Fatalf("expected no tree output, got %q", result.stdout)
			}
		})
	}
}

func TestConfigurationDefaultsAndFlagOverrides(t *testing.T) {
	projectDirectory := createProject(t)
	configurationPath := filepath.Join(t.TempDir(), "printdir.yaml")
	writeProjectFile(t, configurationPath, "tree:\n  depth: 1\n  ignore: [readme.md]\n")

	configured := invoke(t, projectDirectory, nil, "--config", configurationPath)
	if configured.err != nil {
		t.Fatalf("Execute error: %v", configured.err)
	}
	if configured.stdout != "proj\n└─ src\n" {
		t.Fatalf("expected configuration to apply, got\n%s", configured.stdout)
	}

	overridden := invoke(t, projectDirectory, nil, "--config", configurationPath, "-d", "-1", "--ignore", "")
	if overridden.err != nil {
		t.Fatalf("Execute error: %v", overridden.err)
	}
	if overridden.stdout != exampleTree {
		t.Fatalf("expected flags to override configuration, got\n%s", overridden.stdout)
	}
}

func TestLocalConfigurationIsDiscoveredAndListed(t *testing.T) {
	projectDirectory := createProject(t)
	writeProjectFile(t, filepath.Join(projectDirectory, ".printdir.yaml"), "tree:\n  depth: 1\n  ignore: [readme.md]\n")

	configured := invoke(t, projectDirectory, nil)
	if configured.err != nil {
		t.Fatalf("Execute error: %v", configured.err)
	}
	expected := "proj\n├─ src\n└─ .printdir.yaml\n"
	if configured.stdout != expected {
		t.Fatalf("expected\n%s\ngot\n%s", expected, configured.stdout)
	}

	overridden := invoke(t, projectDirectory, nil, "-d", "-1", "--ignore", "")
	if overridden.err != nil {
		t.Fatalf("Execute error: %v", overridden.err)
	}
	expectedFull := "proj\n├─ src\n│   └─ a.txt\n├─ .printdir.yaml\n└─ readme.md\n"
	if overridden.stdout != expectedFull {
		t.Fatalf("expected\n%s\ngot\n%s", expectedFull, overridden.stdout)
	}
}

func TestCopyAndTokens(t *testing.T) {
	projectDirectory := createProject(t)
	clipboardRecorder := &recordingClipboard{}
	result := invoke(t, projectDirectory, clipboardRecorder, "--copy", "--tokens", "--timing")
	if result.err != nil {
		t.Fatalf("Execute error: %v", result.err)
	}
	if len(clipboardRecorder.copied) != 1 || clipboardRecorder.copied[0] != exampleTree {
		t.Fatalf("unexpected clipboard content %q", clipboardRecorder.copied)
	}
	messages := strings.Join(result.messages(), "\n")
	for _, expected := range []string{"Tree copied to clipboard", "Tokens: 38 (stub-model, 4 lines)", "Elapsed: "} {
		if !strings.Contains(messages, expected) {
			t.Fatalf("expected log %q in %q", expected, messages)
		}
	}
}

func TestInvalidOrderIsRejected(t *testing.T) {
	projectDirectory := createProject(t)
	result := invoke(t, projectDirectory, nil, "--order", "random")
	if result.err == nil || !strings.Contains(result.err.Error(), "order") {
		t.Fatalf("expected order validation error, got %v", result.err)
	}
}

func TestUnexpectedArgumentIsRejected(t *testing.T) {
	projectDirectory := createProject(t)
	if result := invoke(t, projectDirectory, nil, "somewhere"); result.err == nil {
		t.Fatalf("expected positional argument to be rejected")
	}
}

func TestVersionFlag(t *testing.T) {
	projectDirectory := createProject(t)
	result := invoke(t, projectDirectory, nil, "--version")
	if result.err != nil {
		t.Fatalf("Execute error: %v", result.err)
	}
	if !strings.HasPrefix(result.stdout, "printdir version: ") {
		t.Fatalf("unexpected version output %q", result.stdout)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	projectDirectory := createProject(t)
	initialized := invoke(t, projectDirectory, nil, "config", "init")
	if initialized.err != nil {
		t.Fatalf("config init error: %v", initialized.err)
	}
	if _, err := os.Stat(filepath.Join(projectDirectory, ".printdir.yaml")); err != nil {
		t.Fatalf("expected configuration file: %v", err)
	}
	if repeated := invoke(t, projectDirectory, nil, "config", "init"); repeated.err == nil {
		t.Fatalf("expected config init to refuse overwriting")
	}

	shown := invoke(t, projectDirectory, nil, "config", "show")
	if shown.err != nil {
		t.Fatalf("config show error: %v", shown.err)
	}
	for _, expected := range []string{"tree:", "depth: -1", "order: name", "model: gpt-4o"} {
		if !strings.Contains(shown.stdout, expected) {
			t.Fatalf("expected %q in\n%s", expected, shown.stdout)
		}
	}
}

func TestDispatchLinesStopsProducerOnConsumerError(t *testing.T) {
	consumerError := errors.New("sink failed")
	produced := 0
	err := dispatchLines(context.Background(),
		func(streamCtx context.Context, lines chan<- tree.Line) error {
			for index := 0; index < 100; index++ {
				select {
				case <-streamCtx.Done():
					return streamCtx.Err()
				case lines <- tree.Line{Name: "entry"}:
					produced++
				}
			}
			return nil
		},
		func(tree.Line) error {
			return consumerError
		},
	)
	if !errors.Is(err, consumerError) {
		t.Fatalf("expected consumer error, got %v", err)
	}
	if produced >= 100 {
		t.Fatalf("expected producer to stop early, produced %d", produced)
	}
}

func TestDispatchLinesPreservesOrder(t *testing.T) {
	var consumed []string
	err := dispatchLines(context.Background(),
		func(streamCtx context.Context, lines chan<- tree.Line) error {
			for _, name := range []string{"a", "b", "c"} {
				lines <- tree.Line{Name: name}
			}
			return nil
		},
		func(line tree.Line) error {
			consumed = append(consumed, line.String())
			return nil
		},
	)
	if err != nil {
		t.Fatalf("dispatchLines error: %v", err)
	}
	if strings.Join(consumed, "") != "abc" {
		t.Fatalf("unexpected order %v", consumed)
	}
}

func stringPointer(value string) *string {
	return &value
}
