package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lamim/quillcoach/internal/api"
)

// newTestGateway serves OpenAI-compatible completions and keeps the user
// content of every request it sees
func newTestGateway(t *testing.T, reply string) (*httptest.Server, func() []string) {
	t.Helper()

	var (
		mu   sync.Mutex
		seen []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}

		var req api.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("Expected a single user message, got %+v", req.Messages)
		}
		if len(req.Messages) > 0 {
			mu.Lock()
			seen = append(seen, req.Messages[0].Content)
			mu.Unlock()
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(api.ChatCompletionResponse{
			Choices: []api.Choice{{Message: api.Message{Role: "assistant", Content: reply}}},
		})
	}))
	t.Cleanup(srv.Close)

	return srv, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), seen...)
	}
}

// gatewayArgs points a command at srv with no config or env file
func gatewayArgs(t *testing.T, srv *httptest.Server) []string {
	dir := t.TempDir()
	return []string{
		"--provider", "openai",
		"--base-url", srv.URL + "/v1",
		"--config", filepath.Join(dir, "missing.toml"),
		"--env-file", filepath.Join(dir, "missing.env"),
	}
}

func TestOneShotCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.txt")
	if err := os.WriteFile(path, []byte("A lighthouse keeper finds a letter.\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		args  []string
		stdin string
		want  []string
	}{
		{
			name: "review uses default genre",
			args: []string{"review", "It was a dark and stormy night."},
			want: []string{"Genre: Fiction", "It was a dark and stormy night."},
		},
		{
			name: "review genre flag",
			args: []string{"review", "--genre", "Poetry", "Roses are red."},
			want: []string{"Genre: Poetry", "Roses are red."},
		},
		{
			name: "analyze uses default element",
			args: []string{"analyze", "She ran."},
			want: []string{"Element to Analyze: Voice", "Analyze the Voice in this creative writing.", `"element": "Voice"`},
		},
		{
			name: "analyze element flag",
			args: []string{"analyze", "--element", "Pacing", "She ran."},
			want: []string{"Element to Analyze: Pacing", `"element": "Pacing"`},
		},
		{
			name: "prompt uses default genre",
			args: []string{"prompt", "--theme", "the sea"},
			want: []string{"Genre: Fiction", "Theme (if specified): the sea"},
		},
		{
			name: "expand from file",
			args: []string{"expand", "--file", path},
			want: []string{"Scene Summary:\nA lighthouse keeper finds a letter."},
		},
		{
			name:  "dialogue from stdin",
			args:  []string{"dialogue", "--context", "a goodbye"},
			stdin: "\"Stay.\"\n\"I can't.\"\n",
			want:  []string{"Context: a goodbye", "Dialogue:\n\"Stay.\"\n\"I can't.\""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, seen := newTestGateway(t, "Sure!\n```json\n{\"encouragement\": \"ok\"}\n```")

			var out bytes.Buffer
			cmd := newRootCmd()
			cmd.SetOut(&out)
			cmd.SetErr(io.Discard)
			cmd.SetIn(strings.NewReader(tt.stdin))
			cmd.SetArgs(append(append([]string{}, tt.args[:1]...), append(gatewayArgs(t, srv), append([]string{"--raw"}, tt.args[1:]...)...)...))

			if err := cmd.Execute(); err != nil {
				t.Fatalf("Execute() error = %v", err)
			}

			prompts := seen()
			if len(prompts) != 1 {
				t.Fatalf("Expected one gateway request, got %d", len(prompts))
			}
			for _, want := range tt.want {
				if !strings.Contains(prompts[0], want) {
					t.Errorf("Prompt missing %q:\n%s", want, prompts[0])
				}
			}

			var got map[string]any
			if err := json.Unmarshal(out.Bytes(), &got); err != nil {
				t.Fatalf("Raw output is not JSON: %v\n%s", err, out.String())
			}
			if diff := cmp.Diff(map[string]any{"encouragement": "ok"}, got); diff != "" {
				t.Errorf("Output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOneShotCommands_FallbackOutput(t *testing.T) {
	srv, _ := newTestGateway(t, "Nice work, keep going.")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append(append([]string{"review"}, gatewayArgs(t, srv)...), "--raw", "Some text."))

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("Raw output is not JSON: %v\n%s", err, out.String())
	}
	if diff := cmp.Diff(map[string]any{"raw_response": "Nice work, keep going."}, got); diff != "" {
		t.Errorf("Output mismatch (-want +got):\n%s", diff)
	}
}

func TestOneShotCommands_EmptyInput(t *testing.T) {
	srv, seen := newTestGateway(t, "{}")

	cmd := newRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader("  \n"))
	cmd.SetArgs(append([]string{"expand"}, gatewayArgs(t, srv)...))

	if err := cmd.Execute(); !errors.Is(err, errEmptyInput) {
		t.Errorf("Expected errEmptyInput, got %v", err)
	}
	if n := len(seen()); n != 0 {
		t.Errorf("Expected no gateway requests, got %d", n)
	}
}
