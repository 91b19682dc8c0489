package codepad_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	codepad "github.com/gsarma/codepad/sdk"
)

func Example_basicUsage() {
	ctx := context.Background()
	client := codepad.New("http://localhost:8080")

	// --- Pick a language; the editor is reset to its sample ---
	ws, err := client.ChangeLanguage(ctx, 50)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("Editing", ws.Language.Name)

	// --- Edit, supply input and run ---
	if err := client.SetSource(ctx, "#include <stdio.h>\nint main() { int n; scanf(\"%d\", &n); printf(\"%d\\n\", n * 2); }"); err != nil {
		log.Fatal(err)
	}
	if err := client.SetStdin(ctx, "21"); err != nil {
		log.Fatal(err)
	}
	result, err := client.Run(ctx)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(result.Output)
	if result.Highlight != nil {
		fmt.Println("error on line", result.Highlight.Line)
	}

	// --- Save and reload ---
	if _, err := client.Save(ctx, "doubler"); err != nil {
		log.Fatal(err)
	}
	if _, err := client.Load(ctx, 0); err != nil {
		log.Fatal(err)
	}
}

func TestRun_DecodesResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/workspace/run" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"output":    "Error at line 4",
			"channel":   "stderr",
			"highlight": map[string]int{"line": 4},
		})
	}))
	defer srv.Close()

	res, err := codepad.New(srv.URL).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Channel != "stderr" || res.Highlight == nil || res.Highlight.Line != 4 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestRun_BusyIsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "a run is already in progress"})
	}))
	defer srv.Close()

	_, err := codepad.New(srv.URL).Run(context.Background())
	var apiErr *codepad.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 APIError, got %v", err)
	}
	if apiErr.Message != "a run is already in progress" {
		t.Errorf("unexpected message %q", apiErr.Message)
	}
}

func TestSave_AbandonedIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]bool{"saved": false})
	}))
	defer srv.Close()

	resp, err := codepad.New(srv.URL).Save(context.Background(), "")
	if err != nil || resp.Saved {
		t.Errorf("expected unsaved response, got %+v err=%v", resp, err)
	}
}
