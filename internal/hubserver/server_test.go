package hubserver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/martinemde/askhub/internal/question"
)

// scriptedAsker resolves every question immediately, the way a test double
// for the hub loop can: the producer only sees the completed question.
type scriptedAsker struct {
	resolve func(q *question.Question)
}

func (a *scriptedAsker) AskQuestion(q *question.Question, blocking bool) any {
	a.resolve(q)
	if q.Aborted() {
		return nil
	}
	return q.Answer()
}

// testSocket returns a socket path short enough for the unix-socket path
// limit, cleaned up with the test.
func testSocket(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "askhub")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	return filepath.Join(dir, "hub.sock")
}

func startServer(t *testing.T, resolve func(q *question.Question)) *Server {
	t.Helper()
	srv := New(testSocket(t), &scriptedAsker{resolve: resolve}, nil)
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(srv.Stop)
	return srv
}

func TestAskRoundTrip(t *testing.T) {
	srv := startServer(t, func(q *question.Question) {
		if err := q.SetAnswer("典型的な答え"); err != nil {
			t.Errorf("SetAnswer failed: %v", err)
		}
	})

	client := NewClientWithPath(srv.SocketPath())
	resp, err := client.Ask(Request{Mode: "text", Title: "Name?"})
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}

	if resp.Status != StatusAnswered {
		t.Fatalf("status = %q, want %q", resp.Status, StatusAnswered)
	}
	if resp.Answer == nil || resp.Answer.Value != "典型的な答え" {
		t.Errorf("answer = %+v, want Value set", resp.Answer)
	}
}

func TestAskAborted(t *testing.T) {
	srv := startServer(t, func(q *question.Question) { q.Abort() })

	client := NewClientWithPath(srv.SocketPath())
	resp, err := client.Ask(Request{Mode: "yesno", Title: "Sure?"})
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if resp.Status != StatusAborted {
		t.Errorf("status = %q, want %q", resp.Status, StatusAborted)
	}
	if resp.Answer != nil {
		t.Errorf("aborted response should carry no answer, got %+v", resp.Answer)
	}
}

func TestAskMalformedRequest(t *testing.T) {
	srv := startServer(t, func(q *question.Question) {
		t.Error("malformed requests must never reach the asker")
	})

	client := NewClientWithPath(srv.SocketPath())
	if _, err := client.Ask(Request{Mode: "sudoku", Title: "t"}); err == nil {
		t.Error("Ask with an unknown mode should fail")
	}
	if _, err := client.Ask(Request{Mode: "text"}); err == nil {
		t.Error("Ask without a title should fail")
	}
}

func TestNewClientUsesEnvironment(t *testing.T) {
	t.Setenv(SocketEnvVar, "/tmp/somewhere.sock")
	if c := NewClient(); c == nil {
		t.Error("NewClient should pick up the socket from the environment")
	}

	t.Setenv(SocketEnvVar, "")
	if c := NewClient(); c != nil {
		t.Error("NewClient without the env var should return nil")
	}
}

func TestBuildQuestion(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr bool
		check   func(t *testing.T, q *question.Question)
	}{
		{
			name: "text with default",
			req:  Request{Mode: "text", Title: "Name?", Text: "body", Default: "bob"},
			check: func(t *testing.T, q *question.Question) {
				if q.Mode != question.Text || q.Title != "Name?" || q.Text != "body" {
					t.Errorf("question fields wrong: %+v", q)
				}
				if q.Default != "bob" {
					t.Errorf("default = %v, want bob", q.Default)
				}
			},
		},
		{
			name: "yesno default yes",
			req:  Request{Mode: "yesno", Title: "Sure?", Default: "yes"},
			check: func(t *testing.T, q *question.Question) {
				if q.Default != true {
					t.Errorf("default = %v, want true", q.Default)
				}
			},
		},
		{
			name: "yesno default no",
			req:  Request{Mode: "yesno", Title: "Sure?", Default: "no"},
			check: func(t *testing.T, q *question.Question) {
				if q.Default != false {
					t.Errorf("default = %v, want false", q.Default)
				}
			},
		},
		{
			name: "no default stays nil",
			req:  Request{Mode: "yesno", Title: "Sure?"},
			check: func(t *testing.T, q *question.Question) {
				if q.Default != nil {
					t.Errorf("default = %v, want nil", q.Default)
				}
			},
		},
		{name: "bad yesno default", req: Request{Mode: "yesno", Title: "t", Default: "maybe"}, wantErr: true},
		{name: "unknown mode", req: Request{Mode: "sudoku", Title: "t"}, wantErr: true},
		{name: "missing title", req: Request{Mode: "text"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := buildQuestion(tt.req)
			if tt.wantErr {
				if err == nil {
					t.Error("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("buildQuestion failed: %v", err)
			}
			tt.check(t, q)
		})
	}
}

func TestAnswerResponse(t *testing.T) {
	answered := func(v any) *question.Question {
		q := question.New(question.Text, "t", "")
		if err := q.SetAnswer(v); err != nil {
			t.Fatal(err)
		}
		return q
	}

	t.Run("bool", func(t *testing.T) {
		resp := answerResponse(answered(true))
		if resp.Answer.Accepted == nil || !*resp.Answer.Accepted {
			t.Errorf("Accepted = %v, want true", resp.Answer.Accepted)
		}
	})

	t.Run("string", func(t *testing.T) {
		resp := answerResponse(answered("hello"))
		if resp.Answer.Value != "hello" {
			t.Errorf("Value = %q, want hello", resp.Answer.Value)
		}
	})

	t.Run("credentials", func(t *testing.T) {
		resp := answerResponse(answered(question.Auth{User: "alice", Password: "secret"}))
		if resp.Answer.User != "alice" || resp.Answer.Password != "secret" {
			t.Errorf("credentials = %+v", resp.Answer)
		}
	})

	t.Run("file target", func(t *testing.T) {
		resp := answerResponse(answered(question.FileTarget{Path: "/tmp/x"}))
		if resp.Answer.Value != "/tmp/x" {
			t.Errorf("Value = %q, want /tmp/x", resp.Answer.Value)
		}
	})

	t.Run("open-with target", func(t *testing.T) {
		resp := answerResponse(answered(question.OpenWithTarget{Cmdline: ""}))
		if resp.Answer.OpenWith == nil {
			t.Fatal("OpenWith should be set even for the default application")
		}
		if *resp.Answer.OpenWith != "" {
			t.Errorf("OpenWith = %q, want empty", *resp.Answer.OpenWith)
		}
	})

	t.Run("alert", func(t *testing.T) {
		resp := answerResponse(answered(nil))
		if resp.Status != StatusAnswered {
			t.Errorf("status = %q, want %q", resp.Status, StatusAnswered)
		}
		if resp.Answer.Accepted != nil || resp.Answer.Value != "" || resp.Answer.OpenWith != nil {
			t.Errorf("alert answer should be empty, got %+v", resp.Answer)
		}
	})
}

func TestConcurrentProducers(t *testing.T) {
	srv := startServer(t, func(q *question.Question) {
		_ = q.SetAnswer("answer for " + q.Title)
	})

	const producers = 5
	errs := make(chan error, producers)
	for i := 0; i < producers; i++ {
		go func(i int) {
			client := NewClientWithPath(srv.SocketPath())
			title := fmt.Sprintf("q%d", i)
			resp, err := client.Ask(Request{Mode: "text", Title: title})
			if err != nil {
				errs <- err
				return
			}
			if want := "answer for " + title; resp.Answer == nil || resp.Answer.Value != want {
				errs <- fmt.Errorf("producer %d got %+v, want %q", i, resp.Answer, want)
				return
			}
			errs <- nil
		}(i)
	}
	for i := 0; i < producers; i++ {
		if err := <-errs; err != nil {
			t.Error(err)
		}
	}
}
