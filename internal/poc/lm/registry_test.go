package lm

import (
	"context"
	"testing"

	"github.com/libreassistant/poc/internal/poc/options"
	"github.com/libreassistant/poc/internal/poc/protocol"
)

type stubBackend struct{ text string }

func (b stubBackend) Call(ctx context.Context, prompt []protocol.Turn) (string, error) {
	return b.text, nil
}

func TestBuildResolvesRegisteredProvider(t *testing.T) {
	MustRegister("stub-for-test", func(ctx context.Context, opts *options.LMOptions) (Backend, error) {
		return stubBackend{text: "ok"}, nil
	})

	opts := options.NewLMOptions()
	opts.Backend = "stub-for-test"

	backend, err := Build(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	text, err := backend.Call(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if text != "ok" {
		t.Fatalf("text = %q, want ok", text)
	}
}

func TestBuildUnknownBackendIsAnError(t *testing.T) {
	opts := options.NewLMOptions()
	opts.Backend = "does-not-exist"

	if _, err := Build(context.Background(), opts); err == nil {
		t.Fatal("expected an error for an unregistered backend")
	}
}

func TestMustRegisterPanicsOnDuplicateName(t *testing.T) {
	MustRegister("duplicate-for-test", func(ctx context.Context, opts *options.LMOptions) (Backend, error) {
		return nil, nil
	})
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	MustRegister("duplicate-for-test", func(ctx context.Context, opts *options.LMOptions) (Backend, error) {
		return nil, nil
	})
}
