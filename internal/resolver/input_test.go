package resolver

import (
	"context"
	"testing"
)

func TestInput_PublishCurrentGeneration(t *testing.T) {
	in := NewInput("BV1xx411c7mD")
	_, text, _, gen := in.begin(context.Background())

	if text != "BV1xx411c7mD" {
		t.Fatalf("Unexpected snapshot: %q", text)
	}

	called := false
	if !in.publish(gen, func() { called = true }) {
		t.Fatal("Expected publish to succeed for the current generation")
	}
	if !called {
		t.Fatal("Expected publish to run the callback")
	}
}

func TestInput_SetSupersedes(t *testing.T) {
	in := NewInput("first")
	runCtx, _, _, gen := in.begin(context.Background())

	in.Set("second")

	if in.publish(gen, func() { t.Fatal("Stale run must not publish") }) {
		t.Fatal("Expected publish to fail after Set")
	}
	select {
	case <-runCtx.Done():
	default:
		t.Fatal("Expected Set to cancel the in-flight run context")
	}
	if in.Text() != "second" {
		t.Fatalf("Expected live text to be second, got %q", in.Text())
	}
}

func TestInput_BeginSupersedesPreviousRun(t *testing.T) {
	in := NewInput("text")
	firstCtx, _, _, firstGen := in.begin(context.Background())
	_, _, _, secondGen := in.begin(context.Background())

	if firstGen == secondGen {
		t.Fatal("Expected begin to bump the generation")
	}
	if in.publish(firstGen, func() {}) {
		t.Fatal("Expected the first run to be superseded")
	}
	select {
	case <-firstCtx.Done():
	default:
		t.Fatal("Expected the first run context to be canceled")
	}
	if !in.publish(secondGen, func() {}) {
		t.Fatal("Expected the second run to publish")
	}
}

func TestInput_RewriteKeepsGeneration(t *testing.T) {
	in := NewInput("b23.tv/abc")
	_, _, _, gen := in.begin(context.Background())

	if !in.rewrite(gen, "https://www.bilibili.com/video/BV1xx411c7mD") {
		t.Fatal("Expected rewrite to succeed for the current generation")
	}
	if in.Text() != "https://www.bilibili.com/video/BV1xx411c7mD" {
		t.Fatalf("Expected rewritten text, got %q", in.Text())
	}
	if !in.publish(gen, func() {}) {
		t.Fatal("Expected rewrite to leave the run publishable")
	}
}

func TestInput_OverridePart(t *testing.T) {
	in := NewInput("BV1xx411c7mD")
	in.OverridePart(3)

	_, _, part, _ := in.begin(context.Background())
	if part != 3 {
		t.Fatalf("Expected part override 3 in the snapshot, got %d", part)
	}
}

func TestInput_OverridePartSupersedes(t *testing.T) {
	in := NewInput("BV1xx411c7mD")
	runCtx, _, _, gen := in.begin(context.Background())

	in.OverridePart(2)

	if in.publish(gen, func() { t.Fatal("Stale run must not publish") }) {
		t.Fatal("Expected publish to fail after the selector changed")
	}
	select {
	case <-runCtx.Done():
	default:
		t.Fatal("Expected the in-flight run context to be canceled")
	}
}

func TestInput_RewriteStale(t *testing.T) {
	in := NewInput("b23.tv/abc")
	_, _, _, gen := in.begin(context.Background())
	in.Set("something else")

	if in.rewrite(gen, "expanded") {
		t.Fatal("Expected rewrite to fail for a stale generation")
	}
	if in.Text() != "something else" {
		t.Fatalf("Expected stale rewrite to not touch text, got %q", in.Text())
	}
}
