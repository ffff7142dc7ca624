// Package dispatcher drives a single user turn through the bounded
// LM<->plugin exchange: prompt build, LM call, decode, optional plugin
// invocation, duplicate detection, and step-budget enforcement.
package dispatcher

import (
	"context"
	"fmt"

	"github.com/libreassistant/poc/internal/poc/lm"
	"github.com/libreassistant/poc/internal/poc/pluginclient"
	"github.com/libreassistant/poc/internal/poc/protocol"
	"github.com/libreassistant/poc/internal/poc/tracker"
)

// defaultOperation is the plugin HTTP path the Dispatcher calls for every
// plugin_invoke; plugins define their own sub-operations, but the core
// relays through this single conventional entry point.
const defaultOperation = "invoke"

// PluginSource exposes the currently running plugin set to the Dispatcher,
// decoupling it from the Supervisor/Manifest Registry concrete types.
type PluginSource interface {
	RunningPlugins() []protocol.PluginInfo
	IsRunning(pluginID string) bool
}

// Response is the Dispatcher's terminal result for a dispatch call.
type Response struct {
	Text        string
	Markdown    bool
	Invocations []tracker.InvocationRecord
	Outcome     tracker.Outcome

	// Duplicate detail, populated only for OutcomeDuplicate.
	DuplicatePlugin string
	DuplicateInput  map[string]interface{}
	DuplicateReason string
}

// Dispatcher wires together every component needed to run one turn.
type Dispatcher struct {
	backend  lm.Backend
	plugins  PluginSource
	client   *pluginclient.Client
	tracker  *tracker.Tracker
	maxSteps int
}

func New(backend lm.Backend, plugins PluginSource, client *pluginclient.Client, tr *tracker.Tracker, maxSteps int) *Dispatcher {
	return &Dispatcher{backend: backend, plugins: plugins, client: client, tracker: tr, maxSteps: maxSteps}
}

// Dispatch runs one bounded user turn for requestID, starting from history.
func (d *Dispatcher) Dispatch(ctx context.Context, requestID string, history []protocol.Turn) (Response, error) {
	session := d.tracker.StartSession(requestID)

	for step := 0; step < d.maxSteps; step++ {
		if err := ctx.Err(); err != nil {
			d.tracker.Finish(session, tracker.OutcomeCancelled)
			return Response{Outcome: tracker.OutcomeCancelled, Invocations: session.Invocations()}, nil
		}

		prompt := protocol.BuildPrompt(history, d.plugins.RunningPlugins())
		raw, err := d.backend.Call(ctx, prompt)
		if err != nil {
			d.tracker.Finish(session, tracker.OutcomeOK)
			return Response{}, fmt.Errorf("lm call: %w", err)
		}

		msg := protocol.Parse(raw)

		switch {
		case msg.NonCompliant:
			d.tracker.Finish(session, tracker.OutcomeOK)
			return Response{Text: msg.RawText, Outcome: tracker.OutcomeOK, Invocations: session.Invocations()}, nil

		case msg.Message != nil:
			d.tracker.Finish(session, tracker.OutcomeOK)
			return Response{
				Text:        msg.Message.Text,
				Markdown:    msg.Message.Markdown,
				Outcome:     tracker.OutcomeOK,
				Invocations: session.Invocations(),
			}, nil

		case msg.Invoke != nil:
			inv := msg.Invoke
			if !d.plugins.IsRunning(inv.Plugin) {
				history = append(history, protocol.Turn{
					Role:    "system",
					Content: fmt.Sprintf("plugin %q is not available", inv.Plugin),
				})
				continue
			}

			fp := protocol.ComputeFingerprint(inv.Plugin, inv.Input)
			if d.tracker.CheckConsecutiveDuplicate(session, fp) {
				d.tracker.Finish(session, tracker.OutcomeDuplicate)
				return Response{
					Outcome:         tracker.OutcomeDuplicate,
					DuplicatePlugin: inv.Plugin,
					DuplicateInput:  inv.Input,
					DuplicateReason: inv.Reason,
					Invocations:     session.Invocations(),
				}, nil
			}

			idx := d.tracker.RecordInvocation(session, inv.Plugin, inv.Input, inv.Reason)
			result, invErr := d.client.Invoke(ctx, inv.Plugin, defaultOperation, inv.Input)

			if invErr != nil {
				if ctx.Err() != nil {
					d.tracker.MarkCancelled(session, idx)
					d.tracker.Finish(session, tracker.OutcomeCancelled)
					return Response{Outcome: tracker.OutcomeCancelled, Invocations: session.Invocations()}, nil
				}
				d.tracker.UpdateInvocationResult(session, idx, false, nil, invErr.Error())
				history = append(history, protocol.Turn{
					Role:    "user",
					Content: fmt.Sprintf("plugin %q invocation failed: %v", inv.Plugin, invErr),
				})
				continue
			}

			d.tracker.UpdateInvocationResult(session, idx, true, result.Payload, "")
			history = append(history, protocol.Turn{
				Role:    "user",
				Content: fmt.Sprintf("--- plugin %s result ---\nreason: %s\n%v\n--- end result ---", inv.Plugin, inv.Reason, result.Payload),
			})
		}
	}

	d.tracker.Finish(session, tracker.OutcomeBudgetExhausted)
	return Response{Outcome: tracker.OutcomeBudgetExhausted, Invocations: session.Invocations()}, nil
}
