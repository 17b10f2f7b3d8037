// Package assistant orchestrates the conversation loop: wake word
// gating, listening, command routing, AI dispatch and speech output.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	log "log/slog"

	"zen/internal/brain"
	"zen/internal/bus"
	"zen/internal/config"
	"zen/internal/memory"
	"zen/internal/router"
	"zen/internal/tasks"
	"zen/internal/tools"
	"zen/internal/wake"
)

const askTimeout = 60 * time.Second

// Spoken on provider failures; the real error goes to the log.
const troubleReply = "I'm having trouble processing that. Could you try again?"

// Speaker voices replies. tts.Speaker satisfies this; tests stub it.
type Speaker interface {
	Say(text string) error
}

// Notifier plays the activation chime. Optional.
type Notifier func() error

// Assistant owns one conversation. All state is carried here; nothing
// is process-global.
type Assistant struct {
	cfg      *config.Config
	session  *brain.Session
	routes   *router.Router
	speaker  Speaker
	listener Listener
	tools    *tools.Tools
	tasks    *tasks.Manager
	memory   *memory.Store
	bus      *bus.Server // may be nil
	detector *wake.Detector
	notify   Notifier

	procMu  sync.Mutex // one outstanding AI call at a time
	mu      sync.Mutex
	running bool
	stop    chan struct{}
}

// Options carries the collaborators the daemon wires up.
type Options struct {
	Config   *config.Config
	Session  *brain.Session
	Speaker  Speaker
	Listener Listener
	Tasks    *tasks.Manager
	Memory   *memory.Store
	Bus      *bus.Server
	Notify   Notifier
}

func New(opts Options) *Assistant {
	a := &Assistant{
		cfg:      opts.Config,
		session:  opts.Session,
		speaker:  opts.Speaker,
		listener: opts.Listener,
		tools:    tools.New(),
		tasks:    opts.Tasks,
		memory:   opts.Memory,
		bus:      opts.Bus,
		notify:   opts.Notify,
		running:  true,
		stop:     make(chan struct{}),
	}
	a.routes = a.buildRoutes()

	if opts.Config.WakeWordEnabled && opts.Listener != nil {
		a.detector = wake.NewDetector(
			opts.Config.WakeWord,
			opts.Config.WakeWordSensitivity,
			func(ctx context.Context) (string, error) {
				return opts.Listener.Listen(ctx)
			},
		)
	}

	return a
}

// buildRoutes assembles the ordered command table. First match wins.
func (a *Assistant) buildRoutes() *router.Router {
	r := router.New()

	r.Add("exit", `\b(exit|quit|goodbye|bye zen)\b`, func(ctx context.Context, m []string) (string, error) {
		a.Shutdown()
		return "Goodbye! Have a great day!", nil
	})

	r.Add("time", `\b(what time|current time|what's the time|what is the time)\b`, func(ctx context.Context, m []string) (string, error) {
		return a.tools.CurrentTime(), nil
	})

	r.Add("task-add", `\b(?:add a task|add task|remind me)(?: to| that)?\s+(.+)`, func(ctx context.Context, m []string) (string, error) {
		t, err := a.tasks.Add(m[1], "", "", "")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Added %s to your tasks for today.", t.Title), nil
	})

	r.Add("task-complete", `\b(?:complete|finish|i finished)(?: the)?(?: task)?\s+(.+)`, func(ctx context.Context, m []string) (string, error) {
		t, err := a.tasks.Complete(m[1])
		if err != nil {
			return fmt.Sprintf("I couldn't find a task matching %s.", m[1]), nil
		}
		return fmt.Sprintf("Marked %s as done.", t.Title), nil
	})

	r.Add("task-delete", `\b(?:delete|remove)(?: the)? task\s+(.+)`, func(ctx context.Context, m []string) (string, error) {
		t, err := a.tasks.Delete(m[1])
		if err != nil {
			return fmt.Sprintf("I couldn't find a task matching %s.", m[1]), nil
		}
		return fmt.Sprintf("Deleted %s.", t.Title), nil
	})

	r.Add("task-summary", `\b(my tasks|task summary|tasks for today|list tasks|list my tasks)\b`, func(ctx context.Context, m []string) (string, error) {
		return a.tasks.Summary(), nil
	})

	r.Add("remember", `\bremember(?: that)?\s+(.+)`, func(ctx context.Context, m []string) (string, error) {
		if _, err := a.memory.Remember(m[1], nil); err != nil {
			return "", err
		}
		return "Got it, I'll remember that.", nil
	})

	r.Add("recall", `\bwhat do you (?:remember|know) about\s+(.+)`, func(ctx context.Context, m []string) (string, error) {
		facts, err := a.memory.Recall(m[1], 3)
		if err != nil {
			return "", err
		}
		if len(facts) == 0 {
			return "I don't remember anything about that.", nil
		}
		reply := "Here's what I remember: "
		for i, f := range facts {
			if i > 0 {
				reply += " Also, "
			}
			reply += f.Text + "."
		}
		return reply, nil
	})

	r.Add("search", `\bsearch\s+(?:for\s+)?(.+)`, func(ctx context.Context, m []string) (string, error) {
		return a.tools.SearchWeb(ctx, m[1]), nil
	})

	r.Add("open", `\bopen\s+(\w+)`, func(ctx context.Context, m []string) (string, error) {
		return a.tools.OpenApplication(ctx, m[1]), nil
	})

	r.Add("system", `\bsystem\s+(?:info|status)\b`, func(ctx context.Context, m []string) (string, error) {
		return a.tools.SystemInfo(ctx), nil
	})

	r.Add("volume", `\b(?:set )?volume(?: to)?\s+(\d+)\b`, func(ctx context.Context, m []string) (string, error) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return "", err
		}
		return a.tools.SetVolume(ctx, n), nil
	})

	r.Add("reset", `\b(?:clear|reset)(?: the)? (?:conversation|history)\b`, func(ctx context.Context, m []string) (string, error) {
		a.session.Reset()
		return "Starting fresh. What would you like to talk about?", nil
	})

	return r
}

// HandleText routes recognized text and speaks the outcome. Returns the
// spoken reply. Safe for concurrent callers; AI calls are serialized.
func (a *Assistant) HandleText(ctx context.Context, text string) string {
	a.procMu.Lock()
	defer a.procMu.Unlock()

	a.setState(bus.StateThinking)
	defer a.setState(a.idleState())

	if a.bus != nil {
		a.bus.Publish(bus.KindTranscript, text)
	}

	reply, matched, err := a.routes.Dispatch(ctx, text)
	if err != nil {
		log.Error("Command failed", "text", text, "err", err)
		reply = "I'm sorry, I encountered an error processing that."
	} else if !matched {
		log.Info("Sending to AI", "provider", a.session.ProviderName(), "text", text)

		askCtx, cancel := context.WithTimeout(ctx, askTimeout)
		reply, err = a.session.Ask(askCtx, text)
		cancel()

		if err != nil {
			var perr *brain.ProviderError
			if errors.As(err, &perr) {
				log.Error("Provider failed", "provider", perr.Provider, "op", perr.Op, "err", perr.Err)
			} else {
				log.Error("AI call failed", "err", err)
			}
			reply = troubleReply
		}
	}

	a.say(reply)
	if a.bus != nil {
		a.bus.Publish(bus.KindReply, reply)
	}
	return reply
}

// Run is the main conversation loop. It blocks until Shutdown.
func (a *Assistant) Run(ctx context.Context) {
	a.mu.Lock()
	a.running = true
	a.mu.Unlock()

	if a.detector != nil {
		a.runWakeMode(ctx)
		return
	}
	a.runContinuous(ctx)
}

func (a *Assistant) runContinuous(ctx context.Context) {
	a.say("Hello! I'm Zen, your voice assistant. How can I help you today?")

	for a.isRunning() {
		select {
		case <-ctx.Done():
			return
		case <-a.stop:
			return
		case text := <-a.busUtterances():
			a.HandleText(ctx, text)
			continue
		default:
		}

		if a.listener == nil {
			// No microphone; bus and IPC drive the loop.
			a.waitForUtterance(ctx)
			continue
		}

		a.setState(bus.StateListening)
		text, err := a.listener.Listen(ctx)
		if err != nil {
			log.Error("Listen failed", "err", err)
			a.say("I encountered an error. Let me try again.")
			continue
		}
		if text == "" {
			a.setState(bus.StateIdle)
			continue
		}
		a.HandleText(ctx, text)
	}
}

func (a *Assistant) runWakeMode(ctx context.Context) {
	a.say(fmt.Sprintf("Hello! I'm Zen. Say %s or hey %s to activate me.", a.cfg.WakeWord, a.cfg.WakeWord))

	a.setState(bus.StateWake)
	a.detector.Start()
	defer a.detector.Stop()

	for a.isRunning() {
		select {
		case <-ctx.Done():
			return
		case <-a.stop:
			return
		case text := <-a.busUtterances():
			a.HandleText(ctx, text)
		case <-a.detector.Activations():
			a.onWake(ctx)
		}
	}
}

// onWake runs one command cycle, then drops back to passive listening.
// The detector pauses so it doesn't fight the command listen for the
// microphone.
func (a *Assistant) onWake(ctx context.Context) {
	a.detector.Stop()
	defer a.detector.Start()

	if a.notify != nil {
		if err := a.notify(); err != nil {
			log.Debug("Chime failed", "err", err)
		}
	}
	a.say("Yes?")

	a.setState(bus.StateListening)
	text, err := a.listener.Listen(ctx)
	if err != nil {
		log.Error("Listen failed", "err", err)
		a.setState(bus.StateWake)
		return
	}
	if text == "" {
		a.setState(bus.StateWake)
		return
	}
	a.HandleText(ctx, text)
}

func (a *Assistant) waitForUtterance(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-a.stop:
	case text := <-a.busUtterances():
		a.HandleText(ctx, text)
	}
}

func (a *Assistant) busUtterances() <-chan string {
	if a.bus == nil {
		return nil
	}
	return a.bus.Utterances()
}

// Say voices text outside the normal pipeline (IPC "say").
func (a *Assistant) Say(text string) { a.say(text) }

func (a *Assistant) say(text string) {
	a.setState(bus.StateSpeaking)
	if err := a.speaker.Say(text); err != nil {
		log.Error("Failed to voice out", "err", err)
	}
}

// Shutdown stops the conversation loop.
func (a *Assistant) Shutdown() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.running {
		return
	}
	a.running = false
	close(a.stop)
	log.Info("Assistant shutting down")
}

// Running reports whether the assistant has been shut down.
func (a *Assistant) Running() bool { return a.isRunning() }

func (a *Assistant) isRunning() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

func (a *Assistant) idleState() string {
	if a.detector != nil {
		return bus.StateWake
	}
	return bus.StateIdle
}

func (a *Assistant) setState(state string) {
	if a.bus != nil {
		a.bus.SetState(state)
	}
}
