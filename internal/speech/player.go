// Package speech reads text aloud on a background worker.
//
// A Player is a two-state actor (idle, speaking). One goroutine owns the
// current utterance; callers only hand over commands and never wait for
// speech to finish.
package speech

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Synthesizer turns text into audio. Say blocks until the utterance ends or
// ctx is cancelled.
type Synthesizer interface {
	Say(ctx context.Context, text string) error
}

type cmdKind int

const (
	cmdSpeak cmdKind = iota
	cmdStop
)

type command struct {
	kind cmdKind
	text string
	done chan struct{}
}

// Player serializes utterances so that at most one plays at a time.
type Player struct {
	synth Synthesizer
	log   *zap.Logger

	cmds      chan command
	quit      chan struct{}
	exited    chan struct{}
	closeOnce sync.Once

	speaking atomic.Bool
}

// NewPlayer starts the worker goroutine. Call Close to stop it.
func NewPlayer(synth Synthesizer, log *zap.Logger) *Player {
	if log == nil {
		log = zap.NewNop()
	}
	p := &Player{
		synth:  synth,
		log:    log.Named("speech"),
		cmds:   make(chan command),
		quit:   make(chan struct{}),
		exited: make(chan struct{}),
	}
	go p.loop()
	return p
}

// Speak starts reading text. An utterance already in progress is cut off
// first. Empty text is ignored.
func (p *Player) Speak(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	p.send(command{kind: cmdSpeak, text: text})
}

// Stop cuts off the current utterance. It is a no-op when idle.
func (p *Player) Stop() { p.send(command{kind: cmdStop}) }

// Speaking reports whether an utterance is in progress.
func (p *Player) Speaking() bool { return p.speaking.Load() }

// Close stops any utterance and ends the worker. Later commands are ignored.
func (p *Player) Close() {
	p.closeOnce.Do(func() { close(p.quit) })
	<-p.exited
}

func (p *Player) send(c command) {
	c.done = make(chan struct{})
	select {
	case p.cmds <- c:
	case <-p.quit:
		return
	}
	select {
	case <-c.done:
	case <-p.exited:
	}
}

type utterance struct {
	cancel   context.CancelFunc
	finished chan struct{}
}

func (p *Player) loop() {
	defer close(p.exited)

	var cur *utterance
	var ended chan struct{} // cur.finished, nil when idle

	stopCurrent := func() {
		if cur == nil {
			return
		}
		cur.cancel()
		<-cur.finished
		cur, ended = nil, nil
		p.speaking.Store(false)
	}

	for {
		select {
		case c := <-p.cmds:
			switch c.kind {
			case cmdSpeak:
				stopCurrent()
				cur = p.start(c.text)
				ended = cur.finished
				p.speaking.Store(true)
			case cmdStop:
				stopCurrent()
			}
			close(c.done)
		case <-ended:
			cur, ended = nil, nil
			p.speaking.Store(false)
		case <-p.quit:
			stopCurrent()
			return
		}
	}
}

func (p *Player) start(text string) *utterance {
	ctx, cancel := context.WithCancel(context.Background())
	u := &utterance{cancel: cancel, finished: make(chan struct{})}
	go func() {
		defer close(u.finished)
		defer cancel()
		if err := p.synth.Say(ctx, text); err != nil && ctx.Err() == nil {
			p.log.Warn("utterance failed", zap.Error(err))
		}
	}()
	return u
}
