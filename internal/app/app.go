// ABOUTME: Main endpoint application orchestration
// ABOUTME: Coordinates processor, output, ingest server, discovery, and UI
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Resonate-Protocol/voicebridge-go/internal/analysis"
	"github.com/Resonate-Protocol/voicebridge-go/internal/config"
	"github.com/Resonate-Protocol/voicebridge-go/internal/discovery"
	"github.com/Resonate-Protocol/voicebridge-go/internal/player"
	"github.com/Resonate-Protocol/voicebridge-go/internal/server"
	"github.com/Resonate-Protocol/voicebridge-go/internal/ui"
	"github.com/Resonate-Protocol/voicebridge-go/pkg/voicebuffer"
	tea "github.com/charmbracelet/bubbletea"
)

// meterBands is the number of spectrum bands shown in the TUI.
const meterBands = 8

// App wires the endpoint together: the ingest server pushes frames into
// the processor, the audio output drains it, and the TUI watches both.
type App struct {
	config *config.Config

	proc      *voicebuffer.Processor
	meter     *analysis.Meter
	output    *player.Output
	server    *server.Server
	discovery *discovery.Manager
	tuiProg   *tea.Program

	ctx    context.Context
	cancel context.CancelFunc
}

// New builds the endpoint from validated configuration.
func New(cfg *config.Config) (*App, error) {
	proc, err := voicebuffer.New(voicebuffer.Config{
		InputRate:  cfg.Audio.InputSampleRate,
		OutputRate: cfg.Audio.OutputSampleRate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create processor: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		config: cfg,
		proc:   proc,
		meter:  analysis.NewMeter(cfg.Audio.BlockSize, meterBands),
		ctx:    ctx,
		cancel: cancel,
	}

	a.output = player.NewOutput(proc, cfg.Audio.BlockSize, cfg.Audio.Channels, a.meter.Process)
	a.server = server.New(server.Config{
		Port:      cfg.Server.Port,
		Name:      cfg.Server.Name,
		BlockSize: cfg.Audio.BlockSize,
	}, proc)
	a.server.OnFeeder = a.onFeeder

	return a, nil
}

// Run starts every subsystem and blocks until shutdown. Stop (or a TUI
// quit) unblocks it.
func (a *App) Run() error {
	if !a.config.Server.NoTUI {
		prog, err := ui.Run(a.config.Server.Name,
			a.config.Audio.InputSampleRate, a.config.Audio.OutputSampleRate)
		if err != nil {
			return fmt.Errorf("failed to start TUI: %w", err)
		}
		a.tuiProg = prog

		go func() {
			a.tuiProg.Run()
			// TUI quit takes the endpoint down with it.
			a.cancel()
		}()
	}

	if err := a.output.Start(); err != nil {
		return fmt.Errorf("failed to start audio output: %w", err)
	}

	if !a.config.Server.NoMDNS {
		a.discovery = discovery.NewManager(discovery.Config{
			ServiceName: a.config.Server.Name,
			Port:        a.config.Server.Port,
		})
		if err := a.discovery.Advertise(); err != nil {
			log.Printf("mDNS advertisement failed: %v", err)
		}
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.server.Start()
	}()

	go a.statsLoop()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("ingest server failed: %w", err)
		}
	case <-a.ctx.Done():
	}

	return nil
}

// Stop drains the buffer and shuts the endpoint down.
func (a *App) Stop() {
	a.proc.Close()
	a.waitForDrain(2 * time.Second)

	a.server.Stop()
	if a.discovery != nil {
		a.discovery.Stop()
	}
	a.output.Close()
	if a.tuiProg != nil {
		a.tuiProg.Quit()
	}
	a.cancel()
}

// waitForDrain lets the output play out buffered audio before the
// device closes, up to the given timeout.
func (a *App) waitForDrain(timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if a.proc.State() == voicebuffer.StateClosed {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	log.Printf("Drain timed out with %d samples buffered", a.proc.Stats().Buffered)
}

// onFeeder forwards feeder connect/disconnect events to the TUI.
func (a *App) onFeeder(ev server.FeederEvent) {
	connected := ev.Connected
	a.updateTUI(ui.StatusMsg{
		FeederConnected: &connected,
		FeederName:      ev.Name,
	})
}

// statsLoop periodically refreshes the TUI with buffer health and
// spectrum levels.
func (a *App) statsLoop() {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			stats := a.proc.Stats()
			a.updateTUI(ui.StatsMsg{
				State:      stats.State.String(),
				Buffered:   stats.Buffered,
				FramesIn:   stats.FramesIn,
				SamplesOut: stats.SamplesOut,
				Underruns:  stats.Underruns,
			})
			a.updateTUI(ui.LevelsMsg(a.meter.Levels()))

		case <-a.ctx.Done():
			return
		}
	}
}

// updateTUI sends a message when the TUI is running.
func (a *App) updateTUI(msg tea.Msg) {
	if a.tuiProg != nil {
		a.tuiProg.Send(msg)
	}
}
