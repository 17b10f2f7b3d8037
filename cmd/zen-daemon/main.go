package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	cli "github.com/spf13/pflag"

	log "log/slog"

	"zen/internal/assistant"
	"zen/internal/audio"
	"zen/internal/brain"
	"zen/internal/bus"
	"zen/internal/config"
	"zen/internal/ipc"
	"zen/internal/logging"
	"zen/internal/memory"
	"zen/internal/notify"
	"zen/internal/proxy"
	"zen/internal/tasks"
	"zen/internal/tts"
	"zen/pkg/audioconv"
	"zen/pkg/stt"
)

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	logLevel := cli.StringP("log", "l", "", "Log level override (debug|info|warn|error)")
	chime := cli.StringP("chime", "c", "beep.mp3", "Activation chime mp3")
	noMic := cli.Bool("no-mic", false, "Run without microphone (bus/IPC input only)")
	cli.Parse()

	cfg := config.Load(*envFile)

	if err := logging.Setup(cfg, *logLevel); err != nil {
		log.Error("Failed to init logging", "err", err)
		os.Exit(1)
	}

	log.Info("Booting up")

	if errs := cfg.Validate(); len(errs) > 0 {
		for _, err := range errs {
			log.Error("Configuration error", "err", err)
		}
		log.Error("Fix the .env file and restart")
		os.Exit(1)
	}

	var httpClient *http.Client
	if cfg.SocksProxy != "" {
		var err error
		httpClient, err = proxy.NewSocksClient(cfg.SocksProxy)
		if err != nil {
			log.Error("Failed to dial socks proxy", "proxy", cfg.SocksProxy, "err", err)
			os.Exit(1)
		}
		log.Debug("Loaded proxy")
	}

	session, err := brain.NewSession(cfg, httpClient)
	if err != nil {
		log.Error("Failed to init AI session", "err", err)
		os.Exit(1)
	}

	taskMgr, err := tasks.NewManager(cfg.TasksFile)
	if err != nil {
		log.Error("Failed to load tasks", "err", err)
		os.Exit(1)
	}

	mem, err := memory.Open(cfg.MemoryDB)
	if err != nil {
		log.Error("Failed to open memory store", "err", err)
		os.Exit(1)
	}
	defer mem.Close()

	var listener assistant.Listener
	var voice *assistant.VoiceListener
	if !*noMic {
		rec := audio.NewRecorder()
		if err := rec.Init(); err != nil {
			log.Error("Failed to init audio", "err", err)
			os.Exit(1)
		}
		defer rec.Close()
		log.Debug("Loaded recorder")

		whisper, err := stt.NewTranscriber(cfg.WhisperModel)
		if err != nil {
			log.Error("Failed to init whisper", "model", cfg.WhisperModel, "err", err)
			os.Exit(1)
		}
		defer whisper.Close()
		log.Debug("Loaded whisper")

		voice = assistant.NewVoiceListener(rec, whisper, cfg.ListenTimeout, cfg.PhraseTimeLimit)
		listener = voice
	}

	speaker := tts.NewSpeaker(cfg.SpeechRate, cfg.SpeechVolume, cfg.AsyncSpeech)

	busSrv := bus.NewServer(cfg.BusAddr)
	busSrv.Start()

	zen := assistant.New(assistant.Options{
		Config:   cfg,
		Session:  session,
		Speaker:  speaker,
		Listener: listener,
		Tasks:    taskMgr,
		Memory:   mem,
		Bus:      busSrv,
		Notify:   func() error { return notify.Chime(*chime) },
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := ipc.StartServer(func(msg ipc.ControlMessage) ipc.Response {
		return handleControl(ctx, zen, voice, msg)
	}); err != nil {
		log.Error("Failed ipc server", "err", err)
		os.Exit(1)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info("Signal received, shutting down")
		zen.Shutdown()
		cancel()
	}()

	log.Info("Boot up - successful", "provider", session.ProviderName(), "wake_word", cfg.WakeWordEnabled)
	zen.Run(ctx)
	speaker.Wait()
}

func handleControl(ctx context.Context, zen *assistant.Assistant, voice *assistant.VoiceListener, msg ipc.ControlMessage) ipc.Response {
	switch msg.Cmd {
	case ipc.CmdTrigger:
		if voice == nil {
			return ipc.Response{Error: "no microphone available"}
		}
		text, err := voice.Listen(ctx)
		if err != nil {
			return ipc.Response{Error: err.Error()}
		}
		if text == "" {
			return ipc.Response{OK: true, Reply: "I didn't catch that."}
		}
		return ipc.Response{OK: true, Reply: zen.HandleText(ctx, text)}

	case ipc.CmdSay:
		zen.Say(msg.Arg)
		return ipc.Response{OK: true}

	case ipc.CmdAsk:
		if strings.TrimSpace(msg.Arg) == "" {
			return ipc.Response{Error: "empty prompt"}
		}
		return ipc.Response{OK: true, Reply: zen.HandleText(ctx, msg.Arg)}

	case ipc.CmdAskFile:
		if voice == nil {
			return ipc.Response{Error: "no transcriber available"}
		}
		pcm, err := audioconv.DecodeFile(msg.Arg, 0)
		if err != nil {
			return ipc.Response{Error: err.Error()}
		}
		text, err := voice.TranscribePCM(ctx, pcm)
		if err != nil {
			return ipc.Response{Error: err.Error()}
		}
		if text == "" {
			return ipc.Response{OK: true, Reply: "I couldn't understand that recording."}
		}
		return ipc.Response{OK: true, Reply: zen.HandleText(ctx, text)}

	case ipc.CmdStop:
		zen.Shutdown()
		return ipc.Response{OK: true}

	default:
		log.Warn("Unknown command", "cmd", msg.Cmd)
		return ipc.Response{Error: "unknown command: " + msg.Cmd}
	}
}
