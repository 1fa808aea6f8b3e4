package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/vigenere-search/internal/auth"
	"github.com/vigenere-search/internal/config"
	"github.com/vigenere-search/internal/dao"
	"github.com/vigenere-search/internal/decipher"
	apperrors "github.com/vigenere-search/internal/errors"
	"github.com/vigenere-search/internal/key"
	"github.com/vigenere-search/internal/search"
	"github.com/vigenere-search/internal/server"
	"github.com/vigenere-search/internal/storage"
	"github.com/vigenere-search/internal/trace"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	mode := flag.String("mode", "scan", "scan, encrypt or token")
	text := flag.String("text", "", "plaintext for encrypt mode")
	keyArg := flag.String("key", "", "key letters or identity for encrypt mode, operator name for token mode")
	flag.Parse()

	// Load configuration first
	cfg := config.Load(*configPath)

	// Setup logging based on config
	setupLogging(cfg)

	var err error
	switch *mode {
	case "scan":
		err = runScan(cfg)
	case "encrypt":
		err = runEncrypt(*text, *keyArg)
	case "token":
		err = runToken(cfg, *keyArg)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if apperrors.HasCode(err, apperrors.ErrCodeInvalidKey) || apperrors.HasCode(err, apperrors.ErrCodeInvalidRange) {
		log.Error().Err(err).Str("mode", *mode).Msg("Invalid key range")
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Str("mode", *mode).Msg("Failed")
	}
}

func runScan(cfg *config.Config) error {
	text, err := cfg.LoadCiphertext()
	if err != nil {
		return err
	}
	r, err := cfg.KeyRange()
	if err != nil {
		return err
	}
	parts, err := search.Partition(r.Start, r.End, cfg.Workers)
	if err != nil {
		return err
	}

	run := &dao.Run{
		ID:        trace.GenerateRunID(),
		TextID:    dao.TextID(text),
		Range:     r,
		StartedAt: time.Now(),
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = trace.WithRunID(ctx, run.ID)

	log.Info().
		Str("run", run.ID).
		Str("start", key.FromIdentity(r.Start).String()).
		Str("end", key.FromIdentity(r.End).String()).
		Str("keys", r.Size()).
		Int("parts", len(parts)).
		Int("text_len", len(text)).
		Msg("Starting vigenere-search")

	var (
		candidates  *dao.CandidateDAO
		checkpoints *dao.ProgressDAO
		runs        *dao.RunDAO
	)
	if cfg.Persist {
		store, err := storage.NewStore(cfg.DataDir)
		if err != nil {
			return err
		}
		defer store.Close()
		log.Info().Str("path", store.Path()).Bool("resume", cfg.Resume).Msg("Persisting results")
		candidates = dao.NewCandidateDAO(store)
		checkpoints = dao.NewProgressDAO(store)
		runs = dao.NewRunDAO(store)
	}

	progress := search.NewProgress()
	scanner := search.NewScanner(text,
		search.WithProgress(progress),
		search.WithCheckEvery(cfg.CheckEvery),
	)
	if e := log.Debug(); e.Enabled() {
		e.Str("engine", scanner.Engine().String()).Msg("Engine prepared")
	}

	g, gctx := errgroup.WithContext(ctx)
	scanDone := make(chan struct{})

	if cfg.Status.Enable {
		srv := server.New(cfg, progress, candidates, runs)
		g.Go(srv.Start)
		g.Go(func() error {
			select {
			case <-gctx.Done():
			case <-scanDone:
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		defer close(scanDone)
		return scanParts(gctx, cfg, scanner, parts, run, candidates, checkpoints)
	})

	err = g.Wait()
	run.FinishedAt = time.Now()
	run.Cancelled = errors.Is(err, context.Canceled)
	if run.Cancelled {
		err = nil
	}

	if runs != nil {
		if saveErr := runs.Save(run); saveErr != nil {
			log.Error().Err(saveErr).Msg("Failed to save run summary")
		}
	}
	report(run)
	return err
}

// scanParts scans each partition in turn on the calling goroutine
func scanParts(ctx context.Context, cfg *config.Config, scanner *search.Scanner, parts []search.Range,
	run *dao.Run, candidates *dao.CandidateDAO, checkpoints *dao.ProgressDAO) error {
	for i, part := range parts {
		pctx := trace.WithPartTag(ctx, trace.PartTag(i, len(parts)))
		logger := trace.Logger(pctx)

		todo := part
		switch {
		case checkpoints == nil:
		case cfg.Resume:
			cp, ok, err := checkpoints.Load(run.TextID, part)
			if err != nil {
				return err
			}
			if ok {
				remaining, left := cp.Remaining()
				if !left {
					logger.Info().Str("range", part.String()).Msg("Partition already scanned, skipping")
					continue
				}
				todo = remaining
				logger.Info().Str("range", todo.String()).Msg("Resuming partition")
			}
		default:
			// A fresh scan must not add to counters left by an earlier run.
			if err := checkpoints.Reset(run.TextID, part); err != nil {
				return err
			}
		}

		res, err := scanner.Scan(pctx, todo, func(c search.Candidate) {
			logger.Info().
				Uint64("identity", c.Identity).
				Str("key", c.Key).
				Str("text", c.Text).
				Msg("Candidate found")
			fmt.Printf("%d\t%s\t%s\n", c.Identity, c.Key, c.Text)
			if candidates != nil {
				if err := candidates.Save(c); err != nil {
					logger.Error().Err(err).Uint64("identity", c.Identity).Msg("Failed to save candidate")
				}
			}
		})
		run.Results = append(run.Results, res)
		run.Checked += res.Checked
		run.Candidates += res.Candidates

		if checkpoints != nil && res.Checked > 0 {
			if _, cpErr := checkpoints.Record(run.TextID, part, res, err == nil); cpErr != nil {
				logger.Error().Err(cpErr).Msg("Failed to record checkpoint")
			}
		}
		if err != nil {
			return err
		}

		logger.Info().
			Str("range", todo.String()).
			Uint64("checked", res.Checked).
			Uint64("candidates", res.Candidates).
			Dur("elapsed", res.Elapsed).
			Msg("Partition finished")
	}
	return nil
}

func report(run *dao.Run) {
	elapsed := run.FinishedAt.Sub(run.StartedAt)
	total := search.Result{Checked: run.Checked, Elapsed: elapsed}
	fmt.Printf("n = %d, %.0f it/s, %.2f ns/it, %d candidates",
		run.Checked, total.KeysPerSecond(), total.NanosPerKey(), run.Candidates)
	if run.Cancelled {
		fmt.Print(" (cancelled)")
	}
	fmt.Println()
}

func runEncrypt(plain, keyArg string) error {
	if plain == "" || keyArg == "" {
		return errors.New("encrypt mode needs -text and -key")
	}
	k, err := key.Parse(keyArg)
	if err != nil {
		return err
	}
	fmt.Println(string(decipher.EncipherText([]byte(plain), k.Letters())))
	return nil
}

func runToken(cfg *config.Config, operator string) error {
	if !cfg.IsAuthEnabled() {
		return errors.New("status.jwt_secret is not configured")
	}
	if operator == "" {
		operator = "operator"
	}
	a := auth.NewJWTAuth(cfg.Status.JWTSecret, time.Duration(cfg.Status.JWTExpire)*time.Hour)
	token, err := a.GenerateToken(operator)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func setupLogging(cfg *config.Config) {
	// Set time format
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	// Set log level
	switch cfg.Log.Level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// Log to stderr so candidates on stdout stay machine readable
	if cfg.Log.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	} else {
		log.Logger = log.Output(os.Stderr)
	}
}
