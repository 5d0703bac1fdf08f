package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/PizaSukeruton/tmbot3000/internal/httpapi"
	"github.com/PizaSukeruton/tmbot3000/internal/telegram"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the bot hosts",
		Long:  "Run the configured hosts (Telegram polling and/or HTTP) until interrupted.",
		Run:   runServe,
	}

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	p := loadProfile()
	log := newLogger(p)

	if p.TelegramToken == "" && p.HTTPAddr == "" {
		exitErr("serve", fmt.Errorf("no host configured: set TMBOT_TELEGRAM_TOKEN and/or TMBOT_HTTP_ADDR"))
	}

	eng, cache, closeStore, err := buildEngine(p, log)
	if err != nil {
		exitErr("build engine", err)
	}
	defer closeStore()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Vocabulary loads in the background; early requests see an empty
	// snapshot and degrade gracefully.
	cache.Start(ctx, p.VocabRefresh)

	g, gctx := errgroup.WithContext(ctx)

	if p.TelegramToken != "" {
		bot, err := telegram.New(p.TelegramToken, eng, log)
		if err != nil {
			exitErr("telegram", err)
		}
		g.Go(func() error { return bot.Run(gctx) })
	}

	if p.HTTPAddr != "" {
		srv := &http.Server{
			Addr:    p.HTTPAddr,
			Handler: httpapi.New(eng, log).Router(),
		}
		g.Go(func() error {
			log.Info().Str("addr", p.HTTPAddr).Msg("http: listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			return srv.Shutdown(context.Background())
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		exitErr("serve", err)
	}
}
