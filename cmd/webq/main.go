// webq evaluates a declarative web scraping query and prints the result
// as a single JSON value, e.g.
//
//	webq 'get(url: "https://example.com") { select(select: "a") { text href } }'
//
// With no argument the query is read from stdin. Fetch behavior is
// configured via WEBQ_* environment variables or flags.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/niklasfasching/webq/gq"
	"github.com/niklasfasching/webq/soup"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Timeout     time.Duration `default:"30s"`
	UserAgent   string        `split_words:"true"`
	MaxBodySize int64         `split_words:"true" default:"10485760"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	cmd := newCmd(os.Stdin, os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "webq:", err)
		os.Exit(1)
	}
}

func newCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	timeout, userAgent, verbose := time.Duration(0), "", false
	cmd := &cobra.Command{
		Use:           "webq [query]",
		Short:         "evaluate a web scraping query and print its JSON result",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := Config{}
			if err := envconfig.Process("webq", &cfg); err != nil {
				return err
			}
			if cmd.Flags().Changed("timeout") {
				cfg.Timeout = timeout
			}
			if cmd.Flags().Changed("user-agent") {
				cfg.UserAgent = userAgent
			}
			query := ""
			if len(args) == 1 {
				query = args[0]
			} else {
				bs, err := io.ReadAll(stdin)
				if err != nil {
					return err
				}
				query = string(bs)
			}
			return run(cmd, query, cfg, stdout, stderr, verbose)
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "per request fetch timeout (WEBQ_TIMEOUT)")
	cmd.Flags().StringVar(&userAgent, "user-agent", "", "User-Agent header for fetches (WEBQ_USER_AGENT)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log fetch and match diagnostics to stderr")
	return cmd
}

func run(cmd *cobra.Command, query string, cfg Config, stdout, stderr io.Writer, verbose bool) error {
	log := zap.NewNop()
	if verbose {
		core := zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.AddSync(stderr),
			zap.DebugLevel,
		)
		log = zap.New(core)
		defer log.Sync()
	}
	c, err := gq.Parse(query)
	if err != nil {
		return err
	}
	ev := &gq.Evaluator{
		Fetcher: &soup.Fetcher{
			Timeout:     cfg.Timeout,
			UserAgent:   cfg.UserAgent,
			MaxBodySize: cfg.MaxBodySize,
		},
		Log: log,
	}
	v, err := ev.Eval(cmd.Context(), c)
	if err != nil {
		return err
	}
	bs, err := gq.Render(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, string(bs))
	return err
}
