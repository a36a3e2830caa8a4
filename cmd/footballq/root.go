package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/football-query/internal/app"
	"github.com/riskibarqy/football-query/internal/config"
	"github.com/riskibarqy/football-query/internal/domain/fault"
	"github.com/riskibarqy/football-query/internal/domain/lexicon"
	"github.com/riskibarqy/football-query/internal/domain/query"
	"github.com/riskibarqy/football-query/internal/interfaces/httpapi"
	"github.com/riskibarqy/football-query/internal/platform/logging"
	"github.com/spf13/cobra"
)

// errQueryFailed means the localized message was already printed.
var errQueryFailed = errors.New("query failed")

const (
	formatTable = "table"
	formatJSON  = "json"
)

// opener builds the query stack. Tests swap it for a fake runner.
type opener func(ctx context.Context, logger *logging.Logger) (httpapi.QueryRunner, *lexicon.Lexicon, error)

func defaultOpener(ctx context.Context, logger *logging.Logger) (httpapi.QueryRunner, *lexicon.Lexicon, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	// The CLI is one-shot; scraping and warm-up only make sense for the server.
	cfg.MetricsEnabled = false
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return container.Queries, container.Lexicon, nil
}

type rootOptions struct {
	lang     string
	format   string
	logLevel string
}

func newRootCmd(open opener) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "footballq [question]",
		Short: "Ask football questions in English or Hebrew",
		Long: `footballq interprets a free-text football question (standings, top scorers,
recent matches, team profiles, competitions or team statistics) and prints
the answer. Configuration comes from the same environment variables as the
API server; FOOTBALL_PROXY_URL is required.`,
		Example: `  footballq "premier league table 2023"
  footballq --lang he "מלך השערים בליגת העל"
  footballq -o json "arsenal squad"`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, open, opts, strings.Join(args, " "))
		},
	}

	root.PersistentFlags().StringVarP(&opts.lang, "lang", "l", string(query.LanguageEnglish), "question language: en or he")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level written to stderr")
	root.Flags().StringVarP(&opts.format, "output", "o", formatTable, "output format: table or json")

	root.AddCommand(newSupportedCmd(opts))
	return root
}

func newSupportedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "supported",
		Short: "List the question types footballq understands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lang, ok := query.ParseLanguage(opts.lang)
			if !ok {
				return fmt.Errorf("unsupported language %q", opts.lang)
			}
			for _, label := range lexicon.Default().SupportedIntents()[string(lang)] {
				fmt.Fprintln(cmd.OutOrStdout(), "- "+label)
			}
			return nil
		},
	}
}

func runQuery(cmd *cobra.Command, open opener, opts *rootOptions, text string) error {
	if opts.format != formatTable && opts.format != formatJSON {
		return fmt.Errorf("unsupported output format %q", opts.format)
	}

	logger := logging.New(logging.Options{
		Level:  logging.ParseLevel(opts.logLevel),
		Format: logging.FormatConsole,
		Writer: cmd.ErrOrStderr(),
	})
	logging.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	runner, lex, err := open(ctx, logger)
	if err != nil {
		return err
	}

	lang := query.Language(strings.ToLower(strings.TrimSpace(opts.lang)))
	displayLang := lang
	if !lang.Valid() {
		displayLang = query.LanguageEnglish
	}

	result, err := runner.RunQuery(ctx, text, lang)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), httpapi.LocalizedError(displayLang, fault.Classify(err, fault.CodeUnknownError)))
		return errQueryFailed
	}

	out := cmd.OutOrStdout()
	if opts.format == formatJSON {
		enc := sonic.ConfigDefault.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(httpapi.NewQueryResponse(ctx, lex, displayLang, result))
	}

	fmt.Fprintln(out, httpapi.Summarize(displayLang, result))
	fmt.Fprintln(out)
	return renderTable(out, result)
}
