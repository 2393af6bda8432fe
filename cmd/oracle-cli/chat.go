package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/farum-oracle/internal/adapters/backend"
	"github.com/PabloGalante/farum-oracle/internal/adapters/llm"
	memstore "github.com/PabloGalante/farum-oracle/internal/adapters/storage/memory"
	"github.com/PabloGalante/farum-oracle/internal/app/conversation"
	"github.com/PabloGalante/farum-oracle/internal/app/persona"
	"github.com/PabloGalante/farum-oracle/internal/app/profile"
	"github.com/PabloGalante/farum-oracle/internal/domain"
)

type chatOptions struct {
	personaID  string
	userID     string
	birthDate  string
	backendURL string
	timeout    time.Duration
}

// slashCommands map REPL shortcuts to controller actions.
var slashCommands = map[string]domain.ActionID{
	"/draw":     conversation.ActionDrawCards,
	"/forecast": conversation.ActionDailyForecast,
	"/match":    conversation.ActionStartCompatibility,
	"/ask":      conversation.ActionAskQuestion,
}

const helpText = "Commands: /draw /forecast /match /ask /help /quit. Anything else is sent as chat."

func newChatCmd() *cobra.Command {
	var opts chatOptions

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive session with a persona",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := persona.Load(personasFile)
			if err != nil {
				return err
			}
			return runChat(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), registry, opts)
		},
	}

	cmd.Flags().StringVar(&opts.personaID, "persona", "", "persona id (default: first in catalog)")
	cmd.Flags().StringVar(&opts.userID, "user", "me", "user id")
	cmd.Flags().StringVar(&opts.birthDate, "birth-date", "", "your birth date, YYYY-MM-DD")
	cmd.Flags().StringVar(&opts.backendURL, "backend-url", "", "oracle backend URL (default: offline mock)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "per request timeout against the backend")
	return cmd
}

func runChat(ctx context.Context, in io.Reader, out io.Writer, registry *persona.Registry, opts chatOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var gateway domain.Gateway = llm.NewMockGateway()
	if opts.backendURL != "" {
		gateway = backend.NewClient(&http.Client{Timeout: opts.timeout}, opts.backendURL)
	}

	profiles := memstore.NewProfileStore()
	if opts.birthDate != "" {
		if _, err := profile.NewService(profiles).SaveBirthData(ctx, domain.UserID(opts.userID), profile.BirthDataInput{
			Date: opts.birthDate,
		}); err != nil {
			return fmt.Errorf("--birth-date: %w", err)
		}
	}

	personaID := domain.PersonaID(opts.personaID)
	if personaID == "" {
		personaID = registry.Default().ID
	}

	sessions := conversation.NewManager(registry, conversation.Deps{
		Gateway:  gateway,
		Profiles: profiles,
		Readings: memstore.NewReadingStore(),
	}, conversation.Options{ActionDelay: 0})
	defer sessions.CloseAll()

	ctrl, err := sessions.Open(ctx, conversation.OpenInput{
		UserID:    domain.UserID(opts.userID),
		PersonaID: personaID,
	})
	if err != nil {
		return err
	}

	p := ctrl.Persona()
	fmt.Fprintf(out, "~ %s, %s ~\n%s\n\n", p.DisplayName, p.Role, helpText)

	printed := printNew(out, p.DisplayName, ctrl.Messages(), 0)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue
		case line == "/quit" || line == "/exit":
			return nil
		case line == "/help":
			fmt.Fprintln(out, helpText)
			continue
		}

		if action, ok := slashCommands[line]; ok {
			err = ctrl.TriggerAction(ctx, action)
		} else if strings.HasPrefix(line, "/") {
			fmt.Fprintf(out, "unknown command %s. %s\n", line, helpText)
			continue
		} else {
			err = ctrl.SubmitUserText(ctx, line)
		}
		if err != nil && !errors.Is(err, conversation.ErrEmptyInput) {
			fmt.Fprintf(out, "! %v\n", err)
		}

		// The user's own lines are already on screen.
		printed = printNew(out, p.DisplayName, ctrl.Messages(), printed)
	}
}

// printNew writes the messages after index from and returns the new count.
func printNew(out io.Writer, speaker string, msgs []domain.Message, from int) int {
	for _, m := range msgs[from:] {
		if m.IsUser {
			continue
		}
		fmt.Fprintf(out, "%s: %s\n", speaker, m.Body())
	}
	return len(msgs)
}
