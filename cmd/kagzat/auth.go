package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Kagzat/kagzat-india-sub000/internal/storage"
	"github.com/Kagzat/kagzat-india-sub000/pkg/auth"
	"github.com/Kagzat/kagzat-india-sub000/pkg/renderers/tui"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in to the identity provider and manage the stored session",
	}
	for _, action := range []struct{ use, short string }{
		{"signup", "Create an account and store its session"},
		{"signin", "Sign in with email and password"},
		{"signout", "Forget the stored session"},
		{"status", "Print the stored session"},
	} {
		use := action.use
		cmd.AddCommand(&cobra.Command{
			Use:   use,
			Short: action.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				store, closer, err := storage.Open(cmd.Context(), cfg.Storage.Driver, cfg.Storage.DSN)
				if err != nil {
					return err
				}
				defer closer.Close()
				session, err := newSession(store)
				if err != nil {
					return err
				}
				return runAuth(cmd.Context(), cmd, session, tui.NewSurveyDriver(cmd.ErrOrStderr()), use)
			},
		})
	}
	return cmd
}

func newSession(store storage.Store) (*auth.Session, error) {
	var provider auth.Provider
	if cfg.Auth.Simulate {
		secret := cfg.Auth.JWTSecret
		if secret == "" {
			secret = uuid.NewString()
		}
		verifier, err := auth.NewVerifier(secret)
		if err != nil {
			return nil, err
		}
		provider = auth.NewSimulatedProvider(verifier, cfg.Auth.SimulateLatency)
	} else {
		hp, err := auth.NewHTTPProvider(cfg.Auth.ProviderURL, cfg.Auth.APIKey)
		if err != nil {
			return nil, err
		}
		provider = hp
	}
	return auth.NewSession(provider, store, auth.WithLogger(logger))
}

func runAuth(ctx context.Context, cmd *cobra.Command, session *auth.Session, driver tui.PromptDriver, action string) error {
	out := cmd.OutOrStdout()
	switch action {
	case "status":
		raw, ok, err := session.Current(ctx)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "signed out")
			return nil
		}
		fmt.Fprintln(out, string(raw))
		return nil

	case "signout":
		sure, err := driver.Confirm(ctx, tui.ConfirmConfig{Message: "Sign out?", Default: true})
		if err != nil || !sure {
			return err
		}
		return report(out, "signed out", session.SignOut(ctx))

	case "signup", "signin":
		email, err := driver.Input(ctx, tui.InputConfig{Message: "Email", Validator: requireEmail})
		if err != nil {
			return err
		}
		password, err := driver.Password(ctx, tui.InputConfig{Message: "Password", Validator: requireText})
		if err != nil {
			return err
		}
		if action == "signup" {
			return report(out, "account created", session.SignUp(ctx, email, password))
		}
		return report(out, "signed in", session.SignIn(ctx, email, password))
	}
	return fmt.Errorf("unknown auth action %q", action)
}

func report(out io.Writer, done string, res auth.Result) error {
	if !res.Success {
		return errors.New(res.Error)
	}
	_, err := fmt.Fprintln(out, done)
	return err
}

func requireEmail(v string) error {
	if !strings.Contains(strings.TrimSpace(v), "@") {
		return errors.New("enter an email address")
	}
	return nil
}

func requireText(v string) error {
	if v == "" {
		return errors.New("required")
	}
	return nil
}
