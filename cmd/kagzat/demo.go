package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Kagzat/kagzat-india-sub000/internal/storage"
	"github.com/Kagzat/kagzat-india-sub000/pkg/renderers/tui"
	"github.com/Kagzat/kagzat-india-sub000/pkg/wizard"
)

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "demo <flow>",
		Short:     "Walk one of the demo wizards in the terminal",
		Long:      "Walks a demo flow step by step. The sample data of each visited step is kept as a draft in the configured store.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: wizard.Default().IDs(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.Context(), cmd, args[0], tui.NewSurveyDriver(cmd.OutOrStdout()))
		},
	}
}

func runDemo(ctx context.Context, cmd *cobra.Command, flowID string, driver tui.PromptDriver) error {
	flow, ok := wizard.Default().Flow(flowID)
	if !ok {
		return fmt.Errorf("unknown flow %q (available: %v)", flowID, wizard.Default().IDs())
	}

	store, closer, err := storage.Open(ctx, cfg.Storage.Driver, cfg.Storage.DSN)
	if err != nil {
		return err
	}
	defer closer.Close()

	drafts := wizard.NewDraftWriter(store, flow.ID,
		wizard.WithDebounce(cfg.Wizard.DraftDebounce),
		wizard.WithDraftLogger(logger),
	)
	defer func() {
		if err := drafts.Close(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("draft flush failed", zap.String("flow", flow.ID), zap.Error(err))
		}
	}()

	machine := wizard.NewMachine(flow)
	err = tui.RunWizard(ctx, driver, machine, tui.WithStepHook(func(ctx context.Context, m *wizard.Machine) error {
		return drafts.Save(m.Step().Sample)
	}))
	if errors.Is(err, tui.ErrAborted) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s stopped at step %d of %d\n", flow.Title, machine.Current(), machine.Total())
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s complete\n", flow.Title)
	return nil
}
