package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"uniassist/internal/workflow"
)

var askUniversity string

// askCmd answers a single question and exits.
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a single question without the chat interface",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.Join(args, " ")

		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.Close()

		current := workflow.DefaultContext
		if askUniversity != "" {
			current = workflow.ParseUniversity(askUniversity)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
		defer cancel()

		start := time.Now()
		res, err := a.controller.AnswerQuery(ctx, question, nil, current)
		if err != nil {
			return fmt.Errorf("failed to answer: %w", err)
		}

		logger.Info("answered question",
			zap.String("university", string(res.University)),
			zap.Bool("accepted", res.Accepted),
			zap.Int("cycles", res.Cycles),
			zap.Duration("elapsed", time.Since(start)))

		fmt.Printf("[%s]\n%s\n", res.University, res.Answer)
		return nil
	},
}

func init() {
	askCmd.Flags().StringVarP(&askUniversity, "university", "u", "", "starting university context (nust, comsats, fast)")
}
