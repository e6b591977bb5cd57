package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tanya/internal/models"
	"tanya/internal/resolver"
)

var (
	askCategory      string
	askUseGenerative bool
	askNoGenerative  bool
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Resolve a question against the FAQ catalog",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		question := strings.Join(args, " ")

		req := resolver.Request{Category: askCategory, Question: question}
		if cmd.Flags().Changed("generative") {
			req.UseGenerative = &askUseGenerative
		}
		if askNoGenerative {
			off := false
			req.UseGenerative = &off
		}

		res, err := appInstance.Resolver.Resolve(cmd.Context(), req)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrCategoryNotFound):
				return fmt.Errorf("unknown category %q, run 'tanya categories' to list them", askCategory)
			case errors.Is(err, models.ErrNoConfidentMatch):
				color.Yellow("No sufficiently confident answer was found.")
				return nil
			case errors.Is(err, models.ErrRetrievalFailed):
				return fmt.Errorf("answer retrieval is temporarily unavailable: %w", err)
			}
			return err
		}

		bold := color.New(color.Bold).SprintFunc()
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("%s %s\n", bold("Q:"), res.Question)
		fmt.Printf("%s %s\n", bold("A:"), green(res.Answer))
		fmt.Printf("   (mode=%s score=%.3f)\n", res.Mode, res.Score)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringVarP(&askCategory, "category", "c", "", "FAQ category to resolve against (required)")
	askCmd.Flags().BoolVar(&askUseGenerative, "generative", false, "Force the generative rewrite on")
	askCmd.Flags().BoolVar(&askNoGenerative, "no-generative", false, "Force the generative rewrite off")
	askCmd.MarkFlagRequired("category")
}
