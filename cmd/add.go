package cmd

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"tanya/internal/models"
)

var (
	addCategory string
	addQuestion string
	addAnswer   string
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Append a question/answer entry to a category",
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		entry := models.FaqEntry{Question: addQuestion, Answer: addAnswer}
		if err := appInstance.Catalog.Append(addCategory, entry); err != nil {
			if errors.Is(err, models.ErrCategoryNotFound) {
				return fmt.Errorf("unknown category %q, run 'tanya categories' to list them", addCategory)
			}
			return fmt.Errorf("failed to append entry: %w", err)
		}
		fmt.Printf("Added entry to category %q.\n", addCategory)

		if err := appInstance.JobClient.EnqueueIndexEntry(cmd.Context(), addCategory, entry); err != nil {
			log.Warnf("could not enqueue index job, run 'tanya index' to catch up: %v", err)
		} else {
			fmt.Println("Index job enqueued.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVarP(&addCategory, "category", "c", "", "Category to append to (required)")
	addCmd.Flags().StringVarP(&addQuestion, "question", "q", "", "Question text (required)")
	addCmd.Flags().StringVarP(&addAnswer, "answer", "a", "", "Answer text (required)")
	addCmd.MarkFlagRequired("category")
	addCmd.MarkFlagRequired("question")
	addCmd.MarkFlagRequired("answer")
}
