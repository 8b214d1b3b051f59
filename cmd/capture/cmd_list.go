package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/user/capture-service/internal/adapter/goquery_scanner"
	"github.com/user/capture-service/internal/repository"
)

var listCmd = &cobra.Command{
	Use:   "list [files...]",
	Short: "Print the capturable element ids of each document without a browser",
	Long: `Parses the documents statically and prints "<document>\t<element id>" per
capturable element. Elements added by scripts at load time are not listed.`,
	RunE: listElements,
}

func listElements(cmd *cobra.Command, args []string) error {
	targets, err := newResolver().Resolve(args)
	if err != nil {
		return err
	}

	var scanner repository.ElementScanner = goquery_scanner.NewScanner()
	out := cmd.OutOrStdout()
	for _, t := range targets {
		ids, err := scanner.Scan(t.Path, cfg.Prefixes)
		if err != nil {
			log.Warn("Failed to scan document", zap.String("document", t.Path), zap.Error(err))
			continue
		}
		for _, id := range ids {
			fmt.Fprintf(out, "%s\t%s\n", t.Path, id)
		}
	}
	return nil
}
