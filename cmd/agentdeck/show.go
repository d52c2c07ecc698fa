package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fentz26/agentdeck/internal/auth"
	"github.com/fentz26/agentdeck/internal/github"
	"github.com/fentz26/agentdeck/internal/probe"
)

var showCmd = &cobra.Command{
	Use:   "show <tool-id|model-id|provider-id>",
	Short: "Show details for one catalog entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, cat, _, _, err := loadEnv()
	if err != nil {
		return err
	}
	id := args[0]

	if tool, ok := cat.FindTool(id); ok {
		boldCyan.Println(tool.Name)
		if tool.Description != "" {
			faint.Println(tool.Description)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.ProbeTimeout)
		res := probe.Run(ctx, probe.Spec{ToolID: tool.ID, Bin: tool.Bin, VersionArgs: tool.VersionArgs})
		cancel()
		if res.Installed {
			fmt.Printf("  installed: %s (%s)\n", green.Sprint("v"+res.Version), res.Path)
		} else {
			fmt.Println("  installed: no")
		}

		if tool.Repo != "" {
			gh := github.New(cfg.GitHubAPIBase, filepath.Join(cfg.CacheDir, "repos.json"), cfg.GitHubMemoryTTL, cfg.FetchTimeout)
			if mgr, err := auth.NewManager(cfg.CacheDir); err == nil {
				gh.SetToken(mgr.Token())
			}
			meta, err := gh.Fetch(cmd.Context(), tool.Repo)
			if err != nil {
				faint.Printf("  metadata unavailable: %v\n", err)
				return nil
			}
			if meta.Stars != nil {
				fmt.Printf("  stars: %d\n", *meta.Stars)
			}
			if meta.License != "" {
				fmt.Printf("  license: %s\n", meta.License)
			}
			if rel, ok := meta.LatestRelease(); ok {
				fmt.Printf("  latest: %s", rel.Version)
				if !rel.Date.IsZero() {
					faint.Printf("  (%s)", rel.Date.Format("2006-01-02"))
				}
				fmt.Println()
			}
			if err := gh.SaveWarning(); err != nil {
				faint.Printf("  warning: could not save repo cache: %v\n", err)
			}
		}
		return nil
	}

	if prov, model, ok := cat.FindModel(id); ok {
		boldCyan.Printf("%s %s\n", prov.Name, model.Name)
		fmt.Printf("  id: %s\n", model.ID)
		if model.ContextSize > 0 {
			fmt.Printf("  context: %d tokens\n", model.ContextSize)
		}
		if model.InputCost > 0 || model.OutputCost > 0 {
			fmt.Printf("  cost: $%.2f in / $%.2f out per 1M tokens\n", model.InputCost, model.OutputCost)
		}
		fmt.Printf("  open weights: %v\n", model.OpenWeights)
		return nil
	}

	if prov, ok := cat.FindProvider(id); ok {
		boldCyan.Println(prov.Name)
		if prov.Docs != "" {
			fmt.Printf("  docs: %s\n", prov.Docs)
		}
		for _, m := range prov.Models {
			fmt.Printf("  %s\n", m.ID)
		}
		return nil
	}

	return fmt.Errorf("no catalog entry %q", id)
}
