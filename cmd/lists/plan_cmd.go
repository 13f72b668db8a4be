package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/iota-uz/agentlists/modules/lists/domain/aggregates/batch"
	"github.com/iota-uz/agentlists/modules/lists/domain/entities/record"
	"github.com/iota-uz/agentlists/modules/lists/services"
	"github.com/iota-uz/agentlists/pkg/tabular"
)

type planOptions struct {
	file   string
	agents []uuid.UUID
}

type planLine struct {
	Position  int             `json:"position"`
	AgentID   uuid.UUID       `json:"agent_id"`
	FileName  string          `json:"file_name"`
	ItemCount int             `json:"item_count"`
	Items     []record.Record `json:"items"`
}

func newPlanCmd() *cobra.Command {
	var opts planOptions

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Validate a contact file and print how it would be distributed",
		Long: "Parses and validates the file, splits it across the given agents and prints " +
			"one JSON line per batch. Nothing is written to the database.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "Path to a .csv, .xlsx or .xls file (required)")

	var agents []string
	cmd.Flags().StringSliceVar(&agents, "agents", nil, "Comma-separated agent UUIDs, in distribution order (required)")

	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("agents")

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		ids, err := parseAgentIDs(agents)
		if err != nil {
			return withCode(exitUsage, err)
		}
		opts.agents = ids
		return nil
	}

	return cmd
}

func parseAgentIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, v := range raw {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("invalid --agents value %q: %w", v, err)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, errors.New("--agents must name at least one agent")
	}
	return ids, nil
}

func runPlan(cmd *cobra.Command, opts planOptions) error {
	fileName := filepath.Base(opts.file)
	format, err := tabular.FormatFromFileName(fileName)
	if err != nil {
		return withCode(exitUsage, err)
	}

	f, err := os.Open(opts.file)
	if err != nil {
		return withCode(exitUsage, fmt.Errorf("open %s: %w", opts.file, err))
	}
	defer f.Close()

	reader, err := tabular.Open(format, f)
	if err != nil {
		return withCode(exitValidation, err)
	}
	records, err := services.Normalize(reader)
	if err != nil {
		return withCode(exitValidation, err)
	}

	batches, err := batch.Distribute(uuid.New(), records, opts.agents, fileName, time.Now().UTC())
	if err != nil {
		return withCode(exitValidation, err)
	}

	out := cmd.OutOrStdout()
	for _, b := range batches {
		line := planLine{
			Position:  b.Position(),
			AgentID:   b.AgentID(),
			FileName:  b.FileName(),
			ItemCount: b.Len(),
			Items:     b.Items(),
		}
		if err := writeJSONLine(out, line); err != nil {
			return err
		}
	}
	return nil
}
